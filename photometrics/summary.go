package photometrics

import (
	"sort"

	"github.com/RyanBlaney/spectra/algorithms/common"
)

// Stat is the mean and sample standard deviation of one metric across records
type Stat struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
}

// Summary describes a batch of records
type Summary struct {
	Count                  int      `json:"count" yaml:"count"`
	Names                  []string `json:"names" yaml:"names"`
	MelanopicRatio         Stat     `json:"melanopic_ratio" yaml:"melanopic_ratio"`
	MelanopicPhotopicRatio Stat     `json:"melanopic_photopic_ratio" yaml:"melanopic_photopic_ratio"`
	ScotopicPhotopicRatio  Stat     `json:"scotopic_photopic_ratio" yaml:"scotopic_photopic_ratio"`
	SpectralGIndex         Stat     `json:"spectral_g_index" yaml:"spectral_g_index"`
}

// Summarize aggregates records. The statistics are taken over the reported
// (rounded) values and are themselves rounded to the ratio precision.
func Summarize(records []*Record) Summary {
	summary := Summary{Count: len(records)}
	if len(records) == 0 {
		return summary
	}

	var mr, mp, sp, gi []float64
	for _, rec := range records {
		summary.Names = append(summary.Names, rec.Name)
		mr = append(mr, rec.MelanopicRatio)
		mp = append(mp, rec.MelanopicPhotopicRatio)
		sp = append(sp, rec.ScotopicPhotopicRatio)
		gi = append(gi, rec.SpectralGIndex)
	}
	sort.Strings(summary.Names)

	summary.MelanopicRatio = stat(mr)
	summary.MelanopicPhotopicRatio = stat(mp)
	summary.ScotopicPhotopicRatio = stat(sp)
	summary.SpectralGIndex = stat(gi)
	return summary
}

func stat(values []float64) Stat {
	mean, std := common.MeanStdDev(values)
	return Stat{
		Mean:   common.Round(mean, ratioDigits),
		StdDev: common.Round(std, ratioDigits),
	}
}
