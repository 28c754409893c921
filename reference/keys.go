package reference

// Key names a row of the reference table
type Key string

// Standard response curves. Other rows of the table, such as "CIE A", are
// addressable as Key(name).
const (
	Melanopic Key = "Melanopic"
	Photopic  Key = "Photopic"
	Scotopic  Key = "Scotopic"
	LCone     Key = "L Cone"
	MCone     Key = "M Cone"
	SCone     Key = "S Cone"
)

// StandardKeys lists the human response curves every metric relies on
func StandardKeys() []Key {
	return []Key{Melanopic, Photopic, Scotopic, LCone, MCone, SCone}
}

func (k Key) String() string {
	return string(k)
}
