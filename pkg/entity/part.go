// pkg/entity/part.go
package entity

// Part identifies one model of the plane. The order is the draw order.
type Part int

const (
	Propeller Part = iota
	WheelCarcassBack
	TyreBack
	WheelCarcassLeft
	TyreLeft
	WheelCarcassRight
	TyreRight
	Hull
	StrobeRudder
	LightLeftWing
	StrobeRightWing
	StrobeLeftWing
	LightRightWing
	LightRudder
	FlagConnector

	// PartCount is the number of models a plane is built from.
	PartCount
)

var partNames = [PartCount]string{
	"Propeller",
	"WheelCarcassBack",
	"TyreBack",
	"WheelCarcassLeft",
	"TyreLeft",
	"WheelCarcassRight",
	"TyreRight",
	"Hull",
	"StrobeRudder",
	"LightLeftWing",
	"StrobeRightWing",
	"StrobeLeftWing",
	"LightRightWing",
	"LightRudder",
	"FlagConnector",
}

// String returns the OBJ object name of the part.
func (p Part) String() string {
	if p < 0 || p >= PartCount {
		return "Unknown"
	}
	return partNames[p]
}

// IsLight reports whether the part is a navigation light or strobe.
func (p Part) IsLight() bool {
	switch p {
	case StrobeRudder, LightLeftWing, StrobeRightWing, StrobeLeftWing, LightRightWing, LightRudder:
		return true
	}
	return false
}

// ParsePart maps an OBJ object name to its part.
func ParsePart(name string) (Part, bool) {
	for i, n := range partNames {
		if n == name {
			return Part(i), true
		}
	}
	return 0, false
}
