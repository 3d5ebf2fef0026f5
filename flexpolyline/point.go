package flexpolyline

// ThirdDimension identifies the semantic of the optional third coordinate
// axis declared in the polyline header.
type ThirdDimension int

const (
	Absent ThirdDimension = iota
	Level
	Altitude
	Elevation
	Reserved1
	Reserved2
	Custom1
	Custom2
)

var thirdDimensionNames = [...]string{
	"absent",
	"level",
	"altitude",
	"elevation",
	"reserved1",
	"reserved2",
	"custom1",
	"custom2",
}

func (t ThirdDimension) String() string {
	if t < Absent || t > Custom2 {
		return "unknown"
	}
	return thirdDimensionNames[t]
}

// Point is one decoded coordinate triple. ThirdDim is exactly 0 when the
// polyline carries no third dimension.
type Point struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	ThirdDim float64 `json:"third_dim"`
}
