package services

import (
	"bytes"
	"math"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

func floatClose(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

func boolPtr(v bool) *bool {
	return &v
}

// testArea returns a minimal valid area with no sub-scopes.
func testArea(id, kind string, sqft float64) AreaInput {
	return AreaInput{
		ID:            id,
		Kind:          kind,
		SquareFootage: Float(sqft),
		Scope:         ScopeFull,
		LOD:           LOD300,
	}
}

// testProject returns a driving project dispatched 100 miles away.
func testProject(areas ...AreaInput) ProjectInput {
	return ProjectInput{
		DispatchLocation: "Troy, NY",
		DistanceMiles:    Float(100),
		TravelMode:       TravelDriving,
		Areas:            areas,
	}
}

func categoriesOf(shells []LineItemShell) []Category {
	out := make([]Category, len(shells))
	for i, s := range shells {
		out[i] = s.Category
	}
	return out
}
