package search

import (
	"math"
	"testing"
)

func TestHaversineKnownDistances(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		wantM                  float64
		tolM                   float64
	}{
		{
			name: "same point",
			lat1: 43.6532, lng1: -79.3832,
			lat2: 43.6532, lng2: -79.3832,
			wantM: 0, tolM: 0.001,
		},
		{
			name: "downtown toronto to cn tower",
			lat1: 43.6532, lng1: -79.3832,
			lat2: 43.6426, lng2: -79.3871,
			wantM: 1220, tolM: 60,
		},
		{
			name: "toronto to montreal",
			lat1: 43.6532, lng1: -79.3832,
			lat2: 45.5019, lng2: -73.5674,
			wantM: 504000, tolM: 5000,
		},
		{
			name: "across the antimeridian",
			lat1: 0, lng1: 179.9,
			lat2: 0, lng2: -179.9,
			wantM: 22240, tolM: 300,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := haversineM(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.wantM) > tt.tolM {
				t.Errorf("haversineM() = %f, want %f ± %f", got, tt.wantM, tt.tolM)
			}
		})
	}
}

func TestHaversineSymmetry(t *testing.T) {
	ab := haversineM(43.6532, -79.3832, 45.5019, -73.5674)
	ba := haversineM(45.5019, -73.5674, 43.6532, -79.3832)
	if math.Abs(ab-ba) > 1e-6 {
		t.Errorf("distance not symmetric: %f vs %f", ab, ba)
	}
}

func TestRoundCoord(t *testing.T) {
	tests := []struct {
		value     float64
		precision int
		want      float64
	}{
		{43.65321, 4, 43.6532},
		{-79.38319, 4, -79.3832},
		{43.65326, 4, 43.6533},
		{0, 4, 0},
		{43.6532, 0, 44},
	}

	for _, tt := range tests {
		got := roundCoord(tt.value, tt.precision)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("roundCoord(%g, %d) = %g, want %g", tt.value, tt.precision, got, tt.want)
		}
	}
}
