package location

import (
	"math"
	"testing"

	"gocab/internal/types"
)

func TestHaversineMeters_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lng1      float64
		lat2      float64
		lng2      float64
		want      float64
		tolerance float64
	}{
		{
			name: "same point",
			lat1: 10.77, lng1: 106.70,
			lat2: 10.77, lng2: 106.70,
			want:      0,
			tolerance: 0.5,
		},
		{
			name: "one block in Ho Chi Minh City",
			lat1: 10.77, lng1: 106.70,
			lat2: 10.771, lng2: 106.701,
			want:      156,
			tolerance: 20,
		},
		{
			name: "New York to Los Angeles (~3944km)",
			lat1: 40.7128, lng1: -74.0060,
			lat2: 34.0522, lng2: -118.2437,
			want:      3944000,
			tolerance: 50000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := haversineMeters(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("haversineMeters() = %f, want %f (±%f)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestHaversineMeters_Symmetry(t *testing.T) {
	d1 := haversineMeters(10.80, 106.70, 10.82, 106.75)
	d2 := haversineMeters(10.82, 106.75, 10.80, 106.70)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}

func TestSortNearby_Order(t *testing.T) {
	results := []Nearby{
		{DriverID: types.ID("c"), DistanceMeters: 500},
		{DriverID: types.ID("a"), DistanceMeters: 100},
		{DriverID: types.ID("b"), DistanceMeters: 300},
	}

	sortNearby(results)

	if results[0].DriverID != "a" || results[1].DriverID != "b" || results[2].DriverID != "c" {
		t.Errorf("unexpected sort order: %v", results)
	}
}

func TestSortNearby_TiesBrokenByDriverID(t *testing.T) {
	results := []Nearby{
		{DriverID: types.ID("z"), DistanceMeters: 100},
		{DriverID: types.ID("m"), DistanceMeters: 100},
		{DriverID: types.ID("a"), DistanceMeters: 100},
	}

	sortNearby(results)

	if results[0].DriverID != "a" || results[1].DriverID != "m" || results[2].DriverID != "z" {
		t.Errorf("ties not broken by driver ID: %v", results)
	}
}

func TestSortNearby_EmptyAndSingle(t *testing.T) {
	sortNearby(nil)

	single := []Nearby{{DriverID: types.ID("a"), DistanceMeters: 42}}
	sortNearby(single)
	if single[0].DriverID != "a" {
		t.Errorf("single element sort failed")
	}
}
