package pricing

import (
	"context"
	"errors"
	"testing"

	"gocab/internal/maps"
	"gocab/internal/types"
)

func TestPriceFor(t *testing.T) {
	tests := []struct {
		name       string
		distanceKm float64
		class      Class
		wantCents  int64
	}{
		{"car 5km", 5.0, ClassCar, 500},
		{"luxury 5km", 5.0, ClassLuxury, 1250},
		{"bike 5km", 5.0, ClassBike, 250},
		{"zero distance", 0, ClassCar, 0},
		{"rounds half up", 2.125, ClassCar, 213}, // 2.125 -> 2.13
		{"bike sub-cent rounds", 0.005, ClassBike, 0},
		{"luxury fractional", 3.333, ClassLuxury, 833}, // 8.3325 -> 8.33
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PriceFor(tt.distanceKm, tt.class)
			if err != nil {
				t.Fatalf("PriceFor() error = %v", err)
			}
			if got.Amount != tt.wantCents {
				t.Errorf("PriceFor(%v, %s) = %d cents, want %d", tt.distanceKm, tt.class, got.Amount, tt.wantCents)
			}
		})
	}
}

func TestPriceFor_UnknownClassFails(t *testing.T) {
	for _, class := range []Class{"SCOOTER", "", "car"} {
		if _, err := PriceFor(5.0, class); !errors.Is(err, ErrUnsupportedClass) {
			t.Errorf("PriceFor(5.0, %q) error = %v, want ErrUnsupportedClass", class, err)
		}
	}
}

func TestPriceFor_Deterministic(t *testing.T) {
	first, err := PriceFor(12.345, ClassLuxury)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		got, err := PriceFor(12.345, ClassLuxury)
		if err != nil || got != first {
			t.Fatalf("PriceFor not deterministic: %v vs %v (err=%v)", got, first, err)
		}
	}
}

func TestParseClass(t *testing.T) {
	if c, err := ParseClass("LUXURY"); err != nil || c != ClassLuxury {
		t.Errorf("ParseClass(LUXURY) = %v, %v", c, err)
	}
	if _, err := ParseClass("SCOOTER"); !errors.Is(err, ErrUnsupportedClass) {
		t.Errorf("ParseClass(SCOOTER) = %v, want ErrUnsupportedClass", err)
	}
}

type stubRoutes struct {
	metrics maps.RouteMetrics
}

func (s *stubRoutes) Resolve(_ context.Context, _, _ types.Point, _ maps.Profile) maps.RouteMetrics {
	return s.metrics
}

func TestService_Estimate(t *testing.T) {
	svc := NewService(&stubRoutes{metrics: maps.RouteMetrics{
		DistanceMeters:  5000,
		DurationSeconds: 900,
	}})

	quote, err := svc.Estimate(context.Background(), types.Point{Lat: 10.77, Lng: 106.70}, types.Point{Lat: 10.80, Lng: 106.72}, ClassCar)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if quote.DistanceKm != 5.0 {
		t.Errorf("DistanceKm = %v, want 5.0", quote.DistanceKm)
	}
	if quote.DurationMin != 15.0 {
		t.Errorf("DurationMin = %v, want 15.0", quote.DurationMin)
	}
	if quote.Fare.Amount != 500 {
		t.Errorf("Fare = %d cents, want 500", quote.Fare.Amount)
	}
}

func TestService_Estimate_UnsupportedClass(t *testing.T) {
	svc := NewService(&stubRoutes{})
	if _, err := svc.Estimate(context.Background(), types.Point{}, types.Point{}, "SCOOTER"); !errors.Is(err, ErrUnsupportedClass) {
		t.Errorf("Estimate with unknown class = %v, want ErrUnsupportedClass", err)
	}
}
