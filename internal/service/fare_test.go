package service

import (
	"testing"

	"porter/internal/domain"
)

func TestEstimatedFare(t *testing.T) {
	cases := []struct {
		name       string
		baseFare   float64
		perKmRate  float64
		distanceKm float64
		want       float64
	}{
		{"short city hop", 50, 10, 4.2, 92},
		{"fractional distance rounds", 50, 10, 31.059, 360.59},
		{"zero distance", 50, 10, 0, 50},
		{"repeating fraction", 30, 7, 3.333, 53.33},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EstimatedFare(tc.baseFare, tc.perKmRate, tc.distanceKm)
			if got != tc.want {
				t.Errorf("EstimatedFare(%v, %v, %v) = %v, want %v",
					tc.baseFare, tc.perKmRate, tc.distanceKm, got, tc.want)
			}
		})
	}
}

func TestLoadingCharge(t *testing.T) {
	cases := []struct {
		labourCount int
		want        float64
	}{
		{0, 0},
		{-1, 0},
		{1, 100},
		{2, 200},
		{3, 300},
		{4, 300}, // capped at three helpers
		{10, 300},
	}

	for _, tc := range cases {
		if got := LoadingCharge(tc.labourCount); got != tc.want {
			t.Errorf("LoadingCharge(%d) = %v, want %v", tc.labourCount, got, tc.want)
		}
	}
}

func TestPickupCharge(t *testing.T) {
	cases := []struct {
		approachKm float64
		want       float64
	}{
		{0, 10},
		{3, 10},
		{4.2, 20},
		{5, 20},
		{5.01, 40},
		{50, 40},
		{50.1, 0},
	}

	for _, tc := range cases {
		if got := PickupCharge(tc.approachKm); got != tc.want {
			t.Errorf("PickupCharge(%v) = %v, want %v", tc.approachKm, got, tc.want)
		}
	}
}

func TestFinalFareBreakdown(t *testing.T) {
	// 31.059 km Bike trip in Mumbai: base 50, 10/km, two helpers,
	// 4.2 km approach, 25 off.
	final := FinalFare(50, 10, 31.059, PickupCharge(4.2), LoadingCharge(2), 25)
	if want := 555.59; final != want {
		t.Fatalf("FinalFare = %v, want %v", final, want)
	}

	commission := Commission(final, 20)
	if want := 111.12; commission != want {
		t.Fatalf("Commission = %v, want %v", commission, want)
	}

	earning := RoundFare(final - commission)
	if want := 444.47; earning != want {
		t.Fatalf("earning = %v, want %v", earning, want)
	}
}

func TestTripTypeFor(t *testing.T) {
	if got := TripTypeFor(30.0); got != domain.TripTypeInCity {
		t.Errorf("TripTypeFor(30.0) = %v, want IN_CITY", got)
	}
	if got := TripTypeFor(31.059); got != domain.TripTypeOutstation {
		t.Errorf("TripTypeFor(31.059) = %v, want OUTSTATION", got)
	}
	if got := TripTypeFor(0.5); got != domain.TripTypeInCity {
		t.Errorf("TripTypeFor(0.5) = %v, want IN_CITY", got)
	}
}

func TestPayableAmount(t *testing.T) {
	if got := PayableAmount(360.59, 200, 50); got != 510.59 {
		t.Errorf("PayableAmount = %v, want 510.59", got)
	}
}
