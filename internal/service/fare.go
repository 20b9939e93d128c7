package service

import (
	"math"

	"porter/internal/domain"
)

// Fare arithmetic. All amounts are rupees rounded to two decimals so the
// same inputs always produce the same payable and settled figures.

const (
	labourRatePerHelper = 100.0
	maxChargedHelpers   = 3
)

// RoundFare rounds an amount to two decimal places.
func RoundFare(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// EstimatedFare is the quoted fare for a route: base fare plus the
// per-kilometer rate over the route distance.
func EstimatedFare(baseFare, perKmRate, distanceKm float64) float64 {
	return RoundFare(baseFare + perKmRate*distanceKm)
}

// LoadingCharge prices loading assistance. At most three helpers are
// charged regardless of how many are requested.
func LoadingCharge(labourCount int) float64 {
	if labourCount <= 0 {
		return 0
	}
	if labourCount > maxChargedHelpers {
		labourCount = maxChargedHelpers
	}
	return float64(labourCount) * labourRatePerHelper
}

// PickupCharge compensates the carrier for the approach to the pickup
// point, tiered by approach distance.
func PickupCharge(approachKm float64) float64 {
	switch {
	case approachKm <= 3:
		return 10
	case approachKm <= 5:
		return 20
	case approachKm <= 50:
		return 40
	default:
		return 0
	}
}

// PayableAmount is what the requester pays up front.
func PayableAmount(baseFare, loadingCharge, discount float64) float64 {
	return RoundFare(baseFare + loadingCharge - discount)
}

// FinalFare is the settled fare after trip completion, computed from the
// actually travelled distance.
func FinalFare(baseFare, perKmRate, distanceKm, pickupCharge, loadingCharge, discount float64) float64 {
	return RoundFare(baseFare + perKmRate*distanceKm + pickupCharge + loadingCharge - discount)
}

// Commission is the platform's cut of a settled fare.
func Commission(finalFare, commissionPercent float64) float64 {
	return RoundFare(finalFare * commissionPercent / 100)
}

// TripTypeFor classifies a route by distance.
func TripTypeFor(distanceKm float64) domain.TripType {
	if distanceKm > domain.OutstationThresholdKm {
		return domain.TripTypeOutstation
	}
	return domain.TripTypeInCity
}
