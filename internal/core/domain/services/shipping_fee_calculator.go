package services

import (
	"dispatch/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

var (
	ShippingBaseFee  = decimal.RequireFromString("2.00")
	ShippingFeePerKm = decimal.RequireFromString("0.50")
)

// ShippingFeeCalculator quotes a delivery fee from the straight-line distance between
// the store and the delivery address: 2.00 + 0.50 per km.
type ShippingFeeCalculator struct{}

func NewShippingFeeCalculator() ShippingFeeCalculator {
	return ShippingFeeCalculator{}
}

func (ShippingFeeCalculator) Quote(pickup, delivery kernel.Location) (kernel.Money, error) {
	km, err := pickup.DistanceKm(delivery)
	if err != nil {
		return kernel.Money{}, err
	}
	fee := ShippingBaseFee.Add(ShippingFeePerKm.Mul(decimal.NewFromFloat(km)))
	return kernel.NewMoney(fee), nil
}
