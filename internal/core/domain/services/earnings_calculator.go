package services

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// CourierShare is the courier's part of the shipping fee.
	CourierShare = decimal.RequireFromString("0.8")
	// PlatformItemShare is the platform's commission on item revenue.
	PlatformItemShare = decimal.RequireFromString("0.3")
	// PlatformShippingShare is the platform's part of the shipping fee.
	PlatformShippingShare = decimal.RequireFromString("0.2")
)

// PlatformRevenue splits what the platform keeps from one order.
type PlatformRevenue struct {
	Items    kernel.Money
	Shipping kernel.Money
}

func (r PlatformRevenue) Total() kernel.Money {
	return r.Items.Add(r.Shipping)
}

// EarningsCalculator computes the money owed for a completed delivery.
//
//	courier earning  = shipping_fee × 0.8
//	platform revenue = (total − shipping_fee) × 0.3 + shipping_fee × 0.2
//
// Every result is rounded half-up to two decimal places.
type EarningsCalculator struct{}

func NewEarningsCalculator() EarningsCalculator {
	return EarningsCalculator{}
}

// CourierEarning returns the amount credited to the courier for o.
func (EarningsCalculator) CourierEarning(o *order.Order) (kernel.Money, error) {
	if err := o.Validate(); err != nil {
		return kernel.Money{}, err
	}
	if o.Status() != order.Completed {
		return kernel.Money{}, errs.NewInvalidStateError("record earning", o.Status().String())
	}
	return CourierEarningFor(o.ShippingFee())
}

// CourierEarningFor applies the courier share to a bare fee.
func CourierEarningFor(fee kernel.Money) (kernel.Money, error) {
	if fee.IsNegative() {
		return kernel.Money{}, errs.NewValueIsInvalidErrorWithCause("shipping_fee", fmt.Errorf("%s is negative", fee))
	}
	return fee.MulRate(CourierShare), nil
}

// PlatformRevenueFor splits total and fee into the platform's item and shipping revenue.
func (EarningsCalculator) PlatformRevenueFor(total, fee kernel.Money) (PlatformRevenue, error) {
	if total.IsNegative() || fee.IsNegative() {
		return PlatformRevenue{}, errs.NewValueIsInvalidError("amount")
	}
	itemRevenue := total.Sub(fee)
	if itemRevenue.IsNegative() {
		return PlatformRevenue{}, errs.NewValueIsInvalidErrorWithCause(
			"shipping_fee", errors.New("shipping fee exceeds order total"))
	}
	return PlatformRevenue{
		Items:    itemRevenue.MulRate(PlatformItemShare),
		Shipping: fee.MulRate(PlatformShippingShare),
	}, nil
}
