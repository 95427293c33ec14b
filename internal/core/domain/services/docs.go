// Package services holds rules that do not belong to a single aggregate:
// EarningsCalculator (courier earning and platform revenue shares),
// ShippingFeeCalculator (distance based delivery fee quotes) and
// OfferRanker (nearest-first ordering of available orders for a courier).
package services
