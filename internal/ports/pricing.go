package ports

import "delivery-dispatch-service/internal/domain"

// Price and the rule that produced it, stored on the order at creation.
type PriceQuote struct {
	Price float64
	Rule  domain.PricingRuleSummary
}

// Contract for looking up the delivery price of a destination. The dispatch
// engine consumes prices; it does not own pricing policy.
type PricingLookup interface {
	PriceFor(address string, lat, lng float64) PriceQuote
}
