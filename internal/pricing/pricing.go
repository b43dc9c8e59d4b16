// Package pricing computes tiered unit prices and totals. Everything here is
// pure: prices are always derived from the quantity being evaluated right
// now, never from quantity at the time a line was added. Caching a tier
// decision per line is the pricing bug this package exists to prevent.
package pricing

import "github.com/Frannkode/QuickOrder/internal/domain"

// UnitPrice returns the wholesale price when qty meets the product's
// threshold (inclusive), retail otherwise. qty 0 is valid and returns retail.
func UnitPrice(p domain.Product, qty int) int64 {
	if qty >= p.WholesaleThreshold {
		return p.PriceWholesale
	}
	return p.PriceRetail
}

// Wholesale reports whether qty unlocks the wholesale tier for p.
func Wholesale(p domain.Product, qty int) bool {
	return qty >= p.WholesaleThreshold
}

func LineTotal(p domain.Product, qty int) int64 {
	if qty < 0 {
		qty = 0
	}
	return UnitPrice(p, qty) * int64(qty)
}

// CartTotal sums line totals over lines. The sum of no lines is 0.
func CartTotal(lines []domain.CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += LineTotal(l.Product, l.Quantity)
	}
	return total
}

// CheckPrices reports whether p's tier prices are inverted
// (wholesale above retail). Tolerated, but worth a log line upstream.
func CheckPrices(p domain.Product) bool {
	return p.PriceWholesale > p.PriceRetail
}
