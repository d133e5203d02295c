// Package pricing computes booking totals.  Calculate is the single
// authoritative place tax is applied; every other layer copies its
// output and nothing recomputes prices ad hoc.
package pricing

import "github.com/partyloft/booking/internal/model"

// Line is one priced per-unit extra (add-on or character appearance).
type Line struct {
	UnitPriceCents int64
	Quantity       int
}

// Quote is the fully itemized result of a price calculation.  All
// amounts are integer cents.
type Quote struct {
	ExtraKids     int   `json:"extra_kids"`
	SubtotalCents int64 `json:"subtotal_cents"`
	TaxCents      int64 `json:"tax_cents"`
	TotalCents    int64 `json:"total_cents"`
	DepositCents  int64 `json:"deposit_cents"`
	BalanceCents  int64 `json:"balance_cents"`
}

// Calculate prices a party: package base covering BaseKids guests,
// per-guest charge beyond that, flat per-unit lines, then tax and
// deposit per tenant policy.  Pure and deterministic; the finalizer
// re-runs it from live catalog rows, never trusting client totals.
//
//	extraKids = max(0, kids - pkg.BaseKids)
//	subtotal  = base + extraKids*extraKidPrice + Σ line.unit*qty
//	tax       = subtotal * taxRateBps / 10_000   (truncated)
//	total     = subtotal + tax
//	deposit   = round(total * depositPercent / 100)
//	balance   = total - deposit
func Calculate(pkg model.Package, kids int, lines []Line, taxRateBps, depositPercent int64) Quote {
	extraKids := kids - pkg.BaseKids
	if extraKids < 0 {
		extraKids = 0
	}
	subtotal := pkg.BasePriceCents + int64(extraKids)*pkg.ExtraKidPriceCents
	for _, l := range lines {
		if l.Quantity > 0 {
			subtotal += l.UnitPriceCents * int64(l.Quantity)
		}
	}
	tax := subtotal * taxRateBps / 10_000
	total := subtotal + tax
	deposit := roundDiv(total*depositPercent, 100)
	return Quote{
		ExtraKids:     extraKids,
		SubtotalCents: subtotal,
		TaxCents:      tax,
		TotalCents:    total,
		DepositCents:  deposit,
		BalanceCents:  total - deposit,
	}
}

// roundDiv divides with half-up rounding on non-negative inputs.
func roundDiv(n, d int64) int64 {
	return (n + d/2) / d
}
