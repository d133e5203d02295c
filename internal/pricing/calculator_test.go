package pricing

import (
	"testing"

	"github.com/partyloft/booking/internal/model"
)

func TestCalculateExtraKids(t *testing.T) {
	pkg := model.Package{
		BasePriceCents:     19900,
		BaseKids:           10,
		ExtraKidPriceCents: 800,
	}
	q := Calculate(pkg, 14, nil, 0, 50)
	if q.ExtraKids != 4 {
		t.Fatalf("expected 4 extra kids, got %d", q.ExtraKids)
	}
	if q.SubtotalCents != 19900+4*800 {
		t.Fatalf("expected subtotal %d, got %d", 19900+4*800, q.SubtotalCents)
	}
}

func TestCalculateNoNegativeExtraKids(t *testing.T) {
	pkg := model.Package{BasePriceCents: 10000, BaseKids: 10, ExtraKidPriceCents: 800}
	q := Calculate(pkg, 6, nil, 0, 50)
	if q.ExtraKids != 0 {
		t.Fatalf("expected 0 extra kids, got %d", q.ExtraKids)
	}
	if q.SubtotalCents != 10000 {
		t.Fatalf("expected subtotal 10000, got %d", q.SubtotalCents)
	}
}

func TestCalculateDepositDefault(t *testing.T) {
	pkg := model.Package{BasePriceCents: 30000, BaseKids: 10}
	q := Calculate(pkg, 10, nil, 0, 50)
	if q.TotalCents != 30000 {
		t.Fatalf("expected total 30000, got %d", q.TotalCents)
	}
	if q.DepositCents != 15000 {
		t.Fatalf("expected deposit 15000, got %d", q.DepositCents)
	}
	if q.BalanceCents != 15000 {
		t.Fatalf("expected balance 15000, got %d", q.BalanceCents)
	}
}

func TestCalculateLinesAndTax(t *testing.T) {
	pkg := model.Package{BasePriceCents: 20000, BaseKids: 8, ExtraKidPriceCents: 500}
	lines := []Line{
		{UnitPriceCents: 1500, Quantity: 2}, // add-ons
		{UnitPriceCents: 5000, Quantity: 1}, // character
		{UnitPriceCents: 999, Quantity: 0},  // zero quantity must not count
	}
	q := Calculate(pkg, 10, lines, 850, 50)
	wantSubtotal := int64(20000 + 2*500 + 2*1500 + 5000)
	if q.SubtotalCents != wantSubtotal {
		t.Fatalf("expected subtotal %d, got %d", wantSubtotal, q.SubtotalCents)
	}
	wantTax := wantSubtotal * 850 / 10000
	if q.TaxCents != wantTax {
		t.Fatalf("expected tax %d, got %d", wantTax, q.TaxCents)
	}
	if q.TotalCents != wantSubtotal+wantTax {
		t.Fatalf("expected total %d, got %d", wantSubtotal+wantTax, q.TotalCents)
	}
	if q.DepositCents+q.BalanceCents != q.TotalCents {
		t.Fatalf("deposit %d + balance %d must equal total %d", q.DepositCents, q.BalanceCents, q.TotalCents)
	}
}

func TestCalculateDeterministic(t *testing.T) {
	pkg := model.Package{BasePriceCents: 19900, BaseKids: 10, ExtraKidPriceCents: 800}
	lines := []Line{{UnitPriceCents: 1200, Quantity: 3}}
	first := Calculate(pkg, 14, lines, 700, 50)
	second := Calculate(pkg, 14, lines, 700, 50)
	if first != second {
		t.Fatalf("identical inputs produced different quotes: %+v vs %+v", first, second)
	}
}

func TestCalculateDepositRounding(t *testing.T) {
	// 33% of 101 cents is 33.33; half-up rounding keeps deposit+balance
	// equal to total without losing a cent.
	pkg := model.Package{BasePriceCents: 101, BaseKids: 1}
	q := Calculate(pkg, 1, nil, 0, 33)
	if q.DepositCents != 33 {
		t.Fatalf("expected deposit 33, got %d", q.DepositCents)
	}
	if q.DepositCents+q.BalanceCents != q.TotalCents {
		t.Fatalf("deposit %d + balance %d must equal total %d", q.DepositCents, q.BalanceCents, q.TotalCents)
	}
}
