package Pricing

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLabourLineTotal(t *testing.T) {
	if got := LabourLineTotal(80, 2, 0); !almostEqual(got, 160) {
		t.Fatalf("expected 160, got %v", got)
	}
	if got := LabourLineTotal(80, 2, 25); !almostEqual(got, 120) {
		t.Fatalf("expected 120 with 25%% discount, got %v", got)
	}
	if got := LabourLineTotal(80, 2, 100); !almostEqual(got, 0) {
		t.Fatalf("expected 0 with full discount, got %v", got)
	}
}

func TestPartLineTotal(t *testing.T) {
	if got := PartLineTotal(3, 15.5); !almostEqual(got, 46.5) {
		t.Fatalf("expected 46.5, got %v", got)
	}
}

func TestMarginPercent(t *testing.T) {
	if got := MarginPercent(100, 160); !almostEqual(got, 37.5) {
		t.Fatalf("expected margin 37.5, got %v", got)
	}
	if got := MarginPercent(100, 0); !almostEqual(got, 0) {
		t.Fatalf("expected 0 margin with no sell price, got %v", got)
	}
	if got := MarginPercent(0, 50); !almostEqual(got, 100) {
		t.Fatalf("expected 100 margin on free stock, got %v", got)
	}
}

func TestMarkupPercent(t *testing.T) {
	if got := MarkupPercent(100, 160); !almostEqual(got, 60) {
		t.Fatalf("expected markup 60, got %v", got)
	}
	if got := MarkupPercent(0, 160); !almostEqual(got, 0) {
		t.Fatalf("expected 0 markup with zero cost, got %v", got)
	}
}

func TestTotals(t *testing.T) {
	labour := []LabourLine{
		{Total: 100},
		{Total: 50, IsVatExempt: true},
	}
	parts := []PartLine{{Total: 30}}

	s := Totals(labour, parts, nil, 20)
	if !almostEqual(s.LabourTotal, 150) {
		t.Fatalf("labour total: expected 150, got %v", s.LabourTotal)
	}
	if !almostEqual(s.PartsTotal, 30) {
		t.Fatalf("parts total: expected 30, got %v", s.PartsTotal)
	}
	if !almostEqual(s.Subtotal, 180) {
		t.Fatalf("subtotal: expected 180, got %v", s.Subtotal)
	}
	// VAT is charged on the non-exempt labour plus all parts
	if !almostEqual(s.VatAmount, 26) {
		t.Fatalf("vat: expected 26, got %v", s.VatAmount)
	}
	if !almostEqual(s.TotalIncVat, 206) {
		t.Fatalf("total inc vat: expected 206, got %v", s.TotalIncVat)
	}
}

func TestTotalsWithOverride(t *testing.T) {
	labour := []LabourLine{{Total: 100, IsVatExempt: true}}
	parts := []PartLine{{Total: 60}}
	override := 120.0

	s := Totals(labour, parts, &override, 20)
	if !almostEqual(s.Subtotal, 120) {
		t.Fatalf("subtotal: expected override 120, got %v", s.Subtotal)
	}
	// Exemptions do not survive an override
	if !almostEqual(s.VatAmount, 24) {
		t.Fatalf("vat: expected 24 on the full override, got %v", s.VatAmount)
	}
	if !almostEqual(s.TotalIncVat, 144) {
		t.Fatalf("total inc vat: expected 144, got %v", s.TotalIncVat)
	}
	// Component totals still reflect the underlying lines
	if !almostEqual(s.LabourTotal, 100) || !almostEqual(s.PartsTotal, 60) {
		t.Fatalf("component totals: expected 100/60, got %v/%v", s.LabourTotal, s.PartsTotal)
	}
}

func TestTotalsEmpty(t *testing.T) {
	s := Totals(nil, nil, nil, 20)
	if !almostEqual(s.Subtotal, 0) || !almostEqual(s.VatAmount, 0) || !almostEqual(s.TotalIncVat, 0) {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}
