// Package Pricing holds the arithmetic for labour and parts lines and for
// rolling line totals up into quote summaries. Everything here is pure;
// callers validate inputs and persist results.
package Pricing

// LabourLineTotal returns rate x hours less the percentage discount.
func LabourLineTotal(rate, hours, discountPercent float64) float64 {
	return rate * hours * (1 - discountPercent/100)
}

// PartLineTotal returns quantity x sell price.
func PartLineTotal(quantity, sellPrice float64) float64 {
	return quantity * sellPrice
}

// MarginPercent returns the margin on sell price, 0 when there is no sell
// price to margin against.
func MarginPercent(costPrice, sellPrice float64) float64 {
	if sellPrice <= 0 {
		return 0
	}
	return (sellPrice - costPrice) / sellPrice * 100
}

// MarkupPercent returns the markup on cost price, 0 when cost is zero.
func MarkupPercent(costPrice, sellPrice float64) float64 {
	if costPrice <= 0 {
		return 0
	}
	return (sellPrice - costPrice) / costPrice * 100
}

// LabourLine is a priced labour row as far as aggregation is concerned.
type LabourLine struct {
	Total       float64
	IsVatExempt bool
}

// PartLine is a priced parts row as far as aggregation is concerned.
type PartLine struct {
	Total float64
}

// Summary is the rolled-up quote for an item or an option.
type Summary struct {
	LabourTotal float64
	PartsTotal  float64
	Subtotal    float64
	VatAmount   float64
	TotalIncVat float64
}

// Totals aggregates labour and parts lines into a Summary. An override, when
// present, replaces the computed subtotal before VAT; line-level VAT
// exemption cannot survive an override because line identity is lost, so VAT
// is charged on the full overridden amount.
func Totals(labour []LabourLine, parts []PartLine, override *float64, vatRate float64) Summary {
	var s Summary
	var vatable float64

	for _, l := range labour {
		s.LabourTotal += l.Total
		if !l.IsVatExempt {
			vatable += l.Total
		}
	}
	for _, p := range parts {
		s.PartsTotal += p.Total
		vatable += p.Total
	}

	s.Subtotal = s.LabourTotal + s.PartsTotal
	if override != nil {
		s.Subtotal = *override
		vatable = *override
	}
	s.VatAmount = vatable * vatRate / 100
	s.TotalIncVat = s.Subtotal + s.VatAmount
	return s
}
