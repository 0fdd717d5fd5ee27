package Models

import (
	"Garage/Pricing"

	"gorm.io/gorm"
)

func summarise(tx *gorm.DB, itemID, optionID *uint, override *float64) (Pricing.Summary, error) {
	var labour []RepairLabour
	var parts []RepairParts

	q := tx.Model(&RepairLabour{})
	if optionID != nil {
		q = q.Where("repair_option_id = ?", *optionID)
	} else {
		q = q.Where("repair_item_id = ?", *itemID)
	}
	if err := q.Find(&labour).Error; err != nil {
		return Pricing.Summary{}, err
	}

	q = tx.Model(&RepairParts{})
	if optionID != nil {
		q = q.Where("repair_option_id = ?", *optionID)
	} else {
		q = q.Where("repair_item_id = ?", *itemID)
	}
	if err := q.Find(&parts).Error; err != nil {
		return Pricing.Summary{}, err
	}

	labourLines := make([]Pricing.LabourLine, len(labour))
	for i, l := range labour {
		labourLines[i] = Pricing.LabourLine{Total: l.Total, IsVatExempt: l.IsVatExempt}
	}
	partLines := make([]Pricing.PartLine, len(parts))
	for i, p := range parts {
		partLines[i] = Pricing.PartLine{Total: p.LineTotal}
	}

	return Pricing.Totals(labourLines, partLines, override, DefaultVatRate), nil
}

// RecalculateOptionTotals re-sums an option's labour and parts rows and
// persists the result.
func RecalculateOptionTotals(tx *gorm.DB, optionID uint) error {
	var option RepairOption
	if err := tx.First(&option, optionID).Error; err != nil {
		return err
	}

	summary, err := summarise(tx, nil, &option.ID, nil)
	if err != nil {
		return err
	}

	return tx.Model(&option).Updates(map[string]interface{}{
		"labour_total":  summary.LabourTotal,
		"parts_total":   summary.PartsTotal,
		"subtotal":      summary.Subtotal,
		"vat_amount":    summary.VatAmount,
		"total_inc_vat": summary.TotalIncVat,
	}).Error
}

// RecalculateItemTotals re-derives an item's totals. When an option is
// selected the item quotes that option's totals, otherwise its own direct
// rows; a price override replaces the subtotal either way.
func RecalculateItemTotals(tx *gorm.DB, itemID uint) error {
	var item RepairItem
	if err := tx.First(&item, itemID).Error; err != nil {
		return err
	}

	var summary Pricing.Summary
	if item.SelectedOptionID != nil {
		var option RepairOption
		if err := tx.Where("repair_item_id = ?", item.ID).First(&option, *item.SelectedOptionID).Error; err != nil {
			return err
		}
		if item.PriceOverride != nil {
			overridden := Pricing.Totals(nil, nil, item.PriceOverride, DefaultVatRate)
			summary = Pricing.Summary{
				LabourTotal: option.LabourTotal,
				PartsTotal:  option.PartsTotal,
				Subtotal:    overridden.Subtotal,
				VatAmount:   overridden.VatAmount,
				TotalIncVat: overridden.TotalIncVat,
			}
		} else {
			summary = Pricing.Summary{
				LabourTotal: option.LabourTotal,
				PartsTotal:  option.PartsTotal,
				Subtotal:    option.Subtotal,
				VatAmount:   option.VatAmount,
				TotalIncVat: option.TotalIncVat,
			}
		}
	} else {
		var err error
		summary, err = summarise(tx, &item.ID, nil, item.PriceOverride)
		if err != nil {
			return err
		}
	}

	return tx.Model(&item).Updates(map[string]interface{}{
		"labour_total":  summary.LabourTotal,
		"parts_total":   summary.PartsTotal,
		"subtotal":      summary.Subtotal,
		"vat_amount":    summary.VatAmount,
		"total_inc_vat": summary.TotalIncVat,
	}).Error
}
