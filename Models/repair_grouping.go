package Models

import (
	"fmt"

	"gorm.io/gorm"
)

// StandardOptionName is the option synthesized on a group when re-parented
// items bring loose pricing with them.
const StandardOptionName = "Standard"

// CreateRepairGroup builds a composite repair item from a set of findings.
// Findings already owned by a repair item keep that item, which is
// re-parented under the group; loose pricing on re-parented items is moved
// onto a synthesized "Standard" option so a group's pricing is always
// option-scoped. Unowned findings get a brand-new child item each. The whole
// assembly is one transaction step; callers run it inside tx.
func CreateRepairGroup(tx *gorm.DB, orgID, healthCheckID uint, name, description string, checkResultIDs []uint) (*RepairItem, error) {
	if len(checkResultIDs) == 0 {
		return nil, &ValidationError{Message: "at least one check result is required to create a group"}
	}

	var results []CheckResult
	if err := tx.Where("organization_id = ? AND health_check_id = ? AND id IN ?", orgID, healthCheckID, checkResultIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) != len(uniqueIDs(checkResultIDs)) {
		return nil, ErrNotFound
	}
	resultsByID := make(map[uint]CheckResult, len(results))
	for _, r := range results {
		resultsByID[r.ID] = r
	}

	group := RepairItem{
		HealthCheckID:  healthCheckID,
		OrganizationID: orgID,
		Title:          name,
		Description:    description,
		IsGroup:        true,
		LabourStatus:   WorkStatusPending,
		PartsStatus:    WorkStatusPending,
		QuoteStatus:    QuoteStatusPending,
	}
	if err := tx.Create(&group).Error; err != nil {
		return nil, err
	}

	// Partition the findings into already-linked and unlinked
	var links []RepairItemCheckResult
	if err := tx.Where("check_result_id IN ?", uniqueIDs(checkResultIDs)).Find(&links).Error; err != nil {
		return nil, err
	}
	ownerByResult := make(map[uint]uint, len(links))
	for _, l := range links {
		ownerByResult[l.CheckResultID] = l.RepairItemID
	}

	reparented := make(map[uint]bool)
	for _, id := range uniqueIDs(checkResultIDs) {
		ownerID, linked := ownerByResult[id]
		if !linked {
			// Fresh finding: create a child item carrying the link
			result := resultsByID[id]
			child := RepairItem{
				HealthCheckID:      healthCheckID,
				OrganizationID:     orgID,
				Title:              result.Name,
				Description:        result.Notes,
				ParentRepairItemID: &group.ID,
				LabourStatus:       WorkStatusPending,
				PartsStatus:        WorkStatusPending,
				QuoteStatus:        QuoteStatusPending,
			}
			if err := tx.Create(&child).Error; err != nil {
				return nil, err
			}
			link := RepairItemCheckResult{RepairItemID: child.ID, CheckResultID: id}
			if err := tx.Create(&link).Error; err != nil {
				return nil, err
			}
			continue
		}

		if reparented[ownerID] {
			continue
		}
		var owner RepairItem
		if err := tx.Where("organization_id = ?", orgID).First(&owner, ownerID).Error; err != nil {
			return nil, err
		}
		if owner.IsGroup {
			return nil, &ConflictError{Message: fmt.Sprintf("check result %d already belongs to group %d", id, owner.ID)}
		}
		if owner.ParentRepairItemID != nil {
			return nil, &ConflictError{Message: fmt.Sprintf("check result %d belongs to item %d, which is already grouped under %d", id, owner.ID, *owner.ParentRepairItemID)}
		}

		// Keep the priced item, move it under the new group
		if err := tx.Model(&owner).Update("parent_repair_item_id", group.ID).Error; err != nil {
			return nil, err
		}
		if err := migrateLoosePricing(tx, &group, &owner); err != nil {
			return nil, err
		}
		reparented[ownerID] = true
	}

	if err := RecalculateItemTotals(tx, group.ID); err != nil {
		return nil, err
	}
	if err := RefreshWorkflowStatus(tx, group.ID); err != nil {
		return nil, err
	}

	if err := tx.First(&group, group.ID).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// migrateLoosePricing moves labour and parts held directly on a re-parented
// item onto the group's Standard option, annotating each moved row with its
// origin. The original rows are deleted so the item holds no loose pricing
// inside the group.
func migrateLoosePricing(tx *gorm.DB, group, item *RepairItem) error {
	var labour []RepairLabour
	if err := tx.Where("repair_item_id = ?", item.ID).Find(&labour).Error; err != nil {
		return err
	}
	var parts []RepairParts
	if err := tx.Where("repair_item_id = ?", item.ID).Find(&parts).Error; err != nil {
		return err
	}
	if len(labour) == 0 && len(parts) == 0 {
		return nil
	}

	option, err := ensureStandardOption(tx, group.ID)
	if err != nil {
		return err
	}

	provenance := fmt.Sprintf("[From: %d]", item.ID)
	for _, l := range labour {
		moved := RepairLabour{
			RepairOptionID:  &option.ID,
			LabourCodeID:    l.LabourCodeID,
			Hours:           l.Hours,
			Rate:            l.Rate,
			DiscountPercent: l.DiscountPercent,
			Total:           l.Total,
			IsVatExempt:     l.IsVatExempt,
			Notes:           appendProvenance(l.Notes, provenance),
		}
		if err := tx.Create(&moved).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&RepairLabour{}, l.ID).Error; err != nil {
			return err
		}
	}
	for _, p := range parts {
		moved := RepairParts{
			RepairOptionID: &option.ID,
			PartNumber:     p.PartNumber,
			Description:    p.Description,
			Quantity:       p.Quantity,
			SupplierName:   p.SupplierName,
			CostPrice:      p.CostPrice,
			SellPrice:      p.SellPrice,
			LineTotal:      p.LineTotal,
			MarginPercent:  p.MarginPercent,
			MarkupPercent:  p.MarkupPercent,
			Notes:          appendProvenance(p.Notes, provenance),
		}
		if err := tx.Create(&moved).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&RepairParts{}, p.ID).Error; err != nil {
			return err
		}
	}

	if err := RecalculateOptionTotals(tx, option.ID); err != nil {
		return err
	}
	return RecalculateItemTotals(tx, item.ID)
}

func ensureStandardOption(tx *gorm.DB, groupID uint) (*RepairOption, error) {
	var option RepairOption
	err := tx.Where("repair_item_id = ? AND name = ?", groupID, StandardOptionName).First(&option).Error
	if err == nil {
		return &option, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	option = RepairOption{RepairItemID: groupID, Name: StandardOptionName}
	if err := tx.Create(&option).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func appendProvenance(notes, provenance string) string {
	if notes == "" {
		return provenance
	}
	return notes + " " + provenance
}

// DissolveRepairGroup breaks a group apart. Children become top-level items
// again and keep their own findings and pricing. An empty shell (no direct
// pricing, no option with nonzero totals, no override) is hard-deleted;
// otherwise the row survives as an ordinary priced item.
func DissolveRepairGroup(tx *gorm.DB, orgID, groupID uint) (groupDeleted bool, err error) {
	var group RepairItem
	if err := tx.Where("organization_id = ?", orgID).First(&group, groupID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, ErrNotFound
		}
		return false, err
	}
	if !group.IsGroup {
		return false, &ValidationError{Message: "repair item is not a group"}
	}

	var children []RepairItem
	if err := tx.Where("parent_repair_item_id = ?", group.ID).Find(&children).Error; err != nil {
		return false, err
	}
	if len(children) == 0 {
		return false, &ValidationError{Message: "group has no children to ungroup"}
	}

	if err := tx.Model(&RepairItem{}).Where("parent_repair_item_id = ?", group.ID).
		Update("parent_repair_item_id", nil).Error; err != nil {
		return false, err
	}

	// Groups should never hold direct links, but clear any that slipped in
	if err := tx.Where("repair_item_id = ?", group.ID).Delete(&RepairItemCheckResult{}).Error; err != nil {
		return false, err
	}

	empty, err := groupHasNoPricing(tx, &group)
	if err != nil {
		return false, err
	}
	if empty {
		if err := tx.Where("repair_item_id = ?", group.ID).Unscoped().Delete(&RepairOption{}).Error; err != nil {
			return false, err
		}
		if err := tx.Unscoped().Delete(&RepairItem{}, group.ID).Error; err != nil {
			return false, err
		}
		return true, nil
	}

	if err := tx.Model(&group).Update("is_group", false).Error; err != nil {
		return false, err
	}
	return false, nil
}

func groupHasNoPricing(tx *gorm.DB, group *RepairItem) (bool, error) {
	if group.PriceOverride != nil {
		return false, nil
	}

	var directRows int64
	if err := tx.Model(&RepairLabour{}).Where("repair_item_id = ?", group.ID).Count(&directRows).Error; err != nil {
		return false, err
	}
	if directRows > 0 {
		return false, nil
	}
	if err := tx.Model(&RepairParts{}).Where("repair_item_id = ?", group.ID).Count(&directRows).Error; err != nil {
		return false, err
	}
	if directRows > 0 {
		return false, nil
	}

	var pricedOptions int64
	if err := tx.Model(&RepairOption{}).
		Where("repair_item_id = ? AND (labour_total <> 0 OR parts_total <> 0)", group.ID).
		Count(&pricedOptions).Error; err != nil {
		return false, err
	}
	return pricedOptions == 0, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
