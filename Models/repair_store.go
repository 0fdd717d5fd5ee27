package Models

import (
	"gorm.io/gorm"
)

// GetRepairItem fetches one repair item scoped to an organization. Foreign
// ids come back as ErrNotFound.
func GetRepairItem(tx *gorm.DB, orgID, itemID uint) (*RepairItem, error) {
	var item RepairItem
	if err := tx.Where("organization_id = ?", orgID).First(&item, itemID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetHealthCheck fetches one health check scoped to an organization.
func GetHealthCheck(tx *gorm.DB, orgID, healthCheckID uint) (*HealthCheck, error) {
	var check HealthCheck
	if err := tx.Where("organization_id = ?", orgID).First(&check, healthCheckID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &check, nil
}

// LinkCheckResult attaches a finding to a repair item. Groups never carry
// links, and a finding has exactly one owner: linking it anywhere while a
// link row exists is a conflict, whichever item holds it.
func LinkCheckResult(tx *gorm.DB, orgID, itemID, checkResultID uint) error {
	item, err := GetRepairItem(tx, orgID, itemID)
	if err != nil {
		return err
	}
	if item.IsGroup {
		return &ValidationError{Message: "check results attach to group children, not the group itself"}
	}

	var result CheckResult
	if err := tx.Where("organization_id = ? AND health_check_id = ?", orgID, item.HealthCheckID).
		First(&result, checkResultID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	var existing int64
	if err := tx.Model(&RepairItemCheckResult{}).
		Where("check_result_id = ?", checkResultID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return &ConflictError{Message: "check result is already linked to a repair item"}
	}

	link := RepairItemCheckResult{RepairItemID: itemID, CheckResultID: checkResultID}
	return tx.Create(&link).Error
}

// UnlinkCheckResult removes a finding link. Unlinking a pair that is not
// linked is a successful no-op.
func UnlinkCheckResult(tx *gorm.DB, orgID, itemID, checkResultID uint) error {
	if _, err := GetRepairItem(tx, orgID, itemID); err != nil {
		return err
	}
	return tx.Where("repair_item_id = ? AND check_result_id = ?", itemID, checkResultID).
		Delete(&RepairItemCheckResult{}).Error
}

// ListRepairItemsForHealthCheck returns the top-level items of a health
// check with children, options, labour and parts hydrated.
func ListRepairItemsForHealthCheck(tx *gorm.DB, orgID, healthCheckID uint) ([]RepairItem, error) {
	if _, err := GetHealthCheck(tx, orgID, healthCheckID); err != nil {
		return nil, err
	}

	var items []RepairItem
	err := tx.Where("organization_id = ? AND health_check_id = ? AND parent_repair_item_id IS NULL",
		orgID, healthCheckID).
		Preload("Labour").
		Preload("Parts").
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Options.Labour").
		Preload("Options.Parts").
		Preload("Children").
		Preload("Children.Labour").
		Preload("Children.Parts").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UnassignedCheckResults returns the red/amber findings of a health check
// not yet attached to any repair item.
func UnassignedCheckResults(tx *gorm.DB, orgID, healthCheckID uint) ([]CheckResult, error) {
	if _, err := GetHealthCheck(tx, orgID, healthCheckID); err != nil {
		return nil, err
	}

	var results []CheckResult
	err := tx.Where("organization_id = ? AND health_check_id = ? AND rag_status IN ?",
		orgID, healthCheckID, []string{RagRed, RagAmber}).
		Where("id NOT IN (?)", tx.Model(&RepairItemCheckResult{}).Select("check_result_id")).
		Order("id ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
