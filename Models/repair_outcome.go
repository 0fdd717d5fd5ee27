package Models

import (
	"time"

	"gorm.io/gorm"
)

// EffectiveOutcome derives the customer-facing outcome of a repair item.
// Precedence, highest first: a soft-delete timestamp, the stored outcome
// enum, the legacy isApproved flag, then a fresh derivation from work
// completion. Stale deferred/declined metadata left behind by a skipped
// reset never wins on its own.
func (item *RepairItem) EffectiveOutcome() string {
	if item.DeletedAt.Valid {
		return OutcomeDeleted
	}
	if item.OutcomeStatus != nil && *item.OutcomeStatus != "" {
		return *item.OutcomeStatus
	}
	if item.IsApproved != nil {
		if *item.IsApproved {
			return OutcomeAuthorised
		}
		return OutcomeDeclined
	}
	labourDone := item.LabourStatus == WorkStatusComplete || item.NoLabourRequired
	partsDone := item.PartsStatus == WorkStatusComplete || item.NoPartsRequired
	if labourDone && partsDone {
		return OutcomeReady
	}
	return OutcomeIncomplete
}

func loadOutcomeTarget(tx *gorm.DB, orgID, itemID uint) (*RepairItem, error) {
	var item RepairItem
	if err := tx.Where("organization_id = ?", orgID).First(&item, itemID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if item.ParentRepairItemID != nil {
		return nil, &ValidationError{Message: "outcome actions apply to top-level repair items only"}
	}
	if item.EffectiveOutcome() == OutcomeDeleted {
		return nil, &ConflictError{Message: "repair item has been deleted"}
	}
	return &item, nil
}

// AuthoriseRepairItem marks a top-level item as authorised by the customer
// or a staff member. Source is "manual" for in-workshop actions and "online"
// for customer self-service.
func AuthoriseRepairItem(tx *gorm.DB, orgID, itemID, actorID uint, source string) (*RepairItem, error) {
	item, err := loadOutcomeTarget(tx, orgID, itemID)
	if err != nil {
		return nil, err
	}
	if source != OutcomeSourceOnline {
		source = OutcomeSourceManual
	}

	now := time.Now()
	status := OutcomeAuthorised
	item.OutcomeStatus = &status
	item.OutcomeBy = &actorID
	item.OutcomeAt = &now
	item.OutcomeSource = source
	item.CustomerApprovedAt = &now
	item.IsApproved = nil

	if err := tx.Model(item).Updates(map[string]interface{}{
		"outcome_status":       status,
		"outcome_by":           actorID,
		"outcome_at":           now,
		"outcome_source":       source,
		"customer_approved_at": now,
		"is_approved":          nil,
	}).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeferRepairItem records that the customer wants the work revisited later.
func DeferRepairItem(tx *gorm.DB, orgID, itemID, actorID uint, until *time.Time, notes string) (*RepairItem, error) {
	item, err := loadOutcomeTarget(tx, orgID, itemID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	status := OutcomeDeferred
	item.OutcomeStatus = &status
	item.DeferredUntil = until
	item.DeferredNotes = notes

	if err := tx.Model(item).Updates(map[string]interface{}{
		"outcome_status": status,
		"outcome_by":     actorID,
		"outcome_at":     now,
		"outcome_source": OutcomeSourceManual,
		"deferred_until": until,
		"deferred_notes": notes,
		"is_approved":    nil,
	}).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeclineRepairItem records a customer decline with an optional reason.
func DeclineRepairItem(tx *gorm.DB, orgID, itemID, actorID uint, reasonID *uint, notes string) (*RepairItem, error) {
	item, err := loadOutcomeTarget(tx, orgID, itemID)
	if err != nil {
		return nil, err
	}
	if reasonID != nil {
		var reason DeclineReason
		if err := tx.Where("organization_id = ?", orgID).First(&reason, *reasonID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	now := time.Now()
	status := OutcomeDeclined
	item.OutcomeStatus = &status
	item.DeclinedReasonID = reasonID
	item.DeclinedNotes = notes

	if err := tx.Model(item).Updates(map[string]interface{}{
		"outcome_status":     status,
		"outcome_by":         actorID,
		"outcome_at":         now,
		"outcome_source":     OutcomeSourceManual,
		"declined_reason_id": reasonID,
		"declined_notes":     notes,
		"is_approved":        nil,
	}).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteRepairItem soft-deletes a top-level item. Authorised work is never
// deleted: it must be reset or declined first so the audit trail survives.
func DeleteRepairItem(tx *gorm.DB, orgID, itemID, actorID uint, reasonID *uint, notes string) error {
	var item RepairItem
	if err := tx.Where("organization_id = ?", orgID).First(&item, itemID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	if item.EffectiveOutcome() == OutcomeAuthorised {
		return &ConflictError{Message: "authorised repair items cannot be deleted"}
	}

	now := time.Now()
	status := OutcomeDeleted
	if err := tx.Model(&item).Updates(map[string]interface{}{
		"outcome_status":    status,
		"outcome_by":        actorID,
		"outcome_at":        now,
		"deleted_reason_id": reasonID,
		"deleted_notes":     notes,
	}).Error; err != nil {
		return err
	}
	return tx.Delete(&item).Error
}

// ResetRepairItemOutcome clears every outcome decision and recomputes the
// item's state from its current work completion. A reset never restores a
// prior terminal state.
func ResetRepairItemOutcome(tx *gorm.DB, orgID, itemID uint) (*RepairItem, error) {
	item, err := loadOutcomeTarget(tx, orgID, itemID)
	if err != nil {
		return nil, err
	}

	if err := tx.Model(item).Updates(map[string]interface{}{
		"outcome_status":       nil,
		"is_approved":          nil,
		"outcome_by":           nil,
		"outcome_at":           nil,
		"outcome_source":       "",
		"customer_approved_at": nil,
		"deferred_until":       nil,
		"deferred_notes":       "",
		"declined_reason_id":   nil,
		"declined_notes":       "",
		"deleted_reason_id":    nil,
		"deleted_notes":        "",
	}).Error; err != nil {
		return nil, err
	}

	if err := tx.First(item, item.ID).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// BulkOutcomeResult reports the fate of one id within a bulk transition.
type BulkOutcomeResult struct {
	ID    uint   `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
