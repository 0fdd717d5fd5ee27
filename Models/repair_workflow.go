package Models

import (
	"gorm.io/gorm"
)

// ResolveTopLevelItem walks from any repair item up to the item that carries
// workflow and outcome state: the one with no parent.
func ResolveTopLevelItem(tx *gorm.DB, itemID uint) (*RepairItem, error) {
	var item RepairItem
	if err := tx.First(&item, itemID).Error; err != nil {
		return nil, err
	}
	if item.ParentRepairItemID == nil {
		return &item, nil
	}
	var parent RepairItem
	if err := tx.First(&parent, *item.ParentRepairItemID).Error; err != nil {
		return nil, err
	}
	return &parent, nil
}

// workScopeIDs collects the item ids and option ids whose labour/parts rows
// count toward a top-level item's workflow status: the item itself, its
// children, and every option under any of those.
func workScopeIDs(tx *gorm.DB, item *RepairItem) (itemIDs []uint, optionIDs []uint, err error) {
	itemIDs = []uint{item.ID}
	var children []RepairItem
	if err := tx.Where("parent_repair_item_id = ?", item.ID).Find(&children).Error; err != nil {
		return nil, nil, err
	}
	for _, c := range children {
		itemIDs = append(itemIDs, c.ID)
	}

	var options []RepairOption
	if err := tx.Where("repair_item_id IN ?", itemIDs).Find(&options).Error; err != nil {
		return nil, nil, err
	}
	for _, o := range options {
		optionIDs = append(optionIDs, o.ID)
	}
	return itemIDs, optionIDs, nil
}

// RefreshWorkflowStatus recomputes labour/parts/quote status for the
// top-level item owning itemID. Transitions are one-directional: a status
// never regresses here and never jumps straight to complete - completion is
// only ever set by the explicit mark-complete actions.
func RefreshWorkflowStatus(tx *gorm.DB, itemID uint) error {
	item, err := ResolveTopLevelItem(tx, itemID)
	if err != nil {
		return err
	}

	itemIDs, optionIDs, err := workScopeIDs(tx, item)
	if err != nil {
		return err
	}

	countRows := func(model interface{}) (int64, error) {
		var count int64
		q := tx.Model(model).Where("repair_item_id IN ?", itemIDs)
		if len(optionIDs) > 0 {
			q = tx.Model(model).Where("repair_item_id IN ? OR repair_option_id IN ?", itemIDs, optionIDs)
		}
		err := q.Count(&count).Error
		return count, err
	}

	labourCount, err := countRows(&RepairLabour{})
	if err != nil {
		return err
	}
	partsCount, err := countRows(&RepairParts{})
	if err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if labourCount > 0 && item.LabourStatus == WorkStatusPending {
		item.LabourStatus = WorkStatusInProgress
		updates["labour_status"] = WorkStatusInProgress
	}
	if partsCount > 0 && item.PartsStatus == WorkStatusPending {
		item.PartsStatus = WorkStatusInProgress
		updates["parts_status"] = WorkStatusInProgress
	}
	if item.LabourStatus == WorkStatusComplete && item.PartsStatus == WorkStatusComplete &&
		item.QuoteStatus == QuoteStatusPending {
		updates["quote_status"] = QuoteStatusReady
	}
	if len(updates) == 0 {
		return nil
	}
	return tx.Model(item).Updates(updates).Error
}

// RefreshQuoteStatus promotes the quote to ready once both sides of the work
// are satisfied, counting the no-labour/no-parts flags as satisfaction.
func RefreshQuoteStatus(tx *gorm.DB, item *RepairItem) error {
	labourDone := item.LabourStatus == WorkStatusComplete || item.NoLabourRequired
	partsDone := item.PartsStatus == WorkStatusComplete || item.NoPartsRequired
	if labourDone && partsDone && item.QuoteStatus == QuoteStatusPending {
		item.QuoteStatus = QuoteStatusReady
		return tx.Model(item).Update("quote_status", QuoteStatusReady).Error
	}
	return nil
}

// Aggregated statuses for a whole health check
const (
	AggregateNA         = "na"
	AggregatePending    = "pending"
	AggregateInProgress = "in_progress"
	AggregateComplete   = "complete"
)

type WorkflowStatusSummary struct {
	LabourStatus string `json:"labourStatus"`
	PartsStatus  string `json:"partsStatus"`
	QuoteStatus  string `json:"quoteStatus"`
	ItemCount    int    `json:"itemCount"`
}

// HealthCheckWorkflowStatus folds the workflow state of every top-level
// repair item on a health check into one summary per axis: complete when all
// items are complete, in_progress when any item has progressed, pending
// otherwise, and na when there are no items at all.
func HealthCheckWorkflowStatus(tx *gorm.DB, orgID, healthCheckID uint) (*WorkflowStatusSummary, error) {
	var items []RepairItem
	if err := tx.Where("organization_id = ? AND health_check_id = ? AND parent_repair_item_id IS NULL",
		orgID, healthCheckID).Find(&items).Error; err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return &WorkflowStatusSummary{
			LabourStatus: AggregateNA,
			PartsStatus:  AggregateNA,
			QuoteStatus:  AggregateNA,
		}, nil
	}

	fold := func(complete, progressed func(RepairItem) bool) string {
		allComplete := true
		anyProgress := false
		for _, item := range items {
			if complete(item) {
				anyProgress = true
			} else {
				allComplete = false
				if progressed(item) {
					anyProgress = true
				}
			}
		}
		if allComplete {
			return AggregateComplete
		}
		if anyProgress {
			return AggregateInProgress
		}
		return AggregatePending
	}

	summary := &WorkflowStatusSummary{
		ItemCount: len(items),
		LabourStatus: fold(
			func(i RepairItem) bool { return i.LabourStatus == WorkStatusComplete || i.NoLabourRequired },
			func(i RepairItem) bool { return i.LabourStatus == WorkStatusInProgress },
		),
		PartsStatus: fold(
			func(i RepairItem) bool { return i.PartsStatus == WorkStatusComplete || i.NoPartsRequired },
			func(i RepairItem) bool { return i.PartsStatus == WorkStatusInProgress },
		),
		QuoteStatus: fold(
			func(i RepairItem) bool { return i.QuoteStatus == QuoteStatusReady },
			func(i RepairItem) bool { return false },
		),
	}
	return summary, nil
}
