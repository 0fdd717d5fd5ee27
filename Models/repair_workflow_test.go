package Models

import (
	"testing"
)

func TestRefreshWorkflowStatusPromotesToInProgress(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "Workflow Garage")
	check := seedHealthCheck(t, db, org.ID)
	code := seedLabourCode(t, db, org.ID, 90)
	item := seedRepairItem(t, db, check, "Brake overhaul")

	seedItemLabour(t, db, item.ID, code.ID, 90)
	if err := RefreshWorkflowStatus(db, item.ID); err != nil {
		t.Fatalf("RefreshWorkflowStatus failed: %v", err)
	}

	refreshed := reloadItem(t, db, item.ID)
	if refreshed.LabourStatus != WorkStatusInProgress {
		t.Fatalf("expected labour in_progress, got %q", refreshed.LabourStatus)
	}
	// No parts rows yet, so parts stays pending
	if refreshed.PartsStatus != WorkStatusPending {
		t.Fatalf("expected parts pending, got %q", refreshed.PartsStatus)
	}
	if refreshed.QuoteStatus != QuoteStatusPending {
		t.Fatalf("expected quote pending, got %q", refreshed.QuoteStatus)
	}
}

func TestRefreshWorkflowStatusPromotesParts(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "Parts Garage")
	check := seedHealthCheck(t, db, org.ID)
	item := seedRepairItem(t, db, check, "Bulb replacement")

	seedItemParts(t, db, item.ID, 12.5)
	if err := RefreshWorkflowStatus(db, item.ID); err != nil {
		t.Fatalf("RefreshWorkflowStatus failed: %v", err)
	}

	refreshed := reloadItem(t, db, item.ID)
	if refreshed.PartsStatus != WorkStatusInProgress {
		t.Fatalf("expected parts in_progress, got %q", refreshed.PartsStatus)
	}
	if refreshed.LabourStatus != WorkStatusPending {
		t.Fatalf("expected labour pending, got %q", refreshed.LabourStatus)
	}
}

func TestRefreshWorkflowStatusNeverCompletes(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "Careful Garage")
	check := seedHealthCheck(t, db, org.ID)
	code := seedLabourCode(t, db, org.ID, 90)
	item := seedRepairItem(t, db, check, "Suspension check")

	seedItemLabour(t, db, item.ID, code.ID, 90)
	for i := 0; i < 3; i++ {
		if err := RefreshWorkflowStatus(db, item.ID); err != nil {
			t.Fatalf("RefreshWorkflowStatus failed: %v", err)
		}
	}

	refreshed := reloadItem(t, db, item.ID)
	if refreshed.LabourStatus != WorkStatusInProgress {
		t.Fatalf("refresh must stop at in_progress, got %q", refreshed.LabourStatus)
	}
}

func TestRefreshWorkflowStatusCountsChildAndOptionRows(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "Scope Garage")
	check := seedHealthCheck(t, db, org.ID)
	code := seedLabourCode(t, db, org.ID, 100)

	finding := seedCheckResult(t, db, check, "Rear pads low", RagAmber)
	child := seedRepairItem(t, db, check, "Rear pads")
	if err := LinkCheckResult(db, org.ID, child.ID, finding.ID); err != nil {
		t.Fatalf("LinkCheckResult failed: %v", err)
	}
	seedItemLabour(t, db, child.ID, code.ID, 100)

	group, err := CreateRepairGroup(db, org.ID, check.ID, "Rear brakes", "", []uint{finding.ID})
	if err != nil {
		t.Fatalf("CreateRepairGroup failed: %v", err)
	}

	// The migrated option row counts toward the group's workflow
	refreshed := reloadItem(t, db, group.ID)
	if refreshed.LabourStatus != WorkStatusInProgress {
		t.Fatalf("expected group labour in_progress, got %q", refreshed.LabourStatus)
	}
}

func TestRefreshQuoteStatusHonoursNoWorkFlags(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "Flag Garage")
	check := seedHealthCheck(t, db, org.ID)
	item := seedRepairItem(t, db, check, "Software update")

	item.LabourStatus = WorkStatusComplete
	item.NoPartsRequired = true
	if err := db.Save(&item).Error; err != nil {
		t.Fatalf("failed to update item: %v", err)
	}

	if err := RefreshQuoteStatus(db, &item); err != nil {
		t.Fatalf("RefreshQuoteStatus failed: %v", err)
	}
	refreshed := reloadItem(t, db, item.ID)
	if refreshed.QuoteStatus != QuoteStatusReady {
		t.Fatalf("expected quote ready, got %q", refreshed.QuoteStatus)
	}
}

func TestRefreshQuoteStatusStaysPendingHalfDone(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "Half Garage")
	check := seedHealthCheck(t, db, org.ID)
	item := seedRepairItem(t, db, check, "Partial job")

	item.LabourStatus = WorkStatusComplete
	if err := db.Save(&item).Error; err != nil {
		t.Fatalf("failed to update item: %v", err)
	}

	if err := RefreshQuoteStatus(db, &item); err != nil {
		t.Fatalf("RefreshQuoteStatus failed: %v", err)
	}
	refreshed := reloadItem(t, db, item.ID)
	if refreshed.QuoteStatus != QuoteStatusPending {
		t.Fatalf("expected quote pending with parts outstanding, got %q", refreshed.QuoteStatus)
	}
}

func TestHealthCheckWorkflowStatusEmpty(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "Quiet Garage")
	check := seedHealthCheck(t, db, org.ID)

	summary, err := HealthCheckWorkflowStatus(db, org.ID, check.ID)
	if err != nil {
		t.Fatalf("HealthCheckWorkflowStatus failed: %v", err)
	}
	if summary.LabourStatus != AggregateNA || summary.PartsStatus != AggregateNA || summary.QuoteStatus != AggregateNA {
		t.Fatalf("expected na across the board, got %+v", summary)
	}
	if summary.ItemCount != 0 {
		t.Fatalf("expected item count 0, got %d", summary.ItemCount)
	}
}

func TestHealthCheckWorkflowStatusFold(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "Busy Garage")
	check := seedHealthCheck(t, db, org.ID)

	done := seedRepairItem(t, db, check, "Done item")
	done.LabourStatus = WorkStatusComplete
	done.PartsStatus = WorkStatusComplete
	done.QuoteStatus = QuoteStatusReady
	if err := db.Save(&done).Error; err != nil {
		t.Fatalf("failed to update item: %v", err)
	}

	working := seedRepairItem(t, db, check, "Working item")
	working.LabourStatus = WorkStatusInProgress
	if err := db.Save(&working).Error; err != nil {
		t.Fatalf("failed to update item: %v", err)
	}

	summary, err := HealthCheckWorkflowStatus(db, org.ID, check.ID)
	if err != nil {
		t.Fatalf("HealthCheckWorkflowStatus failed: %v", err)
	}
	if summary.ItemCount != 2 {
		t.Fatalf("expected 2 items, got %d", summary.ItemCount)
	}
	if summary.LabourStatus != AggregateInProgress {
		t.Fatalf("expected labour in_progress, got %q", summary.LabourStatus)
	}
	if summary.PartsStatus != AggregateInProgress {
		t.Fatalf("expected parts in_progress, got %q", summary.PartsStatus)
	}
	if summary.QuoteStatus != AggregateInProgress {
		t.Fatalf("expected quote in_progress, got %q", summary.QuoteStatus)
	}
}

func TestHealthCheckWorkflowStatusAllComplete(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "Finished Garage")
	check := seedHealthCheck(t, db, org.ID)

	item := seedRepairItem(t, db, check, "Only item")
	item.LabourStatus = WorkStatusComplete
	item.NoPartsRequired = true
	item.QuoteStatus = QuoteStatusReady
	if err := db.Save(&item).Error; err != nil {
		t.Fatalf("failed to update item: %v", err)
	}

	summary, err := HealthCheckWorkflowStatus(db, org.ID, check.ID)
	if err != nil {
		t.Fatalf("HealthCheckWorkflowStatus failed: %v", err)
	}
	// The no-parts flag counts as completion on the parts axis
	if summary.LabourStatus != AggregateComplete || summary.PartsStatus != AggregateComplete {
		t.Fatalf("expected complete/complete, got %q/%q", summary.LabourStatus, summary.PartsStatus)
	}
	if summary.QuoteStatus != AggregateComplete {
		t.Fatalf("expected quote complete, got %q", summary.QuoteStatus)
	}
}
