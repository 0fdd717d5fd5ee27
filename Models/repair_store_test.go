package Models

import (
	"errors"
	"testing"
)

func TestLinkCheckResultSingleOwner(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "Owner Garage")
	check := seedHealthCheck(t, db, org.ID)
	finding := seedCheckResult(t, db, check, "Battery weak", RagAmber)
	first := seedRepairItem(t, db, check, "Battery replacement")
	second := seedRepairItem(t, db, check, "Charging system check")

	if err := LinkCheckResult(db, org.ID, first.ID, finding.ID); err != nil {
		t.Fatalf("first link failed: %v", err)
	}

	// A finding has exactly one owner; a second item cannot claim it
	var conflict *ConflictError
	err := LinkCheckResult(db, org.ID, second.ID, finding.ID)
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError linking to a second item, got %v", err)
	}

	var owners int64
	db.Model(&RepairItemCheckResult{}).Where("check_result_id = ?", finding.ID).Count(&owners)
	if owners != 1 {
		t.Fatalf("expected exactly 1 owner row, found %d", owners)
	}
}

func TestLinkCheckResultRelinkAfterUnlink(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "Relink Garage")
	check := seedHealthCheck(t, db, org.ID)
	finding := seedCheckResult(t, db, check, "Coolant low", RagAmber)
	first := seedRepairItem(t, db, check, "Coolant top-up")
	second := seedRepairItem(t, db, check, "Coolant system flush")

	if err := LinkCheckResult(db, org.ID, first.ID, finding.ID); err != nil {
		t.Fatalf("link failed: %v", err)
	}
	if err := UnlinkCheckResult(db, org.ID, first.ID, finding.ID); err != nil {
		t.Fatalf("unlink failed: %v", err)
	}

	// Once released, the finding can be claimed by another item
	if err := LinkCheckResult(db, org.ID, second.ID, finding.ID); err != nil {
		t.Fatalf("relink to another item failed: %v", err)
	}
}
