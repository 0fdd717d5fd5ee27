package Models

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedOrg(t *testing.T, db *gorm.DB, name string) Organization {
	t.Helper()
	org := Organization{Name: name}
	if err := db.Create(&org).Error; err != nil {
		t.Fatalf("failed to seed organization: %v", err)
	}
	return org
}

func seedHealthCheck(t *testing.T, db *gorm.DB, orgID uint) HealthCheck {
	t.Helper()
	check := HealthCheck{OrganizationID: orgID, VehicleReg: "AB12 CDE", CustomerName: "Test Customer"}
	if err := db.Create(&check).Error; err != nil {
		t.Fatalf("failed to seed health check: %v", err)
	}
	return check
}

func seedCheckResult(t *testing.T, db *gorm.DB, check HealthCheck, name, rag string) CheckResult {
	t.Helper()
	result := CheckResult{
		HealthCheckID:  check.ID,
		OrganizationID: check.OrganizationID,
		Name:           name,
		RAGStatus:      rag,
	}
	if err := db.Create(&result).Error; err != nil {
		t.Fatalf("failed to seed check result: %v", err)
	}
	return result
}

func seedRepairItem(t *testing.T, db *gorm.DB, check HealthCheck, title string) RepairItem {
	t.Helper()
	item := RepairItem{
		HealthCheckID:  check.ID,
		OrganizationID: check.OrganizationID,
		Title:          title,
		LabourStatus:   WorkStatusPending,
		PartsStatus:    WorkStatusPending,
		QuoteStatus:    QuoteStatusPending,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to seed repair item: %v", err)
	}
	return item
}

func seedLabourCode(t *testing.T, db *gorm.DB, orgID uint, rate float64) LabourCode {
	t.Helper()
	code := LabourCode{OrganizationID: orgID, Code: "STD", Description: "Standard labour", Rate: rate}
	if err := db.Create(&code).Error; err != nil {
		t.Fatalf("failed to seed labour code: %v", err)
	}
	return code
}

func seedItemLabour(t *testing.T, db *gorm.DB, itemID uint, codeID uint, total float64) RepairLabour {
	t.Helper()
	labour := RepairLabour{
		RepairItemID: &itemID,
		LabourCodeID: codeID,
		Hours:        1,
		Rate:         total,
		Total:        total,
	}
	if err := db.Create(&labour).Error; err != nil {
		t.Fatalf("failed to seed labour row: %v", err)
	}
	return labour
}

func seedItemParts(t *testing.T, db *gorm.DB, itemID uint, total float64) RepairParts {
	t.Helper()
	parts := RepairParts{
		RepairItemID: &itemID,
		Description:  "Test part",
		Quantity:     1,
		CostPrice:    total / 2,
		SellPrice:    total,
		LineTotal:    total,
	}
	if err := db.Create(&parts).Error; err != nil {
		t.Fatalf("failed to seed parts row: %v", err)
	}
	return parts
}

func reloadItem(t *testing.T, db *gorm.DB, id uint) RepairItem {
	t.Helper()
	var item RepairItem
	if err := db.Unscoped().First(&item, id).Error; err != nil {
		t.Fatalf("failed to reload repair item %d: %v", id, err)
	}
	return item
}
