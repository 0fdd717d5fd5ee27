package Controllers

import (
	"Garage/Models"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
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
	if err := Models.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// newTestApp wires the repair item routes behind a stub auth layer that
// injects the given user.
func newTestApp(db *gorm.DB, user Models.User) *fiber.App {
	app := fiber.New()
	app.Use(func(ctx *fiber.Ctx) error {
		ctx.Locals("user", user)
		return ctx.Next()
	})

	itemController := NewRepairItemController(db)
	app.Get("/api/repair-items/:id", itemController.GetRepairItem)
	app.Delete("/api/repair-items/:id", itemController.DeleteRepairItem)
	app.Post("/api/repair-items/:id/check-results/:checkResultId", itemController.LinkCheckResult)
	app.Delete("/api/repair-items/:id/check-results/:checkResultId", itemController.UnlinkCheckResult)
	app.Post("/api/health-checks/:id/repair-items", itemController.CreateRepairItem)
	return app
}

func seedTestUser(t *testing.T, db *gorm.DB, orgName string) Models.User {
	t.Helper()
	org := Models.Organization{Name: orgName}
	if err := db.Create(&org).Error; err != nil {
		t.Fatalf("failed to seed organization: %v", err)
	}
	user := Models.User{
		Name:           "Test Advisor",
		Email:          orgName + "@example.test",
		Password:       []byte("hash"),
		Permission:     1,
		OrganizationID: org.ID,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedTestCheck(t *testing.T, db *gorm.DB, orgID uint) Models.HealthCheck {
	t.Helper()
	check := Models.HealthCheck{OrganizationID: orgID, VehicleReg: "XY65 ZZZ"}
	if err := db.Create(&check).Error; err != nil {
		t.Fatalf("failed to seed health check: %v", err)
	}
	return check
}

func seedTestItem(t *testing.T, db *gorm.DB, check Models.HealthCheck, title string) Models.RepairItem {
	t.Helper()
	item := Models.RepairItem{
		HealthCheckID:  check.ID,
		OrganizationID: check.OrganizationID,
		Title:          title,
		LabourStatus:   Models.WorkStatusPending,
		PartsStatus:    Models.WorkStatusPending,
		QuoteStatus:    Models.QuoteStatusPending,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to seed repair item: %v", err)
	}
	return item
}

func seedTestResult(t *testing.T, db *gorm.DB, check Models.HealthCheck, name string) Models.CheckResult {
	t.Helper()
	result := Models.CheckResult{
		HealthCheckID:  check.ID,
		OrganizationID: check.OrganizationID,
		Name:           name,
		RAGStatus:      Models.RagRed,
	}
	if err := db.Create(&result).Error; err != nil {
		t.Fatalf("failed to seed check result: %v", err)
	}
	return result
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

func TestDeleteAuthorisedItemIsRefused(t *testing.T) {
	db := newTestDB(t)
	user := seedTestUser(t, db, "refuse-garage")
	check := seedTestCheck(t, db, user.OrganizationID)
	item := seedTestItem(t, db, check, "Authorised work")

	if _, err := Models.AuthoriseRepairItem(db, user.OrganizationID, item.ID, user.ID, Models.OutcomeSourceManual); err != nil {
		t.Fatalf("AuthoriseRepairItem failed: %v", err)
	}

	app := newTestApp(db, user)
	resp := doRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/repair-items/%d", item.ID), nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	// The item survives untouched
	var count int64
	db.Model(&Models.RepairItem{}).Where("id = ?", item.ID).Count(&count)
	if count != 1 {
		t.Fatal("expected the authorised item to still exist")
	}
}

func TestForeignItemReadsAsNotFound(t *testing.T) {
	db := newTestDB(t)
	owner := seedTestUser(t, db, "owner-garage")
	intruder := seedTestUser(t, db, "intruder-garage")
	check := seedTestCheck(t, db, owner.OrganizationID)
	item := seedTestItem(t, db, check, "Private work")

	app := newTestApp(db, intruder)
	resp := doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/repair-items/%d", item.ID), nil)
	// Cross-organization access reads as absence, never as forbidden
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestLinkCheckResultDuplicateConflict(t *testing.T) {
	db := newTestDB(t)
	user := seedTestUser(t, db, "link-garage")
	check := seedTestCheck(t, db, user.OrganizationID)
	item := seedTestItem(t, db, check, "Brake pads")
	result := seedTestResult(t, db, check, "Pads at 2mm")

	app := newTestApp(db, user)
	path := fmt.Sprintf("/api/repair-items/%d/check-results/%d", item.ID, result.ID)

	resp := doRequest(t, app, http.MethodPost, path, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 on first link, got %d", resp.StatusCode)
	}
	resp = doRequest(t, app, http.MethodPost, path, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate link, got %d", resp.StatusCode)
	}
}

func TestUnlinkCheckResultIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	user := seedTestUser(t, db, "unlink-garage")
	check := seedTestCheck(t, db, user.OrganizationID)
	item := seedTestItem(t, db, check, "Wiper blades")
	result := seedTestResult(t, db, check, "Blades split")

	if err := Models.LinkCheckResult(db, user.OrganizationID, item.ID, result.ID); err != nil {
		t.Fatalf("LinkCheckResult failed: %v", err)
	}

	app := newTestApp(db, user)
	path := fmt.Sprintf("/api/repair-items/%d/check-results/%d", item.ID, result.ID)

	resp := doRequest(t, app, http.MethodDelete, path, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on unlink, got %d", resp.StatusCode)
	}
	resp = doRequest(t, app, http.MethodDelete, path, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on repeated unlink, got %d", resp.StatusCode)
	}
}

func TestCreateRepairGroupEndpoint(t *testing.T) {
	db := newTestDB(t)
	user := seedTestUser(t, db, "group-garage")
	check := seedTestCheck(t, db, user.OrganizationID)
	a := seedTestResult(t, db, check, "OSF tyre worn")
	b := seedTestResult(t, db, check, "NSF tyre worn")

	app := newTestApp(db, user)
	resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/health-checks/%d/repair-items", check.ID),
		Models.RepairItemRequest{
			Name:           "Front tyres",
			IsGroup:        true,
			CheckResultIDs: []uint{a.ID, b.ID},
		})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created Models.RepairItem
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !created.IsGroup {
		t.Fatal("expected the created item to be a group")
	}

	var children int64
	db.Model(&Models.RepairItem{}).Where("parent_repair_item_id = ?", created.ID).Count(&children)
	if children != 2 {
		t.Fatalf("expected 2 children, got %d", children)
	}
}

func TestGetRepairItemHydratesChildPricing(t *testing.T) {
	db := newTestDB(t)
	user := seedTestUser(t, db, "hydrate-garage")
	check := seedTestCheck(t, db, user.OrganizationID)
	parent := seedTestItem(t, db, check, "Brake overhaul")

	child := Models.RepairItem{
		HealthCheckID:      check.ID,
		OrganizationID:     user.OrganizationID,
		Title:              "Front pads",
		ParentRepairItemID: &parent.ID,
		LabourStatus:       Models.WorkStatusPending,
		PartsStatus:        Models.WorkStatusPending,
		QuoteStatus:        Models.QuoteStatusPending,
	}
	if err := db.Create(&child).Error; err != nil {
		t.Fatalf("failed to seed child: %v", err)
	}
	code := Models.LabourCode{OrganizationID: user.OrganizationID, Code: "STD", Rate: 50}
	if err := db.Create(&code).Error; err != nil {
		t.Fatalf("failed to seed labour code: %v", err)
	}
	labour := Models.RepairLabour{RepairItemID: &child.ID, LabourCodeID: code.ID, Hours: 2, Rate: 50, Total: 100}
	if err := db.Create(&labour).Error; err != nil {
		t.Fatalf("failed to seed child labour: %v", err)
	}

	app := newTestApp(db, user)
	resp := doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/repair-items/%d", parent.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Data Models.RepairItem `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Data.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(body.Data.Children))
	}
	// The single-item view carries per-child pricing like the list view does
	if len(body.Data.Children[0].Labour) != 1 {
		t.Fatalf("expected the child's labour to be hydrated, got %d rows", len(body.Data.Children[0].Labour))
	}
	if body.Data.Children[0].Labour[0].Total != 100 {
		t.Fatalf("expected child labour total 100, got %v", body.Data.Children[0].Labour[0].Total)
	}
}

func TestCreateRepairItemUnknownFinding(t *testing.T) {
	db := newTestDB(t)
	user := seedTestUser(t, db, "strict-garage")
	check := seedTestCheck(t, db, user.OrganizationID)

	app := newTestApp(db, user)
	resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/health-checks/%d/repair-items", check.ID),
		Models.RepairItemRequest{
			Name:           "Ghost repair",
			CheckResultIDs: []uint{4242},
		})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown finding, got %d", resp.StatusCode)
	}
}
