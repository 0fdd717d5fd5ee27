package Controllers

import (
	"Garage/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthCheckController handles health check and finding entry endpoints
type HealthCheckController struct {
	DB *gorm.DB
}

func NewHealthCheckController(db *gorm.DB) *HealthCheckController {
	return &HealthCheckController{DB: db}
}

// GetHealthChecks lists the organization's health checks, newest first
func (c *HealthCheckController) GetHealthChecks(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)

	var checks []Models.HealthCheck
	if err := c.DB.Where("organization_id = ?", user.OrganizationID).
		Order("id DESC").Find(&checks).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return ctx.JSON(checks)
}

// CreateHealthCheck opens a new vehicle health check
func (c *HealthCheckController) CreateHealthCheck(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)

	var req Models.HealthCheckRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
	}
	if err := validate.Struct(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"message": err.Error(),
		})
	}

	check := Models.HealthCheck{
		OrganizationID: user.OrganizationID,
		VehicleReg:     req.VehicleReg,
		CustomerName:   req.CustomerName,
		Mileage:        req.Mileage,
	}
	if err := c.DB.Create(&check).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create health check"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(check)
}

// GetHealthCheck returns one health check with its findings
func (c *HealthCheckController) GetHealthCheck(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	var check Models.HealthCheck
	if err := c.DB.Where("organization_id = ?", user.OrganizationID).
		Preload("CheckResults").First(&check, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Health check not found"})
	}
	return ctx.JSON(check)
}

// GetCheckResults lists the findings of a health check
func (c *HealthCheckController) GetCheckResults(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	if _, err := Models.GetHealthCheck(c.DB, user.OrganizationID, id); err != nil {
		return respondError(ctx, err)
	}

	var results []Models.CheckResult
	if err := c.DB.Where("health_check_id = ?", id).Order("id ASC").Find(&results).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return ctx.JSON(results)
}

// CreateCheckResult records a finding against a health check
func (c *HealthCheckController) CreateCheckResult(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	if _, err := Models.GetHealthCheck(c.DB, user.OrganizationID, id); err != nil {
		return respondError(ctx, err)
	}

	var req Models.CheckResultRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
	}
	if err := validate.Struct(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"message": err.Error(),
		})
	}

	result := Models.CheckResult{
		HealthCheckID:  id,
		OrganizationID: user.OrganizationID,
		Name:           req.Name,
		RAGStatus:      req.RAGStatus,
		Notes:          req.Notes,
	}
	if err := c.DB.Create(&result).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create check result"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(result)
}

// GetUnassignedCheckResults lists red/amber findings with no repair item yet
func (c *HealthCheckController) GetUnassignedCheckResults(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	results, err := Models.UnassignedCheckResults(c.DB, user.OrganizationID, id)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"data":  results,
		"count": len(results),
	})
}
