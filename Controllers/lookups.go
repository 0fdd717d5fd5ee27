package Controllers

import (
	"Garage/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LookupController serves the labour code and decline reason lookups
type LookupController struct {
	DB *gorm.DB
}

func NewLookupController(db *gorm.DB) *LookupController {
	return &LookupController{DB: db}
}

func (c *LookupController) GetLabourCodes(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)

	var codes []Models.LabourCode
	if err := c.DB.Where("organization_id = ?", user.OrganizationID).
		Order("code ASC").Find(&codes).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return ctx.JSON(codes)
}

func (c *LookupController) CreateLabourCode(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)

	var req Models.LabourCodeRequest
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

	code := Models.LabourCode{
		OrganizationID: user.OrganizationID,
		Code:           req.Code,
		Description:    req.Description,
		Rate:           req.Rate,
		IsVatExempt:    req.IsVatExempt,
	}
	if err := c.DB.Create(&code).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create labour code"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(code)
}

// GetPricingDefaults exposes the VAT rate and suggested margin so clients
// price new lines consistently with the server.
func (c *LookupController) GetPricingDefaults(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"vatRate":       Models.DefaultVatRate,
		"marginPercent": Models.DefaultMarginPercent,
	})
}

func (c *LookupController) GetDeclineReasons(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)

	var reasons []Models.DeclineReason
	if err := c.DB.Where("organization_id = ?", user.OrganizationID).
		Order("name ASC").Find(&reasons).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return ctx.JSON(reasons)
}

func (c *LookupController) CreateDeclineReason(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)

	var req Models.DeclineReasonRequest
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

	reason := Models.DeclineReason{
		OrganizationID: user.OrganizationID,
		Name:           req.Name,
	}
	if err := c.DB.Create(&reason).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create decline reason"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(reason)
}
