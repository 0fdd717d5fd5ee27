package Controllers

import (
	"Garage/Models"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// WorkflowController handles the explicit workflow transitions and the
// aggregated status view
type WorkflowController struct {
	DB *gorm.DB
}

func NewWorkflowController(db *gorm.DB) *WorkflowController {
	return &WorkflowController{DB: db}
}

// MarkLabourComplete sets labour complete with actor and timestamp, and
// promotes the quote when parts are already done
// POST /api/repair-items/:id/labour-complete
func (c *WorkflowController) MarkLabourComplete(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	var item *Models.RepairItem
	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = Models.GetRepairItem(tx, user.OrganizationID, id)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(item).Updates(map[string]interface{}{
			"labour_status":       Models.WorkStatusComplete,
			"labour_completed_by": user.ID,
			"labour_completed_at": now,
		}).Error; err != nil {
			return err
		}
		item.LabourStatus = Models.WorkStatusComplete
		return Models.RefreshQuoteStatus(tx, item)
	})
	if txErr != nil {
		return respondError(ctx, txErr)
	}

	return ctx.JSON(item)
}

// MarkPartsComplete sets parts complete with actor and timestamp, and
// promotes the quote when labour is already done
// POST /api/repair-items/:id/parts-complete
func (c *WorkflowController) MarkPartsComplete(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	var item *Models.RepairItem
	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = Models.GetRepairItem(tx, user.OrganizationID, id)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(item).Updates(map[string]interface{}{
			"parts_status":       Models.WorkStatusComplete,
			"parts_completed_by": user.ID,
			"parts_completed_at": now,
		}).Error; err != nil {
			return err
		}
		item.PartsStatus = Models.WorkStatusComplete
		return Models.RefreshQuoteStatus(tx, item)
	})
	if txErr != nil {
		return respondError(ctx, txErr)
	}

	return ctx.JSON(item)
}

// SetNoLabourRequired flags an item as needing no labour, which satisfies
// the labour side of quote readiness without any labour rows
// POST /api/repair-items/:id/no-labour-required
func (c *WorkflowController) SetNoLabourRequired(ctx *fiber.Ctx) error {
	return c.toggleNoWorkFlag(ctx, "labour", true)
}

// ClearNoLabourRequired clears the flag; labour status is left untouched
// DELETE /api/repair-items/:id/no-labour-required
func (c *WorkflowController) ClearNoLabourRequired(ctx *fiber.Ctx) error {
	return c.toggleNoWorkFlag(ctx, "labour", false)
}

// SetNoPartsRequired mirrors the labour flag for parts
// POST /api/repair-items/:id/no-parts-required
func (c *WorkflowController) SetNoPartsRequired(ctx *fiber.Ctx) error {
	return c.toggleNoWorkFlag(ctx, "parts", true)
}

// ClearNoPartsRequired clears the parts flag
// DELETE /api/repair-items/:id/no-parts-required
func (c *WorkflowController) ClearNoPartsRequired(ctx *fiber.Ctx) error {
	return c.toggleNoWorkFlag(ctx, "parts", false)
}

func (c *WorkflowController) toggleNoWorkFlag(ctx *fiber.Ctx, side string, set bool) error {
	user := CurrentUser(ctx)
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	var item *Models.RepairItem
	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = Models.GetRepairItem(tx, user.OrganizationID, id)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if side == "labour" {
			updates["no_labour_required"] = set
			if set {
				now := time.Now()
				updates["no_labour_required_by"] = user.ID
				updates["no_labour_required_at"] = now
				item.NoLabourRequired = true
			} else {
				updates["no_labour_required_by"] = nil
				updates["no_labour_required_at"] = nil
				item.NoLabourRequired = false
			}
		} else {
			updates["no_parts_required"] = set
			if set {
				now := time.Now()
				updates["no_parts_required_by"] = user.ID
				updates["no_parts_required_at"] = now
				item.NoPartsRequired = true
			} else {
				updates["no_parts_required_by"] = nil
				updates["no_parts_required_at"] = nil
				item.NoPartsRequired = false
			}
		}
		if err := tx.Model(item).Updates(updates).Error; err != nil {
			return err
		}
		if set {
			return Models.RefreshQuoteStatus(tx, item)
		}
		return nil
	})
	if txErr != nil {
		return respondError(ctx, txErr)
	}

	return ctx.JSON(item)
}

// GetWorkflowStatus returns the folded labour/parts/quote status across all
// top-level repair items of a health check
// GET /api/health-checks/:id/workflow-status
func (c *WorkflowController) GetWorkflowStatus(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	healthCheckID, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	if _, err := Models.GetHealthCheck(c.DB, user.OrganizationID, healthCheckID); err != nil {
		return respondError(ctx, err)
	}

	summary, err := Models.HealthCheckWorkflowStatus(c.DB, user.OrganizationID, healthCheckID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return ctx.JSON(summary)
}
