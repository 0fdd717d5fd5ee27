package Controllers

import (
	"Garage/Models"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// OutcomeController handles single and bulk outcome transitions
type OutcomeController struct {
	DB *gorm.DB
}

func NewOutcomeController(db *gorm.DB) *OutcomeController {
	return &OutcomeController{DB: db}
}

type deferRequest struct {
	DeferredUntil *time.Time `json:"deferredUntil"`
	Notes         string     `json:"notes"`
}

type declineRequest struct {
	ReasonID *uint  `json:"reasonId"`
	Notes    string `json:"notes"`
}

// AuthoriseRepairItem records customer approval of a repair item
// POST /api/repair-items/:id/authorise
func (c *OutcomeController) AuthoriseRepairItem(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	var req struct {
		Source string `json:"source"`
	}
	// Body is optional, source defaults to manual
	_ = ctx.BodyParser(&req)

	var item *Models.RepairItem
	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = Models.AuthoriseRepairItem(tx, user.OrganizationID, id, user.ID, req.Source)
		return err
	})
	if txErr != nil {
		return respondError(ctx, txErr)
	}
	return ctx.JSON(item)
}

// DeferRepairItem parks a repair item for a later visit
// POST /api/repair-items/:id/defer
func (c *OutcomeController) DeferRepairItem(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	var req deferRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
	}

	var item *Models.RepairItem
	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = Models.DeferRepairItem(tx, user.OrganizationID, id, user.ID, req.DeferredUntil, req.Notes)
		return err
	})
	if txErr != nil {
		return respondError(ctx, txErr)
	}
	return ctx.JSON(item)
}

// DeclineRepairItem records a customer decline
// POST /api/repair-items/:id/decline
func (c *OutcomeController) DeclineRepairItem(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	var req declineRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
	}

	var item *Models.RepairItem
	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = Models.DeclineRepairItem(tx, user.OrganizationID, id, user.ID, req.ReasonID, req.Notes)
		return err
	})
	if txErr != nil {
		return respondError(ctx, txErr)
	}
	return ctx.JSON(item)
}

// ResetOutcome clears every outcome decision on a repair item
// POST /api/repair-items/:id/reset
func (c *OutcomeController) ResetOutcome(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	var item *Models.RepairItem
	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = Models.ResetRepairItemOutcome(tx, user.OrganizationID, id)
		return err
	})
	if txErr != nil {
		return respondError(ctx, txErr)
	}
	return ctx.JSON(fiber.Map{
		"data":          item,
		"outcomeStatus": item.EffectiveOutcome(),
	})
}

type bulkOutcomeRequest struct {
	IDs           []uint     `json:"ids" validate:"required,min=1"`
	Source        string     `json:"source"`
	DeferredUntil *time.Time `json:"deferredUntil"`
	ReasonID      *uint      `json:"reasonId"`
	Notes         string     `json:"notes"`
}

// runBulk applies one transition per id, each in its own transaction so a
// failure on one id never rolls back the others.
func (c *OutcomeController) runBulk(ctx *fiber.Ctx, apply func(tx *gorm.DB, orgID, itemID uint, req *bulkOutcomeRequest) error) error {
	user := CurrentUser(ctx)

	var req bulkOutcomeRequest
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

	results := make([]Models.BulkOutcomeResult, 0, len(req.IDs))
	succeeded := 0
	for _, id := range req.IDs {
		err := c.DB.Transaction(func(tx *gorm.DB) error {
			return apply(tx, user.OrganizationID, id, &req)
		})
		result := Models.BulkOutcomeResult{ID: id, OK: err == nil}
		if err != nil {
			result.Error = bulkErrorMessage(err)
		} else {
			succeeded++
		}
		results = append(results, result)
	}

	return ctx.JSON(fiber.Map{
		"results":   results,
		"succeeded": succeeded,
		"failed":    len(results) - succeeded,
	})
}

func bulkErrorMessage(err error) string {
	switch e := err.(type) {
	case *Models.ValidationError:
		return e.Message
	case *Models.ConflictError:
		return e.Message
	default:
		if err == Models.ErrNotFound {
			return "Repair record not found"
		}
		return "Database error"
	}
}

// BulkAuthorise authorises a batch of repair items, reporting per-id results
// POST /api/repair-items/bulk-authorise
func (c *OutcomeController) BulkAuthorise(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	return c.runBulk(ctx, func(tx *gorm.DB, orgID, itemID uint, req *bulkOutcomeRequest) error {
		_, err := Models.AuthoriseRepairItem(tx, orgID, itemID, user.ID, req.Source)
		return err
	})
}

// BulkDefer defers a batch of repair items
// POST /api/repair-items/bulk-defer
func (c *OutcomeController) BulkDefer(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	return c.runBulk(ctx, func(tx *gorm.DB, orgID, itemID uint, req *bulkOutcomeRequest) error {
		_, err := Models.DeferRepairItem(tx, orgID, itemID, user.ID, req.DeferredUntil, req.Notes)
		return err
	})
}

// BulkDecline declines a batch of repair items
// POST /api/repair-items/bulk-decline
func (c *OutcomeController) BulkDecline(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	return c.runBulk(ctx, func(tx *gorm.DB, orgID, itemID uint, req *bulkOutcomeRequest) error {
		_, err := Models.DeclineRepairItem(tx, orgID, itemID, user.ID, req.ReasonID, req.Notes)
		return err
	})
}
