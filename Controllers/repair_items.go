package Controllers

import (
	"Garage/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RepairItemController handles repair item CRUD, finding links and grouping
type RepairItemController struct {
	DB *gorm.DB
}

func NewRepairItemController(db *gorm.DB) *RepairItemController {
	return &RepairItemController{DB: db}
}

// GetRepairItems lists the top-level repair items of a health check with
// children, options, labour and parts hydrated
// GET /api/health-checks/:id/repair-items
func (c *RepairItemController) GetRepairItems(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	healthCheckID, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	items, err := Models.ListRepairItemsForHealthCheck(c.DB, user.OrganizationID, healthCheckID)
	if err != nil {
		return respondError(ctx, err)
	}

	type itemView struct {
		Models.RepairItem
		OutcomeStatus string `json:"outcomeStatus"`
	}
	views := make([]itemView, len(items))
	for i, item := range items {
		views[i] = itemView{RepairItem: item, OutcomeStatus: item.EffectiveOutcome()}
	}

	return ctx.JSON(fiber.Map{
		"data":  views,
		"count": len(views),
	})
}

// CreateRepairItem creates a plain repair item from findings, or delegates
// to the grouping engine when isGroup is set
// POST /api/health-checks/:id/repair-items
func (c *RepairItemController) CreateRepairItem(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	healthCheckID, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	var req Models.RepairItemRequest
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

	if _, err := Models.GetHealthCheck(c.DB, user.OrganizationID, healthCheckID); err != nil {
		return respondError(ctx, err)
	}

	var created *Models.RepairItem
	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		if req.IsGroup {
			group, err := Models.CreateRepairGroup(tx, user.OrganizationID, healthCheckID, req.Name, req.Description, req.CheckResultIDs)
			if err != nil {
				return err
			}
			created = group
			return nil
		}

		item := Models.RepairItem{
			HealthCheckID:  healthCheckID,
			OrganizationID: user.OrganizationID,
			Title:          req.Name,
			Description:    req.Description,
			LabourStatus:   Models.WorkStatusPending,
			PartsStatus:    Models.WorkStatusPending,
			QuoteStatus:    Models.QuoteStatusPending,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		for _, resultID := range req.CheckResultIDs {
			if err := Models.LinkCheckResult(tx, user.OrganizationID, item.ID, resultID); err != nil {
				return err
			}
		}
		created = &item
		return nil
	})
	if txErr != nil {
		return respondError(ctx, txErr)
	}

	return ctx.Status(fiber.StatusCreated).JSON(created)
}

// GetRepairItem returns one repair item fully hydrated
// GET /api/repair-items/:id
func (c *RepairItemController) GetRepairItem(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	var item Models.RepairItem
	if err := c.DB.Where("organization_id = ?", user.OrganizationID).
		Preload("Labour").
		Preload("Parts").
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Options.Labour").
		Preload("Options.Parts").
		Preload("Children").
		Preload("Children.Labour").
		Preload("Children.Parts").
		First(&item, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Repair item not found"})
	}

	return ctx.JSON(fiber.Map{
		"data":          item,
		"outcomeStatus": item.EffectiveOutcome(),
	})
}

// UpdateRepairItem patches title, description and price override, then
// recomputes the totals
// PATCH /api/repair-items/:id
func (c *RepairItemController) UpdateRepairItem(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	var req Models.RepairItemPatchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
	}
	if req.Title != nil && *req.Title == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"message": "title cannot be empty",
		})
	}
	if req.PriceOverride != nil && *req.PriceOverride < 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"message": "priceOverride cannot be negative",
		})
	}

	var item *Models.RepairItem
	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = Models.GetRepairItem(tx, user.OrganizationID, id)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.ClearOverride {
			updates["price_override"] = nil
		} else if req.PriceOverride != nil {
			updates["price_override"] = *req.PriceOverride
		}
		if len(updates) > 0 {
			if err := tx.Model(item).Updates(updates).Error; err != nil {
				return err
			}
		}

		if err := Models.RecalculateItemTotals(tx, item.ID); err != nil {
			return err
		}
		return tx.First(item, item.ID).Error
	})
	if txErr != nil {
		return respondError(ctx, txErr)
	}

	return ctx.JSON(item)
}

// DeleteRepairItem soft-deletes an item; authorised work is refused
// DELETE /api/repair-items/:id
func (c *RepairItemController) DeleteRepairItem(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	var req struct {
		ReasonID *uint  `json:"reasonId"`
		Notes    string `json:"notes"`
	}
	// Body is optional on delete
	_ = ctx.BodyParser(&req)

	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		return Models.DeleteRepairItem(tx, user.OrganizationID, id, user.ID, req.ReasonID, req.Notes)
	})
	if txErr != nil {
		return respondError(ctx, txErr)
	}

	return ctx.JSON(fiber.Map{"message": "Repair item deleted successfully"})
}

// LinkCheckResult attaches a finding to the item
// POST /api/repair-items/:id/check-results/:checkResultId
func (c *RepairItemController) LinkCheckResult(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}
	checkResultID, err := parseIDParam(ctx, "checkResultId")
	if err != nil {
		return invalidID(ctx)
	}

	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		return Models.LinkCheckResult(tx, user.OrganizationID, id, checkResultID)
	})
	if txErr != nil {
		return respondError(ctx, txErr)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Check result linked"})
}

// UnlinkCheckResult detaches a finding; repeating the call is a no-op
// DELETE /api/repair-items/:id/check-results/:checkResultId
func (c *RepairItemController) UnlinkCheckResult(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}
	checkResultID, err := parseIDParam(ctx, "checkResultId")
	if err != nil {
		return invalidID(ctx)
	}

	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		return Models.UnlinkCheckResult(tx, user.OrganizationID, id, checkResultID)
	})
	if txErr != nil {
		return respondError(ctx, txErr)
	}
	return ctx.JSON(fiber.Map{"message": "Check result unlinked"})
}

// SelectOption picks which quote option the item is priced from
// POST /api/repair-items/:id/select-option
func (c *RepairItemController) SelectOption(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	var req struct {
		OptionID uint `json:"optionId"`
	}
	if err := ctx.BodyParser(&req); err != nil || req.OptionID == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"message": "optionId is required",
		})
	}

	var item *Models.RepairItem
	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = Models.GetRepairItem(tx, user.OrganizationID, id)
		if err != nil {
			return err
		}

		var option Models.RepairOption
		if err := tx.Where("repair_item_id = ?", item.ID).First(&option, req.OptionID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &Models.ValidationError{Message: "option does not belong to this repair item"}
			}
			return err
		}

		if err := tx.Model(item).Update("selected_option_id", option.ID).Error; err != nil {
			return err
		}
		if err := Models.RecalculateItemTotals(tx, item.ID); err != nil {
			return err
		}
		return tx.First(item, item.ID).Error
	})
	if txErr != nil {
		return respondError(ctx, txErr)
	}

	return ctx.JSON(item)
}

// Ungroup dissolves a composite item back into its children
// POST /api/repair-items/:id/ungroup
func (c *RepairItemController) Ungroup(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	var groupDeleted bool
	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		groupDeleted, err = Models.DissolveRepairGroup(tx, user.OrganizationID, id)
		return err
	})
	if txErr != nil {
		return respondError(ctx, txErr)
	}

	return ctx.JSON(fiber.Map{
		"message":      "Group dissolved successfully",
		"groupDeleted": groupDeleted,
	})
}
