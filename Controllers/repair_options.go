package Controllers

import (
	"Garage/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RepairOptionController manages the alternative quote options of an item
type RepairOptionController struct {
	DB *gorm.DB
}

func NewRepairOptionController(db *gorm.DB) *RepairOptionController {
	return &RepairOptionController{DB: db}
}

// ownedOption loads an option and checks the parent item belongs to the
// caller's organization.
func (c *RepairOptionController) ownedOption(tx *gorm.DB, orgID, optionID uint) (*Models.RepairOption, *Models.RepairItem, error) {
	var option Models.RepairOption
	if err := tx.First(&option, optionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, Models.ErrNotFound
		}
		return nil, nil, err
	}
	item, err := Models.GetRepairItem(tx, orgID, option.RepairItemID)
	if err != nil {
		return nil, nil, err
	}
	return &option, item, nil
}

// GetOptions lists an item's options in display order
// GET /api/repair-items/:id/options
func (c *RepairOptionController) GetOptions(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	itemID, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	if _, err := Models.GetRepairItem(c.DB, user.OrganizationID, itemID); err != nil {
		return respondError(ctx, err)
	}

	var options []Models.RepairOption
	if err := c.DB.Where("repair_item_id = ?", itemID).
		Preload("Labour").
		Preload("Parts").
		Order("sort_order ASC, id ASC").
		Find(&options).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return ctx.JSON(options)
}

// CreateOption adds a quote option to an item
// POST /api/repair-items/:id/options
func (c *RepairOptionController) CreateOption(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	itemID, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	var req Models.RepairOptionRequest
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

	var option Models.RepairOption
	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		item, err := Models.GetRepairItem(tx, user.OrganizationID, itemID)
		if err != nil {
			return err
		}

		option = Models.RepairOption{
			RepairItemID:  item.ID,
			Name:          req.Name,
			Description:   req.Description,
			IsRecommended: req.IsRecommended,
			SortOrder:     req.SortOrder,
		}
		return tx.Create(&option).Error
	})
	if txErr != nil {
		return respondError(ctx, txErr)
	}

	return ctx.Status(fiber.StatusCreated).JSON(option)
}

// UpdateOption edits name, description, recommendation and ordering
// PATCH /api/repair-options/:id
func (c *RepairOptionController) UpdateOption(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	optionID, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	var req struct {
		Name          *string `json:"name"`
		Description   *string `json:"description"`
		IsRecommended *bool   `json:"isRecommended"`
		SortOrder     *int    `json:"sortOrder"`
	}
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
	}
	if req.Name != nil && *req.Name == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"message": "name cannot be empty",
		})
	}

	var option *Models.RepairOption
	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		option, _, err = c.ownedOption(tx, user.OrganizationID, optionID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.IsRecommended != nil {
			updates["is_recommended"] = *req.IsRecommended
		}
		if req.SortOrder != nil {
			updates["sort_order"] = *req.SortOrder
		}
		if len(updates) > 0 {
			if err := tx.Model(option).Updates(updates).Error; err != nil {
				return err
			}
		}
		return tx.First(option, option.ID).Error
	})
	if txErr != nil {
		return respondError(ctx, txErr)
	}

	return ctx.JSON(option)
}

// DeleteOption removes an option and its pricing rows; a selected option
// that is deleted is deselected and the item re-totalled
// DELETE /api/repair-options/:id
func (c *RepairOptionController) DeleteOption(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	optionID, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		option, item, err := c.ownedOption(tx, user.OrganizationID, optionID)
		if err != nil {
			return err
		}

		if err := tx.Where("repair_option_id = ?", option.ID).Unscoped().Delete(&Models.RepairLabour{}).Error; err != nil {
			return err
		}
		if err := tx.Where("repair_option_id = ?", option.ID).Unscoped().Delete(&Models.RepairParts{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(option).Error; err != nil {
			return err
		}

		if item.SelectedOptionID != nil && *item.SelectedOptionID == option.ID {
			if err := tx.Model(item).Update("selected_option_id", nil).Error; err != nil {
				return err
			}
		}
		return Models.RecalculateItemTotals(tx, item.ID)
	})
	if txErr != nil {
		return respondError(ctx, txErr)
	}

	return ctx.JSON(fiber.Map{"message": "Option deleted successfully"})
}
