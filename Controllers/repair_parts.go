package Controllers

import (
	"Garage/Models"
	"Garage/Pricing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RepairPartsController manages parts lines on items and options
type RepairPartsController struct {
	DB *gorm.DB
}

func NewRepairPartsController(db *gorm.DB) *RepairPartsController {
	return &RepairPartsController{DB: db}
}

func partsOwner(tx *gorm.DB, orgID uint, part *Models.RepairParts) (*Models.RepairItem, *Models.RepairOption, error) {
	if part.RepairOptionID != nil {
		var option Models.RepairOption
		if err := tx.First(&option, *part.RepairOptionID).Error; err != nil {
			return nil, nil, err
		}
		item, err := Models.GetRepairItem(tx, orgID, option.RepairItemID)
		if err != nil {
			return nil, nil, err
		}
		return item, &option, nil
	}
	if part.RepairItemID == nil {
		return nil, nil, Models.ErrNotFound
	}
	item, err := Models.GetRepairItem(tx, orgID, *part.RepairItemID)
	if err != nil {
		return nil, nil, err
	}
	return item, nil, nil
}

func (c *RepairPartsController) parseRequest(ctx *fiber.Ctx) (*Models.RepairPartsRequest, error) {
	var req Models.RepairPartsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, &Models.ValidationError{Message: "invalid request body"}
	}
	if err := validate.Struct(&req); err != nil {
		return nil, &Models.ValidationError{Message: err.Error()}
	}
	if *req.CostPrice < 0 || *req.SellPrice < 0 {
		return nil, &Models.ValidationError{Message: "costPrice and sellPrice cannot be negative"}
	}
	return &req, nil
}

func buildPart(req *Models.RepairPartsRequest) *Models.RepairParts {
	cost := *req.CostPrice
	sell := *req.SellPrice
	return &Models.RepairParts{
		PartNumber:    req.PartNumber,
		Description:   req.Description,
		Quantity:      req.Quantity,
		SupplierName:  req.SupplierName,
		CostPrice:     cost,
		SellPrice:     sell,
		LineTotal:     Pricing.PartLineTotal(req.Quantity, sell),
		MarginPercent: Pricing.MarginPercent(cost, sell),
		MarkupPercent: Pricing.MarkupPercent(cost, sell),
		Notes:         req.Notes,
	}
}

// GetItemParts lists parts held directly on an item
// GET /api/repair-items/:id/parts
func (c *RepairPartsController) GetItemParts(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	itemID, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	if _, err := Models.GetRepairItem(c.DB, user.OrganizationID, itemID); err != nil {
		return respondError(ctx, err)
	}

	var parts []Models.RepairParts
	if err := c.DB.Where("repair_item_id = ?", itemID).Order("id ASC").Find(&parts).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return ctx.JSON(parts)
}

// CreateItemParts adds a parts line directly to an item
// POST /api/repair-items/:id/parts
func (c *RepairPartsController) CreateItemParts(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	itemID, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}
	req, err := c.parseRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var part *Models.RepairParts
	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		item, err := Models.GetRepairItem(tx, user.OrganizationID, itemID)
		if err != nil {
			return err
		}

		part = buildPart(req)
		part.RepairItemID = &item.ID
		if err := tx.Create(part).Error; err != nil {
			return err
		}

		if err := Models.RecalculateItemTotals(tx, item.ID); err != nil {
			return err
		}
		return Models.RefreshWorkflowStatus(tx, item.ID)
	})
	if txErr != nil {
		return respondError(ctx, txErr)
	}

	return ctx.Status(fiber.StatusCreated).JSON(part)
}

// GetOptionParts lists parts on an option
// GET /api/repair-options/:id/parts
func (c *RepairPartsController) GetOptionParts(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	optionID, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	var option Models.RepairOption
	if err := c.DB.First(&option, optionID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Repair option not found"})
	}
	if _, err := Models.GetRepairItem(c.DB, user.OrganizationID, option.RepairItemID); err != nil {
		return respondError(ctx, err)
	}

	var parts []Models.RepairParts
	if err := c.DB.Where("repair_option_id = ?", optionID).Order("id ASC").Find(&parts).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return ctx.JSON(parts)
}

// CreateOptionParts adds a parts line to an option
// POST /api/repair-options/:id/parts
func (c *RepairPartsController) CreateOptionParts(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	optionID, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}
	req, err := c.parseRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var part *Models.RepairParts
	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		var option Models.RepairOption
		if err := tx.First(&option, optionID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return Models.ErrNotFound
			}
			return err
		}
		item, err := Models.GetRepairItem(tx, user.OrganizationID, option.RepairItemID)
		if err != nil {
			return err
		}

		part = buildPart(req)
		part.RepairOptionID = &option.ID
		if err := tx.Create(part).Error; err != nil {
			return err
		}

		if err := Models.RecalculateOptionTotals(tx, option.ID); err != nil {
			return err
		}
		if err := Models.RecalculateItemTotals(tx, item.ID); err != nil {
			return err
		}
		return Models.RefreshWorkflowStatus(tx, item.ID)
	})
	if txErr != nil {
		return respondError(ctx, txErr)
	}

	return ctx.Status(fiber.StatusCreated).JSON(part)
}

// UpdateParts edits a parts line and recomputes its totals and margins
// PATCH /api/repair-parts/:id
func (c *RepairPartsController) UpdateParts(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	partID, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	var req struct {
		PartNumber   *string  `json:"partNumber"`
		Description  *string  `json:"description"`
		Quantity     *float64 `json:"quantity"`
		SupplierName *string  `json:"supplierName"`
		CostPrice    *float64 `json:"costPrice"`
		SellPrice    *float64 `json:"sellPrice"`
		Notes        *string  `json:"notes"`
	}
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
	}
	if req.Quantity != nil && *req.Quantity <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"message": "quantity must be greater than zero",
		})
	}
	if (req.CostPrice != nil && *req.CostPrice < 0) || (req.SellPrice != nil && *req.SellPrice < 0) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"message": "costPrice and sellPrice cannot be negative",
		})
	}

	var part Models.RepairParts
	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&part, partID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return Models.ErrNotFound
			}
			return err
		}
		item, option, err := partsOwner(tx, user.OrganizationID, &part)
		if err != nil {
			return err
		}

		if req.PartNumber != nil {
			part.PartNumber = *req.PartNumber
		}
		if req.Description != nil {
			part.Description = *req.Description
		}
		if req.Quantity != nil {
			part.Quantity = *req.Quantity
		}
		if req.SupplierName != nil {
			part.SupplierName = *req.SupplierName
		}
		if req.CostPrice != nil {
			part.CostPrice = *req.CostPrice
		}
		if req.SellPrice != nil {
			part.SellPrice = *req.SellPrice
		}
		if req.Notes != nil {
			part.Notes = *req.Notes
		}
		part.LineTotal = Pricing.PartLineTotal(part.Quantity, part.SellPrice)
		part.MarginPercent = Pricing.MarginPercent(part.CostPrice, part.SellPrice)
		part.MarkupPercent = Pricing.MarkupPercent(part.CostPrice, part.SellPrice)
		if err := tx.Save(&part).Error; err != nil {
			return err
		}

		if option != nil {
			if err := Models.RecalculateOptionTotals(tx, option.ID); err != nil {
				return err
			}
		}
		return Models.RecalculateItemTotals(tx, item.ID)
	})
	if txErr != nil {
		return respondError(ctx, txErr)
	}

	return ctx.JSON(part)
}

// DeleteParts removes a parts line and re-totals its owner
// DELETE /api/repair-parts/:id
func (c *RepairPartsController) DeleteParts(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	partID, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		var part Models.RepairParts
		if err := tx.First(&part, partID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return Models.ErrNotFound
			}
			return err
		}
		item, option, err := partsOwner(tx, user.OrganizationID, &part)
		if err != nil {
			return err
		}

		if err := tx.Unscoped().Delete(&part).Error; err != nil {
			return err
		}
		if option != nil {
			if err := Models.RecalculateOptionTotals(tx, option.ID); err != nil {
				return err
			}
		}
		return Models.RecalculateItemTotals(tx, item.ID)
	})
	if txErr != nil {
		return respondError(ctx, txErr)
	}

	return ctx.JSON(fiber.Map{"message": "Parts entry deleted successfully"})
}
