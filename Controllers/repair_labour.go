package Controllers

import (
	"Garage/Models"
	"Garage/Pricing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RepairLabourController manages labour lines on items and options
type RepairLabourController struct {
	DB *gorm.DB
}

func NewRepairLabourController(db *gorm.DB) *RepairLabourController {
	return &RepairLabourController{DB: db}
}

// labourOwner resolves which repair item a labour row ultimately belongs to
// and checks organization scope on the way.
func labourOwner(tx *gorm.DB, orgID uint, labour *Models.RepairLabour) (*Models.RepairItem, *Models.RepairOption, error) {
	if labour.RepairOptionID != nil {
		var option Models.RepairOption
		if err := tx.First(&option, *labour.RepairOptionID).Error; err != nil {
			return nil, nil, err
		}
		item, err := Models.GetRepairItem(tx, orgID, option.RepairItemID)
		if err != nil {
			return nil, nil, err
		}
		return item, &option, nil
	}
	if labour.RepairItemID == nil {
		return nil, nil, Models.ErrNotFound
	}
	item, err := Models.GetRepairItem(tx, orgID, *labour.RepairItemID)
	if err != nil {
		return nil, nil, err
	}
	return item, nil, nil
}

func (c *RepairLabourController) parseRequest(ctx *fiber.Ctx) (*Models.RepairLabourRequest, error) {
	var req Models.RepairLabourRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, &Models.ValidationError{Message: "invalid request body"}
	}
	if err := validate.Struct(&req); err != nil {
		return nil, &Models.ValidationError{Message: err.Error()}
	}
	return &req, nil
}

// buildLine copies rate and VAT exemption from the labour code and computes
// the line total.
func buildLine(tx *gorm.DB, orgID uint, req *Models.RepairLabourRequest) (*Models.RepairLabour, error) {
	var code Models.LabourCode
	if err := tx.Where("organization_id = ?", orgID).First(&code, req.LabourCodeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, Models.ErrNotFound
		}
		return nil, err
	}

	return &Models.RepairLabour{
		LabourCodeID:    code.ID,
		Hours:           req.Hours,
		Rate:            code.Rate,
		DiscountPercent: req.DiscountPercent,
		Total:           Pricing.LabourLineTotal(code.Rate, req.Hours, req.DiscountPercent),
		IsVatExempt:     code.IsVatExempt,
		Notes:           req.Notes,
	}, nil
}

// GetItemLabour lists labour held directly on an item
// GET /api/repair-items/:id/labour
func (c *RepairLabourController) GetItemLabour(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	itemID, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	if _, err := Models.GetRepairItem(c.DB, user.OrganizationID, itemID); err != nil {
		return respondError(ctx, err)
	}

	var labour []Models.RepairLabour
	if err := c.DB.Where("repair_item_id = ?", itemID).Order("id ASC").Find(&labour).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return ctx.JSON(labour)
}

// CreateItemLabour adds a labour line directly to an item
// POST /api/repair-items/:id/labour
func (c *RepairLabourController) CreateItemLabour(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	itemID, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}
	req, err := c.parseRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var line *Models.RepairLabour
	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		item, err := Models.GetRepairItem(tx, user.OrganizationID, itemID)
		if err != nil {
			return err
		}

		line, err = buildLine(tx, user.OrganizationID, req)
		if err != nil {
			return err
		}
		line.RepairItemID = &item.ID
		if err := tx.Create(line).Error; err != nil {
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

	return ctx.Status(fiber.StatusCreated).JSON(line)
}

// GetOptionLabour lists labour on an option
// GET /api/repair-options/:id/labour
func (c *RepairLabourController) GetOptionLabour(ctx *fiber.Ctx) error {
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

	var labour []Models.RepairLabour
	if err := c.DB.Where("repair_option_id = ?", optionID).Order("id ASC").Find(&labour).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return ctx.JSON(labour)
}

// CreateOptionLabour adds a labour line to an option
// POST /api/repair-options/:id/labour
func (c *RepairLabourController) CreateOptionLabour(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	optionID, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}
	req, err := c.parseRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var line *Models.RepairLabour
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

		line, err = buildLine(tx, user.OrganizationID, req)
		if err != nil {
			return err
		}
		line.RepairOptionID = &option.ID
		if err := tx.Create(line).Error; err != nil {
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

	return ctx.Status(fiber.StatusCreated).JSON(line)
}

// UpdateLabour edits hours, discount and notes, recomputing the line total
// PATCH /api/repair-labour/:id
func (c *RepairLabourController) UpdateLabour(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	labourID, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	var req struct {
		Hours           *float64 `json:"hours"`
		DiscountPercent *float64 `json:"discountPercent"`
		Notes           *string  `json:"notes"`
	}
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
	}
	if req.Hours != nil && *req.Hours <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"message": "hours must be greater than zero",
		})
	}
	if req.DiscountPercent != nil && (*req.DiscountPercent < 0 || *req.DiscountPercent > 100) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"message": "discountPercent must be between 0 and 100",
		})
	}

	var labour Models.RepairLabour
	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&labour, labourID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return Models.ErrNotFound
			}
			return err
		}
		item, option, err := labourOwner(tx, user.OrganizationID, &labour)
		if err != nil {
			return err
		}

		if req.Hours != nil {
			labour.Hours = *req.Hours
		}
		if req.DiscountPercent != nil {
			labour.DiscountPercent = *req.DiscountPercent
		}
		if req.Notes != nil {
			labour.Notes = *req.Notes
		}
		labour.Total = Pricing.LabourLineTotal(labour.Rate, labour.Hours, labour.DiscountPercent)
		if err := tx.Save(&labour).Error; err != nil {
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

	return ctx.JSON(labour)
}

// DeleteLabour removes a labour line and re-totals its owner. Workflow
// statuses never regress on removal.
// DELETE /api/repair-labour/:id
func (c *RepairLabourController) DeleteLabour(ctx *fiber.Ctx) error {
	user := CurrentUser(ctx)
	labourID, err := parseIDParam(ctx, "id")
	if err != nil {
		return invalidID(ctx)
	}

	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		var labour Models.RepairLabour
		if err := tx.First(&labour, labourID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return Models.ErrNotFound
			}
			return err
		}
		item, option, err := labourOwner(tx, user.OrganizationID, &labour)
		if err != nil {
			return err
		}

		if err := tx.Unscoped().Delete(&labour).Error; err != nil {
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

	return ctx.JSON(fiber.Map{"message": "Labour entry deleted successfully"})
}
