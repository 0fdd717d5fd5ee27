package Controllers

import (
	"Garage/Models"
	"errors"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CurrentUser returns the authenticated user stored by middleware.Verify.
func CurrentUser(ctx *fiber.Ctx) Models.User {
	user, _ := ctx.Locals("user").(Models.User)
	return user
}

func parseIDParam(ctx *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func invalidID(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "Invalid ID",
		"message": "ID must be a valid number",
	})
}

// respondError maps domain errors to HTTP statuses. Unknown errors become a
// generic 500; the details are visible in the request log only.
func respondError(ctx *fiber.Ctx, err error) error {
	var validationErr *Models.ValidationError
	var conflictErr *Models.ConflictError

	switch {
	case errors.Is(err, Models.ErrNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Repair record not found",
		})
	case errors.As(err, &validationErr):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"message": validationErr.Message,
		})
	case errors.As(err, &conflictErr):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "Conflict",
			"message": conflictErr.Message,
		})
	default:
		log.Printf("Unhandled error on %s %s: %v", ctx.Method(), ctx.Path(), err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Database error",
		})
	}
}
