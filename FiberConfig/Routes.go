package FiberConfig

import (
	"Garage/Controllers"
	"Garage/Models"
	"Garage/middleware"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize handlers
	healthCheckController := Controllers.NewHealthCheckController(db)
	repairItemController := Controllers.NewRepairItemController(db)
	optionController := Controllers.NewRepairOptionController(db)
	labourController := Controllers.NewRepairLabourController(db)
	partsController := Controllers.NewRepairPartsController(db)
	workflowController := Controllers.NewWorkflowController(db)
	outcomeController := Controllers.NewOutcomeController(db)
	lookupController := Controllers.NewLookupController(db)

	// API group
	api := app.Group("/api", middleware.Verify(1))

	// Health check routes
	healthChecks := api.Group("/health-checks")
	healthChecks.Get("/", healthCheckController.GetHealthChecks)
	healthChecks.Post("/", healthCheckController.CreateHealthCheck)
	healthChecks.Get("/:id", healthCheckController.GetHealthCheck)
	healthChecks.Get("/:id/check-results", healthCheckController.GetCheckResults)
	healthChecks.Post("/:id/check-results", healthCheckController.CreateCheckResult)
	healthChecks.Get("/:id/unassigned-check-results", healthCheckController.GetUnassignedCheckResults)
	healthChecks.Get("/:id/repair-items", repairItemController.GetRepairItems)
	healthChecks.Post("/:id/repair-items", repairItemController.CreateRepairItem)
	healthChecks.Get("/:id/workflow-status", workflowController.GetWorkflowStatus)

	// Repair item routes
	items := api.Group("/repair-items")

	// Bulk routes - place these BEFORE the ID routes to avoid conflicts
	items.Post("/bulk-authorise", outcomeController.BulkAuthorise)
	items.Post("/bulk-defer", outcomeController.BulkDefer)
	items.Post("/bulk-decline", outcomeController.BulkDecline)

	items.Get("/:id", repairItemController.GetRepairItem)
	items.Patch("/:id", repairItemController.UpdateRepairItem)
	items.Delete("/:id", repairItemController.DeleteRepairItem)
	items.Post("/:id/check-results/:checkResultId", repairItemController.LinkCheckResult)
	items.Delete("/:id/check-results/:checkResultId", repairItemController.UnlinkCheckResult)
	items.Post("/:id/select-option", repairItemController.SelectOption)
	items.Post("/:id/ungroup", repairItemController.Ungroup)

	// Options, labour and parts nested under items
	items.Get("/:id/options", optionController.GetOptions)
	items.Post("/:id/options", optionController.CreateOption)
	items.Get("/:id/labour", labourController.GetItemLabour)
	items.Post("/:id/labour", labourController.CreateItemLabour)
	items.Get("/:id/parts", partsController.GetItemParts)
	items.Post("/:id/parts", partsController.CreateItemParts)

	// Workflow transitions
	items.Post("/:id/labour-complete", workflowController.MarkLabourComplete)
	items.Post("/:id/parts-complete", workflowController.MarkPartsComplete)
	items.Post("/:id/no-labour-required", workflowController.SetNoLabourRequired)
	items.Delete("/:id/no-labour-required", workflowController.ClearNoLabourRequired)
	items.Post("/:id/no-parts-required", workflowController.SetNoPartsRequired)
	items.Delete("/:id/no-parts-required", workflowController.ClearNoPartsRequired)

	// Outcome transitions
	items.Post("/:id/authorise", outcomeController.AuthoriseRepairItem)
	items.Post("/:id/defer", outcomeController.DeferRepairItem)
	items.Post("/:id/decline", outcomeController.DeclineRepairItem)
	items.Post("/:id/reset", outcomeController.ResetOutcome)

	// Option routes
	options := api.Group("/repair-options")
	options.Patch("/:id", optionController.UpdateOption)
	options.Delete("/:id", optionController.DeleteOption)
	options.Get("/:id/labour", labourController.GetOptionLabour)
	options.Post("/:id/labour", labourController.CreateOptionLabour)
	options.Get("/:id/parts", partsController.GetOptionParts)
	options.Post("/:id/parts", partsController.CreateOptionParts)

	// Direct labour and parts routes
	api.Patch("/repair-labour/:id", labourController.UpdateLabour)
	api.Delete("/repair-labour/:id", labourController.DeleteLabour)
	api.Patch("/repair-parts/:id", partsController.UpdateParts)
	api.Delete("/repair-parts/:id", partsController.DeleteParts)

	// Lookup routes
	api.Get("/labour-codes", lookupController.GetLabourCodes)
	api.Post("/labour-codes", middleware.Verify(3), lookupController.CreateLabourCode)
	api.Get("/decline-reasons", lookupController.GetDeclineReasons)
	api.Get("/pricing-defaults", lookupController.GetPricingDefaults)
	api.Post("/decline-reasons", middleware.Verify(3), lookupController.CreateDeclineReason)
}

func FiberConfig() {
	fmt.Println("Server Up...")
	app := fiber.New()
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression, // 2
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*", // Allow all origins
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true, // Important for cookies
		MaxAge:           300,  // Max age for preflight requests caching (5 minutes)
	}))

	app.Post("/api/RegisterUser", middleware.Verify(4), Controllers.RegisterUser)
	app.Post("/api/Login", Controllers.Login)
	app.Use("/api/User", middleware.Verify(1), Controllers.User)
	app.Use("/api/Logout", Controllers.Logout)

	SetupRoutes(app, Models.DB)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	app.Listen(":" + port)
}
