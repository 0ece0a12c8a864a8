package main

import (
	"log"
	"strings"

	"mutabakat-backend/internal/admin"
	"mutabakat-backend/internal/audit"
	"mutabakat-backend/internal/auth"
	"mutabakat-backend/internal/bank"
	"mutabakat-backend/internal/catalog"
	"mutabakat-backend/internal/config"
	"mutabakat-backend/internal/dashboard"
	"mutabakat-backend/internal/database"
	"mutabakat-backend/internal/ingest"
	"mutabakat-backend/internal/models"
	"mutabakat-backend/internal/pricing"
	"mutabakat-backend/internal/recipe"
	"mutabakat-backend/internal/reconciliation"
	"mutabakat-backend/internal/sales"
	"mutabakat-backend/internal/usage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Super admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))

	// Şube yönetimi
	adminRoutes.Post("/branches", admin.CreateBranchHandler())
	adminRoutes.Get("/branches", admin.ListBranchesHandler())
	adminRoutes.Put("/branches/:id", admin.UpdateBranchHandler())
	adminRoutes.Post("/branch-admins", admin.CreateBranchAdminHandler())

	// Katalog: malzeme, yemek, menü
	protected.Post("/materials", catalog.CreateMaterialHandler())
	protected.Get("/materials", catalog.ListMaterialsHandler())
	protected.Put("/materials/:id", catalog.UpdateMaterialHandler())
	protected.Delete("/materials/:id", catalog.DeleteMaterialHandler())

	protected.Post("/dishes", catalog.CreateDishVariantHandler())
	protected.Get("/dishes", catalog.ListDishVariantsHandler())
	protected.Delete("/dishes/:id", catalog.DeleteDishVariantHandler())

	protected.Post("/combos", catalog.CreateComboPackageHandler())
	protected.Get("/combos", catalog.ListComboPackagesHandler())
	protected.Put("/combos/:id/components", catalog.ReplaceComboComponentsHandler())

	// Reçeteler
	protected.Post("/recipes", recipe.CreateRecipeLinkHandler())
	protected.Get("/recipes", recipe.ListRecipeLinksHandler())
	protected.Put("/recipes/:id", recipe.UpdateRecipeLinkHandler())
	protected.Delete("/recipes/:id", recipe.DeleteRecipeLinkHandler())

	// Fiyat geçmişi
	protected.Post("/prices", pricing.CreatePriceHandler())
	protected.Get("/prices", pricing.ListPricesHandler())
	protected.Put("/prices/:id/deactivate", pricing.DeactivatePriceHandler())
	protected.Get("/prices/resolve", pricing.ResolvePriceHandler())

	// Satış girişleri
	protected.Post("/dish-sales", sales.CreateDishSaleHandler())
	protected.Get("/dish-sales", sales.ListDishSalesHandler())
	protected.Post("/combo-sales", sales.CreateComboSaleHandler())
	protected.Get("/combo-sales", sales.ListComboSalesHandler())

	// Sistem kullanımı ve sayımlar
	protected.Post("/usage", usage.CreateSystemUsageHandler())
	protected.Get("/usage", usage.ListSystemUsageHandler())
	protected.Post("/stock-counts", usage.CreateStockCountHandler())
	protected.Get("/stock-counts", usage.ListStockCountsHandler())
	protected.Delete("/stock-counts/:id", usage.DeleteStockCountHandler())

	// Toplu döküm yükleme
	protected.Post("/ingest/sales", ingest.UploadSalesWorkbookHandler())
	protected.Post("/ingest/usage", ingest.UploadUsageWorkbookHandler())

	// Mutabakat
	protected.Post("/reconciliation/run", reconciliation.RunHandler(cfg))
	protected.Get("/reconciliation/records", reconciliation.ListVarianceRecordsHandler())
	protected.Get("/reconciliation/records/detail", reconciliation.DishUsageDetailHandler())
	protected.Get("/reconciliation/export", reconciliation.ExportVarianceHandler())

	// Banka/Kart
	protected.Post("/bank/accounts", bank.CreateAccountHandler())
	protected.Get("/bank/accounts", bank.ListAccountsHandler())
	protected.Put("/bank/accounts/:id", bank.UpdateAccountHandler())
	protected.Post("/bank/transactions", bank.CreateTransactionHandler())
	protected.Get("/bank/transactions", bank.ListTransactionsHandler())

	// Dashboard
	protected.Get("/dashboard/variance-chart", dashboard.VarianceChartHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())
	protected.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
