package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-pro/internal/application/auth"
	"github.com/tu-usuario/pos-pro/internal/application/cashregister"
	"github.com/tu-usuario/pos-pro/internal/application/inventory"
	"github.com/tu-usuario/pos-pro/internal/application/purchasing"
	"github.com/tu-usuario/pos-pro/internal/application/sales"
	"github.com/tu-usuario/pos-pro/internal/application/usecase"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *usecase.ProductUseCase
	CustomerUC *usecase.CustomerUseCase
	SupplierUC *usecase.SupplierUseCase
	SettingsUC *usecase.SettingsUseCase
	StockUC    *inventory.StockMovementUseCase
	CreateSale *sales.CreateSaleUseCase
	CancelSale *sales.CancelSaleUseCase
	Receipt    *sales.ReceiptUseCase
	PurchaseUC *purchasing.PurchaseUseCase
	ShiftUC    *cashregister.ShiftUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido; escritura solo admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireRole(entity.RoleAdmin), productHandler.Create)
	products.Put("/:id", RequireRole(entity.RoleAdmin), productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	// Sales (protegido; vende el cajero, anula el admin)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CreateSale, deps.CancelSale, deps.Receipt)
	salesGroup.Post("/", RequireRole(entity.RoleCajero, entity.RoleAdmin), saleHandler.Create)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
	salesGroup.Delete("/:id", RequireRole(entity.RoleAdmin), saleHandler.Cancel)

	// Purchases (protegido; bodeguero o admin)
	purchases := protected.Group("/purchases", RequireRole(entity.RoleBodeguero, entity.RoleAdmin))
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Post("/:id/receive", purchaseHandler.Receive)
	purchases.Put("/:id", purchaseHandler.Update)
	purchases.Delete("/:id", purchaseHandler.Delete)

	// Inventory (protegido; ajusta el bodeguero o el admin)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.ProductUC)
	invGroup.Post("/adjustments", RequireRole(entity.RoleBodeguero, entity.RoleAdmin), inventoryHandler.Adjust)
	invGroup.Get("/movements", inventoryHandler.Movements)
	invGroup.Get("/stock", inventoryHandler.Stock)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)

	// Shifts (protegido; cajero o admin)
	shifts := protected.Group("/shifts", RequireRole(entity.RoleCajero, entity.RoleAdmin))
	shiftHandler := NewShiftHandler(deps.ShiftUC)
	shifts.Post("/open", shiftHandler.Open)
	shifts.Post("/:id/close", shiftHandler.Close)
	shifts.Get("/current", shiftHandler.Current)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)

	// Settings (solo admin)
	settings := protected.Group("/settings", RequireRole(entity.RoleAdmin))
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	settings.Post("/tax-rules", settingsHandler.CreateTaxRule)
	settings.Get("/tax-rules", settingsHandler.ListTaxRules)
	settings.Put("/tax-rules/:id", settingsHandler.UpdateTaxRule)
	settings.Delete("/tax-rules/:id", settingsHandler.DeleteTaxRule)
	settings.Post("/payment-methods", settingsHandler.CreatePaymentMethod)
	settings.Get("/payment-methods", settingsHandler.ListPaymentMethods)
	settings.Put("/payment-methods/:id", settingsHandler.UpdatePaymentMethod)
}
