// seed puebla la base con los datos mínimos para operar el punto de venta:
// un usuario admin, los medios de pago efectivo y tarjeta, la regla IVA19 y
// unos productos de demostración con su proveedor.
//
// Uso: go run ./cmd/seed
// Idempotente: si el registro ya existe (por email o código) lo deja intacto.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/infrastructure/postgres"
	"github.com/tu-usuario/pos-pro/pkg/config"
)

const (
	adminEmail    = "admin@pospro.local"
	adminPassword = "admin12345" // cambiar en el primer login
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail("cargar configuración: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fail("conexión a PostgreSQL: %v", err)
	}
	defer pool.Close()

	now := time.Now().UTC()

	seedAdmin(pool, now)
	seedPaymentMethods(pool, now)
	seedTaxRules(pool, now)
	seedCatalog(pool, now)

	fmt.Println("seed completado")
}

func seedAdmin(pool postgres.Querier, now time.Time) {
	repo := postgres.NewUserRepository(pool)
	if existing, err := repo.FindByEmail(adminEmail); err != nil {
		fail("buscar admin: %v", err)
	} else if existing != nil {
		fmt.Println("admin ya existe:", adminEmail)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		fail("hash de password: %v", err)
	}
	err = repo.Create(&entity.User{
		ID:           uuid.New().String(),
		Email:        adminEmail,
		PasswordHash: string(hash),
		Name:         "Administrador",
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		fail("crear admin: %v", err)
	}
	fmt.Println("admin creado:", adminEmail)
}

func seedPaymentMethods(pool postgres.Querier, now time.Time) {
	repo := postgres.NewPaymentMethodRepository(pool)
	methods := []*entity.PaymentMethod{
		{
			ID:        uuid.New().String(),
			Code:      entity.PaymentMethodCashCode,
			Name:      "Efectivo",
			Active:    true,
			SortOrder: 1,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:            uuid.New().String(),
			Code:          "card",
			Name:          "Tarjeta débito/crédito",
			FeePercentage: decimal.NewFromFloat(2.5),
			Active:        true,
			SortOrder:     2,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}
	for _, m := range methods {
		if existing, err := repo.GetByCode(m.Code); err != nil {
			fail("buscar medio de pago %s: %v", m.Code, err)
		} else if existing != nil {
			fmt.Println("medio de pago ya existe:", m.Code)
			continue
		}
		if err := repo.Create(m); err != nil {
			fail("crear medio de pago %s: %v", m.Code, err)
		}
		fmt.Println("medio de pago creado:", m.Code)
	}
}

func seedTaxRules(pool postgres.Querier, now time.Time) {
	repo := postgres.NewTaxRuleRepository(pool)
	rule := &entity.TaxRule{
		ID:        uuid.New().String(),
		Code:      "IVA19",
		Name:      "IVA 19%",
		Rate:      decimal.NewFromInt(19),
		Inclusive: false,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing, err := repo.GetByCode(rule.Code); err != nil {
		fail("buscar regla %s: %v", rule.Code, err)
	} else if existing != nil {
		fmt.Println("regla de impuesto ya existe:", rule.Code)
		return
	}
	if err := repo.Create(rule); err != nil {
		fail("crear regla %s: %v", rule.Code, err)
	}
	fmt.Println("regla de impuesto creada:", rule.Code)
}

func seedCatalog(pool postgres.Querier, now time.Time) {
	supplierRepo := postgres.NewSupplierRepository(pool)
	productRepo := postgres.NewProductRepository(pool)

	suppliers, err := supplierRepo.List()
	if err != nil {
		fail("listar proveedores: %v", err)
	}
	if len(suppliers) == 0 {
		err := supplierRepo.Create(&entity.Supplier{
			ID:        uuid.New().String(),
			Name:      "Distribuidora Andina",
			Contact:   "Ventas",
			Phone:     "+57 300 000 0000",
			Email:     "ventas@andina.local",
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			fail("crear proveedor demo: %v", err)
		}
		fmt.Println("proveedor demo creado")
	}

	demos := []*entity.Product{
		{
			SKU:           "AGUA-600",
			Name:          "Agua botella 600ml",
			MinStock:      10,
			MaxStock:      100,
			PurchasePrice: decimal.NewFromInt(900),
			SellingPrice:  decimal.NewFromInt(2000),
		},
		{
			SKU:           "PAN-BAG",
			Name:          "Pan baguette",
			MinStock:      5,
			MaxStock:      30,
			Perishable:    true,
			PurchasePrice: decimal.NewFromInt(2500),
			SellingPrice:  decimal.NewFromInt(5000),
		},
		{
			SKU:           "CAFE-250",
			Name:          "Café molido 250g",
			MinStock:      8,
			MaxStock:      60,
			PurchasePrice: decimal.NewFromInt(8000),
			SellingPrice:  decimal.NewFromInt(14500),
		},
	}
	for _, p := range demos {
		if existing, err := productRepo.GetBySKU(p.SKU); err != nil {
			fail("buscar producto %s: %v", p.SKU, err)
		} else if existing != nil {
			fmt.Println("producto ya existe:", p.SKU)
			continue
		}
		p.ID = uuid.New().String()
		p.Active = true
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := productRepo.Create(p); err != nil {
			fail("crear producto %s: %v", p.SKU, err)
		}
		fmt.Println("producto creado:", p.SKU)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
