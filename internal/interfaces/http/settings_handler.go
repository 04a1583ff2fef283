package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-pro/internal/application/dto"
	"github.com/tu-usuario/pos-pro/internal/application/usecase"
	"github.com/tu-usuario/pos-pro/internal/domain"
)

// SettingsHandler maneja reglas de impuesto y medios de pago (solo admin).
type SettingsHandler struct {
	uc *usecase.SettingsUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *usecase.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// ── Reglas de impuesto ────────────────────────────────────────────────────────

// CreateTaxRule godoc
// @Summary      Crear regla de impuesto
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TaxRuleRequest  true  "code, name, rate, mode (exclusive|inclusive)"
// @Success      201   {object}  dto.TaxRuleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/settings/tax-rules [post]
func (h *SettingsHandler) CreateTaxRule(c *fiber.Ctx) error {
	var in dto.TaxRuleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateTaxRule(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code, name y rate no negativo son requeridos"})
		}
		if err == domain.ErrDuplicate {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el código ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateTaxRule godoc
// @Summary      Actualizar regla de impuesto
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la regla"
// @Param        body  body  dto.TaxRuleRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.TaxRuleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/settings/tax-rules/{id} [put]
func (h *SettingsHandler) UpdateTaxRule(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.TaxRuleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateTaxRule(c.Context(), id, in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rate no puede ser negativo"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "regla no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListTaxRules godoc
// @Summary      Listar reglas de impuesto
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Param        include_deleted  query  bool  false  "Incluir reglas retiradas"
// @Success      200  {array}  dto.TaxRuleResponse
// @Router       /api/settings/tax-rules [get]
func (h *SettingsHandler) ListTaxRules(c *fiber.Ctx) error {
	out, err := h.uc.ListTaxRules(c.Context(), c.QueryBool("include_deleted", false))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// DeleteTaxRule godoc
// @Summary      Retirar regla de impuesto (borrado lógico)
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la regla"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/settings/tax-rules/{id} [delete]
func (h *SettingsHandler) DeleteTaxRule(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.DeleteTaxRule(c.Context(), id); err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "regla no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.MessageResponse{Message: "regla retirada", ID: id})
}

// ── Medios de pago ────────────────────────────────────────────────────────────

// CreatePaymentMethod godoc
// @Summary      Crear medio de pago
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PaymentMethodRequest  true  "code, name, fee_percent, fee_fixed"
// @Success      201   {object}  dto.PaymentMethodResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/settings/payment-methods [post]
func (h *SettingsHandler) CreatePaymentMethod(c *fiber.Ctx) error {
	var in dto.PaymentMethodRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreatePaymentMethod(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code, name y comisiones no negativas son requeridos"})
		}
		if err == domain.ErrDuplicate {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el código ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdatePaymentMethod godoc
// @Summary      Actualizar medio de pago
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del medio de pago"
// @Param        body  body  dto.PaymentMethodRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.PaymentMethodResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/settings/payment-methods/{id} [put]
func (h *SettingsHandler) UpdatePaymentMethod(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.PaymentMethodRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdatePaymentMethod(c.Context(), id, in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "comisiones no pueden ser negativas"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "medio de pago no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListPaymentMethods godoc
// @Summary      Listar medios de pago activos
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PaymentMethodResponse
// @Router       /api/settings/payment-methods [get]
func (h *SettingsHandler) ListPaymentMethods(c *fiber.Ctx) error {
	out, err := h.uc.ListPaymentMethods(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
