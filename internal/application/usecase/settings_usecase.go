package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pos-pro/internal/application/dto"
	"github.com/tu-usuario/pos-pro/internal/domain"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// SettingsUseCase administra la configuración de cobro: reglas de impuesto y
// medios de pago. Las reglas retiradas se tombstonean porque las ventas
// históricas las siguen referenciando.
type SettingsUseCase struct {
	taxRepo     repository.TaxRuleRepository
	paymentRepo repository.PaymentMethodRepository
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(taxRepo repository.TaxRuleRepository, paymentRepo repository.PaymentMethodRepository) *SettingsUseCase {
	return &SettingsUseCase{taxRepo: taxRepo, paymentRepo: paymentRepo}
}

// CreateTaxRule crea una regla de impuesto. El código es único entre reglas vivas.
func (uc *SettingsUseCase) CreateTaxRule(ctx context.Context, in dto.TaxRuleRequest) (*dto.TaxRuleResponse, error) {
	if in.Code == "" || in.Name == "" || in.Rate.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.taxRepo.GetByCode(in.Code)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	rule := &entity.TaxRule{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Rate:      in.Rate,
		Inclusive: in.Inclusive,
		Active:    in.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.taxRepo.Create(rule); err != nil {
		return nil, err
	}
	return toTaxRuleResponse(rule), nil
}

// UpdateTaxRule actualiza una regla existente.
func (uc *SettingsUseCase) UpdateTaxRule(ctx context.Context, id string, in dto.TaxRuleRequest) (*dto.TaxRuleResponse, error) {
	rule, err := uc.taxRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rule == nil || rule.DeletedAt != nil {
		return nil, domain.ErrNotFound
	}
	if in.Rate.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.Name != "" {
		rule.Name = in.Name
	}
	rule.Rate = in.Rate
	rule.Inclusive = in.Inclusive
	rule.Active = in.Active
	rule.UpdatedAt = time.Now()
	if err := uc.taxRepo.Update(rule); err != nil {
		return nil, err
	}
	return toTaxRuleResponse(rule), nil
}

// ListTaxRules lista reglas (tombstones excluidos salvo includeDeleted).
func (uc *SettingsUseCase) ListTaxRules(ctx context.Context, includeDeleted bool) ([]dto.TaxRuleResponse, error) {
	list, err := uc.taxRepo.List(includeDeleted)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TaxRuleResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toTaxRuleResponse(r))
	}
	return out, nil
}

// DeleteTaxRule marca el tombstone de la regla.
func (uc *SettingsUseCase) DeleteTaxRule(ctx context.Context, id string) error {
	rule, err := uc.taxRepo.GetByID(id)
	if err != nil {
		return err
	}
	if rule == nil || rule.DeletedAt != nil {
		return domain.ErrNotFound
	}
	return uc.taxRepo.SoftDelete(id)
}

// CreatePaymentMethod crea un medio de pago. La comisión admite componente
// porcentual y fijo a la vez.
func (uc *SettingsUseCase) CreatePaymentMethod(ctx context.Context, in dto.PaymentMethodRequest) (*dto.PaymentMethodResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.FeePercentage.LessThan(decimal.Zero) || in.FeeAmount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.paymentRepo.GetByCode(in.Code)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	method := &entity.PaymentMethod{
		ID:            uuid.New().String(),
		Code:          in.Code,
		Name:          in.Name,
		FeePercentage: in.FeePercentage,
		FeeAmount:     in.FeeAmount,
		Active:        in.Active,
		SortOrder:     in.SortOrder,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.paymentRepo.Create(method); err != nil {
		return nil, err
	}
	return toPaymentMethodResponse(method), nil
}

// UpdatePaymentMethod actualiza un medio de pago existente.
func (uc *SettingsUseCase) UpdatePaymentMethod(ctx context.Context, id string, in dto.PaymentMethodRequest) (*dto.PaymentMethodResponse, error) {
	method, err := uc.paymentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, domain.ErrNotFound
	}
	if in.FeePercentage.LessThan(decimal.Zero) || in.FeeAmount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.Name != "" {
		method.Name = in.Name
	}
	method.FeePercentage = in.FeePercentage
	method.FeeAmount = in.FeeAmount
	method.Active = in.Active
	method.SortOrder = in.SortOrder
	method.UpdatedAt = time.Now()
	if err := uc.paymentRepo.Update(method); err != nil {
		return nil, err
	}
	return toPaymentMethodResponse(method), nil
}

// ListPaymentMethods lista los medios activos en su orden de pantalla.
func (uc *SettingsUseCase) ListPaymentMethods(ctx context.Context) ([]dto.PaymentMethodResponse, error) {
	list, err := uc.paymentRepo.ListActive()
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentMethodResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toPaymentMethodResponse(m))
	}
	return out, nil
}

func toTaxRuleResponse(r *entity.TaxRule) *dto.TaxRuleResponse {
	if r == nil {
		return nil
	}
	return &dto.TaxRuleResponse{
		ID:        r.ID,
		Code:      r.Code,
		Name:      r.Name,
		Rate:      r.Rate,
		Inclusive: r.Inclusive,
		Active:    r.Active,
		DeletedAt: r.DeletedAt,
	}
}

func toPaymentMethodResponse(m *entity.PaymentMethod) *dto.PaymentMethodResponse {
	if m == nil {
		return nil
	}
	return &dto.PaymentMethodResponse{
		ID:            m.ID,
		Code:          m.Code,
		Name:          m.Name,
		FeePercentage: m.FeePercentage,
		FeeAmount:     m.FeeAmount,
		Active:        m.Active,
		SortOrder:     m.SortOrder,
	}
}
