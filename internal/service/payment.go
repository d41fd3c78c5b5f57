package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmeshcher/fastfood/internal/model"
	"github.com/mmeshcher/fastfood/internal/repository"
)

// PaymentProfileInput описывает платёжный профиль пользователя. Для card и prepaid обязательны данные карты.
type PaymentProfileInput struct {
	Method     model.PaymentMethod `json:"method" validate:"required,oneof=card prepaid cash"`
	CardBrand  string              `json:"cardBrand" validate:"required_unless=Method cash,max=30"`
	CardLast4  string              `json:"cardLast4" validate:"required_unless=Method cash,last4"`
	HolderName string              `json:"holderName" validate:"required_unless=Method cash,max=100"`
}

// GetPaymentProfile возвращает платёжный профиль пользователя или nil, если он не задан.
func (s *Service) GetPaymentProfile(ctx context.Context, userID string) (*model.PaymentProfile, error) {
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u.Payment, nil
}

// SetPaymentProfile сохраняет платёжный профиль пользователя. Для cash данные карты сбрасываются.
func (s *Service) SetPaymentProfile(ctx context.Context, p model.Principal, in PaymentProfileInput) (*model.PaymentProfile, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	profile := model.PaymentProfile{Method: in.Method}
	if in.Method.CardLike() {
		profile.CardBrand = in.CardBrand
		profile.CardLast4 = in.CardLast4
		profile.HolderName = in.HolderName
	}

	if err := s.repo.UpsertPaymentProfile(ctx, p.ID, p.Role, profile); err != nil {
		return nil, fmt.Errorf("set payment profile: %w", err)
	}
	return &profile, nil
}
