package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/fastfood/internal/model"
)

// GetUser возвращает пользователя с платёжным профилем, если он задан.
func (q *Queries) GetUser(ctx context.Context, id string) (*model.User, error) {
	var (
		u                        model.User
		role                     string
		method                   *string
		brand, last4, holderName string
	)
	err := q.q.QueryRow(ctx,
		`SELECT id, role, payment_method, payment_card_brand, payment_card_last4, payment_holder_name
		 FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &role, &method, &brand, &last4, &holderName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	u.Role = model.Role(role)
	if method != nil {
		u.Payment = &model.PaymentProfile{
			Method:     model.PaymentMethod(*method),
			CardBrand:  brand,
			CardLast4:  last4,
			HolderName: holderName,
		}
	}

	return &u, nil
}

// UpsertPaymentProfile сохраняет платёжный профиль, создавая запись пользователя при первом обращении.
func (q *Queries) UpsertPaymentProfile(ctx context.Context, userID string, role model.Role, p model.PaymentProfile) error {
	_, err := q.q.Exec(ctx,
		`INSERT INTO users (id, role, payment_method, payment_card_brand, payment_card_last4, payment_holder_name)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE
		 SET payment_method = EXCLUDED.payment_method,
		     payment_card_brand = EXCLUDED.payment_card_brand,
		     payment_card_last4 = EXCLUDED.payment_card_last4,
		     payment_holder_name = EXCLUDED.payment_holder_name,
		     updated_at = now()`,
		userID, string(role), string(p.Method), p.CardBrand, p.CardLast4, p.HolderName,
	)
	if err != nil {
		return fmt.Errorf("upsert payment profile: %w", err)
	}
	return nil
}
