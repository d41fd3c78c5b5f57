// Package service реализует бизнес-логику сервиса заказов FastFood.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/fastfood/internal/events"
	"github.com/mmeshcher/fastfood/internal/model"
	"github.com/mmeshcher/fastfood/internal/repository"
	"github.com/mmeshcher/fastfood/internal/validation"
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	repository.Store
	WithTx(ctx context.Context, fn func(repository.Store) error) error
	Ping(ctx context.Context) error
	Close() error
}

// Options задаёт параметры бизнес-правил.
type Options struct {
	// PrepPerOrder задаёт время приготовления одного заказа в очереди ресторана.
	PrepPerOrder time.Duration
	Policy       model.FeaturePolicy
	DeliveryFee  model.DeliveryFeeFunc
	Logger       *zap.Logger
	// Now подменяется в тестах.
	Now func() time.Time
}

// Service содержит бизнес-логику сервиса заказов.
type Service struct {
	repo      Repository
	publisher events.Publisher
	logger    *zap.Logger

	prepPerOrder time.Duration
	policy       model.FeaturePolicy
	deliveryFee  model.DeliveryFeeFunc
	now          func() time.Time
}

// NewService создаёт новый сервис с указанным репозиторием и издателем событий.
func NewService(repo Repository, publisher events.Publisher, opts Options) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Service{
		repo:         repo,
		publisher:    publisher,
		logger:       opts.Logger,
		prepPerOrder: opts.PrepPerOrder,
		policy:       opts.Policy,
		deliveryFee:  opts.DeliveryFee,
		now:          opts.Now,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if err := s.publisher.Close(); err != nil {
		return fmt.Errorf("close publisher: %w", err)
	}
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// Ping проверяет доступность хранилища.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func validate(req any) error {
	if err := validation.Struct(req); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, typ string, o *model.Order) {
	e := events.NewOrderEvent(typ, o, s.now())
	// Заказ уже сохранён: отмена запроса клиентом не должна прерывать отправку.
	if err := s.publisher.Publish(context.WithoutCancel(ctx), e); err != nil {
		s.logger.Warn("publish order event failed",
			zap.Error(err),
			zap.String("type", typ),
			zap.String("orderID", o.ID),
		)
	}
}
