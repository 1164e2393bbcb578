package cache

import (
	"context"
	"errors"

	"github.com/fjod/items-api/internal/domain"
	"github.com/google/uuid"
)

type ItemCache interface {
	GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	SetItem(ctx context.Context, item *domain.Item) error
	GetAll(ctx context.Context) ([]*domain.Item, error)
	SetAll(ctx context.Context, items []*domain.Item) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
	Ping(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
