package repository

import (
	"context"
	"errors"

	"github.com/fjod/items-api/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrItemNotFound  = errors.New("item not found")
	ErrDuplicateItem = errors.New("item with this id already exists")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type ItemRepository interface {
	CreateItem(ctx context.Context, item *domain.Item) error
	GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	ListItems(ctx context.Context) ([]*domain.Item, error)
	UpdateItem(ctx context.Context, item *domain.Item) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
	RunMigrations(*Credentials) error
	Close() error
}
