package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fjod/items-api/internal/cache"
	"github.com/fjod/items-api/internal/domain"
	"github.com/fjod/items-api/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const listFlightKey = "items:all"

type ItemService struct {
	repo  repository.ItemRepository
	cache cache.ItemCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewItemService(repo repository.ItemRepository, cache cache.ItemCache) *ItemService {
	return &ItemService{
		repo:  repo,
		cache: cache,
	}
}

func (s *ItemService) ListItems(ctx context.Context) ([]*domain.Item, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(listFlightKey, func() (interface{}, error) {

		items, err := s.cache.GetAll(ctx)
		if err == nil {
			return items, nil // list is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		items, errList := s.repo.ListItems(ctx)
		if errList != nil {
			return nil, errList
		}
		if items == nil {
			items = []*domain.Item{}
		}

		// set cache
		go func() {
			errSet := s.cache.SetAll(context.Background(), items)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return items, nil // list was not in cache, return it from repo
	})

	if err != nil {
		return nil, err
	}

	return v.([]*domain.Item), nil
}

func (s *ItemService) GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	v, err, _ := s.sfg.Do(id.String(), func() (interface{}, error) {

		item, err := s.cache.GetItem(ctx, id)
		if err == nil {
			return item, nil // item is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err)
		}

		item, errGet := s.repo.GetItem(ctx, id)
		if errGet != nil {
			return nil, errGet // includes repository.ErrItemNotFound
		}

		// set cache
		go func() {
			errSet := s.cache.SetItem(context.Background(), item)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return item, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Item), nil
}

// CreateItem assigns a fresh id when the payload carried none. Only the
// list entry is invalidated: the item entry cannot exist yet.
func (s *ItemService) CreateItem(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	invalidateCache(s, func(ctx context.Context) error {
		return s.cache.DeleteAll(ctx)
	})
	return item, nil
}

func (s *ItemService) UpdateItem(ctx context.Context, id uuid.UUID, upd domain.ItemUpdate) (*domain.Item, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		item.Name = *upd.Name
	}
	if upd.Description != nil {
		item.Description = upd.Description
	}
	if upd.Price != nil {
		item.Price = *upd.Price
	}
	if upd.InStock != nil {
		item.InStock = *upd.InStock
	}

	if errUpdate := s.repo.UpdateItem(ctx, item); errUpdate != nil {
		return nil, errUpdate
	}

	invalidateCache(s, func(ctx context.Context) error {
		if e := s.cache.DeleteItem(ctx, id); e != nil {
			return e
		}
		return s.cache.DeleteAll(ctx)
	})
	return item, nil
}

func (s *ItemService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return err
	}

	invalidateCache(s, func(ctx context.Context) error {
		if e := s.cache.DeleteItem(ctx, id); e != nil {
			return e
		}
		return s.cache.DeleteAll(ctx)
	})
	return nil
}

// invalidateCache is best-effort: a cache that cannot be invalidated will
// self-heal when the entry's TTL runs out.
func invalidateCache(s *ItemService, del func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := del(ctx); err != nil {
		log.Printf("cache invalidate error: %v \n", err)
	}
}
