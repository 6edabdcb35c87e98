// Package cache decorates the account repository with a Redis read-through
// cache for lookups by id, which the auth gate performs on every request.
// Cached rows may lag behind the store; profile reads and updates bypass it.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lingo-account/internal/domain/entity"
	"github.com/oksasatya/lingo-account/internal/domain/repository"
	"github.com/oksasatya/lingo-account/pkg/helpers"
)

const keyPrefix = "account:id:"

type AccountRepository struct {
	next repository.AccountRepository
	rdb  redis.Cmdable
	ttl  time.Duration
	log  *logrus.Entry
}

// NewAccountRepository wraps next. Redis errors never fail a call; they are
// logged and the request falls through to next.
func NewAccountRepository(next repository.AccountRepository, rdb redis.Cmdable, ttl time.Duration, logger *logrus.Logger) *AccountRepository {
	return &AccountRepository{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		log:  helpers.Component(logger, "account_cache"),
	}
}

var _ repository.AccountRepository = (*AccountRepository)(nil)

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	return r.next.Create(ctx, a)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.next.FindByEmail(ctx, email)
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	var cached entity.Account
	hit, err := helpers.RedisGetJSON(ctx, r.rdb, keyPrefix+id, &cached)
	if err != nil {
		r.log.WithError(err).WithField("account_id", id).Warn("cache read failed")
	}
	if hit {
		return &cached, nil
	}

	a, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := helpers.RedisSetJSON(ctx, r.rdb, keyPrefix+id, a, r.ttl); err != nil {
		r.log.WithError(err).WithField("account_id", id).Warn("cache write failed")
	}
	return a, nil
}

// Save evicts before and after the write. A reader that missed before the
// write can still repopulate the old row until the TTL expires, so callers
// that read-modify-write must use the uncached store.
func (r *AccountRepository) Save(ctx context.Context, a *entity.Account) error {
	r.evict(ctx, a.ID)
	if err := r.next.Save(ctx, a); err != nil {
		return err
	}
	r.evict(ctx, a.ID)
	return nil
}

func (r *AccountRepository) evict(ctx context.Context, id string) {
	if err := helpers.RedisDel(ctx, r.rdb, keyPrefix+id); err != nil {
		r.log.WithError(err).WithField("account_id", id).Warn("cache evict failed")
	}
}
