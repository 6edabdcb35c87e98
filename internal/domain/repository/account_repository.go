package repository

import (
	"context"

	"github.com/oksasatya/lingo-account/internal/domain/entity"
)

// AccountRepository is the credential store. Implementations enforce email
// uniqueness with a storage constraint and validate fields on every write.
//
// Errors follow pkg/apperror: ErrConflict on a duplicate email, ErrValidation
// naming the offending field, ErrNotFound for unknown accounts and ErrStorage
// for infrastructure failures.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	FindByID(ctx context.Context, id string) (*entity.Account, error)
	Save(ctx context.Context, a *entity.Account) error
}
