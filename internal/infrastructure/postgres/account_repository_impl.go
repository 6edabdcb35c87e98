package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/lingo-account/internal/domain/entity"
	"github.com/oksasatya/lingo-account/internal/domain/repository"
	"github.com/oksasatya/lingo-account/pkg/apperror"
	"github.com/oksasatya/lingo-account/pkg/validation"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

var _ repository.AccountRepository = (*AccountRepository)(nil)

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	a.Normalize()
	if err := validation.Account(a); err != nil {
		return err
	}
	links, err := json.Marshal(a.SocialLinks)
	if err != nil {
		return apperror.Storage("encode social links", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (name, email, password_hash, bio, avatar_ref, social_links)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, a.Name, a.Email, a.PasswordHash, a.Bio, a.AvatarRef, links)

	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email already registered")
		}
		return apperror.Storage("create account", err)
	}
	return nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NotFound("account", id)
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, bio, avatar_ref, social_links, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`, uid)
	a, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("account", id)
	}
	if err != nil {
		return nil, apperror.Storage("find account", err)
	}
	return a, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	email = entity.NormalizeEmail(email)
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, bio, avatar_ref, social_links, created_at, updated_at
		FROM accounts
		WHERE lower(email) = $1
	`, email)
	a, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("account", email)
	}
	if err != nil {
		return nil, apperror.Storage("find account", err)
	}
	return a, nil
}

func (r *AccountRepository) Save(ctx context.Context, a *entity.Account) error {
	a.Normalize()
	if err := validation.Account(a); err != nil {
		return err
	}
	uid, err := uuid.Parse(a.ID)
	if err != nil {
		return apperror.NotFound("account", a.ID)
	}
	links, err := json.Marshal(a.SocialLinks)
	if err != nil {
		return apperror.Storage("encode social links", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE accounts
		SET name = $1, email = $2, password_hash = $3, bio = $4, avatar_ref = $5, social_links = $6, updated_at = now()
		WHERE id = $7
		RETURNING updated_at
	`, a.Name, a.Email, a.PasswordHash, a.Bio, a.AvatarRef, links, uid)

	if err := row.Scan(&a.UpdatedAt); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return apperror.NotFound("account", a.ID)
		case isUniqueViolation(err):
			return apperror.Conflict("email already registered")
		}
		return apperror.Storage("save account", err)
	}
	return nil
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	a := &entity.Account{}
	var links []byte
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Bio, &a.AvatarRef, &links,
		&a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if len(links) > 0 {
		if err := json.Unmarshal(links, &a.SocialLinks); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
