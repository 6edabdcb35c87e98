package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/lingo-account/internal/domain/entity"
	"github.com/oksasatya/lingo-account/internal/domain/repository"
	"github.com/oksasatya/lingo-account/pkg/apperror"
	"github.com/oksasatya/lingo-account/pkg/validation"
)

const accountColumns = `id, name, email, password_hash, bio, avatar_ref, social_links, created_at, updated_at`

type AccountRepository struct {
	db  *DB
	now func() time.Time
}

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db, now: time.Now}
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

	id := uuid.NewString()
	now := r.now().UTC()
	_, err = r.db.conn.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, a.Name, a.Email, a.PasswordHash, a.Bio, a.AvatarRef, string(links), now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email already registered")
		}
		return apperror.Storage("create account", err)
	}

	a.ID = id
	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	email = entity.NormalizeEmail(email)
	row := r.db.conn.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("account", email)
	}
	if err != nil {
		return nil, apperror.Storage("find account", err)
	}
	return a, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	row := r.db.conn.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("account", id)
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
	links, err := json.Marshal(a.SocialLinks)
	if err != nil {
		return apperror.Storage("encode social links", err)
	}

	now := r.now().UTC()
	res, err := r.db.conn.ExecContext(ctx, `
		UPDATE accounts
		SET name = ?, email = ?, password_hash = ?, bio = ?, avatar_ref = ?, social_links = ?, updated_at = ?
		WHERE id = ?
	`, a.Name, a.Email, a.PasswordHash, a.Bio, a.AvatarRef, string(links), now, a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email already registered")
		}
		return apperror.Storage("save account", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.Storage("save account", err)
	}
	if n == 0 {
		return apperror.NotFound("account", a.ID)
	}
	a.UpdatedAt = now
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*entity.Account, error) {
	var (
		a      entity.Account
		avatar sql.NullString
		links  string
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Bio, &avatar, &links,
		&a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if avatar.Valid {
		ref := avatar.String
		a.AvatarRef = &ref
	}
	if links != "" {
		if err := json.Unmarshal([]byte(links), &a.SocialLinks); err != nil {
			return nil, err
		}
	}
	return &a, nil
}

// isUniqueViolation matches SQLITE_CONSTRAINT_UNIQUE as reported by modernc.org/sqlite.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
