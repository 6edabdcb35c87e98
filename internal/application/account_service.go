package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lingo-account/internal/domain/entity"
	"github.com/oksasatya/lingo-account/internal/domain/repository"
	"github.com/oksasatya/lingo-account/pkg/apperror"
	"github.com/oksasatya/lingo-account/pkg/helpers"
	"github.com/oksasatya/lingo-account/pkg/mailer"
	mailtpl "github.com/oksasatya/lingo-account/pkg/mailer/templates"
	"github.com/oksasatya/lingo-account/pkg/validation"
)

// ErrInvalidCredentials is returned by Login for an unknown email or a wrong
// password alike.
var ErrInvalidCredentials = apperror.Unauthorized("invalid credentials")

// JobPublisher enqueues background email jobs.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// PasswordHasher is satisfied by *helpers.Hasher.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
	Burn(plain string)
}

// Deps are the collaborators shared by AccountService and ProfileService.
// Index and Jobs are optional. Store is the uncached account store used for
// read-modify-write; it defaults to Repo.
type Deps struct {
	Repo   repository.AccountRepository
	Store  repository.AccountRepository
	Media  repository.MediaStore
	Hasher PasswordHasher
	JWT    *helpers.JWTManager
	Index  repository.AccountIndex
	Jobs   JobPublisher
	Brand  mailtpl.Brand
	Logger *logrus.Logger
}

// sideEffects runs the best-effort work that follows a successful write:
// refreshing the search index and queueing an email.
type sideEffects struct {
	index repository.AccountIndex
	jobs  JobPublisher
	brand mailtpl.Brand
	log   *logrus.Entry
}

const sideEffectTimeout = 3 * time.Second

func (s sideEffects) reindex(ctx context.Context, a *entity.Account) {
	if s.index == nil {
		return
	}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	if err := s.index.Index(c, a.Summary()); err != nil {
		s.log.WithError(err).WithField("account_id", a.ID).Warn("account index failed")
	}
}

func (s sideEffects) enqueue(ctx context.Context, job mailer.EmailJob) {
	if s.jobs == nil {
		return
	}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	if err := s.jobs.PublishJSON(c, job); err != nil {
		s.log.WithError(err).WithField("template", job.Template).Warn("enqueue email failed")
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is what register and login hand back to the client.
type AuthResult struct {
	Token     string                `json:"token"`
	ExpiresAt time.Time             `json:"expires_at"`
	Account   entity.AccountSummary `json:"account"`
}

type AccountService struct {
	repo   repository.AccountRepository
	media  repository.MediaStore
	hasher PasswordHasher
	jwt    *helpers.JWTManager
	after  sideEffects
	log    *logrus.Entry
}

func NewAccountService(d Deps) *AccountService {
	log := helpers.Component(d.Logger, "account_service")
	return &AccountService{
		repo:   d.Repo,
		media:  d.Media,
		hasher: d.Hasher,
		jwt:    d.JWT,
		after:  sideEffects{index: d.Index, jobs: d.Jobs, brand: d.Brand, log: log},
		log:    log,
	}
}

// Register creates an account and signs the caller in. Every field is
// validated before the avatar (if any) is stored, and the stored avatar is
// removed again if the account cannot be created.
func (s *AccountService) Register(ctx context.Context, in RegisterInput, avatar *entity.Upload) (AuthResult, error) {
	if err := validation.Password(in.Password); err != nil {
		return AuthResult{}, err
	}
	a := &entity.Account{Name: in.Name, Email: in.Email}
	a.Normalize()
	if err := validation.Profile(a); err != nil {
		return AuthResult{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return AuthResult{}, err
	}
	a.PasswordHash = hash
	if err := validation.Account(a); err != nil {
		return AuthResult{}, err
	}

	if avatar != nil {
		ref, err := s.media.Store(ctx, *avatar)
		if err != nil {
			return AuthResult{}, err
		}
		a.AvatarRef = &ref
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if a.AvatarRef != nil {
			s.discardBlob(ctx, *a.AvatarRef)
		}
		return AuthResult{}, err
	}
	s.log.WithField("account_id", a.ID).Info("account registered")

	res, err := s.issue(a)
	if err != nil {
		return AuthResult{}, err
	}

	s.after.reindex(ctx, a)
	s.after.enqueue(ctx, mailer.EmailJob{
		To:       a.Email,
		Template: mailtpl.Welcome,
		Data:     mailtpl.NewWelcomeData(s.after.brand, a.Name, a.Email),
	})
	return res, nil
}

// Login exchanges credentials for a token.
func (s *AccountService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	a, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, apperror.ErrNotFound) {
		s.hasher.Burn(password)
		return AuthResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, err
	}
	if !s.hasher.Verify(password, a.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}
	return s.issue(a)
}

func (s *AccountService) issue(a *entity.Account) (AuthResult, error) {
	token, exp, err := s.jwt.Issue(a.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{Token: token, ExpiresAt: exp, Account: a.Summary()}, nil
}

func (s *AccountService) discardBlob(ctx context.Context, ref string) {
	if err := s.media.Delete(context.WithoutCancel(ctx), ref); err != nil && !errors.Is(err, apperror.ErrNotFound) {
		s.log.WithError(err).WithField("ref", ref).Warn("orphaned avatar blob")
	}
}
