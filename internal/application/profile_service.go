package application

import (
	"context"
	"errors"
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

// ProfilePatch is a partial update. A nil field is left unchanged; an empty
// string clears bio or a social link.
type ProfilePatch struct {
	Name        *string           `json:"name"`
	Email       *string           `json:"email"`
	Bio         *string           `json:"bio"`
	SocialLinks *SocialLinksPatch `json:"socialLinks"`
}

type SocialLinksPatch struct {
	Facebook  *string `json:"facebook"`
	Twitter   *string `json:"twitter"`
	Instagram *string `json:"instagram"`
	LinkedIn  *string `json:"linkedin"`
}

// ProfileService reads from store, never from a cache: Update is a
// read-modify-write and a stale avatarRef would delete the wrong blob.
type ProfileService struct {
	repo  repository.AccountRepository
	store repository.AccountRepository
	media repository.MediaStore
	index repository.AccountIndex
	after sideEffects
	log   *logrus.Entry
	now   func() time.Time
}

func NewProfileService(d Deps) *ProfileService {
	log := helpers.Component(d.Logger, "profile_service")
	store := d.Store
	if store == nil {
		store = d.Repo
	}
	return &ProfileService{
		repo:  d.Repo,
		store: store,
		media: d.Media,
		index: d.Index,
		after: sideEffects{index: d.Index, jobs: d.Jobs, brand: d.Brand, log: log},
		log:   log,
		now:   time.Now,
	}
}

func (s *ProfileService) Get(ctx context.Context, accountID string) (entity.ProfileView, error) {
	a, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		return entity.ProfileView{}, err
	}
	return a.View(), nil
}

// Update applies patch and, when avatar is non-nil, replaces the avatar.
// The new blob is attached and saved before the old one is deleted; if the
// save fails the new blob is removed and the account keeps its old avatar.
func (s *ProfileService) Update(ctx context.Context, accountID string, patch ProfilePatch, avatar *entity.Upload) (entity.ProfileView, error) {
	a, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		return entity.ProfileView{}, err
	}

	changes := applyPatch(a, patch)
	a.Normalize()
	if err := validation.Account(a); err != nil {
		return entity.ProfileView{}, err
	}

	var oldRef, newRef *string
	if avatar != nil {
		ref, err := s.media.Store(ctx, *avatar)
		if err != nil {
			return entity.ProfileView{}, err
		}
		oldRef, newRef = a.AvatarRef, &ref
		a.AvatarRef = newRef
		changes["avatar"] = "updated"
	}

	if err := s.repo.Save(ctx, a); err != nil {
		if newRef != nil {
			s.deleteBlob(ctx, *newRef)
		}
		return entity.ProfileView{}, err
	}
	if oldRef != nil {
		s.deleteBlob(ctx, *oldRef)
	}

	s.after.reindex(ctx, a)
	if len(changes) > 0 {
		s.after.enqueue(ctx, mailer.EmailJob{
			To:       a.Email,
			Template: mailtpl.ProfileUpdated,
			Data: mailtpl.NewProfileUpdatedData(s.after.brand, a.Name, a.Email, changes,
				mailtpl.WithTime(s.now())),
		})
	}
	return a.View(), nil
}

// Search looks accounts up in the directory index.
func (s *ProfileService) Search(ctx context.Context, q string, size int) ([]entity.AccountSummary, error) {
	if s.index == nil {
		return []entity.AccountSummary{}, nil
	}
	return s.index.Search(ctx, q, size)
}

// deleteBlob runs detached from the request so a client disconnect cannot
// leave an orphan behind.
func (s *ProfileService) deleteBlob(ctx context.Context, ref string) {
	if err := s.media.Delete(context.WithoutCancel(ctx), ref); err != nil && !errors.Is(err, apperror.ErrNotFound) {
		s.log.WithError(err).WithField("ref", ref).Warn("avatar blob delete failed")
	}
}

// applyPatch mutates a and returns the changed fields for the notification.
func applyPatch(a *entity.Account, p ProfilePatch) map[string]string {
	changes := map[string]string{}
	if p.Name != nil && *p.Name != a.Name {
		a.Name = *p.Name
		changes["name"] = *p.Name
	}
	if p.Email != nil && entity.NormalizeEmail(*p.Email) != a.Email {
		a.Email = *p.Email
		changes["email"] = entity.NormalizeEmail(*p.Email)
	}
	if p.Bio != nil && *p.Bio != a.Bio {
		a.Bio = *p.Bio
		changes["bio"] = "updated"
	}
	if sl := p.SocialLinks; sl != nil {
		before := a.SocialLinks
		setIf(&a.SocialLinks.Facebook, sl.Facebook)
		setIf(&a.SocialLinks.Twitter, sl.Twitter)
		setIf(&a.SocialLinks.Instagram, sl.Instagram)
		setIf(&a.SocialLinks.LinkedIn, sl.LinkedIn)
		if a.SocialLinks != before {
			changes["socialLinks"] = "updated"
		}
	}
	return changes
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
