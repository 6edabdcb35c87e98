package entity

import (
	"strings"
	"time"
)

// Account is the aggregate root for the account domain.
// PasswordHash holds a bcrypt hash, never the plaintext secret.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Bio          string
	AvatarRef    *string
	SocialLinks  SocialLinks
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SocialLinks maps the supported platforms to profile URLs. Empty means unset.
type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty" validate:"omitempty,url,max=255"`
	Twitter   string `json:"twitter,omitempty" validate:"omitempty,url,max=255"`
	Instagram string `json:"instagram,omitempty" validate:"omitempty,url,max=255"`
	LinkedIn  string `json:"linkedin,omitempty" validate:"omitempty,url,max=255"`
}

// IsZero reports whether no platform is set.
func (s SocialLinks) IsZero() bool {
	return s == SocialLinks{}
}

// NormalizeEmail trims and lowercases an address before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize applies the write-side canonical form to the mutable fields.
func (a *Account) Normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.Email = NormalizeEmail(a.Email)
	a.Bio = strings.TrimSpace(a.Bio)
	a.SocialLinks.Facebook = strings.TrimSpace(a.SocialLinks.Facebook)
	a.SocialLinks.Twitter = strings.TrimSpace(a.SocialLinks.Twitter)
	a.SocialLinks.Instagram = strings.TrimSpace(a.SocialLinks.Instagram)
	a.SocialLinks.LinkedIn = strings.TrimSpace(a.SocialLinks.LinkedIn)
}

// ProfileView is the account as returned to clients: everything but the hash.
type ProfileView struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Bio         string      `json:"bio"`
	AvatarRef   *string     `json:"avatarRef"`
	SocialLinks SocialLinks `json:"socialLinks"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// AccountSummary is the compact shape embedded in register/login responses.
type AccountSummary struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	AvatarRef *string `json:"avatarRef"`
}

func (a *Account) View() ProfileView {
	return ProfileView{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Bio:         a.Bio,
		AvatarRef:   a.AvatarRef,
		SocialLinks: a.SocialLinks,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (a *Account) Summary() AccountSummary {
	return AccountSummary{ID: a.ID, Name: a.Name, Email: a.Email, AvatarRef: a.AvatarRef}
}
