package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lingo-account/internal/domain/entity"
	"github.com/oksasatya/lingo-account/pkg/apperror"
)

func validAccount() *entity.Account {
	return &entity.Account{
		Name:         "Ana",
		Email:        "ana@x.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	}
}

func TestAccount_Valid(t *testing.T) {
	a := validAccount()
	a.Bio = "learning Portuguese"
	a.SocialLinks.Twitter = "https://twitter.com/ana"
	assert.NoError(t, Account(a))
}

func TestAccount_FieldViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *entity.Account)
		field  string
	}{
		{"name too short", func(a *entity.Account) { a.Name = "A" }, "name"},
		{"name too long", func(a *entity.Account) { a.Name = strings.Repeat("n", 51) }, "name"},
		{"empty email", func(a *entity.Account) { a.Email = "" }, "email"},
		{"email without domain dot", func(a *entity.Account) { a.Email = "ana@x" }, "email"},
		{"email with spaces", func(a *entity.Account) { a.Email = "a na@x.com" }, "email"},
		{"missing hash", func(a *entity.Account) { a.PasswordHash = "" }, "password"},
		{"bio too long", func(a *entity.Account) { a.Bio = strings.Repeat("b", BioMaxLen+1) }, "bio"},
		{"bad social url", func(a *entity.Account) { a.SocialLinks.LinkedIn = "not a url" }, "socialLinks.linkedin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAccount()
			tt.mutate(a)
			err := Account(a)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperror.ErrValidation)
			assert.Equal(t, tt.field, apperror.FieldOf(err))
		})
	}
}

func TestAccount_NameLengthCountsRunes(t *testing.T) {
	a := validAccount()
	a.Name = "Zoë"
	assert.NoError(t, Account(a))
}

func TestPassword(t *testing.T) {
	assert.NoError(t, Password("secret1"))
	assert.NoError(t, Password("123456"))

	err := Password("12345")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "password", apperror.FieldOf(err))

	assert.NoError(t, Password(strings.Repeat("a", PasswordMaxBytes)))
	err = Password(strings.Repeat("a", PasswordMaxBytes+1))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "password", apperror.FieldOf(err))

	// multi-byte runes count by byte, the unit bcrypt limits
	assert.Error(t, Password(strings.Repeat("é", 37)))
}

func TestToDetails(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
	assert.Equal(t,
		map[string]string{"email": "invalid email format"},
		ToDetails(apperror.Validation("email", "invalid email format")))
}

func TestProfile_IgnoresMissingHash(t *testing.T) {
	a := validAccount()
	a.PasswordHash = ""
	assert.NoError(t, Profile(a))

	a.Email = "nope"
	assert.Equal(t, "email", apperror.FieldOf(Profile(a)))
}
