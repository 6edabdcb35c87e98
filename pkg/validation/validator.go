package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/lingo-account/internal/domain/entity"
	"github.com/oksasatya/lingo-account/pkg/apperror"
)

const (
	NameMinLen     = 2
	NameMaxLen     = 50
	PasswordMinLen = 6
	// bcrypt only accepts secrets up to 72 bytes.
	PasswordMaxBytes = 72
	BioMaxLen      = 500
)

var basicEmail = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// std validates domain values outside of Gin binding. *validator.Validate is
// safe for concurrent use once configured.
var std = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	configure(v)
	return v
}

func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("basicemail", func(fl validator.FieldLevel) bool {
		return basicEmail.MatchString(fl.Field().String())
	})
	v.RegisterAlias("pwd", fmt.Sprintf("min=%d", PasswordMinLen))
	v.RegisterAlias("personname", fmt.Sprintf("min=%d,max=%d", NameMinLen, NameMaxLen))
}

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers the basicemail rule and the pwd/personname aliases.
func Init() {
	initOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			configure(v)
		}
	})
}

var initOnce sync.Once

// Password checks the plaintext secret before it is hashed.
func Password(secret string) error {
	if err := std.Var(secret, "required,pwd"); err != nil {
		return apperror.Validation("password", fmt.Sprintf("password must be at least %d characters", PasswordMinLen))
	}
	if len(secret) > PasswordMaxBytes {
		return apperror.Validation("password", fmt.Sprintf("password must be at most %d bytes", PasswordMaxBytes))
	}
	return nil
}

// Email checks an already normalized address against the basic pattern.
func Email(email string) error {
	if err := std.Var(email, "required,max=254,basicemail"); err != nil {
		return apperror.Validation("email", "invalid email format")
	}
	return nil
}

// Account validates every stored field of a normalized account. The first
// violation is returned as an apperror validation error naming the field.
func Account(a *entity.Account) error {
	if err := Profile(a); err != nil {
		return err
	}
	if a.PasswordHash == "" {
		return apperror.Validation("password", "password is required")
	}
	return nil
}

// Profile checks the client-supplied fields of a normalized account, i.e.
// everything but the password hash.
func Profile(a *entity.Account) error {
	if err := std.Var(a.Name, "required,personname"); err != nil {
		return apperror.Validation("name", fmt.Sprintf("name must be between %d and %d characters", NameMinLen, NameMaxLen))
	}
	if err := Email(a.Email); err != nil {
		return err
	}
	if err := std.Var(a.Bio, fmt.Sprintf("max=%d", BioMaxLen)); err != nil {
		return apperror.Validation("bio", fmt.Sprintf("bio must be at most %d characters", BioMaxLen))
	}
	if err := std.Struct(a.SocialLinks); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return apperror.Validation("socialLinks."+fe.Field(), "socialLinks."+fe.Field()+" "+formatFieldError(fe))
		}
		return apperror.Validation("socialLinks", "invalid social links")
	}
	return nil
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	var ae *apperror.AppError
	if errors.As(err, &ae) && ae.Field != "" {
		return map[string]string{ae.Field: ae.Message}
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return "is required"
	case "email", "basicemail":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "min":
		return "must be at least " + param + " characters long"
	case "max":
		return "must be at most " + param + " characters long"
	case "pwd":
		return fmt.Sprintf("must be at least %d characters long", PasswordMinLen)
	case "personname":
		return fmt.Sprintf("must be between %d and %d characters", NameMinLen, NameMaxLen)
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", fe.Tag(), param)
		}
		return fmt.Sprintf("validation failed for '%s'", fe.Tag())
	}
}
