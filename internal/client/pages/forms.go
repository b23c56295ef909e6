package pages

import (
	"errors"
	"regexp"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/dmitrijs2005/learnly/internal/client/models"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	otpPattern      = regexp.MustCompile(`^[0-9]{6}$`)
)

const (
	MsgIdentifierRequired = "Email or Username is required"
	MsgIdentifierInvalid  = "Must be a valid email or username"
	MsgPasswordRequired   = "Password is required"
	MsgPasswordWeak       = "Password must be at least 8 characters long and contain at least one number, one special character, one uppercase letter and one lowercase letter"
	MsgPasswordsMismatch  = "Passwords do not match"
)

// emailOrUsername rejects values that are neither an email nor an
// alphanumeric username, so a malformed email is never looked up as a
// username.
func emailOrUsername(value interface{}) error {
	s, _ := value.(string)
	if s == "" || models.IsEmail(s) || usernamePattern.MatchString(s) {
		return nil
	}
	return errors.New(MsgIdentifierInvalid)
}

// StrongPassword is at least 8 characters with a digit, an uppercase letter,
// a lowercase letter and a symbol.
func StrongPassword(s string) bool {
	if len([]rune(s)) < 8 {
		return false
	}
	var digit, upper, lower, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case r != '_' && !unicode.IsLetter(r):
			symbol = true
		}
	}
	return digit && upper && lower && symbol
}

func strongPassword(value interface{}) error {
	s, _ := value.(string)
	if s == "" || StrongPassword(s) {
		return nil
	}
	return errors.New(MsgPasswordWeak)
}

func stringEquals(str string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != str {
			return errors.New(MsgPasswordsMismatch)
		}
		return nil
	}
}

type LoginForm struct {
	Identifier string `json:"email"`
	Password   string `json:"password"`
}

func (f LoginForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Identifier, validation.Required.Error(MsgIdentifierRequired), validation.By(emailOrUsername)),
		validation.Field(&f.Password, validation.Required.Error(MsgPasswordRequired)),
	)
}

type RegisterForm struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	FirstName       string `json:"firstname"`
	LastName        string `json:"lastname"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (f RegisterForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required, is.Email),
		validation.Field(&f.Username,
			validation.Required,
			validation.Length(3, 30),
			validation.Match(usernamePattern).Error("must contain only letters and digits"),
		),
		validation.Field(&f.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.LastName, validation.Length(0, 200)),
		validation.Field(&f.Password, validation.Required.Error(MsgPasswordRequired), validation.By(strongPassword)),
		validation.Field(&f.ConfirmPassword, validation.Required, validation.By(stringEquals(f.Password))),
	)
}

func (f RegisterForm) Registration() models.Registration {
	return models.Registration{
		Email:           f.Email,
		Username:        f.Username,
		Name:            models.Name{First: f.FirstName, Last: f.LastName},
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
	}
}

type ResetForm struct {
	Identifier string `json:"email"`
}

func (f ResetForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Identifier, validation.Required.Error(MsgIdentifierRequired), validation.By(emailOrUsername)),
	)
}

type ResetLinkForm struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (f ResetLinkForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Password, validation.Required.Error(MsgPasswordRequired), validation.By(strongPassword)),
		validation.Field(&f.ConfirmPassword, validation.By(stringEquals(f.Password))),
	)
}

type VerifyForm struct {
	OTP string `json:"otp"`
}

func (f VerifyForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.OTP, validation.Required, validation.Match(otpPattern).Error("must be 6 digits")),
	)
}

// FieldErrors flattens a validation error into field -> message. Other
// errors yield nil.
func FieldErrors(err error) map[string]string {
	var ve validation.Errors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string]string, len(ve))
	for field, e := range ve {
		if e != nil {
			out[field] = e.Error()
		}
	}
	return out
}
