package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrongPassword(t *testing.T) {
	tests := []struct {
		pw   string
		want bool
	}{
		{"Str0ng!pw", true},
		{"Aa1!aaaa", true},
		{"Aa1!aaa", false},
		{"alllower1!", false},
		{"ALLUPPER1!", false},
		{"NoDigits!!", false},
		{"NoSymbol11", false},
		{"Under_sc0re", false},
		{"Spa ce1Aa", true},
	}
	for _, tt := range tests {
		t.Run(tt.pw, func(t *testing.T) {
			assert.Equal(t, tt.want, StrongPassword(tt.pw))
		})
	}
}

func TestLoginForm_Validate(t *testing.T) {
	tests := []struct {
		name string
		form LoginForm
		want map[string]string
	}{
		{"email", LoginForm{Identifier: "a@b.co", Password: "x"}, nil},
		{"username", LoginForm{Identifier: "jane42", Password: "x"}, nil},
		{"empty", LoginForm{}, map[string]string{"email": MsgIdentifierRequired, "password": MsgPasswordRequired}},
		{"malformed email", LoginForm{Identifier: "jane@localhost", Password: "x"}, map[string]string{"email": MsgIdentifierInvalid}},
		{"punctuation", LoginForm{Identifier: "jane.doe", Password: "x"}, map[string]string{"email": MsgIdentifierInvalid}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.want, FieldErrors(err))
		})
	}
}

func TestRegisterForm_Validate(t *testing.T) {
	valid := RegisterForm{
		Email: "jane@example.com", Username: "jane", FirstName: "Jane",
		Password: "Str0ng!pw", ConfirmPassword: "Str0ng!pw",
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.Email = "nope"
	bad.Username = "ja ne"
	bad.FirstName = ""
	bad.Password = "weak"
	bad.ConfirmPassword = "other"

	errs := FieldErrors(bad.Validate())
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "firstname")
	assert.Equal(t, MsgPasswordWeak, errs["password"])
	assert.Equal(t, MsgPasswordsMismatch, errs["confirmPassword"])
	assert.NotContains(t, errs, "lastname")
}

func TestRegisterForm_Registration(t *testing.T) {
	f := RegisterForm{Email: "a@b.co", Username: "jane", FirstName: "Jane", LastName: "Doe", Password: "p", ConfirmPassword: "p"}
	r := f.Registration()
	assert.Equal(t, "Jane Doe", r.Name.Full())
	assert.Equal(t, "p", r.ConfirmPassword)
}

func TestResetLinkForm_Validate(t *testing.T) {
	require.NoError(t, ResetLinkForm{Password: "Str0ng!pw", ConfirmPassword: "Str0ng!pw"}.Validate())

	errs := FieldErrors(ResetLinkForm{Password: "Str0ng!pw", ConfirmPassword: ""}.Validate())
	assert.Equal(t, map[string]string{"confirmPassword": MsgPasswordsMismatch}, errs)

	errs = FieldErrors(ResetLinkForm{Password: "short", ConfirmPassword: "short"}.Validate())
	assert.Equal(t, map[string]string{"password": MsgPasswordWeak}, errs)
}

func TestResetAndVerifyForms(t *testing.T) {
	require.NoError(t, ResetForm{Identifier: "jane"}.Validate())
	require.Error(t, ResetForm{}.Validate())

	require.NoError(t, VerifyForm{OTP: "123456"}.Validate())
	assert.Contains(t, FieldErrors(VerifyForm{OTP: "12a456"}.Validate()), "otp")
	assert.Contains(t, FieldErrors(VerifyForm{}.Validate()), "otp")
}

func TestFieldErrors_NonValidation(t *testing.T) {
	assert.Nil(t, FieldErrors(assert.AnError))
}
