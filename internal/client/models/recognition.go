package models

import "regexp"

// emailPattern is the loose check used to tell an email from a username.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Recognition identifies the account a login or reset request targets.
// Exactly one field is populated.
type Recognition struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}

// NewRecognition classifies raw input: anything matching the email pattern
// is sent as an email, everything else as a username.
func NewRecognition(input string) Recognition {
	if IsEmail(input) {
		return Recognition{Email: input}
	}
	return Recognition{Username: input}
}

func IsEmail(input string) bool {
	return emailPattern.MatchString(input)
}

// Credentials is the login request body.
type Credentials struct {
	Recognition Recognition `json:"recognition"`
	Password    string      `json:"password"`
}

// Registration is the register request body.
type Registration struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Name            Name   `json:"name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}
