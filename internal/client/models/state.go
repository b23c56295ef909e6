package models

// LoginError is the structured login failure. At most one field is set:
// Recognition (unknown identifier), Password (credential mismatch) or
// Account (anything else, including network failures).
type LoginError struct {
	Recognition string `json:"recognition,omitempty"`
	Password    string `json:"password,omitempty"`
	Account     string `json:"account,omitempty"`
}

func (e LoginError) IsZero() bool {
	return e == LoginError{}
}

// Message returns whichever field is populated.
func (e LoginError) Message() string {
	switch {
	case e.Recognition != "":
		return e.Recognition
	case e.Password != "":
		return e.Password
	default:
		return e.Account
	}
}

func RecognitionError(msg string) LoginError { return LoginError{Recognition: msg} }
func PasswordError(msg string) LoginError    { return LoginError{Password: msg} }
func AccountError(msg string) LoginError     { return LoginError{Account: msg} }

// AuthState is the snapshot owned by the auth store.
//
// Ready is false while a fetch-user, login or refresh request is in flight.
// Authenticated with a nil User is transient: the session either refreshes
// or forces a logout.
type AuthState struct {
	User          *User
	Authenticated bool
	Ready         bool
	Error         LoginError
}

// Clone deep-copies the state so callers can hold it without locks.
func (s AuthState) Clone() AuthState {
	s.User = s.User.Clone()
	return s
}

// LoggedIn reports a settled, authenticated session.
func (s AuthState) LoggedIn() bool {
	return s.Ready && s.Authenticated
}

// LoggedOut reports a settled, anonymous session.
func (s AuthState) LoggedOut() bool {
	return s.Ready && !s.Authenticated
}
