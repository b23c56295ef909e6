package config

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Validate reports missing or malformed settings. The client refuses to
// start without a backend, a frontend and an application name.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BackendURL, validation.Required, is.RequestURL),
		validation.Field(&c.FrontendURL, validation.Required, is.RequestURL),
		validation.Field(&c.AppName, validation.Required),
		validation.Field(&c.GoogleClientSecret, validation.By(c.requireWithClientID)),
		validation.Field(&c.RenewalInterval, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.PostSuccessDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.RequestTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "warning", "error")),
	)
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != ""
}

func (c *Config) requireWithClientID(value interface{}) error {
	s, _ := value.(string)
	if c.GoogleClientID != "" && s == "" {
		return errors.New("is required when a Google client id is set")
	}
	return nil
}
