package config

import "time"

const envPrefix = "LEARNLY_"

// parseEnv overlays cfg with LEARNLY_* variables. Duration variables use Go
// duration syntax; a malformed one panics.
func parseEnv(cfg *Config, getenv func(string) string) {
	strs := map[string]*string{
		"BACKEND_URL":          &cfg.BackendURL,
		"FRONTEND_URL":         &cfg.FrontendURL,
		"APP_NAME":             &cfg.AppName,
		"GOOGLE_CLIENT_ID":     &cfg.GoogleClientID,
		"GOOGLE_CLIENT_SECRET": &cfg.GoogleClientSecret,
		"DATA_DIR":             &cfg.DataDir,
		"LOG_LEVEL":            &cfg.LogLevel,
	}
	for name, dst := range strs {
		setString(dst, getenv(envPrefix+name))
	}

	durations := map[string]*time.Duration{
		"RENEWAL_INTERVAL":   &cfg.RenewalInterval,
		"POST_SUCCESS_DELAY": &cfg.PostSuccessDelay,
		"REQUEST_TIMEOUT":    &cfg.RequestTimeout,
	}
	for name, dst := range durations {
		v := getenv(envPrefix + name)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		*dst = d
	}
}
