package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/learnly/internal/flagx"
	"github.com/dmitrijs2005/learnly/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration so they may be written as "3h" or integer nanoseconds.
type JsonConfig struct {
	BackendURL         string         `json:"backend_url"`
	FrontendURL        string         `json:"frontend_url"`
	AppName            string         `json:"app_name"`
	GoogleClientID     string         `json:"google_client_id"`
	GoogleClientSecret string         `json:"google_client_secret"`
	DataDir            string         `json:"data_dir"`
	RenewalInterval    timex.Duration `json:"renewal_interval"`
	PostSuccessDelay   timex.Duration `json:"post_success_delay"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	LogLevel           string         `json:"log_level"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays cfg with the JSON file named by -c/-config. Keys that
// are absent leave the current value alone. Read or decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.BackendURL, jc.BackendURL)
	setString(&cfg.FrontendURL, jc.FrontendURL)
	setString(&cfg.AppName, jc.AppName)
	setString(&cfg.GoogleClientID, jc.GoogleClientID)
	setString(&cfg.GoogleClientSecret, jc.GoogleClientSecret)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RenewalInterval.Duration != 0 {
		cfg.RenewalInterval = jc.RenewalInterval.Duration
	}
	if jc.PostSuccessDelay.Duration != 0 {
		cfg.PostSuccessDelay = jc.PostSuccessDelay.Duration
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
