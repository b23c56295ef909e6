// Package config loads runtime configuration for the Learnly client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables prefixed with LEARNLY_ (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-b string   backend base URL
//	-f string   frontend base URL
//	-r int      access token renewal interval (seconds)
//	-d string   data directory
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "3h" or integer
// nanoseconds:
//
//	{
//	  "backend_url": "https://api.learnly.example",
//	  "frontend_url": "https://learnly.example",
//	  "app_name": "Learnly",
//	  "google_client_id": "...apps.googleusercontent.com",
//	  "renewal_interval": "3h",
//	  "post_success_delay": "3s"
//	}
//
// Validate must be called before the configuration is used.
package config
