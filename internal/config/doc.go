// Package config resolves the application's startup configuration.
//
// Stage-scoped settings are read from the environment (optionally seeded from
// a .env file): STAGE selects the deployment stage, defaulting to production,
// and keys such as DEBUG, ALLOWED_HOSTS, DATABASE and CORS are looked up with
// the upper-cased stage appended (DEBUG_PRODUCTION). SECRET_KEY is not
// stage-scoped. Production additionally gets a fixed security hardening
// bundle.
//
// Server tuning (port, timeouts, rate limit) is layered with precedence:
// CLI flags > YAML config > Environment variables > Defaults.
package config
