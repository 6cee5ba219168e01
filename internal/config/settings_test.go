package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestResolveFromDefaultsPerStage(t *testing.T) {
	for _, stage := range []string{"development", "production", "staging", "dev"} {
		t.Run(stage, func(t *testing.T) {
			suffix := Stage(stage).Suffix()
			src := MapSource{
				"STAGE":          stage,
				"SECRET_KEY":     "s3cret",
				"CORS_" + suffix: "https://example.com",
			}

			got, err := ResolveFrom(src)
			if err != nil {
				t.Fatalf("ResolveFrom returned error: %v", err)
			}
			if got.Debug {
				t.Fatalf("expected debug default false")
			}
			if len(got.AllowedHosts) != 0 {
				t.Fatalf("expected empty allowed hosts, got %v", got.AllowedHosts)
			}
			if got.Database.Engine != EngineSQLite || got.Database.Name != "mysqlite.sqlite3" {
				t.Fatalf("expected default sqlite descriptor, got %+v", got.Database)
			}
		})
	}
}

func TestResolveFromUsesQualifiedValues(t *testing.T) {
	src := MapSource{
		"STAGE":                 "staging",
		"SECRET_KEY":            "abc",
		"DEBUG_STAGING":         "Yes",
		"ALLOWED_HOSTS_STAGING": "api.example.com, .example.org",
		"DATABASE_STAGING":      "postgres://app:pw@db.internal:6543/travel",
		"CORS_STAGING":          "https://a.example.com,https://b.example.com",
		"DEBUG_PRODUCTION":      "false",
	}

	got, err := ResolveFrom(src)
	if err != nil {
		t.Fatalf("ResolveFrom returned error: %v", err)
	}
	if !got.Debug {
		t.Fatalf("expected debug to be read from DEBUG_STAGING")
	}
	if want := []string{"api.example.com", ".example.org"}; !slices.Equal(got.AllowedHosts, want) {
		t.Fatalf("expected hosts %v, got %v", want, got.AllowedHosts)
	}
	if got.Database.Engine != EnginePostgres || got.Database.Port != 6543 || got.Database.Name != "travel" {
		t.Fatalf("unexpected database descriptor %+v", got.Database)
	}
	if want := []string{"https://a.example.com", "https://b.example.com"}; !slices.Equal(got.CORSAllowedOrigins, want) {
		t.Fatalf("expected origins %v, got %v", want, got.CORSAllowedOrigins)
	}
}

func TestResolveFromUpperCasesStageForLookups(t *testing.T) {
	src := MapSource{
		"STAGE":      "dev",
		"SECRET_KEY": "abc",
		"DEBUG_DEV":  "true",
		"CORS_DEV":   "http://localhost:3000",
		"debug_dev":  "false",
	}

	got, err := ResolveFrom(src)
	if err != nil {
		t.Fatalf("ResolveFrom returned error: %v", err)
	}
	if got.Stage != "dev" {
		t.Fatalf("expected stage to be preserved, got %q", got.Stage)
	}
	if !got.Debug {
		t.Fatalf("expected DEBUG_DEV lookup")
	}
}

func TestResolveFromDevelopmentScenario(t *testing.T) {
	src := MapSource{
		"STAGE":                     "development",
		"DEBUG_DEVELOPMENT":         "true",
		"ALLOWED_HOSTS_DEVELOPMENT": "localhost,127.0.0.1",
		"SECRET_KEY":                "abc",
		"CORS_DEVELOPMENT":          "http://localhost:3000",
	}

	got, err := ResolveFrom(src)
	if err != nil {
		t.Fatalf("ResolveFrom returned error: %v", err)
	}
	if !got.Debug {
		t.Fatalf("expected debug true")
	}
	if want := []string{"localhost", "127.0.0.1"}; !slices.Equal(got.AllowedHosts, want) {
		t.Fatalf("expected hosts %v, got %v", want, got.AllowedHosts)
	}
	if got.Hardening.Enabled() {
		t.Fatalf("expected no hardening outside production, got %+v", got.Hardening)
	}
}

func TestResolveFromDefaultsToProduction(t *testing.T) {
	t.Run("hardened", func(t *testing.T) {
		got, err := ResolveFrom(MapSource{
			"SECRET_KEY":      "abc",
			"CORS_PRODUCTION": "https://travel.example.com",
		})
		if err != nil {
			t.Fatalf("ResolveFrom returned error: %v", err)
		}
		if got.Stage != StageProduction {
			t.Fatalf("expected production stage, got %q", got.Stage)
		}
		if got.Hardening != HardeningFor(StageProduction) {
			t.Fatalf("expected production hardening, got %+v", got.Hardening)
		}
		if got.Database.Engine != EngineSQLite {
			t.Fatalf("expected embedded database default, got %+v", got.Database)
		}
	})

	t.Run("requires CORS_PRODUCTION", func(t *testing.T) {
		_, err := ResolveFrom(MapSource{"SECRET_KEY": "abc", "CORS_DEVELOPMENT": "http://x"})
		if !errors.Is(err, ErrMissingRequiredSetting) {
			t.Fatalf("expected missing setting error, got %v", err)
		}
		var settingErr *SettingError
		if !errors.As(err, &settingErr) || settingErr.Key != "CORS_PRODUCTION" {
			t.Fatalf("expected error for CORS_PRODUCTION, got %v", err)
		}
	})
}

func TestResolveFromRequiresSecretKey(t *testing.T) {
	for _, stage := range []string{"", "development", "production", "qa"} {
		src := MapSource{
			"STAGE":            stage,
			"CORS_DEVELOPMENT": "http://localhost:3000",
			"CORS_PRODUCTION":  "https://example.com",
			"CORS_QA":          "https://qa.example.com",
			"SECRET_KEY":       "   ",
		}
		_, err := ResolveFrom(src)
		if !errors.Is(err, ErrMissingRequiredSetting) {
			t.Fatalf("stage %q: expected missing SECRET_KEY, got %v", stage, err)
		}
	}
}

func TestResolveFromMalformedValues(t *testing.T) {
	base := func() MapSource {
		return MapSource{
			"STAGE":            "development",
			"SECRET_KEY":       "abc",
			"CORS_DEVELOPMENT": "http://localhost:3000",
		}
	}

	cases := map[string]string{
		"DEBUG_DEVELOPMENT":    "maybe",
		"DATABASE_DEVELOPMENT": "oracle://db/app",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			src := base()
			src[key] = value
			_, err := ResolveFrom(src)
			if !errors.Is(err, ErrMalformedValue) {
				t.Fatalf("expected malformed value error, got %v", err)
			}
		})
	}
}

func TestResolveFromProductionDatabaseDefault(t *testing.T) {
	got, err := ResolveFrom(MapSource{
		"STAGE":                "production",
		"SECRET_KEY":           "abc",
		"CORS_PRODUCTION":      "https://example.com",
		"DATABASE_DEVELOPMENT": "postgres://u:p@db/dev",
	})
	if err != nil {
		t.Fatalf("ResolveFrom returned error: %v", err)
	}
	want, _ := ParseDatabaseURL(DefaultDatabaseURL)
	if got.Database.String() != want.String() {
		t.Fatalf("expected %s, got %s", want, got.Database)
	}
}

func TestResolveReadsProcessEnvironment(t *testing.T) {
	t.Setenv("STAGE", "development")
	t.Setenv("SECRET_KEY", "from-env")
	t.Setenv("CORS_DEVELOPMENT", "http://localhost:5173")
	t.Setenv("DEBUG_DEVELOPMENT", "1")

	got, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got.SecretKey != "from-env" || !got.Debug {
		t.Fatalf("unexpected settings %+v", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("merges without overriding", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		content := "DOTENV_TEST_NEW=from-file\nDOTENV_TEST_EXISTING=from-file\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write env file: %v", err)
		}
		t.Setenv("DOTENV_TEST_EXISTING", "from-process")
		t.Setenv("DOTENV_TEST_NEW", "")
		os.Unsetenv("DOTENV_TEST_NEW")

		if err := LoadDotEnv(path); err != nil {
			t.Fatalf("LoadDotEnv returned error: %v", err)
		}
		if got := os.Getenv("DOTENV_TEST_NEW"); got != "from-file" {
			t.Fatalf("expected value from file, got %q", got)
		}
		if got := os.Getenv("DOTENV_TEST_EXISTING"); got != "from-process" {
			t.Fatalf("expected process value to win, got %q", got)
		}
	})
}

func TestSettingsRedacted(t *testing.T) {
	s := Settings{SecretKey: "abc", Database: ConnectionDescriptor{Engine: EnginePostgres, Password: "pw"}}
	r := s.Redacted()
	if r.SecretKey == "abc" || r.Database.Password != "" {
		t.Fatalf("expected secrets to be masked, got %+v", r)
	}
	if s.SecretKey != "abc" {
		t.Fatalf("Redacted must not mutate the receiver")
	}
}

func TestLayeredSource(t *testing.T) {
	src := Layered{MapSource{"A": "first"}, nil, MapSource{"A": "second", "B": "b"}}
	if v, _ := src.Lookup("A"); v != "first" {
		t.Fatalf("expected first layer to win, got %q", v)
	}
	if v, ok := src.Lookup("B"); !ok || v != "b" {
		t.Fatalf("expected fallthrough to later layer")
	}
	if _, ok := src.Lookup("C"); ok {
		t.Fatalf("expected miss")
	}
}

func TestParseBool(t *testing.T) {
	for _, tok := range []string{"true", "TRUE", "on", "Yes", "y", "1", "ok"} {
		if v, err := parseBool(tok); err != nil || !v {
			t.Fatalf("expected %q to parse as true", tok)
		}
	}
	for _, tok := range []string{"false", "Off", "NO", "n", "0"} {
		if v, err := parseBool(tok); err != nil || v {
			t.Fatalf("expected %q to parse as false", tok)
		}
	}
	if _, err := parseBool("2"); err == nil {
		t.Fatalf("expected error for unknown token")
	}
}

func TestResolveHardeningRequiresExactProductionStage(t *testing.T) {
	settings, err := ResolveFrom(MapSource{
		"STAGE":           "Production",
		"SECRET_KEY":      "x",
		"CORS_PRODUCTION": "https://a.example.com",
	})
	if err != nil {
		t.Fatalf("ResolveFrom returned error: %v", err)
	}
	if settings.Hardening.Enabled() {
		t.Fatalf("expected no hardening for stage %q, got %+v", settings.Stage, settings.Hardening)
	}
	if got := settings.CORSAllowedOrigins; len(got) != 1 || got[0] != "https://a.example.com" {
		t.Fatalf("expected CORS_PRODUCTION to be read, got %v", got)
	}
}
