package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is the dotenv file merged into the environment before resolution.
const DefaultEnvFile = ".env"

// Environment variable base names.
const (
	debugKey        = "DEBUG"
	allowedHostsKey = "ALLOWED_HOSTS"
	secretKeyKey    = "SECRET_KEY"
	databaseKey     = "DATABASE"
	corsKey         = "CORS"
)

const redactedSecret = "********"

// Settings is the stage-resolved application configuration. It is built once
// by Resolve and treated as read-only afterwards.
type Settings struct {
	Stage              Stage                `yaml:"stage"`
	Debug              bool                 `yaml:"debug"`
	AllowedHosts       []string             `yaml:"allowed_hosts"`
	SecretKey          string               `yaml:"secret_key"`
	Database           ConnectionDescriptor `yaml:"database"`
	CORSAllowedOrigins []string             `yaml:"cors_allowed_origins"`
	Hardening          Hardening            `yaml:"hardening"`
	Framework          Framework            `yaml:"framework"`
}

// Resolve builds Settings from the process environment.
func Resolve() (Settings, error) {
	return ResolveFrom(EnvSource{})
}

// ResolveFrom builds Settings from src. The stage is read first and every
// stage-scoped key is qualified with its upper-cased value.
func ResolveFrom(src Source) (Settings, error) {
	stage := resolveStage(src)

	debug, err := boolSetting(src, stage.Qualify(debugKey), false)
	if err != nil {
		return Settings{}, err
	}

	secret, err := requiredString(src, secretKeyKey)
	if err != nil {
		return Settings{}, err
	}

	db, err := databaseSetting(src, stage.Qualify(databaseKey), DefaultDatabaseURL)
	if err != nil {
		return Settings{}, err
	}

	origins, err := requiredList(src, stage.Qualify(corsKey))
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		Stage:              stage,
		Debug:              debug,
		AllowedHosts:       listSetting(src, stage.Qualify(allowedHostsKey), nil),
		SecretKey:          secret,
		Database:           db,
		CORSAllowedOrigins: origins,
		Hardening:          HardeningFor(stage),
		Framework:          DefaultFramework(),
	}, nil
}

// LoadDotEnv merges KEY=value lines from path into the process environment.
// Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Redacted returns a copy safe to print: the secret key and database
// password are masked.
func (s Settings) Redacted() Settings {
	out := s
	if out.SecretKey != "" {
		out.SecretKey = redactedSecret
	}
	out.Database.Password = ""
	return out
}
