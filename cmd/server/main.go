package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/alx-travel/alx-travel-app/internal/application"
	"github.com/alx-travel/alx-travel-app/internal/config"
	"github.com/alx-travel/alx-travel-app/internal/logging"
	"github.com/alx-travel/alx-travel-app/internal/passwords"
)

var signalNotify = signal.Notify

type cliFlags struct {
	configFile     *string
	envFile        *string
	stage          *string
	port           *string
	rateLimitRPS   *float64
	rateLimitBurst *int
}

func main() {
	kingpinApp := kingpin.New("alx-travel-app", "ALX Travel App - stage-driven settings and API server")
	flags := cliFlags{
		configFile:     kingpinApp.Flag("config", "Path to YAML configuration file").String(),
		envFile:        kingpinApp.Flag("env-file", "Path to dotenv file merged into the environment").Default(config.DefaultEnvFile).String(),
		stage:          kingpinApp.Flag("stage", "Deployment stage, overrides STAGE").String(),
		port:           kingpinApp.Flag("port", "HTTP port exposed by the service").String(),
		rateLimitRPS:   kingpinApp.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64(),
		rateLimitBurst: kingpinApp.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int(),
	}

	serveCmd := kingpinApp.Command("serve", "Resolve settings and run the HTTP server").Default()
	settingsCmd := kingpinApp.Command("settings", "Print the resolved settings with secrets redacted")
	hashCmd := kingpinApp.Command("hash-password", "Validate a password read from stdin and print its encoded hash")
	username := hashCmd.Flag("username", "Username checked by the similarity validator").String()
	email := hashCmd.Flag("email", "Email checked by the similarity validator").String()

	command := kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	switch command {
	case hashCmd.FullCommand():
		attrs := passwords.UserAttributes{"username": *username, "email": *email}
		if err := hashPassword(os.Stdin, os.Stdout, config.DefaultFramework(), attrs); err != nil {
			kingpinApp.Fatalf("%v", err)
		}
		return
	case settingsCmd.FullCommand():
		cfg, err := config.Load(flags.overrides())
		if err != nil {
			kingpinApp.Fatalf("failed to load configuration: %v", err)
		}
		if err := printSettings(os.Stdout, cfg.Settings); err != nil {
			kingpinApp.Fatalf("%v", err)
		}
		return
	case serveCmd.FullCommand():
		serve(flags.overrides())
	}
}

func (f cliFlags) overrides() *config.CLIOverrides {
	overrides := &config.CLIOverrides{
		ConfigFile: *f.configFile,
		EnvFile:    *f.envFile,
	}

	if *f.stage != "" {
		overrides.Stage = f.stage
	}

	if *f.port != "" {
		overrides.Port = f.port
	}

	if *f.rateLimitRPS >= 0 {
		overrides.RateLimitRPS = f.rateLimitRPS
	}

	if *f.rateLimitBurst >= 0 {
		overrides.RateLimitBurst = f.rateLimitBurst
	}

	return overrides
}

func serve(overrides *config.CLIOverrides) {
	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.Settings.Debug)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}()

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}

func printSettings(w io.Writer, settings config.Settings) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(settings.Redacted()); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return enc.Close()
}

func hashPassword(r io.Reader, w io.Writer, framework config.Framework, attrs passwords.UserAttributes) error {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return errors.New("password must not be empty")
	}

	validators, err := passwords.ValidatorsFromNames(framework.PasswordValidators)
	if err != nil {
		return err
	}
	if err := passwords.Validate(password, attrs, validators...); err != nil {
		return fmt.Errorf("password rejected: %w", err)
	}

	registry, err := passwords.NewRegistryFromNames(framework.PasswordHashers)
	if err != nil {
		return err
	}
	encoded, err := registry.Encode(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = fmt.Fprintln(w, encoded)
	return err
}
