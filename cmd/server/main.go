package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/GriffinCanCode/ptyhub/internal/infrastructure/config"
	"github.com/GriffinCanCode/ptyhub/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ptyhub/internal/infrastructure/server"
	"go.uber.org/zap"
)

func main() {
	configFile := flag.String("config", "", "YAML or TOML config file, applied over the environment")
	port := flag.String("port", "8000", "Server port")
	host := flag.String("host", "127.0.0.1", "Listen address")
	dev := flag.Bool("dev", false, "Development logging")
	shell := flag.String("shell", "", "Shell started in each terminal session (default $SHELL)")
	flag.Parse()

	// Startup logger, used until the configured one exists
	boot := logging.NewDefault()
	if *dev {
		boot = logging.NewDevelopment()
	}
	defer boot.Sync()

	cfg, err := loadConfig(*configFile, boot)
	if err != nil {
		boot.Fatal("Failed to load configuration", zap.String("file", *configFile), zap.Error(err))
	}

	// Flags override the environment and the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = *port
		case "host":
			cfg.Server.Host = *host
		case "dev":
			cfg.Logging.Development = *dev
		case "shell":
			cfg.Terminal.Shell = *shell
		}
	})
	if err := cfg.Validate(); err != nil {
		boot.Fatal("Invalid configuration", zap.Error(err))
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		boot.Fatal("Failed to create server", zap.Error(err))
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		srv.Close()
		boot.Fatal("Server error", zap.Error(err))
	}
}

func loadConfig(path string, logger *logging.Logger) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("Invalid environment configuration, using defaults", zap.Error(err))
		return config.Default(), nil
	}
	return cfg, nil
}
