// Package app wires configuration, storage, clients and services together.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hansonchs/portfolio-tracker/internal/clients/gemini"
	"github.com/hansonchs/portfolio-tracker/internal/clients/yahoo"
	"github.com/hansonchs/portfolio-tracker/internal/common"
	"github.com/hansonchs/portfolio-tracker/internal/interfaces"
	"github.com/hansonchs/portfolio-tracker/internal/services/extract"
	"github.com/hansonchs/portfolio-tracker/internal/services/portfolio"
	"github.com/hansonchs/portfolio-tracker/internal/services/quote"
	"github.com/hansonchs/portfolio-tracker/internal/storage"
)

// App holds all initialized services, clients and storage. It is the shared
// core behind cmd/portfolio-server.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	PriceClient      interfaces.PriceClient
	GeminiClient     interfaces.ExtractionClient
	QuoteService     interfaces.QuoteService
	PortfolioService interfaces.PortfolioService
	ExtractService   interfaces.ExtractionService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, clients and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Load configuration - check provided path, PORTFOLIO_CONFIG, then
	// binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("PORTFOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "portfolio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/portfolio.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	priceClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithLogger(logger),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
	)

	var geminiClient interfaces.ExtractionClient
	if config.Clients.Gemini.APIKey != "" {
		client, err := gemini.NewClient(context.Background(), config.Clients.Gemini.APIKey,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client - screenshot extraction will be unavailable")
		} else {
			geminiClient = client
		}
	} else {
		logger.Warn().Msg("Gemini API key not configured - screenshot extraction will be unavailable")
	}

	quoteService := quote.NewService(priceClient, logger)
	portfolioService := portfolio.NewService(storageManager, quoteService, logger)
	extractService := extract.NewService(geminiClient, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		PriceClient:      priceClient,
		GeminiClient:     geminiClient,
		QuoteService:     quoteService,
		PortfolioService: portfolioService,
		ExtractService:   extractService,
		StartupTime:      startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
