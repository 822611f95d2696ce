package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	authsvc "kisansetu/internal/app/services/auth"
	chatsvc "kisansetu/internal/app/services/chat"
	listingsvc "kisansetu/internal/app/services/listings"
	marketsvc "kisansetu/internal/app/services/market"
	domainchat "kisansetu/internal/domain/chat"
	domainlistings "kisansetu/internal/domain/listings"
	domainmarket "kisansetu/internal/domain/market"
	domainuser "kisansetu/internal/domain/user"
	"kisansetu/internal/infra/broker/kafka"
	"kisansetu/internal/infra/config"
	mongodb "kisansetu/internal/infra/db/mongo"
	ginserver "kisansetu/internal/infra/http/gin"
	"kisansetu/internal/infra/obs"
	"kisansetu/internal/infra/security"
	"kisansetu/internal/infra/storage/memory"
	"kisansetu/internal/infra/ws"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", "error", err)
		os.Exit(1)
	}

	app, cleanup, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	fixturesPath := cfg.MarketFixtures
	if fixturesPath == "" {
		fixturesPath = defaultMarketFixturesPath()
	}
	if err := loadMarketFixtures(ctx, fixturesPath, app.prices, logger); err != nil {
		logger.Warn("market fixtures load failed", "error", err, "path", fixturesPath)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "env", cfg.Env)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	prices   domainmarket.Repository
	ready    func() error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, func(), error) {
	var (
		users    domainuser.Repository
		listings domainlistings.Repository
		messages domainchat.Repository
		cleanups []func()
	)
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	if cfg.MongoURI != "" {
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, cleanup, fmt.Errorf("mongo connect: %w", err)
		}
		if err := client.Ping(ctx); err != nil {
			return application{}, cleanup, fmt.Errorf("mongo ping: %w", err)
		}
		cleanups = append(cleanups, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Close(closeCtx); err != nil {
				logger.Warn("mongo disconnect failed", "error", err)
			}
		})
		users = mongodb.NewUserRepository(client.DB)
		listings = mongodb.NewListingRepository(client.DB)
		messages = mongodb.NewMessageRepository(client.DB)
		logger.Info("using mongodb storage", "db", cfg.MongoDB)
	} else {
		users = memory.NewUserRepository()
		listings = memory.NewListingRepository()
		messages = memory.NewMessageRepository()
		logger.Warn("MONGO_URI not set, using in-memory storage")
	}

	sessions := memory.NewSessionStore()
	prices := memory.NewPriceRepository()

	var events chatsvc.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return application{}, cleanup, fmt.Errorf("kafka producer: %w", err)
		}
		cleanups = append(cleanups, func() {
			if err := producer.Close(); err != nil {
				logger.Warn("kafka producer close failed", "error", err)
			}
		})
		events = producer
		logger.Info("chat event publishing enabled", "topic", cfg.ChatEventsTopic)
	}

	hub := ws.NewHub(logger)

	authService := &authsvc.Service{
		Users:      users,
		Sessions:   sessions,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}
	chatService := &chatsvc.Service{
		Messages: messages,
		Users:    users,
		Notifier: hub,
		Events:   events,
		Topic:    cfg.ChatEventsTopic,
		Logger:   logger,
	}
	listingService := &listingsvc.Service{
		Listings: listings,
		Users:    users,
		Logger:   logger,
	}
	marketService := &marketsvc.Service{Prices: prices}

	realtime := ws.NewHandler(hub, chatService, logger)

	handlers := ginserver.Handlers{
		Auth:           ginserver.AuthHandler{Service: authService, Logger: logger},
		Chat:           ginserver.ChatHandler{Service: chatService, Logger: logger},
		Listing:        ginserver.ListingHandler{Service: listingService, Logger: logger},
		Market:         ginserver.MarketHandler{Service: marketService, Logger: logger},
		Realtime:       realtime.Handle,
		AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
	}

	return application{
		handlers: handlers,
		prices:   prices,
		ready:    func() error { return nil },
	}, cleanup, nil
}

type marketFixture struct {
	Commodity   string  `json:"commodity"`
	Variety     string  `json:"variety"`
	Market      string  `json:"market"`
	District    string  `json:"district"`
	State       string  `json:"state"`
	MinPrice    float64 `json:"min_price"`
	MaxPrice    float64 `json:"max_price"`
	ModalPrice  float64 `json:"modal_price"`
	ArrivalDate string  `json:"arrival_date"`
}

func loadMarketFixtures(ctx context.Context, path string, prices domainmarket.Repository, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("market fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fixtures []marketFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}
	if len(fixtures) == 0 {
		return nil
	}

	now := time.Now()
	quotes := make([]domainmarket.Price, 0, len(fixtures))
	for _, fx := range fixtures {
		quotes = append(quotes, domainmarket.Price{
			Commodity:   fx.Commodity,
			Variety:     fx.Variety,
			Market:      fx.Market,
			District:    fx.District,
			State:       fx.State,
			MinPrice:    fx.MinPrice,
			MaxPrice:    fx.MaxPrice,
			ModalPrice:  fx.ModalPrice,
			ArrivalDate: parseFixtureTime(fx.ArrivalDate, now),
		})
	}
	if err := prices.ReplaceAll(ctx, quotes); err != nil {
		return err
	}
	logger.Info("market fixtures imported", "count", len(quotes))
	return nil
}

func parseFixtureTime(value string, fallback time.Time) time.Time {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t
	}
	return fallback
}

func defaultMarketFixturesPath() string {
	candidates := []string{
		filepath.Join("data", "market_prices.json"),
		filepath.Join("..", "data", "market_prices.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
