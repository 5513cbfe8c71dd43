package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/room-lending/internal/auth"
	"github.com/example/room-lending/internal/booking"
	"github.com/example/room-lending/internal/config"
	"github.com/example/room-lending/internal/directory"
	httptransport "github.com/example/room-lending/internal/http"
	"github.com/example/room-lending/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(parseLevel(cfg.LogLevel))

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	owners := directory.NewOwners(idGenerator, now)
	organizations := directory.NewOrganizations(idGenerator, now)
	members := directory.NewMembers(idGenerator, now)

	authService := auth.NewService(owners, organizations, members, nil, tokenGenerator, now, cfg.SessionTTL, logger)
	engine := booking.NewServiceWithOptions(owners, members, idGenerator, now, cfg.Horizon(), logger)

	metrics := httptransport.NewMetrics()
	router := httptransport.NewRouter(httptransport.RouterDeps{
		Auth:      httptransport.NewAuthHandler(authService, logger),
		Directory: httptransport.NewDirectoryHandler(owners, organizations, members, logger),
		Rooms:     httptransport.NewRoomHandler(engine, logger),
		Bookings:  httptransport.NewBookingHandler(engine, logger),
		Sessions:  authService,
		Metrics:   metrics,
		Logger:    logger,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("room lending API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func randomHex(bytes int) string {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(buf)
}
