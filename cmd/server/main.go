package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	engine "github.com/smackdown/crazy8/engine"
	"github.com/smackdown/crazy8/internal/cache"
	"github.com/smackdown/crazy8/internal/config"
	"github.com/smackdown/crazy8/internal/database"
	"github.com/smackdown/crazy8/internal/game"
	"github.com/smackdown/crazy8/internal/gateway"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config")
	}
	cfg.ConfigureLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RedisURL != "" {
		if err := cache.ConnectRedis(ctx, cfg.RedisURL); err != nil {
			log.WithError(err).Warn("redis unavailable, action journal disabled")
		} else {
			defer cache.Close()
			log.Info("action journal enabled")
		}
	}
	if cfg.DatabaseURL != "" {
		if err := database.Connect(ctx, cfg.DatabaseURL); err != nil {
			log.WithError(err).Warn("postgres unavailable, results archive disabled")
		} else {
			defer database.Close()
			log.Info("results archive enabled")
		}
	}

	rules := engine.DefaultHouseRules()
	rules.CountdownWild = cfg.CountdownWild
	opts := game.DefaultOptions()
	opts.Rules = rules
	opts.BotDelay = cfg.BotDelay

	hub := gateway.NewHub(log)
	reg := game.NewRegistry(log, opts, hub)
	defer reg.Close()

	mux := http.NewServeMux()
	mux.Handle("/ws", gateway.NewServer(log, reg, hub, cfg.AllowedOrigins))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("shutdown")
		}
	}()

	log.WithField("addr", cfg.Addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("serve")
	}
	log.Info("server stopped")
}
