package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/Tharoon321/events-api/config"
	"github.com/Tharoon321/events-api/controllers"
	"github.com/Tharoon321/events-api/logger"
	"github.com/Tharoon321/events-api/notify"
	"github.com/Tharoon321/events-api/server"
	"github.com/Tharoon321/events-api/store"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Setup("development", "info")
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Setup(cfg.Env, cfg.LogLevel)

	// Connect to MongoDB
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	client, db, err := config.ConnectDB(connectCtx, cfg)
	cancelConnect()
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to MongoDB")
	}

	st := store.NewMongo(db)
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	if err := st.EnsureIndexes(indexCtx); err != nil {
		log.Warn().Err(err).Msg("could not ensure indexes")
	}
	cancelIndex()

	var publisher notify.Publisher = notify.Nop{}
	if cfg.NATSURL != "" {
		natsCtx, cancelNATS := context.WithTimeout(context.Background(), 10*time.Second)
		js, err := notify.NewJetStream(natsCtx, cfg.NATSURL, cfg.NATSSubjectPrefix)
		cancelNATS()
		if err != nil {
			log.Fatal().Err(err).Msg("could not set up event publisher")
		}
		publisher = js
		log.Info().Str("subject_prefix", cfg.NATSSubjectPrefix).Msg("publishing event notifications")
	}

	router := server.NewRouter(cfg, server.Deps{
		Events: controllers.NewEventController(st, publisher, clockwork.NewRealClock(), cfg.RequestTimeout),
		Teams:  controllers.NewTeamController(st, cfg.RequestTimeout),
		Pinger: st,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine for graceful shutdown
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Bool("auth", cfg.AuthEnabled()).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	if err := publisher.Close(); err != nil {
		log.Error().Err(err).Msg("error closing event publisher")
	}

	if err := client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("error disconnecting MongoDB")
	} else {
		log.Info().Msg("MongoDB disconnected")
	}

	log.Info().Msg("server exited")
}
