package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nara_fleet/internal/config"
	"nara_fleet/internal/fleet"
	"nara_fleet/internal/handlers"
	"nara_fleet/internal/logger"
	"nara_fleet/internal/metric"
	"nara_fleet/internal/models"
	"nara_fleet/internal/repository"
	"nara_fleet/internal/repository/db"
	"nara_fleet/internal/server"
	"nara_fleet/internal/service"
	"nara_fleet/internal/transport"

	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const (
	configDir       = "configs"
	shutdownTimeout = 10 * time.Second
	connectedMsg    = "Connected to MQTT Broker"
)

func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load configs/config.yml (+ NARA_* env)
	v := viper.New()
	cfg, err := config.Load(v, configDir)
	if err != nil {
		log.Fatalw("error reading config", "err", err)
	}
	log.SetLevel(cfg.LogLevel)

	// open DB
	sqlDB, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DB.Path)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// seed the fleet from the roster
	repos := repository.NewRepository(sqlDB, cfg.Roster.Path)
	store, err := loadStore(repos)
	if err != nil {
		log.Fatalw("failed to load roster", "err", err, "path", cfg.Roster.Path)
	}

	// context for background goroutines
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// wire dependencies
	metrics := metric.NewMetrics()
	history := service.NewHistoryService(fleet.NewEventLog(), repos.Journal, metrics, log.Named("history"))
	router := service.NewIngestRouter(cfg.MQTT.Topics, store, history, metrics, log.Named("ingest"))
	session := transport.NewSession(
		func(topic string, payload []byte) { _ = router.Handle(ctx, topic, payload) },
		transport.WithLogger(log.Named("mqtt")),
		transport.WithMetrics(metrics),
		transport.WithOnSubscribed(func() { history.Append(connectedMsg, models.KindStatus) }),
	)

	state := service.NewAppState()
	restoreSession(ctx, repos.Session, state, store, log)

	var watcher *config.Watcher
	services := service.NewService(service.Deps{
		Store:     store,
		State:     state,
		History:   history,
		Router:    router,
		Transport: session,
		Repos:     repos,
		Metrics:   metrics,
		Log:       log.Named("service"),
		OnReconfigure: func(c config.MQTTConfig) {
			watcher.Set(c)
		},
	})
	watcher = config.NewWatcher(v, cfg.MQTT, func(c config.MQTTConfig) {
		if err := services.Broker.Reconfigure(c); err != nil {
			log.Errorw("broker_reconfigure_failed", "err", err)
		}
	}, log.Named("config"))

	if err := session.Start(cfg.MQTT); err != nil {
		log.Fatalw("failed to start mqtt session", "err", err)
	}
	watcher.Start()

	apiHandler := handlers.NewHandler(services, metrics, log.Named("http"))
	srv := &server.Server{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return history.Run(gctx) })
	g.Go(func() error {
		log.Infow("http_listening", "port", cfg.Port)
		return srv.Run(cfg.Port, apiHandler.InitRoutes())
	})
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(session, srv, log)
	})

	if err := g.Wait(); err != nil {
		log.Errorw("exited with error", "err", err)
	}
	saveSession(repos.Session, state, log)
}

func loadStore(repos *repository.Repository) (*fleet.Store, error) {
	roster, err := repos.Roster.Load()
	if err != nil {
		return nil, err
	}
	return fleet.NewStore(roster)
}

func restoreSession(ctx context.Context, sessions repository.SessionStore, state *service.AppState, store *fleet.Store, log *logger.Logger) {
	saved, ok, err := sessions.Load(ctx)
	if err != nil {
		log.Warnw("session_restore_failed", "err", err)
		return
	}
	if ok {
		state.Restore(saved, store.Snapshot())
		log.Infow("session_restored", "saved_at", saved.UpdatedAt)
	}
}

func saveSession(sessions repository.SessionStore, state *service.AppState, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sessions.Save(ctx, state.Session()); err != nil {
		log.Warnw("session_save_failed", "err", err)
	}
}

// shutdown closes the broker session, then drains the HTTP server.
func shutdown(session *transport.Session, srv *server.Server, log *logger.Logger) error {
	log.Infow("shutting down server...")

	session.Close()

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
		return err
	}
	return nil
}
