package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	configs "github.com/avvvet/fourcorners-services/configs"
	"github.com/avvvet/fourcorners-services/internal/gamesvc/broker"
	"github.com/avvvet/fourcorners-services/internal/gamesvc/config"
	"github.com/avvvet/fourcorners-services/internal/gamesvc/corner"
	"github.com/avvvet/fourcorners-services/internal/gamesvc/db"
	handlers "github.com/avvvet/fourcorners-services/internal/gamesvc/handlers"
	"github.com/avvvet/fourcorners-services/internal/gamesvc/service"
	"github.com/avvvet/fourcorners-services/internal/gamesvc/store"
	nats "github.com/avvvet/fourcorners-services/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "game"

func main() {
	configs.LoadEnv(SERVICE_NAME)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	instanceId := configs.CreateUniqueInstance(SERVICE_NAME)
	configs.Logging(SERVICE_NAME+"_service_"+instanceId, cfg.LogLevel)

	var gameStore store.Store
	switch cfg.StoreDriver {
	case config.DriverMemory:
		gameStore = store.NewMemoryStore()
		log.Warn("using in-memory store, games are lost on restart")
	case config.DriverPostgres:
		// pg connection
		dbpool, err := db.Connect(cfg.DBUrl)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer db.ClosePool()
		log.Printf("pg connection established successfully")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = db.Migrate(ctx, dbpool)
		cancel()
		if err != nil {
			log.Fatalf("Failed to migrate DB: %v", err)
		}
		gameStore = store.NewPgStore(dbpool)
	default:
		log.Fatalf("Unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	// Connect to NATS
	n, err := nats.Connect(SERVICE_NAME + "-" + instanceId)
	if err != nil {
		log.Fatalf("Error: unable to connect to NATS server %v", err)
	}
	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	selector := corner.NewSelector(rand.New(rand.NewSource(seed)))

	gameService := service.NewGameService(gameStore, selector, broker.NewBroker(n.Conn))

	// Setup router
	r := chi.NewRouter()
	c := configs.CORS(cfg.AllowedOrigins)

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(configs.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(gameService)
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
