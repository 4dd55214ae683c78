package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	log "github.com/sirupsen/logrus"

	configs "github.com/avvvet/fourcorners-services/configs"
	"github.com/avvvet/fourcorners-services/internal/archivesvc/broker"
	"github.com/avvvet/fourcorners-services/internal/archivesvc/config"
	"github.com/avvvet/fourcorners-services/internal/archivesvc/handlers"
	"github.com/avvvet/fourcorners-services/internal/archivesvc/store"
	"github.com/avvvet/fourcorners-services/internal/comm"
	"github.com/avvvet/fourcorners-services/internal/db"
	natscli "github.com/avvvet/fourcorners-services/internal/nats"
)

const SERVICE_NAME = "archive"

func main() {
	configs.LoadEnv(SERVICE_NAME)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	instanceId := configs.CreateUniqueInstance(SERVICE_NAME)
	configs.Logging(SERVICE_NAME+"_service_"+instanceId, cfg.LogLevel)

	client, database, err := db.ConnectToDB(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	log.Printf("mongo connection established successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.CreateEventIndexes(ctx, database, store.EventsCollection)
	cancel()
	if err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	eventStore := store.NewEventStore(database, cfg.Retention)

	// NATS connection
	n, err := natscli.Connect(SERVICE_NAME + "-" + instanceId)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer n.Conn.Close()
	log.Infof("NATS connected at %s", n.Url)

	b := broker.NewBroker(n.Conn, eventStore)
	sub, err := b.QueueSubscribe(comm.EventsTopic)
	if err != nil {
		log.Fatalf("Subscribe %s error: %v", comm.EventsTopic, err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(configs.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	handlers.NewHandler(eventStore).SetRoutes(r)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	// let in-flight inserts finish before the mongo client goes away
	if err := sub.Drain(); err != nil {
		log.Warnf("drain subscription: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
