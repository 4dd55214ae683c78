package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/avvvet/fourcorners-services/internal/comm"
	"github.com/avvvet/fourcorners-services/internal/nats"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	log "github.com/sirupsen/logrus"

	configs "github.com/avvvet/fourcorners-services/configs"

	"github.com/avvvet/fourcorners-services/internal/socketsvc/broker"
	"github.com/avvvet/fourcorners-services/internal/socketsvc/config"
	"github.com/avvvet/fourcorners-services/internal/socketsvc/routes"
	"github.com/avvvet/fourcorners-services/internal/socketsvc/ws"
)

const SERVICE_NAME = "socket"

func main() {
	configs.LoadEnv(SERVICE_NAME)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	instanceId := configs.CreateUniqueInstance(SERVICE_NAME)
	configs.Logging(SERVICE_NAME+"_service_"+instanceId, cfg.LogLevel)

	// Connect to NATS
	n, err := nats.Connect(SERVICE_NAME + "-" + instanceId)
	if err != nil {
		log.Fatalf("Error: unable to connect to NATS server %v", err)
	}
	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	// Setup router
	r := chi.NewRouter()
	c := configs.CORS(cfg.AllowedOrigins)

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(configs.CustomLoggerMiddleware())
	r.Use(c.Handler)

	// to protect the service api from any over requests
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	// Initialize websocket handler
	s := ws.NewWs()

	// Initialize routes
	routes.SetRoutes(r, s, cfg.CheckOrigin)

	// every socket service instance fans out every event, so no queue group
	b := broker.NewBroker(n.Conn, s.Broadcast)
	sub, err := b.Subscribe(comm.EventsTopic)
	if err != nil {
		log.Fatalf("Error: unable to subscribe to %s %v", comm.EventsTopic, err)
	}

	// Create server with timeout settings
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 60 * time.Second,
		IdleTimeout: 60 * time.Second,
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

	sub.Unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
