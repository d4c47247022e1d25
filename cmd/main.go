package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	storefront_controller "storefront-service/internal/controller"
	"storefront-service/internal/events"
	storefront_handler_http "storefront-service/internal/handler"
	storefront_repository "storefront-service/internal/repository"
	"storefront-service/pkg/consul"
)

// initDB connects to the document store. A missing DATABASE_URL or an
// unreachable store is non-fatal: the service starts without a store and
// the data endpoints report it.
func initDB() (*mongo.Client, *mongo.Database) {
	// load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		log.Println("DATABASE_URL not set, starting without a document store")
		return nil, nil
	}
	dbname := getEnv("DATABASE_NAME", "victus_store")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		log.Printf("Failed to connect to document store: %v", err)
		return nil, nil
	}

	// test the connection to the store
	if err = client.Ping(ctx, nil); err != nil {
		log.Printf("Document store not reachable: %v", err)
		client.Disconnect(context.Background())
		return nil, nil
	}

	log.Printf("Successfully connected to document store, database %s", dbname)
	return client, client.Database(dbname)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	var err error

	var port int
	var datarepo *storefront_repository.DataRepo_Store
	var controller *storefront_controller.Controller_Store
	var handler *storefront_handler_http.Handler_Store
	var publisher *events.Publisher

	// -------------------------------------------------------------------
	// variable initialization
	// -------------------------------------------------------------------

	// initializing the document store connection
	client, db := initDB()
	if client != nil {
		defer client.Disconnect(context.Background())
	}

	// getting the service port from environment variable or defaulting to 8000
	port, err = strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8000
	}
	log.Printf("Storefront service starting on port %d", port)

	// optional order event publisher
	if rabbitURL := os.Getenv("RABBITMQ_URL"); rabbitURL != "" {
		publisher, err = events.NewPublisher(rabbitURL)
		if err != nil {
			log.Printf("Order events disabled: %v", err)
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	// setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// document-store repository
	datarepo = storefront_repository.New(db)
	// controller
	controller = storefront_controller.New(datarepo)
	// handler
	handler = storefront_handler_http.New(controller, publisher)
	// -------------------------------------------------------------------

	// -------------------------------------------------------------------
	// service endpoints
	// -------------------------------------------------------------------
	r := mux.NewRouter()
	// CORS preflight (OPTIONS) requests for all endpoints
	r.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		storefront_handler_http.AddCORSHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})).ServeHTTP(w, r)
	})
	// GET root banner
	r.Handle("/", storefront_handler_http.AddCORSHeaders(http.HandlerFunc(handler.Root))).Methods(http.MethodGet)
	// GET hello banner
	r.Handle("/api/hello", storefront_handler_http.AddCORSHeaders(http.HandlerFunc(handler.Hello))).Methods(http.MethodGet)
	// GET store diagnostics
	r.Handle("/test", storefront_handler_http.AddCORSHeaders(http.HandlerFunc(handler.Test_Database))).Methods(http.MethodGet)
	// GET all products (seeds the catalog when empty)
	r.Handle("/api/products", storefront_handler_http.AddCORSHeaders(http.HandlerFunc(handler.Get_Products))).Methods(http.MethodGet)
	// POST create order
	r.Handle("/api/orders", storefront_handler_http.AddCORSHeaders(http.HandlerFunc(handler.Create_Order))).Methods(http.MethodPost)
	// -------------------------------------------------------------------
	// Health check endpoint
	r.Handle("/health", storefront_handler_http.AddCORSHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Storefront service is healthy")
	}))).Methods(http.MethodGet)
	// -------------------------------------------------------------------

	// -------------------------------------------------------------------
	// optional Consul registration
	// -------------------------------------------------------------------
	var consulClient *consul.Client
	if os.Getenv("CONSUL_HOST") != "" {
		consulClient, err = consul.NewClient(getEnv("SERVICE_NAME", "storefront"), port)
		if err != nil {
			log.Printf("Consul registration disabled: %v", err)
			consulClient = nil
		} else if err = consulClient.RegisterService(); err != nil {
			log.Printf("Consul registration failed: %v", err)
			consulClient = nil
		}
	}
	// -------------------------------------------------------------------

	// -------------------------------------------------------------------
	// Start HTTP server
	// -------------------------------------------------------------------
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	go func() {
		log.Printf("HTTP server listening on port %d", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()
	// -------------------------------------------------------------------

	// -------------------------------------------------------------------
	// Wait for shutdown signal
	// -------------------------------------------------------------------
	<-sigChan
	log.Println("Received shutdown signal, shutting down gracefully...")

	if consulClient != nil {
		if err := consulClient.DeregisterService(); err != nil {
			log.Printf("Failed to deregister from Consul: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown: %v", err)
	}
	log.Println("Server stopped")
	// -------------------------------------------------------------------
}
