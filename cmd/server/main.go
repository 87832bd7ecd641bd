package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appconfig "medintake/config"
	"medintake/internal/catalog"
	aiconfig "medintake/internal/config"
	"medintake/internal/llm"
	"medintake/internal/repository"
	"medintake/internal/service"
	"medintake/internal/store"
	"medintake/internal/transport/rest"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// @title Medical Intake Assessment API
// @version 1.0
// @description Multi-turn medical intake questionnaire with symptom-driven follow-ups and LLM report generation
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := appconfig.Load()

	// Load the question catalog and decision tree
	var (
		cat *catalog.Catalog
		err error
	)
	if cfg.CatalogPath != "" && cfg.TreePath != "" {
		cat, err = catalog.Load(cfg.CatalogPath, cfg.TreePath)
	} else {
		cat, err = catalog.LoadDefault()
	}
	if err != nil {
		log.Fatal("Failed to load question catalog:", err)
	}
	log.Printf("Catalog loaded: %d base questions, %d symptoms", len(cat.BaseQuestions()), len(cat.Symptoms()))

	// Report collaborator
	aiCfg := aiconfig.DefaultAIConfig()
	var llmClient llm.Client
	if aiCfg.IsEnabled() {
		log.Printf("LLM: %s via %s", aiCfg.Model, aiCfg.BaseURL)
		llmClient = llm.NewOpenAIClient(aiCfg)
	} else {
		log.Println("LLM: API key NOT SET (using mock report client)")
		llmClient = llm.NewMockClient()
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database("medintake")

	// Session store
	var sessionStore store.SessionStore
	switch cfg.SessionStore {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatal("Failed to ping Redis:", err)
		}
		log.Println("Connected to Redis")
		sessionStore = store.NewRedisStore(rdb)
	default:
		log.Println("Using in-memory session store")
		sessionStore = store.NewMemoryStore()
	}

	// Repositories
	sessionRepo := repository.NewSessionRepo(db)
	reportRepo := repository.NewReportRepo(db)

	// Services share one lock discipline so answer submission and
	// report generation serialize per session.
	locks := store.NewKeyLock()
	intakeSvc := service.NewIntakeService(cat, sessionStore, locks)
	reportSvc := service.NewReportService(cat, sessionStore, sessionRepo, reportRepo, llmClient, locks)

	router := rest.NewRouter(&rest.Container{
		IntakeService: intakeSvc,
		ReportService: reportSvc,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST   /v1/sessions")
		log.Println("  GET    /v1/sessions/{id}")
		log.Println("  POST   /v1/sessions/{id}/answers")
		log.Println("  DELETE /v1/sessions/{id}")
		log.Println("  POST   /v1/sessions/{id}/report")
		log.Println("  GET    /v1/sessions/{id}/report")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
