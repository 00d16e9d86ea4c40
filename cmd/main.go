package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/summerstudio/meetscribe-backend/internal/data/repos"
	"github.com/summerstudio/meetscribe-backend/internal/db"
	httpx "github.com/summerstudio/meetscribe-backend/internal/http"
	httpH "github.com/summerstudio/meetscribe-backend/internal/http/handlers"
	meetingmod "github.com/summerstudio/meetscribe-backend/internal/modules/meeting"
	"github.com/summerstudio/meetscribe-backend/internal/modules/meeting/steps"
	"github.com/summerstudio/meetscribe-backend/internal/platform/envutil"
	"github.com/summerstudio/meetscribe-backend/internal/platform/llm"
	"github.com/summerstudio/meetscribe-backend/internal/platform/logger"
	"github.com/summerstudio/meetscribe-backend/internal/platform/neo4jdb"
	"github.com/summerstudio/meetscribe-backend/internal/platform/redisdb"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(envutil.Str("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("postgres auto migration failed", "error", err)
	}
	gdb := postgresService.DB()

	// Repos
	meetingRepo := repos.NewMeetingRepo(gdb, log)
	analysisRepo := repos.NewAnalysisRepo(gdb, log)

	// LLM client
	ai, err := llm.NewClient(llm.Config{
		APIKey:      envutil.Str("LLM_API_KEY", ""),
		BaseURL:     envutil.Str("LLM_BASE_URL", ""),
		Model:       envutil.Str("LLM_MODEL", "gpt-4o-mini"),
		Temperature: float32(envutil.Float("LLM_TEMPERATURE", 0.1)),
		Timeout:     time.Duration(envutil.Int("LLM_TIMEOUT_SECONDS", 300)) * time.Second,
	}, log)
	if err != nil {
		log.Fatal("llm client init failed", "error", err)
	}

	// Optional integrations
	graphClient, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Warn("neo4j init failed, graph sync disabled", "error", err)
	}
	if graphClient != nil {
		defer func() { _ = graphClient.Close(context.Background()) }()
	}

	cache, err := redisdb.NewFromEnv(log)
	if err != nil {
		log.Warn("redis init failed, analysis cache disabled", "error", err)
	}
	if cache != nil {
		defer func() { _ = cache.Close() }()
	}

	// Module wiring
	usecases := meetingmod.New(meetingmod.UsecasesDeps{
		DB:         gdb,
		Log:        log,
		AI:         ai,
		Meetings:   meetingRepo,
		Analyses:   analysisRepo,
		Graph:      graphClient,
		Cache:      cache,
		BuilderCfg: steps.DefaultBuilderConfig(),
	})

	// HTTP
	server := httpx.NewServer(httpx.RouterConfig{
		Log:            log,
		MeetingHandler: httpH.NewMeetingHandler(log, usecases),
		HealthHandler:  httpH.NewHealthHandler(),
	})

	addr := ":" + envutil.Str("PORT", "8080")
	log.Info("starting http server", "addr", addr)
	if err := server.Run(addr); err != nil {
		log.Fatal("http server exited", "error", err)
	}
}
