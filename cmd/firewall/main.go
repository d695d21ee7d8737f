package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PromptWall/promptwall/pkg/app/detection"
	appFirewall "github.com/PromptWall/promptwall/pkg/app/firewall"
	"github.com/PromptWall/promptwall/pkg/app/policy"
	"github.com/PromptWall/promptwall/pkg/app/sanitize"
	"github.com/PromptWall/promptwall/pkg/config"
	domainAudit "github.com/PromptWall/promptwall/pkg/domain/audit"
	handlers "github.com/PromptWall/promptwall/pkg/handlers/http"
	"github.com/PromptWall/promptwall/pkg/infra/audit"
	"github.com/PromptWall/promptwall/pkg/infra/database"
	infraFirewall "github.com/PromptWall/promptwall/pkg/infra/firewall"
	"github.com/PromptWall/promptwall/pkg/infra/httpx"
	infraLogger "github.com/PromptWall/promptwall/pkg/infra/logger"
	"github.com/PromptWall/promptwall/pkg/infra/prometheus"
	"github.com/PromptWall/promptwall/pkg/infra/repository"
	"github.com/PromptWall/promptwall/pkg/server"
	"github.com/PromptWall/promptwall/pkg/server/router"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger("logs")

	if err := config.Load("./config"); err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	var repo domainAudit.Repository
	switch cfg.Audit.Backend {
	case "postgres":
		db, err := database.NewDB(&database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		}, logger)
		if err != nil {
			logger.Fatalf("failed to initialize database: %v", err)
		}
		defer db.Close()
		repo = repository.NewAuditRecordRepository(db.DB)
	default:
		fileRepo, err := repository.NewFileAuditRepository(cfg.Audit.Dir)
		if err != nil {
			logger.Fatalf("failed to initialize audit storage: %v", err)
		}
		repo = fileRepo
	}

	ledger := audit.NewLedger(repo, logger)

	var strategy detection.Strategy
	if cfg.Detection.Remote.Enabled {
		maxFailures := cfg.Detection.Remote.MaxFailures
		if maxFailures == 0 {
			maxFailures = 3
		}
		breaker := httpx.NewCircuitBreaker("threat-scorer", 30*time.Second, maxFailures)
		client := infraFirewall.NewHTTPScorerClient(nil, logger, breaker)
		strategy = detection.NewRemoteStrategy(
			client,
			infraFirewall.Credentials{
				BaseURL: cfg.Detection.Remote.BaseURL,
				Token:   cfg.Detection.Remote.Token,
			},
			cfg.Detection.Remote.Threshold,
			time.Duration(cfg.Detection.Remote.TimeoutMs)*time.Millisecond,
		)
	}
	detector := detection.NewDetector(strategy, logger)

	engine := policy.NewEngine(logger)
	if cfg.Policies.File != "" {
		rules, err := policy.LoadFile(cfg.Policies.File)
		if err == nil {
			err = engine.Load(rules)
		}
		if err != nil {
			prometheus.PolicyLoadFailures.Inc()
			logger.WithError(err).WithField("file", cfg.Policies.File).
				Warn("failed to load policy file, keeping built-in defaults")
		}
	}

	sanitizer := sanitize.NewSanitizer()
	service := appFirewall.NewService(detector, engine, sanitizer, ledger, logger)

	apiRouter := router.NewAPIRouter(router.APIHandlers{
		CheckPrompt:    handlers.NewCheckPromptHandler(logger, service),
		BatchCheck:     handlers.NewBatchCheckHandler(logger, service),
		Stats:          handlers.NewStatsHandler(logger, ledger),
		RecentThreats:  handlers.NewRecentThreatsHandler(logger, ledger),
		ListPolicies:   handlers.NewListPoliciesHandler(logger, engine),
		AddPolicy:      handlers.NewAddPolicyHandler(logger, engine),
		DeletePolicy:   handlers.NewDeletePolicyHandler(logger, engine),
		ReloadPolicies: handlers.NewReloadPoliciesHandler(logger, engine, cfg.Policies.File),
		ClearAudit:     handlers.NewClearAuditHandler(logger, ledger),
	})

	srv := server.NewServer(cfg, logger, apiRouter)
	if err := srv.Run(ctx); err != nil {
		logger.WithError(err).Error("server exited")
	}
}
