package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/planframe/planframe/internal/api"
	"github.com/planframe/planframe/internal/assets"
	"github.com/planframe/planframe/internal/config"
	"github.com/planframe/planframe/internal/db"
	"github.com/planframe/planframe/internal/events"
	"github.com/planframe/planframe/internal/identity"
	"github.com/planframe/planframe/internal/middleware"
	"github.com/planframe/planframe/internal/observ"
	"github.com/planframe/planframe/internal/repository/postgres"
	"github.com/planframe/planframe/internal/workflow"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	observ.InitMetrics()

	// Startup has no parent deadline; Background() is the right root here.
	// Per-request contexts take over once the server is up.
	database, err := db.New(context.Background(), cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	pool := database.Pool()
	userRepo := postgres.NewUserStore(pool)
	workspaceRepo := postgres.NewWorkspaceStore(pool)
	membershipRepo := postgres.NewMembershipStore(pool)
	accountRepo := postgres.NewAccountStore(pool)
	postRepo := postgres.NewPostStore(pool)
	commentRepo := postgres.NewCommentStore(pool)
	auditRepo := postgres.NewAuditStore(pool)

	// Redis only caches identity snapshots; if it's down we resolve from
	// Postgres on every request and carry on.
	var factsCache *identity.FactsCache
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid redis URL, identity cache disabled", zap.Error(err))
	} else {
		rdb := redis.NewClient(redisOpts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unreachable, identity cache disabled", zap.Error(err))
		} else {
			factsCache = identity.NewFactsCache(rdb, identity.DefaultFactsTTL, logger)
		}
	}

	resolver := identity.NewResolver(userRepo, membershipRepo, accountRepo, factsCache, logger)

	assetStore, err := assets.NewStore(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("create asset store: %w", err)
	}

	hub := events.NewHub(logger)
	workflowService := workflow.NewService(postRepo, commentRepo, auditRepo, hub, logger)

	authHandler := api.NewAuthHandler(userRepo, cfg.JWTSecret, logger)
	userHandler := api.NewUserHandler(logger)
	workspaceHandler := api.NewWorkspaceHandler(workspaceRepo, membershipRepo, auditRepo, resolver, logger)
	accountHandler := api.NewAccountHandler(accountRepo, logger)
	postHandler := api.NewPostHandler(postRepo, accountRepo, logger)
	approvalHandler := api.NewApprovalHandler(workflowService, postRepo, logger)
	commentHandler := api.NewCommentHandler(commentRepo, postRepo, hub, logger)
	assetHandler := api.NewAssetHandler(assetStore, logger)
	eventsHandler := api.NewEventsHandler(hub, logger)

	srv := gin.New()
	srv.Use(gin.Logger(), gin.Recovery(), observ.Instrument())

	logger.Info("starting planframe",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)

	// Public: load balancers hit health, Prometheus scrapes metrics.
	srv.GET("/v1/health", func(c *gin.Context) {
		if err := database.Health(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{"status": "degraded"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})
	srv.GET("/metrics", observ.MetricsHandler())

	srv.POST("/v1/auth/signup", authHandler.Signup)
	srv.POST("/v1/auth/login", authHandler.Login)

	// Everything else requires a valid JWT, then a resolved identity
	// snapshot; handlers make all authorization decisions off the latter.
	v1 := srv.Group("/v1")
	v1.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.IdentityMiddleware(resolver))

	v1.GET("/users/me", userHandler.GetMe)

	v1.POST("/workspaces", workspaceHandler.Create)
	v1.GET("/workspaces", workspaceHandler.List)
	v1.GET("/workspaces/:id", workspaceHandler.GetByID)
	v1.GET("/workspaces/:id/members", workspaceHandler.ListMembers)
	v1.PUT("/workspaces/:id/members", workspaceHandler.UpsertMember)
	v1.DELETE("/workspaces/:id/members/:userID", workspaceHandler.RemoveMember)
	v1.GET("/workspaces/:id/audit", workspaceHandler.ListAudit)
	v1.GET("/workspaces/:id/events", eventsHandler.Subscribe)

	v1.POST("/accounts", accountHandler.Create)
	v1.GET("/accounts", accountHandler.List)

	v1.POST("/posts", postHandler.Create)
	v1.GET("/posts", postHandler.List)
	v1.GET("/posts/:id", postHandler.GetByID)
	v1.PUT("/posts/:id", postHandler.Update)
	v1.PUT("/posts/:id/order", postHandler.UpdateOrder)

	v1.POST("/posts/:id/send", approvalHandler.SendToClient)
	v1.POST("/posts/:id/approve", approvalHandler.Approve)
	v1.POST("/posts/:id/reject", approvalHandler.RequestChanges)
	v1.POST("/posts/:id/ready", approvalHandler.MarkReady)
	v1.POST("/posts/:id/posted", approvalHandler.MarkPosted)

	v1.POST("/posts/:id/comments", commentHandler.Create)
	v1.GET("/posts/:id/comments", commentHandler.List)
	v1.POST("/comments/:id/resolve", commentHandler.Resolve)

	v1.POST("/assets", assetHandler.Upload)

	return srv.Run(":" + cfg.Port)
}
