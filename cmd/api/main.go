package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"

	_ "supplytrace/api/swagger" // swagger docs
	"supplytrace/internal/auth"
	"supplytrace/internal/config"
	"supplytrace/internal/handler"
	"supplytrace/internal/logger"
	"supplytrace/internal/metrics"
	"supplytrace/internal/middleware"
	"supplytrace/internal/repository"
	"supplytrace/internal/service"
	"supplytrace/internal/websocket"
)

// @title           Supply Trace API
// @version         1.0
// @description     Ingredient ledger, multi-supplier batch approval and traceability.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	g, ctx := errgroup.WithContext(ctx)

	wsHub := websocket.NewHub(cfg.WebSocket.SendBuffer, log)

	// Events are counted, then fanned out to websocket clients.
	appMetrics := metrics.New()
	events := appMetrics.Publisher(wsHub)

	// Set up dependencies (Repository -> Service -> Handler)
	ledger := repository.NewLedger()
	txManager := repository.NewTransactionManager(ledger)
	ingredientRepo := repository.NewIngredientRepository(ledger)
	productRepo := repository.NewProductRepository(ledger)
	approvalRepo := repository.NewApprovalRepository(ledger)
	auditRepo := repository.NewAuditRepository(ledger)
	userRepo := repository.NewUserRepository(ledger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	userService := service.NewUserService(userRepo, auditRepo, txManager, tokens, log)
	ingredientService := service.NewIngredientService(ingredientRepo, auditRepo, txManager, events, log)
	productService := service.NewProductService(ingredientRepo, productRepo, auditRepo, txManager, events, log)
	approvalService := service.NewApprovalService(productRepo, approvalRepo, auditRepo, txManager, events, log)
	traceabilityService := service.NewTraceabilityService(ingredientRepo, productRepo, approvalRepo, txManager)
	statisticsService := service.NewStatisticsService(ingredientRepo, productRepo, approvalRepo, txManager)
	auditService := service.NewAuditService(auditRepo)

	owner, err := userService.EnsureOwner(ctx, service.BootstrapOwnerRequest{
		Username: cfg.Owner.Username,
		Email:    cfg.Owner.Email,
		Password: cfg.Owner.Password,
	})
	if err != nil {
		return err
	}
	log.Info("owner account ready", slog.String("email", owner.Email))

	g.Go(func() error {
		wsHub.Run(ctx)
		return nil
	})

	cookies := middleware.CookieOptions{Secure: cfg.Auth.SecureCookies, MaxAge: tokens.TTL()}
	handlers := handler.Handlers{
		User:         handler.NewUserHandler(userService, cookies),
		Ingredient:   handler.NewIngredientHandler(ingredientService),
		Product:      handler.NewProductHandler(productService),
		Approval:     handler.NewApprovalHandler(approvalService),
		Traceability: handler.NewTraceabilityHandler(traceabilityService),
		Audit:        handler.NewAuditHandler(auditService),
		Statistics:   handler.NewStatisticsHandler(statisticsService),
		LoginGuard:   middleware.NewRateLimiter(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst).Middleware(),
	}

	// Set up Gin Router
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log), appMetrics.Middleware())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.Origins()
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", gin.WrapH(appMetrics.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "ws_clients": wsHub.ClientCount()})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		wsHub.ServeWs(ctx, c, tokens)
	})

	// Register API Routes
	handlers.Register(router, tokens)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g.Go(func() error {
		log.Info("server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
