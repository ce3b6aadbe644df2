package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"swiftlogix/internal/config"
	"swiftlogix/internal/domain/chatbot"
	"swiftlogix/internal/handler"
	"swiftlogix/internal/infra/db"
	"swiftlogix/internal/infra/memory"
	"swiftlogix/internal/infra/realtime"
	infraRepo "swiftlogix/internal/infra/repository"
	"swiftlogix/internal/logger"
	"swiftlogix/internal/repository"
	"swiftlogix/internal/server"
	"swiftlogix/internal/session"
	"swiftlogix/internal/usecase"
	"swiftlogix/internal/validator"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// backendへの窓口一式（postgres / memory で差し替える）
type backend struct {
	orders      repository.ShippingOrderRepository
	shipments   repository.ShipmentRepository
	events      repository.ShipmentEventRepository
	audit       repository.AuditLogRepository
	chats       repository.ChatMessageRepository
	contacts    repository.ContactRepository
	tx          repository.TransactionManager
	procs       repository.TrackingProcedures
	provisioner repository.ShipmentProvisioner
	roles       repository.RoleChecker
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	zl, err := logger.New(cfg.GoEnv, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer zl.Sync()

	zl.Info("Service configuration",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.GoEnv),
		zap.String("backend_driver", cfg.BackendDriver),
		zap.String("realtime_driver", cfg.RealtimeDriver),
	)

	//realtime
	var (
		feed      repository.ChangeFeed
		publisher memory.Publisher
	)
	switch cfg.RealtimeDriver {
	case config.DriverPostgres:
		feed = realtime.NewPgFeed(cfg.PostgresDSN(), cfg.RealtimeChannel, zl.Named("realtime"))
	case config.DriverRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			zl.Warn("Redis not reachable yet", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		cancel()
		rf := realtime.NewRedisFeed(rdb, cfg.RedisChannelPrefix, zl.Named("realtime"))
		feed, publisher = rf, rf
	default:
		mf := realtime.NewMemoryFeed()
		feed, publisher = mf, mf
	}

	//backend
	var be backend
	switch cfg.BackendDriver {
	case config.DriverMemory:
		mb := memory.New(memory.WithPublisher(publisher), memory.WithLogger(zl.Named("memory")))
		mb.Seed()
		if cfg.DevAdminUserID != "" {
			mb.GrantRole(cfg.DevAdminUserID, repository.RoleAdmin)
		}
		be = backend{
			orders: mb.Orders(), shipments: mb.Shipments(), events: mb.ShipmentEvents(),
			audit: mb.AuditLogs(), chats: mb.ChatMessages(), contacts: mb.Contacts(),
			tx: mb, procs: mb, provisioner: mb, roles: mb,
		}
		zl.Warn("Using in-memory backend; data is lost on restart")
	default:
		gormDB, err := db.Connect(cfg, zl)
		if err != nil {
			zl.Fatal("Failed to connect database", zap.Error(err))
		}
		procs := infraRepo.NewProceduresGorm(gormDB)
		be = backend{
			orders:      infraRepo.NewShippingOrderGormRepository(gormDB),
			shipments:   infraRepo.NewShipmentGormRepository(gormDB),
			events:      infraRepo.NewShipmentEventGormRepository(gormDB),
			audit:       infraRepo.NewAuditLogGormRepository(gormDB),
			chats:       infraRepo.NewChatMessageGormRepository(gormDB),
			contacts:    infraRepo.NewContactGormRepository(gormDB),
			tx:          infraRepo.NewTxManagerGorm(gormDB),
			procs:       procs,
			provisioner: procs,
			roles:       procs,
		}
	}

	//usecaseに渡す部品
	clock := usecase.RealClock{}
	ids := usecase.UUIDGenerator{}
	numbers := usecase.NewOrderNumberGenerator(clock, usecase.MathRand{})

	//session
	verifier := session.NewTokenVerifier(cfg.JWTSecret)
	resolver := session.NewResolver(be.roles)

	//Usecase生成
	orderUC := usecase.NewOrderUsecase(be.orders, be.provisioner, be.audit, validator.NewShipmentFormValidator(), numbers, clock, zl.Named("order"))
	trackingUC := usecase.NewTrackingUsecase(be.procs, feed, zl.Named("tracking"))
	adminUC := usecase.NewAdminShipmentUsecase(be.tx, be.shipments, be.events, be.audit, clock, zl.Named("admin"))
	dashboardUC := usecase.NewDashboardUsecase(be.orders, zl.Named("dashboard"))
	chatUC := usecase.NewChatUsecase(be.chats, chatbot.NewDefaultResponder(), ids, clock, zl.Named("chat"))
	contactUC := usecase.NewContactUsecase(be.contacts, validator.NewContactValidator(), zl.Named("contact"))

	//Handler生成
	handlers := server.Handlers{
		Site:      handler.NewSiteHandler(contactUC),
		Orders:    handler.NewOrderHandler(orderUC, cfg.CookieSecure),
		Tracking:  handler.NewTrackingHandler(trackingUC, cfg.FEURL, zl.Named("tracking")),
		Dashboard: handler.NewDashboardHandler(dashboardUC, resolver, zl.Named("dashboard")),
		Admin:     handler.NewAdminShipmentHandler(adminUC, orderUC, zl.Named("admin")),
		Chat:      handler.NewChatHandler(chatUC, cfg.CookieSecure),
	}

	srv := server.New(cfg, handlers, verifier, resolver, zl)

	go func() {
		if err := srv.Start(); err != nil {
			zl.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("Server shutdown failed", zap.Error(err))
	}
	zl.Info("Server stopped")
}
