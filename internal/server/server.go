package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boardsync/internal/auth"
	"boardsync/internal/config"
	"boardsync/internal/handler"
	"boardsync/internal/live"
	"boardsync/internal/middleware"
	"boardsync/internal/migrate"
	"boardsync/internal/realtime"
	"boardsync/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine   *gin.Engine
	DB       *gorm.DB
	Bus      *realtime.Bus
	Registry *live.Registry
	Config   *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Apply schema migrations before gorm touches the database
	if err := migrate.Run(cfg.DSN()); err != nil {
		return nil, fmt.Errorf("❌ failed to migrate DB: %w", err)
	}
	log.Println("✅ Database schema is up to date")

	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	// Setup the realtime event bus
	bus, err := realtime.NewBus(cfg.RedisURL, nil)
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to redis: %w", err)
	}
	log.Println("✅ Connected to redis")

	// Setup Gin
	r := gin.Default()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	boardShareRepo := repository.NewBoardShareRepository(db)
	columnRepo := repository.NewColumnRepository(db)
	cardRepo := repository.NewCardRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	escalationRepo := repository.NewEscalationRepository(db)

	// Server-hosted card engines
	remote := live.NewRemote(cardRepo, columnRepo, boardRepo, bus)
	registry := live.NewRegistry(remote, nil)

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiryHours)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, issuer)
	boardHandler := handler.NewBoardHandler(boardRepo, boardShareRepo, registry)
	boardShareHandler := handler.NewBoardShareHandler(boardRepo, userRepo, boardShareRepo)
	columnHandler := handler.NewColumnHandler(columnRepo, cardRepo, boardRepo, boardShareRepo, bus)
	cardHandler := handler.NewCardHandler(cardRepo, columnRepo, boardRepo, boardShareRepo, bus)
	liveHandler := handler.NewLiveHandler(registry, boardRepo, boardShareRepo, bus)
	attendanceHandler := handler.NewAttendanceHandler(attendanceRepo, boardRepo, boardShareRepo)
	topicHandler := handler.NewTopicHandler(topicRepo, boardRepo, boardShareRepo)
	escalationHandler := handler.NewEscalationHandler(escalationRepo, cardRepo, boardRepo, boardShareRepo, bus)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.POST("/boards/:id/archive", boardHandler.Archive)

		// Board sharing routes
		authorized.POST("/boards/:id/share", boardShareHandler.ShareBoard)
		authorized.DELETE("/boards/:id/share/:user_id", boardShareHandler.RemoveShare)
		authorized.GET("/boards/:id/share", boardShareHandler.GetBoardShares)

		// Column routes
		authorized.POST("/columns", columnHandler.Create)
		authorized.GET("/boards/:id/columns", columnHandler.GetAll)
		authorized.PUT("/columns/:id", columnHandler.Update)
		authorized.DELETE("/columns/:id", columnHandler.Delete)

		// Card routes
		authorized.POST("/cards", cardHandler.Create)
		authorized.GET("/boards/:id/cards", cardHandler.GetByBoard)
		authorized.PUT("/cards/:id", cardHandler.Update)
		authorized.POST("/cards/:id/move", cardHandler.Move)
		authorized.POST("/cards/:id/archive", cardHandler.Archive)
		authorized.POST("/cards/:id/restore", cardHandler.Restore)
		authorized.DELETE("/cards/:id", cardHandler.Delete)

		// Live board state
		authorized.GET("/boards/:id/live", liveHandler.Snapshot)
		authorized.GET("/boards/:id/events", liveHandler.Events)

		// Standup support
		authorized.POST("/boards/:id/attendance", attendanceHandler.Create)
		authorized.GET("/boards/:id/attendance", attendanceHandler.GetByBoard)
		authorized.POST("/boards/:id/topics", topicHandler.Create)
		authorized.GET("/boards/:id/topics", topicHandler.GetByBoard)
		authorized.PUT("/topics/:id", topicHandler.Update)
		authorized.DELETE("/topics/:id", topicHandler.Delete)
		authorized.POST("/boards/:id/escalations", escalationHandler.Create)
		authorized.GET("/boards/:id/escalations", escalationHandler.GetOpen)
		authorized.POST("/boards/:id/escalations/:escalation_id/resolve", escalationHandler.Resolve)
	}

	return &Server{
		Engine:   r,
		DB:       db,
		Bus:      bus,
		Registry: registry,
		Config:   cfg,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	s.Registry.Shutdown()
	if err := s.Bus.Close(); err != nil {
		log.Printf("⚠️  Error closing redis connection: %s", err)
	}

	log.Println("✅ Server exited properly")
}
