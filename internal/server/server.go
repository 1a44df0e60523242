// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"log/slog"
	"time"

	_ "askme/docs" // swagger docs
	"askme/internal/bootstrap"
	"askme/internal/config"
	"askme/internal/featureflags"
	"askme/internal/middleware"
	"askme/internal/models"
	"askme/internal/notifications"
	"askme/internal/repository"
	"askme/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	app             *fiber.App
	promMiddleware  *fiberprometheus.FiberPrometheus
	shutdownCtx     context.Context
	shutdownFn      context.CancelFunc
	notifier        *notifications.Notifier
	hub             *notifications.Hub
	featureFlags    *featureflags.Manager
	userService     *service.UserService
	questionService *service.QuestionService
	answerService   *service.AnswerService
	voteService     *service.VoteService
	rankingService  *service.RankingService
}

// NewServer connects to the database and Redis and builds the server.
func NewServer(ctx context.Context, cfg *config.Config, opts bootstrap.Options) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; caching, revocation and realtime fan-out are then disabled.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	tagRepo := repository.NewTagRepository(db)
	voteRepo := repository.NewVoteRepository(db)

	flags := featureflags.NewManager(cfg.FeatureFlags)
	notifier := notifications.NewNotifier(redisClient)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("askme-api"),
		notifier:       notifier,
		hub:            notifications.NewHub(),
		featureFlags:   flags,
	}
	server.userService = service.NewUserService(userRepo, profileRepo)
	server.questionService = service.NewQuestionService(questionRepo, tagRepo, profileRepo)
	server.answerService = service.NewAnswerService(answerRepo, questionRepo, profileRepo)
	server.voteService = service.NewVoteService(voteRepo, profileRepo, flags, notifier)
	server.rankingService = service.NewRankingService(questionRepo, answerRepo, tagRepo, profileRepo, flags)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/api/swagger/*", swagger.HandlerDefault)

	questions := app.Group("/questions")
	questions.Get("/", s.ListQuestions(service.ViewAll))
	questions.Get("/new", s.ListQuestions(service.ViewNew))
	questions.Get("/hot", s.ListQuestions(service.ViewHot))
	questions.Get("/best", s.ListQuestions(service.ViewBest))
	questions.Get("/tag/:tag", s.ListQuestionsByTag)
	questions.Get("/question/:id", s.GetQuestion)
	questions.Post("/question/:id", s.AuthRequired(), middleware.RateLimit(
		s.redis, 10, time.Minute, "answer"), s.CreateAnswer)

	app.Post("/signup", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	app.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	app.Post("/logout", s.AuthRequired(), s.Logout)

	profile := app.Group("/profile", s.AuthRequired())
	profile.Get("/edit", s.GetSettings)
	profile.Post("/edit", s.UpdateSettings)

	app.Post("/ask", s.AuthRequired(), middleware.RateLimit(s.redis, 5, 5*time.Minute, "ask"), s.Ask)

	app.Post("/vote", s.OptionalAuth(), middleware.RateLimit(s.redis, s.voteRateLimit(), time.Minute, "vote"), s.Vote)
	app.Post("/correct", s.OptionalAuth(), s.MarkCorrect)

	app.Get("/ws/votes", s.OptionalAuth(), s.WebSocketUpgrade, s.VotesWebSocketHandler())
}

func (s *Server) voteRateLimit() int {
	if s.config.RateLimitVotes > 0 {
		return s.config.RateLimitVotes
	}
	return 60
}

// NewApp builds the fiber application with middleware and routes.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "askme API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck pings the database and Redis.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if sqlDB, err := s.db.DB(); err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	s.shutdownCtx, s.shutdownFn = context.WithCancel(context.Background())
	s.app = s.NewApp()

	if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
		middleware.Logger.Warn("vote feed unavailable", slog.String("error", err.Error()))
	}

	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down hub", slog.String("error", err.Error()))
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
