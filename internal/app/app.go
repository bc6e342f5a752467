package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meetup_bot/internal/bot"
	"meetup_bot/internal/config"
	"meetup_bot/internal/controller"
	"meetup_bot/internal/middleware"
	"meetup_bot/internal/repository"
	"meetup_bot/internal/service"
	"meetup_bot/internal/session"
	"meetup_bot/pkg/database"
	"meetup_bot/pkg/logger"
	"meetup_bot/pkg/monitoring"
	"meetup_bot/pkg/security"
	"meetup_bot/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	Bot             *bot.Bot
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	event       *repository.EventRepository
	participant *repository.ParticipantRepository
	invite      *repository.InviteRepository
	friendship  *repository.FriendshipRepository
	reference   *repository.ReferenceRepository
}

type services struct {
	user        *service.UserService
	profile     *service.ProfileService
	search      *service.SearchService
	geocoding   *service.GeocodingService
	event       *service.EventService
	eventDialog *service.EventDialogService
	friendship  *service.FriendshipService
	reference   *service.ReferenceService
	report      *service.ReportService
}

type controllers struct {
	auth      *controller.AuthController
	reference *controller.ReferenceController
	report    *controller.ReportController
	user      *controller.UserController
	event     *controller.EventController
	health    *controller.HealthController
}

// RegisterConfigCallback subscribes to config hot reloads. Callbacks run on
// the watcher goroutine after a successful re-read.
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig pushes a reloaded config to the running app. The admin phone
// allow-list is read through the shared pointer, so swapping its slice is
// enough for both the bot and the HTTP layer.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config.Bot.AdminPhones = cfg.Bot.AdminPhones
	a.Config.RateLimit = cfg.RateLimit
	logger.Log.Info("config reloaded",
		zap.Int("admin_phones", len(cfg.Bot.AdminPhones)))
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		event:       repository.NewEventRepository(db),
		participant: repository.NewParticipantRepository(db),
		invite:      repository.NewInviteRepository(db),
		friendship:  repository.NewFriendshipRepository(db, rdb),
		reference:   repository.NewReferenceRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, store session.Store) *services {
	s := &services{}

	s.user = service.NewUserService(repos.user, cfg)
	s.profile = service.NewProfileService(repos.user, repos.reference, store)
	s.search = service.NewSearchService(repos.user)
	s.geocoding = service.NewGeocodingService(cfg.Geocoder)
	s.event = service.NewEventService(repos.event, repos.participant, repos.invite, repos.user, s.search)
	s.eventDialog = service.NewEventDialogService(s.event, s.geocoding, store)
	s.friendship = service.NewFriendshipService(repos.friendship)
	s.reference = service.NewReferenceService(repos.reference)
	s.report = service.NewReportService(repos.user, repos.event)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.user, a.Config),
		reference: controller.NewReferenceController(s.reference),
		report:    controller.NewReportController(s.report),
		user:      controller.NewUserController(s.user, s.friendship),
		event:     controller.NewEventController(s.event),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Dialog drafts survive restarts only with Redis. Without it the bot
	// still runs, dropping in-flight conversations on restart.
	var store session.Store
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory session store", zap.Error(err))
		rdb = nil
		store = session.NewMemoryStore()
	} else {
		store = session.NewRedisStore(rdb)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, store)
	controllers := app.initControllers(services, db, rdb)

	tgBot, err := bot.New(
		cfg,
		services.user,
		services.profile,
		services.event,
		services.eventDialog,
		services.friendship,
		services.search,
		services.reference,
		services.report,
		store,
	)
	if err != nil {
		logger.Log.Fatal("Failed to initialize bot", zap.Error(err))
		log.Fatalf("Failed to initialize bot: %v", err)
	}
	app.Bot = tgBot

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("meetup-bot", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go a.Bot.Start()

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	a.Bot.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
