package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	appsvc "imageuploader-api/internal/app"
	"imageuploader-api/internal/bootstrap"
	"imageuploader-api/internal/cache"
	"imageuploader-api/internal/logging"
	"imageuploader-api/internal/media"
	"imageuploader-api/internal/pkg/hashutil"
	"imageuploader-api/internal/platform/rabbitmq"
	"imageuploader-api/internal/repository"
	"imageuploader-api/internal/transport/http/handler"
	"imageuploader-api/internal/transport/http/middleware"
	"imageuploader-api/internal/transport/http/validation"
)

type routerDeps struct {
	ginMode     string
	corsOrigins []string
	log         logging.Logger
	auth        *appsvc.AuthService
	images      *appsvc.ImageService
	maxFileSize int64
	health      handler.HealthDeps
}

func NewRouter(app *bootstrap.App) *gin.Engine {
	cfg := app.Config

	userRepo := repository.NewUserRepository(app.MySQL)
	imageRepo := repository.NewImageRepository(app.MySQL)
	authService := appsvc.NewAuthService(
		userRepo,
		hashutil.NewBcryptHasher(cfg.Auth.BcryptCost),
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.JWTExpireMinute)*time.Minute,
	)

	uploader := media.NewCDNUploader(app.S3, media.CDNOptions{
		Bucket:        cfg.CDN.Bucket,
		Folder:        cfg.CDN.Folder,
		PublicBaseURL: cfg.CDN.PublicBaseURL,
	})
	var listCache appsvc.ImageListCache
	if app.Redis != nil {
		listCache = cache.NewImageListCache(app.Redis, time.Duration(cfg.Redis.ImageListTTLSeconds)*time.Second)
	}
	var publisher appsvc.UploadEventPublisher
	if app.MQConn != nil {
		publisher = rabbitmq.NewUploadEventPublisher(app.MQConn, cfg.RabbitMQ.UploadEventQueue)
	}
	imageService := appsvc.NewImageService(imageRepo, uploader, listCache, publisher, app.Logger)

	return buildRouter(routerDeps{
		ginMode:     cfg.App.GinMode,
		corsOrigins: cfg.CORS.AllowOrigins,
		log:         app.Logger,
		auth:        authService,
		images:      imageService,
		maxFileSize: cfg.Upload.MaxFileSizeBytes,
		health: handler.HealthDeps{
			AppName:   cfg.App.Name,
			Env:       cfg.App.Env,
			StartedAt: app.StartedAt,
			MySQL:     app.MySQL,
			Redis:     app.Redis,
			MQConn:    app.MQConn,
		},
	})
}

func buildRouter(deps routerDeps) *gin.Engine {
	gin.SetMode(deps.ginMode)
	validation.Register()

	router := gin.New()
	router.Use(
		middleware.RequestLogger(deps.log),
		middleware.Recovery(deps.log),
		cors.New(corsConfig(deps.corsOrigins)),
	)
	// uploads are capped per request by the image handler
	router.MaxMultipartMemory = deps.maxFileSize

	healthHandler := handler.NewHealthHandler(deps.health)
	authHandler := handler.NewAuthHandler(deps.auth)
	imageHandler := handler.NewImageHandler(deps.images, deps.maxFileSize)

	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.Check)

	api := router.Group("/api")
	api.POST("/login", authHandler.Login)
	api.POST("/register", authHandler.Register)

	bearer := api.Group("")
	bearer.Use(middleware.RequireAuthorizationHeader())
	bearer.POST("/logout", authHandler.Logout)
	bearer.GET("/me", middleware.AuthJWT(deps.auth), authHandler.Me)

	imageGroup := bearer.Group("/image")
	imageGroup.Use(middleware.RequireUserIDQuery())
	imageGroup.POST("/upload", middleware.AuthUser(deps.auth, deps.auth), imageHandler.Upload)
	imageGroup.GET("/list", middleware.AuthJWT(deps.auth), imageHandler.List)

	return router
}

// corsConfig allows any origin when the list is empty or contains "*".
// Credentials are still allowed then, so origins are echoed back instead of "*".
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return true }
		return cfg
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowOriginFunc = func(string) bool { return true }
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
