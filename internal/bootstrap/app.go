package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"imageuploader-api/internal/config"
	"imageuploader-api/internal/logging"
	"imageuploader-api/internal/model"
	mysqlClient "imageuploader-api/internal/platform/mysql"
	rabbitmqClient "imageuploader-api/internal/platform/rabbitmq"
	redisClient "imageuploader-api/internal/platform/redis"
	s3Client "imageuploader-api/internal/platform/s3"
	"imageuploader-api/internal/repository"
	"imageuploader-api/internal/worker"
)

type App struct {
	Config       *config.Config
	Logger       logging.Logger
	MySQL        *gorm.DB
	Redis        *redis.Client
	MQConn       *amqp.Connection
	S3           *s3.Client
	UploadWorker *worker.UploadEventWorker

	StartedAt time.Time
}

// New loads configuration and connects every backing service. Any failure
// aborts startup after releasing what was already opened.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	app := &App{
		Config:    cfg,
		Logger:    logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format).With("app", cfg.App.Name, "env", cfg.App.Env),
		StartedAt: time.Now(),
	}
	if err := app.connect(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) connect(ctx context.Context) error {
	cfg := a.Config

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return err
	}
	a.MySQL = mysqlDB
	if err := mysqlDB.WithContext(ctx).AutoMigrate(&model.User{}, &model.Image{}, &model.UploadEvent{}); err != nil {
		return fmt.Errorf("auto migrate tables failed: %w", err)
	}

	a.Redis, err = redisClient.New(ctx, redisClient.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}

	a.MQConn, err = rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.UploadEventQueue)
	if err != nil {
		return err
	}

	a.S3, err = s3Client.New(ctx, s3Client.Options{
		Region:    cfg.CDN.Region,
		Endpoint:  cfg.CDN.Endpoint,
		AccessKey: cfg.CDN.AccessKey,
		SecretKey: cfg.CDN.SecretKey,
	})
	if err != nil {
		return err
	}

	eventRepo := repository.NewUploadEventRepository(mysqlDB)
	a.UploadWorker = worker.NewUploadEventWorker(a.MQConn, eventRepo, cfg.RabbitMQ.UploadEventQueue, a.Logger)
	if err := a.UploadWorker.Start(ctx); err != nil {
		return fmt.Errorf("start upload event worker failed: %w", err)
	}

	a.Logger.Info(ctx, "backing services connected",
		"mysql", cfg.MySQL.Host,
		"redis", cfg.Redis.Addr,
		"cdn_bucket", cfg.CDN.Bucket,
	)
	return nil
}

func (a *App) Close() error {
	var closeErr error
	if a.UploadWorker != nil {
		a.UploadWorker.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MQConn != nil && !a.MQConn.IsClosed() {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
