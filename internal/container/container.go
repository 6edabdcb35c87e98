// Package container builds the application's object graph from config and
// hands it to the router. Nothing here is global; main owns the Container.
package container

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lingo-account/config"
	"github.com/oksasatya/lingo-account/internal/application"
	"github.com/oksasatya/lingo-account/internal/domain/repository"
	"github.com/oksasatya/lingo-account/internal/infrastructure/cache"
	"github.com/oksasatya/lingo-account/internal/infrastructure/media"
	pginfra "github.com/oksasatya/lingo-account/internal/infrastructure/postgres"
	"github.com/oksasatya/lingo-account/internal/infrastructure/search"
	"github.com/oksasatya/lingo-account/internal/infrastructure/sqlite"
	"github.com/oksasatya/lingo-account/pkg/helpers"
	mailtpl "github.com/oksasatya/lingo-account/pkg/mailer/templates"
)

type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Accounts repository.AccountRepository
	// Store is Accounts without the cache layer.
	Store    repository.AccountRepository
	Media    repository.MediaStore
	Index    repository.AccountIndex
	Jobs     application.JobPublisher
	Hasher   *helpers.Hasher
	JWT      *helpers.JWTManager

	closers []func()
}

// Deps returns the service dependencies drawn from the container.
func (c *Container) Deps() application.Deps {
	return application.Deps{
		Repo:   c.Accounts,
		Store:  c.Store,
		Media:  c.Media,
		Hasher: c.Hasher,
		JWT:    c.JWT,
		Index:  c.Index,
		Jobs:   c.Jobs,
		Brand:  mailtpl.Brand{CompanyName: c.Config.CompanyName, AppName: c.Config.AppName, SupportURL: c.Config.SupportURL},
		Logger: c.Logger,
	}
}

// OnClose registers fn to run, in reverse order, from Close.
func (c *Container) OnClose(fn func()) {
	c.closers = append(c.closers, fn)
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Build connects every backend selected by cfg. On error, whatever was
// already opened is closed again.
func Build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (_ *Container, err error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
		Hasher: helpers.NewHasher(cfg.BcryptCost),
		JWT:    helpers.NewJWTManager(cfg.JWTSecret),
		Index:  search.Noop{},
	}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	if err := c.buildAccounts(ctx); err != nil {
		return nil, err
	}
	if err := c.buildMedia(ctx); err != nil {
		return nil, err
	}
	if err := c.buildIndex(); err != nil {
		return nil, err
	}
	c.buildJobs()
	return c, nil
}

func (c *Container) buildAccounts(ctx context.Context) error {
	cfg := c.Config
	switch cfg.StoreBackend {
	case "postgres":
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, c.Logger); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{
			DSN:         cfg.PostgresDSN(),
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			MaxConnLife: cfg.DBMaxConnLife,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		c.OnClose(pool.Close)
		c.Accounts = pginfra.NewAccountRepository(pool)
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return err
		}
		c.OnClose(func() { _ = db.Close() })
		c.Accounts = sqlite.NewAccountRepository(db)
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	c.Store = c.Accounts

	if rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
		c.OnClose(func() { _ = rdb.Close() })
		c.Accounts = cache.NewAccountRepository(c.Accounts, rdb, cfg.AccountCacheTTL, c.Logger)
		c.Logger.WithField("addr", cfg.RedisAddr).Info("account cache enabled")
	}
	return nil
}

func (c *Container) buildMedia(ctx context.Context) error {
	cfg := c.Config
	switch cfg.MediaBackend {
	case "memory":
		c.Media = media.NewMemoryStore(cfg.AvatarMaxBytes)
	case "gcs":
		if cfg.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required for MEDIA_BACKEND=gcs")
		}
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return fmt.Errorf("failed to init GCS client: %w", err)
		}
		c.OnClose(func() { _ = client.Close() })
		c.Media = media.NewGCSStore(client, cfg.GCSBucket, cfg.AvatarMaxBytes)
	case "s3":
		if cfg.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for MEDIA_BACKEND=s3")
		}
		s, err := media.NewS3Store(ctx, media.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			MaxBytes:  cfg.AvatarMaxBytes,
		})
		if err != nil {
			return fmt.Errorf("failed to init S3 client: %w", err)
		}
		c.Media = s
	default:
		return fmt.Errorf("unknown MEDIA_BACKEND %q", cfg.MediaBackend)
	}
	return nil
}

func (c *Container) buildIndex() error {
	if !c.Config.ESEnabled {
		return nil
	}
	es, err := helpers.NewESClient(c.Config.ESAddrs(), c.Config.ElasticsearchUser, c.Config.ElasticsearchPass)
	if err != nil {
		return fmt.Errorf("failed to init elasticsearch: %w", err)
	}
	c.Index = search.NewESIndex(es, c.Config.ESUsersIndex)
	return nil
}

// buildJobs connects the email publisher. A broker outage at startup only
// disables emails; the API keeps serving.
func (c *Container) buildJobs() {
	if !c.Config.MailSendEnabled {
		return
	}
	pub, err := helpers.NewRabbitPublisher(c.Config.RabbitMQURL, c.Config.RabbitMQEmailQueue)
	if err != nil {
		c.Logger.WithError(err).Warn("rabbitmq unavailable; email notifications disabled")
		return
	}
	c.OnClose(pub.Close)
	c.Jobs = pub
}
