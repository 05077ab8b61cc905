package container

import (
	"context"
	"fmt"
	"time"

	"music-catalog-backend/internal/config"
	infraCache "music-catalog-backend/internal/infrastructure/cache"
	"music-catalog-backend/internal/infrastructure/database"
	"music-catalog-backend/internal/infrastructure/storage"
	"music-catalog-backend/internal/validation"
	"music-catalog-backend/pkg/cache"
	pkgDatabase "music-catalog-backend/pkg/database"
	"music-catalog-backend/pkg/jwt"
	"music-catalog-backend/pkg/logger"

	"music-catalog-backend/internal/domains/album"
	albumHandler "music-catalog-backend/internal/domains/album/handler"
	albumRepo "music-catalog-backend/internal/domains/album/repository"
	albumService "music-catalog-backend/internal/domains/album/service"
	"music-catalog-backend/internal/domains/artist"
	artistHandler "music-catalog-backend/internal/domains/artist/handler"
	artistRepo "music-catalog-backend/internal/domains/artist/repository"
	artistService "music-catalog-backend/internal/domains/artist/service"
	"music-catalog-backend/internal/domains/image"
	imageHandler "music-catalog-backend/internal/domains/image/handler"
	imageRepo "music-catalog-backend/internal/domains/image/repository"
	imageService "music-catalog-backend/internal/domains/image/service"
	"music-catalog-backend/internal/domains/user"
	userHandler "music-catalog-backend/internal/domains/user/handler"
	userRepo "music-catalog-backend/internal/domains/user/repository"
	userService "music-catalog-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton wired once at startup.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	Storage    *storage.MinIOStorage
	JWTManager *jwt.Manager
	Validator  *validation.Validator

	ArtistRepo artist.Repository
	AlbumRepo  album.Repository
	ImageRepo  image.Repository
	UserRepo   user.Repository

	ArtistService artist.Service
	AlbumService  album.Service
	ImageService  image.Service
	UserService   user.Service

	ArtistHandler *artistHandler.ArtistHandler
	AlbumHandler  *albumHandler.AlbumHandler
	ImageHandler  *imageHandler.ImageHandler
	UserHandler   *userHandler.UserHandler
}

// NewContainer builds the whole graph in dependency order: config,
// infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	db := database.NewPostgresDB(&cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	logger.Info("database connected", nil)

	// Redis failures are non-critical: signed URLs just stop being
	// memoized.
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(context.Background()); err != nil {
		logger.Warn("redis connection failed, continuing without warm cache", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		logger.Info("redis connected", nil)
	}
	c.Cache = redisCache

	store, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}
	c.Storage = store
	logger.Info("object storage ready", map[string]interface{}{"bucket": cfg.MinIO.Bucket})

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)
	c.Validator = validation.New(database.NewExistsChecker(db.Pool))

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.ArtistRepo = artistRepo.NewPostgresRepository(pool)
	c.AlbumRepo = albumRepo.NewPostgresRepository(pool)
	c.ImageRepo = imageRepo.NewPostgresRepository(pool)
	c.UserRepo = userRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.ArtistService = artistService.NewArtistService(c.ArtistRepo, c.Storage)
	c.AlbumService = albumService.NewAlbumService(c.AlbumRepo, c.Storage)
	runTx := func(ctx context.Context, fn pkgDatabase.TxFunc) error {
		return pkgDatabase.WithTransaction(ctx, c.DB.Pool, fn)
	}
	c.ImageService = imageService.NewImageService(
		c.ImageRepo,
		runTx,
		c.Storage,
		c.Cache,
		c.Config.MinIO.URLCacheTTL,
	)
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
}

func (c *Container) initHandlers() {
	c.ArtistHandler = artistHandler.NewArtistHandler(c.ArtistService, c.Validator)
	c.AlbumHandler = albumHandler.NewAlbumHandler(c.AlbumService, c.Validator)
	c.ImageHandler = imageHandler.NewImageHandler(c.ImageService, c.Validator, c.Config.MinIO.MaxFileSize)
	c.UserHandler = userHandler.NewUserHandler(c.UserService, c.Validator)
}

// Cleanup releases infrastructure resources during shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				logger.Error("failed to close redis", err)
			}
		}
	}
}
