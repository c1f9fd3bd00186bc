package container

import (
	"context"
	"fmt"
	"time"

	"asset-manager-backend/internal/config"
	infraCache "asset-manager-backend/internal/infrastructure/cache"
	"asset-manager-backend/internal/infrastructure/database"
	"asset-manager-backend/internal/infrastructure/memory"
	"asset-manager-backend/internal/infrastructure/storage"
	"asset-manager-backend/pkg/cache"
	"asset-manager-backend/pkg/jwt"
	"asset-manager-backend/pkg/logger"

	assetHandler "asset-manager-backend/internal/domains/asset/handler"
	assetRepo "asset-manager-backend/internal/domains/asset/repository"
	assetService "asset-manager-backend/internal/domains/asset/service"
	categoryHandler "asset-manager-backend/internal/domains/category/handler"
	categoryRepo "asset-manager-backend/internal/domains/category/repository"
	categoryService "asset-manager-backend/internal/domains/category/service"
	directoryHandler "asset-manager-backend/internal/domains/directory/handler"
	directoryRepo "asset-manager-backend/internal/domains/directory/repository"

	"github.com/rs/zerolog/log"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa toàn bộ dependencies của application
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	DB         *database.PostgresDB  // nil khi STORE_DRIVER=memory
	MemoryDB   *memory.DB            // nil khi STORE_DRIVER=postgres
	Cache      cache.Cache           // Redis, fallback in-process
	Storage    *storage.MinIOStorage // nil khi MinIO tắt hoặc không kết nối được
	JWTManager *jwt.Manager

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	AssetStores   assetRepo.Stores
	AssetTx       assetRepo.TxRunner
	CategoryRepo  categoryRepo.Repository
	DirectoryRepo directoryRepo.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	AssetService    assetService.AssetService
	CategoryService categoryService.CategoryService

	// ========================================
	// HANDLER LAYER
	// ========================================
	AssetHandler     *assetHandler.AssetHandler
	CategoryHandler  *categoryHandler.CategoryHandler
	DirectoryHandler *directoryHandler.DirectoryHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer dựng dependency graph theo thứ tự:
// Config → Infrastructure (DB, Cache, Storage) → Repositories → Services → Handlers
func NewContainer() (*Container, error) {
	log.Info().Msg("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Info("✅ Config loaded", map[string]interface{}{
		"environment":  cfg.App.Environment,
		"store_driver": cfg.App.StoreDriver,
	})

	// ========================================
	// STEP 2: INITIALIZE STORE
	// ========================================
	if err := c.initStore(); err != nil {
		return nil, err
	}

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	c.initCache()

	// ========================================
	// STEP 4: INITIALIZE OBJECT STORAGE
	// ========================================
	c.initStorage()

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// ========================================
	// STEP 5: REPOSITORIES → SERVICES → HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initStore() error {
	if c.Config.App.StoreDriver == config.StoreDriverMemory {
		log.Warn().Msg("🧪 Using in-memory store (data is lost on restart)")
		c.MemoryDB = memory.NewDB()
		if err := seedDemoData(c.MemoryDB); err != nil {
			return fmt.Errorf("failed to seed memory store: %w", err)
		}
		return nil
	}

	log.Info().Msg("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Info().Msg("✅ Database connected")
	return nil
}

// initCache - Redis không critical: lỗi kết nối thì dùng cache trong process
func (c *Container) initCache() {
	if c.MemoryDB != nil {
		c.Cache = infraCache.NewMemoryCache()
		return
	}

	redisCache := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := redisCache.Connect(context.Background()); err != nil {
		logger.Warn("⚠️  Redis connection failed (non-critical), using in-process cache", map[string]interface{}{
			"error": err.Error(),
		})
		_ = redisCache.Close()
		c.Cache = infraCache.NewMemoryCache()
		return
	}

	c.Cache = redisCache
}

// initStorage - MinIO lỗi thì chỉ tắt chức năng ảnh
func (c *Container) initStorage() {
	if !c.Config.MinIO.Enabled {
		log.Info().Msg("MinIO disabled, asset images unavailable")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := storage.NewMinIOStorage(ctx, c.Config.MinIO)
	if err != nil {
		logger.Warn("⚠️  MinIO unavailable (non-critical), asset images disabled", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	c.Storage = s
	log.Info().Str("bucket", c.Config.MinIO.Bucket).Msg("✅ MinIO connected")
}

func (c *Container) initRepositories() {
	if c.MemoryDB != nil {
		c.AssetStores = assetRepo.NewMemoryStores(c.MemoryDB)
		c.AssetTx = assetRepo.NewMemoryTxRunner(c.MemoryDB)
		c.CategoryRepo = categoryRepo.NewMemoryRepository(c.MemoryDB)
		c.DirectoryRepo = directoryRepo.NewMemoryRepository(c.MemoryDB)
		return
	}

	pool := c.DB.Pool
	c.AssetStores = assetRepo.NewPostgresStores(pool)
	c.AssetTx = assetRepo.NewPostgresTxRunner(pool)
	c.CategoryRepo = categoryRepo.NewPostgresRepository(pool)
	c.DirectoryRepo = directoryRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	// interface nil thật sự khi không có storage (tránh typed-nil)
	var objects assetService.ObjectStorage
	if c.Storage != nil {
		objects = c.Storage
	}

	c.AssetService = assetService.NewAssetService(
		c.AssetTx,
		c.AssetStores,
		c.DirectoryRepo,
		c.Cache,
		objects,
		c.Config.Cache,
	)
	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo)
}

func (c *Container) initHandlers() {
	c.AssetHandler = assetHandler.NewAssetHandler(c.AssetService)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.DirectoryHandler = directoryHandler.NewDirectoryHandler(c.DirectoryRepo)
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	log.Info().Msg("🧹 Cleaning up container resources...")

	if c.DB != nil {
		c.DB.Close()
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to close Redis")
		} else {
			log.Info().Msg("✅ Redis connections closed")
		}
	}

	log.Info().Msg("✅ Container cleanup completed")
}
