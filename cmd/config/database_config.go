package config

import (
	"PantryPal/internal/utils"
	"PantryPal/pkg/user"
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Store is the document store selected by DB_DRIVER. Exactly one of
// Gorm and Mongo is set unless the driver is memory.
type Store struct {
	Driver string
	Users  user.UserRepository
	Gorm   *gorm.DB
	Mongo  *mongo.Database

	close func(ctx context.Context) error
}

func ConnectStore(ctx context.Context) (*Store, error) {
	driver := utils.GetConfig("DB_DRIVER")
	switch driver {
	case DriverMongo:
		return connectMongo(ctx)
	case DriverPostgres:
		return connectPostgres()
	case DriverMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return &Store{
			Driver: DriverMemory,
			Users:  user.NewMemoryUserRepository(),
			close:  func(context.Context) error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
}

func connectMongo(ctx context.Context) (*Store, error) {
	uri := utils.GetConfig("MONGO_URI")
	if uri == "" {
		return nil, fmt.Errorf("MONGO_URI is not set")
	}

	client, err := mongo.Connect(options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10 * time.Second))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(utils.GetConfig("MONGO_DATABASE"))
	return &Store{
		Driver: DriverMongo,
		Users:  user.NewMongoUserRepository(db),
		Mongo:  db,
		close:  client.Disconnect,
	}, nil
}

func connectPostgres() (*Store, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		utils.GetConfig("DB_HOST"),
		utils.GetConfig("DB_USER"),
		utils.GetConfig("DB_PASSWORD"),
		utils.GetConfig("DB_NAME"),
		utils.GetConfig("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return &Store{
		Driver: DriverPostgres,
		Users:  user.NewUserRepository(db),
		Gorm:   db,
		close:  func(context.Context) error { return sqlDB.Close() },
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}
