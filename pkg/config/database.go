package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB holds the database connections. Either may be nil depending on the backend.
type DB struct {
	Postgres *gorm.DB
	Mongo    *mongo.Client
	logger   *zap.Logger
}

// NewDB returns an empty connection set that closes through logger
func NewDB(logger *zap.Logger) *DB {
	return &DB{logger: logger}
}

// InitPostgres opens the PostgreSQL connection using GORM
func (db *DB) InitPostgres(ctx context.Context, connStr string) error {
	if connStr == "" {
		return fmt.Errorf("POSTGRES_URL environment variable not set")
	}

	pg, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		TranslateError: true,
		// pinged below with ctx, closing the pool on failure
		DisableAutomaticPing: true,
		Logger:               gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// Ping the database to verify connection
	sqlDB, err := pg.DB()
	if err != nil {
		return err
	}
	if err = sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	db.logger.Info("connected to PostgreSQL")
	db.Postgres = pg
	return nil
}

// InitMongo opens the MongoDB connection
func (db *DB) InitMongo(ctx context.Context, uri string) error {
	if uri == "" {
		return fmt.Errorf("MONGO_URI environment variable not set")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping the primary to verify connection
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db.logger.Info("connected to MongoDB")
	db.Mongo = client
	return nil
}

// CloseDB closes the database connections
func (db *DB) CloseDB() {
	if db.Postgres != nil {
		sqlDB, err := db.Postgres.DB()
		if err != nil {
			db.logger.Error("getting SQL DB from GORM", zap.Error(err))
		} else if err := sqlDB.Close(); err != nil {
			db.logger.Error("closing PostgreSQL connection", zap.Error(err))
		} else {
			db.logger.Info("PostgreSQL connection closed")
		}
	}

	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			db.logger.Error("closing MongoDB connection", zap.Error(err))
		} else {
			db.logger.Info("MongoDB connection closed")
		}
	}
}
