// Package backend picks the storage engine behind the follow graph once at startup.
package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/nano-midea/socialgraph/internal/repositories"
	"github.com/anonto42/nano-midea/socialgraph/pkg/config"
	"go.uber.org/zap"
)

// Kind names a storage backend
type Kind string

const (
	Relational Kind = "postgres"
	Document   Kind = "mongo"
	Memory     Kind = "memory"
)

// ParseKind accepts the backend names and their aliases, case-insensitively
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql", "relational", "sql":
		return Relational, nil
	case "mongo", "mongodb", "document":
		return Document, nil
	case "memory", "inmemory", "in-memory":
		return Memory, nil
	}
	return "", fmt.Errorf("unknown storage backend %q", s)
}

// Stores is the set of repositories for the selected backend.
// It is built once by Open and never switched afterwards.
type Stores struct {
	kind  Kind
	Edges repositories.EdgeRepository
	Users repositories.UserDirectory
	Posts repositories.PostRepository
	// Publish writes posts into the same store Posts reads from
	Publish repositories.PostWriter
	// Seed writes users into the active directory's store
	Seed repositories.UserWriter
	db   *config.DB
}

// Kind reports the backend the stores were opened with
func (s *Stores) Kind() Kind { return s.kind }

// Close releases the database connections, if any
func (s *Stores) Close() {
	if s.db != nil {
		s.db.CloseDB()
	}
}

// Open connects the backend named in cfg, prepares its schema and returns its repositories.
// The relational backend keeps posts in MongoDB, so it needs both connections.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	kind, err := ParseKind(cfg.Backend)
	if err != nil {
		return nil, err
	}

	var stores *Stores
	switch kind {
	case Memory:
		stores = openMemory()
	case Relational:
		stores, err = openRelational(ctx, cfg, logger)
	case Document:
		stores, err = openDocument(ctx, cfg, logger)
	}
	if err != nil {
		return nil, err
	}

	if cfg.DirectoryCacheSize > 0 {
		stores.Users = repositories.NewCachedUserDirectory(stores.Users, cfg.DirectoryCacheSize, cfg.DirectoryCacheTTL)
	}
	logger.Info("storage backend selected", zap.String("backend", string(kind)))
	return stores, nil
}

func openMemory() *Stores {
	users := repositories.NewMemoryUserRepository()
	posts := repositories.NewMemoryPostRepository()
	return &Stores{
		kind:    Memory,
		Edges:   repositories.NewMemoryFollowRepository(),
		Users:   users,
		Posts:   posts,
		Publish: posts,
		Seed:    users,
	}
}

func openRelational(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	if cfg.PostgresURL == "" || cfg.MongoURI == "" {
		return nil, fmt.Errorf("the %s backend needs POSTGRES_URL and MONGO_URI", Relational)
	}
	db := config.NewDB(logger)
	if err := db.InitPostgres(ctx, cfg.PostgresURL); err != nil {
		return nil, err
	}
	if err := db.InitMongo(ctx, cfg.MongoURI); err != nil {
		db.CloseDB()
		return nil, err
	}

	edges := repositories.NewPostgresFollowRepository(db.Postgres)
	users := repositories.NewPostgresUserRepository(db.Postgres)
	posts := repositories.NewMongoPostRepository(db.Mongo.Database(cfg.MongoDatabase))
	if err := prepare(ctx, users.Migrate, edges.Migrate, posts.EnsureIndexes); err != nil {
		db.CloseDB()
		return nil, err
	}
	logger.Info("PostgreSQL auto-migrations completed")

	return &Stores{kind: Relational, Edges: edges, Users: users, Posts: posts, Publish: posts, Seed: users, db: db}, nil
}

func openDocument(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("the %s backend needs MONGO_URI", Document)
	}
	db := config.NewDB(logger)
	if err := db.InitMongo(ctx, cfg.MongoURI); err != nil {
		return nil, err
	}

	database := db.Mongo.Database(cfg.MongoDatabase)
	edges := repositories.NewMongoFollowRepository(database)
	users := repositories.NewMongoUserRepository(database)
	posts := repositories.NewMongoPostRepository(database)
	if err := prepare(ctx, edges.EnsureIndexes, posts.EnsureIndexes); err != nil {
		db.CloseDB()
		return nil, err
	}
	logger.Info("MongoDB indexes ensured")

	return &Stores{kind: Document, Edges: edges, Users: users, Posts: posts, Publish: posts, Seed: users, db: db}, nil
}

func prepare(ctx context.Context, steps ...func(context.Context) error) error {
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return fmt.Errorf("prepare schema: %w", err)
		}
	}
	return nil
}
