package repo

import (
	"context"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/civictechlab/contrib-api/internal/domain"
)

// Store is the relational side: events, politicians and the contribution
// ledger live here; everything keyed by structured identifiers lives in Redis.
type Store struct {
	DB *gorm.DB
}

// NewStore opens the sqlite database at path. An empty path selects a shared
// in-memory database, useful for testing.
func NewStore(path string) (*Store, error) {
	dsn := "file::memory:?cache=shared"
	if path != "" {
		dsn = path
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&domain.Event{},
		&domain.Politician{},
		&domain.Contribution{},
	); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	db, err := s.DB.DB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

func (s *Store) Close() error {
	db, err := s.DB.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
