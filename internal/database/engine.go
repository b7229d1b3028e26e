package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/crazycusti/ticket-desk/internal/errs"
	"github.com/crazycusti/ticket-desk/internal/logger"
	"github.com/glebarez/sqlite"
	"github.com/natefinch/atomic"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// memoryDSN opens a private in-memory database. Times are written in SQLite's own
// layout so they sort lexically and parse back into time.Time.
const memoryDSN = ":memory:?_time_format=sqlite"

const ticketColumns = "id, uid, customer_name, subject, note, start_at, end_at, status, created_at, updated_at"

// Engine keeps the ticket database in memory and snapshots it to a single file.
//
// The database is loaded (or created) lazily on the first EnsureInitialized call.
// Concurrent first callers share one initialization and all see its outcome.
// Durability is whatever the last successful Persist wrote.
type Engine struct {
	path    string
	nowFunc func() time.Time

	once    sync.Once
	initErr error
	db      *gorm.DB

	persistMu sync.Mutex
}

type Option func(*Engine)

// WithNowFunc sets the clock gorm uses for automatic timestamps.
func WithNowFunc(now func() time.Time) Option {
	return func(e *Engine) {
		e.nowFunc = now
	}
}

// NewEngine returns an engine backed by the snapshot file at path. It does no I/O.
func NewEngine(path string, opts ...Option) *Engine {
	e := &Engine{
		path:    path,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Path returns the snapshot file location.
func (e *Engine) Path() string {
	return e.path
}

// EnsureInitialized loads the snapshot file into memory, or creates an empty database
// and persists it when the file does not exist yet. Only the first call does any work.
// Later calls return the memoized result, including a failure.
func (e *Engine) EnsureInitialized(ctx context.Context) error {
	e.once.Do(func() {
		if err := e.load(context.WithoutCancel(ctx)); err != nil {
			e.initErr = fmt.Errorf("%w: %w", errs.ErrInit, err)
			logger.Sugar.Errorf("database: init %s: %v", e.path, err)
		}
	})
	return e.initErr
}

// DB returns the shared handle. It is nil until EnsureInitialized succeeds.
func (e *Engine) DB() *gorm.DB {
	return e.db
}

func (e *Engine) load(ctx context.Context) error {
	_, statErr := os.Stat(e.path)
	if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", e.path, statErr)
	}

	db, err := e.openMemory(ctx)
	if err != nil {
		return err
	}

	if statErr != nil {
		e.db = db
		if err := e.Persist(ctx); err != nil {
			e.db = nil
			closeDB(db)
			return err
		}
		logger.Sugar.Infof("database: created %s", e.path)
		return nil
	}

	if err := restore(ctx, db, e.path); err != nil {
		closeDB(db)
		return fmt.Errorf("load %s: %w", e.path, err)
	}
	e.db = db
	var n int64
	db.WithContext(ctx).Table("tickets").Count(&n)
	logger.Sugar.Infof("database: loaded %d tickets from %s", n, e.path)
	return nil
}

func (e *Engine) openMemory(ctx context.Context) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(memoryDSN), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: e.nowFunc,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// Every :memory: connection is its own database, so the pool must never grow or
	// recycle its single connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	if err := MigrateUp(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// restore copies the ticket rows of the snapshot at path into db.
func restore(ctx context.Context, db *gorm.DB, path string) error {
	return db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		if err := tx.Exec("ATTACH DATABASE ? AS snapshot", path).Error; err != nil {
			return fmt.Errorf("attach: %w", err)
		}
		defer tx.Exec("DETACH DATABASE snapshot")

		// An empty file attaches as an empty database. Without a tickets table there
		// is nothing to copy and the freshly migrated schema stands.
		var tables int64
		if err := tx.Raw("SELECT count(*) FROM snapshot.sqlite_master WHERE type = 'table' AND name = 'tickets'").Scan(&tables).Error; err != nil {
			return fmt.Errorf("inspect snapshot: %w", err)
		}
		if tables == 0 {
			return nil
		}
		copySQL := "INSERT INTO tickets (" + ticketColumns + ") SELECT " + ticketColumns + " FROM snapshot.tickets"
		if err := tx.Exec(copySQL).Error; err != nil {
			return fmt.Errorf("copy tickets: %w", err)
		}
		return nil
	})
}

// Persist writes the whole in-memory database to the snapshot file, replacing it
// atomically. Calls are serialized.
func (e *Engine) Persist(ctx context.Context) error {
	e.persistMu.Lock()
	defer e.persistMu.Unlock()

	if e.db == nil {
		return fmt.Errorf("%w: database not initialized", errs.ErrPersist)
	}
	if dir := filepath.Dir(e.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrPersist, err)
		}
	}
	// VACUUM INTO refuses to overwrite an existing file.
	tmp := e.path + ".tmp"
	if err := os.Remove(tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", errs.ErrPersist, err)
	}
	if err := e.db.WithContext(ctx).Exec("VACUUM INTO ?", tmp).Error; err != nil {
		return fmt.Errorf("%w: vacuum into %s: %w", errs.ErrPersist, tmp, err)
	}
	if err := atomic.ReplaceFile(tmp, e.path); err != nil {
		return fmt.Errorf("%w: replace %s: %w", errs.ErrPersist, e.path, err)
	}
	return nil
}

// Close releases the in-memory database. Unpersisted changes are lost.
func (e *Engine) Close() error {
	if e.db == nil {
		return nil
	}
	sqlDB, err := e.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
