// Package storage implements the key-code store on SQLite using GORM.
package storage

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/secure-shed/shedctl/internal/core/domain"
	"github.com/secure-shed/shedctl/internal/core/ports"
)

// KeyCodeModel is the GORM model for the KeyCodes table. The schema is shared
// with the loader tool, so table and column names are pinned explicitly.
type KeyCodeModel struct {
	KeyCode     string `gorm:"column:KeyCode;primaryKey"`
	IsMasterKey bool   `gorm:"column:IsMasterKey"`
}

func (KeyCodeModel) TableName() string { return "KeyCodes" }

// SQLiteAdapter implements ports.KeyCodeStore on a SQLite database file.
type SQLiteAdapter struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewSQLiteAdapter opens the database at path and migrates the schema.
func NewSQLiteAdapter(path string, log *slog.Logger) (*SQLiteAdapter, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&KeyCodeModel{}); err != nil {
		return nil, err
	}

	return &SQLiteAdapter{db: db, log: log}, nil
}

// LookupKeyCode resolves an entered digit sequence. Any failure collapses to
// ErrKeyCodeNotFound: the caller treats a broken database the same as a wrong
// code, and the underlying cause is logged here.
func (a *SQLiteAdapter) LookupKeyCode(ctx context.Context, keySequence string) (*domain.KeyCodeRecord, error) {
	var model KeyCodeModel
	err := a.db.WithContext(ctx).First(&model, "KeyCode = ?", keySequence).Error
	if err == nil {
		return &domain.KeyCodeRecord{IsMasterKey: model.IsMasterKey}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		a.log.Error("key code lookup failed", "error", err)
		return nil, ports.ErrKeyCodeNotFound
	}

	// No plaintext match. Rows loaded as bcrypt hashes cannot be found by
	// equality, so compare the sequence against each hashed row.
	if record, ok := a.matchHashed(ctx, keySequence); ok {
		return record, nil
	}
	return nil, ports.ErrKeyCodeNotFound
}

func (a *SQLiteAdapter) matchHashed(ctx context.Context, keySequence string) (*domain.KeyCodeRecord, bool) {
	var hashed []KeyCodeModel
	err := a.db.WithContext(ctx).
		Where("KeyCode LIKE ?", "$2%").
		Find(&hashed).Error
	if err != nil {
		a.log.Error("hashed key code scan failed", "error", err)
		return nil, false
	}

	for _, row := range hashed {
		if !strings.HasPrefix(row.KeyCode, "$2") {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(row.KeyCode), []byte(keySequence)) == nil {
			return &domain.KeyCodeRecord{IsMasterKey: row.IsMasterKey}, true
		}
	}
	return nil, false
}

// Insert adds or replaces a key code row. Used by tests and the loader.
func (a *SQLiteAdapter) Insert(ctx context.Context, keyCode string, isMasterKey bool) error {
	return a.db.WithContext(ctx).Save(&KeyCodeModel{
		KeyCode:     keyCode,
		IsMasterKey: isMasterKey,
	}).Error
}

// Close releases the underlying database handle.
func (a *SQLiteAdapter) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ ports.KeyCodeStore = (*SQLiteAdapter)(nil)
