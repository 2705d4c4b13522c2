// Package sqlite: встраиваемое хранилище экономики на GORM + SQLite.
// Используется для запуска на одном узле без PostgreSQL и в тестах.
//
// Соединение с базой одно, поэтому все транзакции выполняются строго
// по очереди: это и есть сериализация проверок лимитов и вех.
package sqlite

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"seaseed.dev/economy/internal/store"
)

// Store реализует store.Store поверх GORM.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// Open открывает (или создаёт) файл базы и применяет схему.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия SQLite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения соединения: %w", err)
	}
	// Одно соединение, потому что :memory: живёт, пока оно открыто, а транзакции не пересекаются
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := Migrate(db); err != nil {
		sqlDB.Close()
		return nil, err
	}

	log.WithField("path", path).Info("Хранилище SQLite готово")
	return &Store{db: db}, nil
}

// OpenMemory открывает чистую базу в памяти.
func OpenMemory() (*Store, error) {
	return Open(":memory:")
}

// Migrate создаёт таблицы по моделям.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&accountRow{},
		&transactionRow{},
		&scoreRecordRow{},
		&milestoneRow{},
		&activityRow{},
		&postRow{},
		&adminAttemptRow{},
	)
	if err != nil {
		return fmt.Errorf("ошибка миграции SQLite: %w", err)
	}
	return nil
}

// Close закрывает соединение.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
