package sqlite

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"cashflow-sentinel/internal/config"

	_ "modernc.org/sqlite"
)

// SQLiteStorage представляет хранилище SQLite
type SQLiteStorage struct {
	DB *sql.DB
}

// Open открывает файл SQLite без инициализации схемы.
// Используется также векторным бэкендом, которому нужна своя база
func Open(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		dbPath = "./data/cashflow.db"
	}

	// Создаем директорию, если её нет
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite поддерживает только одно соединение для записи
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// NewConnection создает новое соединение с SQLite и применяет схему
func NewConnection(cfg *config.Config) (*SQLiteStorage, error) {
	log.Printf("Connecting to SQLite: path=%s", cfg.DB.DBPath)

	db, err := Open(cfg.DB.DBPath)
	if err != nil {
		return nil, err
	}

	storage := &SQLiteStorage{DB: db}
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Println("SQLite connection established")
	return storage, nil
}

// Close закрывает соединение с БД
func (s *SQLiteStorage) Close() error {
	return s.DB.Close()
}
