package sqlite

import (
	"log"

	store "cashflow-sentinel/internal/storage/sqlite"
)

// Open открывает отдельный файл SQLite под векторный индекс
func Open(path string) (*Index, error) {
	if path == "" {
		path = "./data/vectors.db"
	}
	log.Printf("Opening vector index: path=%s", path)

	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	idx, err := NewIndex(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}
