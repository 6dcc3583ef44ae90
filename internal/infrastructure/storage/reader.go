package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load читает документ мира. Валидацию инвариантов выполняет
// Document.RestoreStore: здесь только формат.
func Load(dir string) (*Document, error) {
	path := filepath.Join(dir, WorldFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse world document: %w", err)
	}
	if doc.Version == "" {
		return nil, fmt.Errorf("world document %q has no version field", path)
	}
	return &doc, nil
}

// Exists сообщает, есть ли сейв в каталоге.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, WorldFileName))
	return err == nil
}
