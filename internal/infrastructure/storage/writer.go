package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"mindstage-server/pkg/logger"
)

// Save пишет документ мира атомарно: сначала во временный файл,
// затем rename. Прерванная запись никогда не портит предыдущий сейв.
// Одна повторная попытка при сбое; вторая ошибка отдается наверх
// и является фатальной для движка.
func Save(dir string, doc *Document) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}
	path := filepath.Join(dir, WorldFileName)

	if err := writeAtomic(path, doc); err != nil {
		logger.Log.Warnf("Save failed, retrying once: %v", err)
		if err := writeAtomic(path, doc); err != nil {
			return fmt.Errorf("save world document: %w", err)
		}
	}
	return nil
}

func writeAtomic(path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".world-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
