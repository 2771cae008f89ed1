// Пакет filestore — операции с физическими файлами на диске.
// Запись через временный файл с подсчётом SHA-256 на лету и атомарным
// rename, чтение, удаление и рекурсивный обход дерева хранилища.
package filestore

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
)

// FileStore — управление физическими файлами под корнем хранилища.
type FileStore struct {
	// root — абсолютный путь корневой директории хранилища
	root string
}

// SaveResult — результат сохранения файла на диск.
type SaveResult struct {
	// FullPath — абсолютный путь файла на диске
	FullPath string
	// Size — размер записанных данных в байтах
	Size int64
	// Checksum — SHA-256 хэш содержимого файла (hex)
	Checksum string
}

// New создаёт FileStore: приводит root к абсолютному пути, создаёт
// корневую директорию и перечисленные верхнеуровневые партиции.
func New(root string, partitions []string) (*FileStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("не удалось определить абсолютный путь %s: %w", root, err)
	}

	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать корень хранилища %s: %w", abs, err)
	}

	for _, p := range partitions {
		dir := filepath.Join(abs, p)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("не удалось создать партицию %s: %w", dir, err)
		}
	}

	return &FileStore{root: abs}, nil
}

// Root возвращает абсолютный путь корня хранилища.
func (fs *FileStore) Root() string {
	return fs.root
}

// SaveFile записывает content в dir/filename, создавая директорию
// при необходимости.
//
// Паттерн: temp файл → запись + SHA-256 → fsync → atomic rename.
// При ошибке temp файл удаляется.
func (fs *FileStore) SaveFile(dir, filename string, content []byte) (*SaveResult, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("ошибка создания директории %s: %w", dir, err)
	}

	fullPath := filepath.Join(dir, filename)
	tmpPath := fullPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания временного файла: %w", err)
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка записи данных: %w", err)
	}

	// fsync для гарантии записи на диск
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка fsync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	// Атомарный rename
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка атомарного переименования: %w", err)
	}

	hash := sha256.Sum256(content)

	return &SaveResult{
		FullPath: fullPath,
		Size:     int64(len(content)),
		Checksum: hex.EncodeToString(hash[:]),
	}, nil
}

// ReadFile возвращает полное содержимое файла по абсолютному пути.
// Ошибка os.IsNotExist пробрасывается без обёртки для проверки вызывающим.
func (fs *FileStore) ReadFile(fullPath string) ([]byte, error) {
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Remove удаляет файл с диска. Отсутствие файла — не ошибка.
func (fs *FileStore) Remove(fullPath string) error {
	err := os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления файла %s: %w", fullPath, err)
	}
	return nil
}

// Exists проверяет существование обычного файла на диске.
func (fs *FileStore) Exists(fullPath string) bool {
	info, err := os.Stat(fullPath)
	return err == nil && info.Mode().IsRegular()
}

// WalkFiles рекурсивно обходит dir и вызывает fn для каждого обычного
// файла. Ошибки stat отдельных записей пропускаются, обход продолжается.
// Несуществующая директория — не ошибка (пустой результат), но любая
// другая ошибка на самом корне обхода (недоступная директория)
// пробрасывается вызывающему.
func (fs *FileStore) WalkFiles(dir string, fn func(fullPath string, info os.FileInfo)) error {
	err := filepath.WalkDir(dir, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				if os.IsNotExist(err) {
					return filepath.SkipAll
				}
				return err
			}
			// Проблемная запись пропускается, обход продолжается
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, statErr := d.Info()
		if statErr != nil {
			return nil
		}
		fn(path, info)
		return nil
	})
	if err != nil {
		return fmt.Errorf("ошибка обхода %s: %w", dir, err)
	}
	return nil
}
