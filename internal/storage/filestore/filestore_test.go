package filestore

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
)

// TestNew_CreatesPartitions проверяет создание корня и партиций.
func TestNew_CreatesPartitions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	fs, err := New(dir, []string{"web", "ai", "temp"})
	if err != nil {
		t.Fatalf("ошибка создания FileStore: %v", err)
	}

	for _, p := range []string{"web", "ai", "temp"} {
		info, err := os.Stat(filepath.Join(fs.Root(), p))
		if err != nil {
			t.Fatalf("партиция %s не создана: %v", p, err)
		}
		if !info.IsDir() {
			t.Errorf("партиция %s не является директорией", p)
		}
	}
}

// TestNew_AbsoluteRoot проверяет, что корень приводится к абсолютному пути.
func TestNew_AbsoluteRoot(t *testing.T) {
	fs, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("ошибка создания FileStore: %v", err)
	}

	if !filepath.IsAbs(fs.Root()) {
		t.Errorf("корень должен быть абсолютным: %s", fs.Root())
	}
}

// TestSaveFile проверяет сохранение файла с подсчётом SHA-256.
func TestSaveFile(t *testing.T) {
	fs, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("ошибка создания FileStore: %v", err)
	}

	content := []byte("Hello, World! Тестовые данные для проверки.")
	dir := filepath.Join(fs.Root(), "web", "avatars")

	result, err := fs.SaveFile(dir, "abc123.jpg", content)
	if err != nil {
		t.Fatalf("ошибка сохранения: %v", err)
	}

	if result.Size != int64(len(content)) {
		t.Errorf("размер: ожидалось %d, получено %d", len(content), result.Size)
	}

	expectedHash := sha256.Sum256(content)
	expectedChecksum := hex.EncodeToString(expectedHash[:])
	if result.Checksum != expectedChecksum {
		t.Errorf("checksum: ожидалось %s, получено %s", expectedChecksum, result.Checksum)
	}

	data, err := os.ReadFile(result.FullPath)
	if err != nil {
		t.Fatalf("ошибка чтения файла: %v", err)
	}
	if !bytes.Equal(data, content) {
		t.Error("содержимое файла не совпадает")
	}
}

// TestSaveFile_NoTmpFile проверяет, что temp файл удалён после сохранения.
func TestSaveFile_NoTmpFile(t *testing.T) {
	fs, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("ошибка создания FileStore: %v", err)
	}

	result, err := fs.SaveFile(fs.Root(), "file.txt", []byte("data"))
	if err != nil {
		t.Fatalf("ошибка сохранения: %v", err)
	}

	if _, err := os.Stat(result.FullPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("временный файл не должен существовать")
	}
}

// TestReadFile_NotFound проверяет, что отсутствие файла распознаваемо.
func TestReadFile_NotFound(t *testing.T) {
	fs, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("ошибка создания FileStore: %v", err)
	}

	_, err = fs.ReadFile(filepath.Join(fs.Root(), "nonexistent.txt"))
	if !os.IsNotExist(err) {
		t.Errorf("ожидалась ошибка os.IsNotExist, получено %v", err)
	}
}

// TestRemove проверяет удаление файла и идемпотентность повторного удаления.
func TestRemove(t *testing.T) {
	fs, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("ошибка создания FileStore: %v", err)
	}

	result, err := fs.SaveFile(fs.Root(), "delete.txt", []byte("delete me"))
	if err != nil {
		t.Fatalf("ошибка сохранения: %v", err)
	}

	if err := fs.Remove(result.FullPath); err != nil {
		t.Fatalf("ошибка удаления: %v", err)
	}
	if fs.Exists(result.FullPath) {
		t.Error("файл должен быть удалён")
	}

	// Повторное удаление — не ошибка
	if err := fs.Remove(result.FullPath); err != nil {
		t.Errorf("удаление несуществующего файла не должно быть ошибкой: %v", err)
	}
}

// TestWalkFiles проверяет рекурсивный обход только обычных файлов.
func TestWalkFiles(t *testing.T) {
	fs, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("ошибка создания FileStore: %v", err)
	}

	dirs := []string{
		filepath.Join(fs.Root(), "web"),
		filepath.Join(fs.Root(), "web", "avatars"),
		filepath.Join(fs.Root(), "ai"),
	}
	files := []string{"a.txt", "b.txt", "c.txt"}
	for i, d := range dirs {
		if _, err := fs.SaveFile(d, files[i], []byte("x")); err != nil {
			t.Fatalf("ошибка сохранения: %v", err)
		}
	}

	seen := map[string]bool{}
	err = fs.WalkFiles(fs.Root(), func(path string, info os.FileInfo) {
		seen[filepath.Base(path)] = true
	})
	if err != nil {
		t.Fatalf("ошибка обхода: %v", err)
	}

	for _, f := range files {
		if !seen[f] {
			t.Errorf("файл %s не найден при обходе", f)
		}
	}
	if len(seen) != len(files) {
		t.Errorf("ожидалось %d файлов, найдено %d", len(files), len(seen))
	}
}

// TestWalkFiles_UnreadableRoot проверяет, что ошибка доступа к самому
// корню обхода пробрасывается, а не превращается в пустой результат.
// Корень, указывающий сквозь обычный файл, даёт ENOTDIR — ошибку,
// отличную от "не существует".
func TestWalkFiles_UnreadableRoot(t *testing.T) {
	fs, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("ошибка создания FileStore: %v", err)
	}

	result, err := fs.SaveFile(fs.Root(), "plain.txt", []byte("x"))
	if err != nil {
		t.Fatalf("ошибка сохранения: %v", err)
	}

	calls := 0
	err = fs.WalkFiles(filepath.Join(result.FullPath, "sub"), func(string, os.FileInfo) {
		calls++
	})
	if err == nil {
		t.Fatal("ожидалась ошибка обхода недоступного корня")
	}
	if calls != 0 {
		t.Errorf("fn не должна вызываться, вызвана %d раз", calls)
	}
}

// TestWalkFiles_MissingDir проверяет, что обход несуществующей директории
// завершается без ошибки и без вызовов fn.
func TestWalkFiles_MissingDir(t *testing.T) {
	fs, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("ошибка создания FileStore: %v", err)
	}

	calls := 0
	err = fs.WalkFiles(filepath.Join(fs.Root(), "no-such-dir"), func(string, os.FileInfo) {
		calls++
	})
	if err != nil {
		t.Errorf("несуществующая директория не должна быть ошибкой: %v", err)
	}
	if calls != 0 {
		t.Errorf("fn не должна вызываться, вызвана %d раз", calls)
	}
}
