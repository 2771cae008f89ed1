// Пакет paths — построение директорий партиций и безопасное
// разрешение клиентских относительных путей внутри корня хранилища.
//
// Партиция файла полностью определяется координатами (service, folder, user_id)
// и после создания не меняется: root/service[/folder][/user_id].
package paths

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsafePath — путь или сегмент выходит за пределы корня хранилища.
var ErrUnsafePath = errors.New("небезопасный путь")

// Builder — чистое построение путей относительно корня хранилища.
// Директории не создаёт, состояния не имеет.
type Builder struct {
	root string
}

// NewBuilder создаёт Builder. root должен быть абсолютным путём.
func NewBuilder(root string) *Builder {
	return &Builder{root: filepath.Clean(root)}
}

// Root возвращает корень хранилища.
func (b *Builder) Root() string {
	return b.root
}

// Build возвращает директорию партиции root/service[/folder][/user_id],
// добавляя только непустые сегменты. Каждый сегмент проверяется на
// path-traversal: разделители пути, "..", "." и NUL запрещены.
func (b *Builder) Build(service, folder, userID string) (string, error) {
	dir := b.root

	for _, seg := range []string{service, folder, userID} {
		if seg == "" {
			continue
		}
		if err := validateSegment(seg); err != nil {
			return "", err
		}
		dir = filepath.Join(dir, seg)
	}

	return dir, nil
}

// Resolve преобразует клиентский относительный путь в абсолютный,
// гарантируя что результат остаётся внутри корня хранилища.
// Абсолютные пути и выход через ".." отклоняются.
func (b *Builder) Resolve(relPath string) (string, error) {
	if relPath == "" {
		return "", fmt.Errorf("%w: пустой путь", ErrUnsafePath)
	}
	if strings.ContainsRune(relPath, 0) {
		return "", fmt.Errorf("%w: NUL в пути", ErrUnsafePath)
	}
	if filepath.IsAbs(relPath) {
		return "", fmt.Errorf("%w: абсолютный путь %q", ErrUnsafePath, relPath)
	}

	full := filepath.Clean(filepath.Join(b.root, relPath))
	if full != b.root && !strings.HasPrefix(full, b.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q выходит за корень хранилища", ErrUnsafePath, relPath)
	}
	if full == b.root {
		// Путь схлопнулся в корень — файла с таким именем быть не может
		return "", fmt.Errorf("%w: %q указывает на корень", ErrUnsafePath, relPath)
	}

	return full, nil
}

// Relative возвращает путь файла относительно корня хранилища
// с прямыми слэшами (формат file_path в API).
func (b *Builder) Relative(fullPath string) (string, error) {
	rel, err := filepath.Rel(b.root, fullPath)
	if err != nil {
		return "", fmt.Errorf("путь %q вне корня %q: %w", fullPath, b.root, err)
	}
	return filepath.ToSlash(rel), nil
}

// validateSegment проверяет одиночный сегмент пути партиции.
func validateSegment(seg string) error {
	if seg == "." || seg == ".." {
		return fmt.Errorf("%w: сегмент %q", ErrUnsafePath, seg)
	}
	if strings.ContainsAny(seg, `/\`) || strings.ContainsRune(seg, 0) {
		return fmt.Errorf("%w: сегмент %q содержит запрещённые символы", ErrUnsafePath, seg)
	}
	return nil
}
