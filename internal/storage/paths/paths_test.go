package paths

import (
	"errors"
	"path/filepath"
	"testing"
)

// TestBuild проверяет построение директории партиции из координат.
func TestBuild(t *testing.T) {
	b := NewBuilder("/data")

	tests := []struct {
		name     string
		service  string
		folder   string
		userID   string
		expected string
	}{
		{"только сервис", "web", "", "", "/data/web"},
		{"сервис и папка", "web", "avatars", "", "/data/web/avatars"},
		{"полные координаты", "web", "avatars", "user42", "/data/web/avatars/user42"},
		{"пропущенная папка", "ai", "", "user42", "/data/ai/user42"},
		{"всё пусто", "", "", "", "/data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, err := b.Build(tt.service, tt.folder, tt.userID)
			if err != nil {
				t.Fatalf("неожиданная ошибка: %v", err)
			}
			if dir != filepath.FromSlash(tt.expected) {
				t.Errorf("ожидалось %s, получено %s", tt.expected, dir)
			}
		})
	}
}

// TestBuild_UnsafeSegments проверяет отклонение traversal-координат.
func TestBuild_UnsafeSegments(t *testing.T) {
	b := NewBuilder("/data")

	tests := []struct {
		name    string
		service string
		folder  string
		userID  string
	}{
		{"точки в сервисе", "..", "", ""},
		{"слэш в сервисе", "web/evil", "", ""},
		{"обратный слэш в папке", "web", `a\b`, ""},
		{"точки в user_id", "web", "avatars", ".."},
		{"текущая директория", ".", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(tt.service, tt.folder, tt.userID)
			if !errors.Is(err, ErrUnsafePath) {
				t.Errorf("ожидалась ErrUnsafePath, получено %v", err)
			}
		})
	}
}

// TestResolve проверяет разрешение относительных путей внутри корня.
func TestResolve(t *testing.T) {
	b := NewBuilder("/data")

	full, err := b.Resolve("web/avatars/abc.jpg")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if full != filepath.FromSlash("/data/web/avatars/abc.jpg") {
		t.Errorf("неверный путь: %s", full)
	}
}

// TestResolve_Escape проверяет отклонение путей, выходящих за корень.
func TestResolve_Escape(t *testing.T) {
	b := NewBuilder("/data")

	tests := []string{
		"../etc/passwd",
		"web/../../etc/passwd",
		"/etc/passwd",
		"..",
		".",
		"",
	}

	for _, rel := range tests {
		if _, err := b.Resolve(rel); !errors.Is(err, ErrUnsafePath) {
			t.Errorf("Resolve(%q): ожидалась ErrUnsafePath, получено %v", rel, err)
		}
	}
}

// TestRelative проверяет обратное преобразование в относительный путь.
func TestRelative(t *testing.T) {
	b := NewBuilder("/data")

	rel, err := b.Relative(filepath.FromSlash("/data/web/file.txt"))
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if rel != "web/file.txt" {
		t.Errorf("ожидалось web/file.txt, получено %s", rel)
	}
}

// TestResolve_RoundTrip проверяет согласованность Build → Relative → Resolve.
func TestResolve_RoundTrip(t *testing.T) {
	b := NewBuilder("/data")

	dir, err := b.Build("office", "docs", "u1")
	if err != nil {
		t.Fatalf("ошибка Build: %v", err)
	}

	full := filepath.Join(dir, "report.pdf")
	rel, err := b.Relative(full)
	if err != nil {
		t.Fatalf("ошибка Relative: %v", err)
	}

	resolved, err := b.Resolve(rel)
	if err != nil {
		t.Fatalf("ошибка Resolve: %v", err)
	}
	if resolved != full {
		t.Errorf("round-trip не сошёлся: %s != %s", resolved, full)
	}
}
