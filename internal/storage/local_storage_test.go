package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorageSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	if err != nil {
		t.Fatalf("create storage: %v", err)
	}

	data := []byte("fake image bytes")
	key, err := store.Save(context.Background(), data, SaveOptions{Category: "Banners", Extension: "png"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(key, "banners/") {
		t.Errorf("expected sanitized category prefix, got %q", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Errorf("expected png extension, got %q", key)
	}

	written, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(written) != string(data) {
		t.Error("stored bytes differ from input")
	}
}

func TestLocalStorageRejectsEmptyPayload(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("create storage: %v", err)
	}
	if _, err := store.Save(context.Background(), nil, SaveOptions{Category: "banners"}); err == nil {
		t.Error("expected error for empty payload")
	}
}

func TestBuildObjectPathSanitizes(t *testing.T) {
	key := buildObjectPath("Itens Especiais!", "Foto do Item", "JPG")
	if strings.Contains(key, " ") || strings.Contains(key, "!") {
		t.Errorf("expected sanitized path, got %q", key)
	}
	if !strings.HasSuffix(key, "foto-do-item.jpg") {
		t.Errorf("expected normalized base and extension, got %q", key)
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercases", input: "Banners", expected: "banners"},
		{name: "drops invalid characters", input: "fotos do leilão", expected: "fotosdoleilo"},
		{name: "keeps dashes and underscores", input: "banner_16-9", expected: "banner_16-9"},
		{name: "empty", input: "   ", expected: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeToken(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
