package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteTextAtomicLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "relatorio.txt")
	if err := WriteTextAtomic(path, "conteudo"); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "conteudo" {
		t.Fatalf("unexpected content %q err=%v", b, err)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("expected only the artifact, got %d entries", len(entries))
	}
}
