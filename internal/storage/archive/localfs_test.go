package archive

import (
	"context"
	"testing"
)

func TestLocalFS_ImplementsStorage(t *testing.T) {
	var _ Storage = (*LocalFS)(nil)
}

func TestS3_ImplementsStorage(t *testing.T) {
	var _ Storage = (*S3Storage)(nil)
}

func TestLocalFS_StoreLoad(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewLocalFS(dir)
	if err != nil {
		t.Fatalf("NewLocalFS: %v", err)
	}

	ctx := context.Background()
	data := []byte("trade,assets,final_pnl\n")

	if err := fs.Store(ctx, "run-1", "trades.csv", data); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, err := fs.Load(ctx, "run-1", "trades.csv")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if string(got) != string(data) {
		t.Errorf("got %q, want %q", got, data)
	}
}

func TestLocalFS_Exists(t *testing.T) {
	dir := t.TempDir()
	fs, _ := NewLocalFS(dir)
	ctx := context.Background()

	exists, _ := fs.Exists(ctx, "run-1", "nonexistent.csv")
	if exists {
		t.Error("expected false for nonexistent artifact")
	}

	fs.Store(ctx, "run-1", "report.md", []byte("# Backtest Report"))
	exists, _ = fs.Exists(ctx, "run-1", "report.md")
	if !exists {
		t.Error("expected true for stored artifact")
	}
}

func TestLocalFS_List(t *testing.T) {
	dir := t.TempDir()
	fs, _ := NewLocalFS(dir)
	ctx := context.Background()

	fs.Store(ctx, "run-1", "trades.csv", []byte("a"))
	fs.Store(ctx, "run-1", "series.csv", []byte("b"))
	fs.Store(ctx, "run-2", "trades.csv", []byte("c"))

	names, err := fs.List(ctx, "run-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("expected 2 artifacts, got %d", len(names))
	}

	names, err = fs.List(ctx, "missing-run")
	if err != nil {
		t.Fatalf("List missing run: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected no artifacts, got %d", len(names))
	}
}
