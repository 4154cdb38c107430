package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "wireframe.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDocumentLifecycle(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	doc, err := db.CreateDocument(ctx, "Landing")
	if err != nil {
		t.Fatal(err)
	}
	got, err := db.GetDocument(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Landing" || got.ID != doc.ID {
		t.Errorf("GetDocument() = %+v", got)
	}

	if _, err := db.CreateDocument(ctx, "Dashboard"); err != nil {
		t.Fatal(err)
	}
	docs, err := db.ListDocuments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Errorf("len(ListDocuments()) = %d, want 2", len(docs))
	}

	if _, err := db.SaveSnapshot(ctx, doc.ID, []byte(`{"v":1}`)); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteDocument(ctx, doc.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := db.GetDocument(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetDocument() after delete error = %v, want ErrNotFound", err)
	}
	if _, err := db.LatestSnapshot(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("LatestSnapshot() after delete error = %v, want ErrNotFound", err)
	}
	if err := db.DeleteDocument(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteDocument() error = %v, want ErrNotFound", err)
	}
}

func TestSnapshotVersionsAndRetention(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	doc, err := db.CreateDocument(ctx, "Shop")
	if err != nil {
		t.Fatal(err)
	}

	const saves = SnapshotRetention + 5
	for i := 1; i <= saves; i++ {
		snap, err := db.SaveSnapshot(ctx, doc.ID, []byte(fmt.Sprintf(`{"n":%d}`, i)))
		if err != nil {
			t.Fatal(err)
		}
		if snap.Version != i {
			t.Fatalf("version = %d, want %d", snap.Version, i)
		}
	}

	latest, err := db.LatestSnapshot(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if latest.Version != saves || string(latest.Data) != fmt.Sprintf(`{"n":%d}`, saves) {
		t.Errorf("latest = v%d %s", latest.Version, latest.Data)
	}

	snaps, err := db.ListSnapshots(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != SnapshotRetention {
		t.Fatalf("len(ListSnapshots()) = %d, want %d", len(snaps), SnapshotRetention)
	}
	if snaps[0].Version != saves || snaps[len(snaps)-1].Version != saves-SnapshotRetention+1 {
		t.Errorf("versions %d..%d", snaps[len(snaps)-1].Version, snaps[0].Version)
	}
	if snaps[0].Data != nil {
		t.Error("ListSnapshots() loaded data")
	}
}

func TestSaveSnapshotUnknownDocument(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.SaveSnapshot(context.Background(), "doc_missing", []byte(`{}`)); !errors.Is(err, ErrNotFound) {
		t.Errorf("SaveSnapshot() error = %v, want ErrNotFound", err)
	}
}

func TestPersister(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	doc, _ := db.CreateDocument(ctx, "Blog")

	if _, err := db.Load(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() before save error = %v, want ErrNotFound", err)
	}
	if err := db.Save(ctx, doc.ID, []byte(`{"a":1}`)); err != nil {
		t.Fatal(err)
	}
	if err := db.Save(ctx, doc.ID, []byte(`{"a":2}`)); err != nil {
		t.Fatal(err)
	}
	data, err := db.Load(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"a":2}` {
		t.Errorf("Load() = %s", data)
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "w.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	doc, _ := db.CreateDocument(ctx, "Keep")
	db.Save(ctx, doc.ID, []byte(`{}`))
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := db.GetDocument(ctx, doc.ID); err != nil {
		t.Errorf("GetDocument() after reopen error = %v", err)
	}
}
