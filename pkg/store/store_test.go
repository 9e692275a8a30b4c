package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func testRecord(brief string, created time.Time) *Record {
	rec := NewRecord(brief, 1080, 1080, []byte(`{"version":"5.3.0","width":1080,"height":1080,"objects":[]}`), true, nil)
	rec.CreatedAt = created
	return rec
}

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ctx := context.Background()

	rec := NewRecord("taco tuesday", 1080, 1080,
		[]byte(`{"version":"5.3.0","width":1080,"height":1080,"objects":[]}`),
		false, []string{"boundary: rect extends past right edge"})

	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Brief != rec.Brief {
		t.Errorf("Brief = %q, want %q", got.Brief, rec.Brief)
	}
	if got.Valid {
		t.Error("Valid = true, want false")
	}
	if len(got.Violations) != 1 {
		t.Errorf("Violations = %v, want 1 entry", got.Violations)
	}
	if string(got.Document) != string(rec.Document) {
		t.Errorf("Document = %s, want %s", got.Document, rec.Document)
	}
	var doc map[string]any
	if err := json.Unmarshal(got.Document, &doc); err != nil {
		t.Errorf("stored document is not valid JSON: %v", err)
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestFileStorePutReplaces(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ctx := context.Background()

	rec := testRecord("first", time.Now().UTC())
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	rec.Brief = "second"
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Brief != "second" {
		t.Errorf("Brief = %q, want %q", got.Brief, "second")
	}

	records, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 1 {
		t.Errorf("List() returned %d records, want 1", len(records))
	}
}

func TestFileStoreListNewestFirst(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, brief := range []string{"oldest", "middle", "newest"} {
		if err := s.Put(ctx, testRecord(brief, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	records, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("List() returned %d records, want 3", len(records))
	}
	want := []string{"newest", "middle", "oldest"}
	for i, w := range want {
		if records[i].Brief != w {
			t.Errorf("records[%d].Brief = %q, want %q", i, records[i].Brief, w)
		}
	}

	limited, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(limited) != 2 || limited[0].Brief != "newest" {
		t.Errorf("List(2) = %d records starting with %q, want 2 starting with %q",
			len(limited), limited[0].Brief, "newest")
	}
}

func TestFileStoreDelete(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ctx := context.Background()

	rec := testRecord("doomed", time.Now().UTC())
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}

	// Deleting again is not an error.
	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Errorf("Delete() on missing record error = %v", err)
	}
}

func TestNewRecordDefaults(t *testing.T) {
	rec := NewRecord("brief", 800, 600, []byte(`{}`), true, nil)
	if rec.ID == "" {
		t.Error("ID is empty")
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
	if rec.Width != 800 || rec.Height != 600 {
		t.Errorf("dimensions = %dx%d, want 800x600", rec.Width, rec.Height)
	}
}
