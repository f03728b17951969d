package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()
	cfg := DefaultSQLiteConfig()
	cfg.Path = filepath.Join(t.TempDir(), "audit.db")

	s, err := NewSQLiteStorage(cfg)
	if err != nil {
		t.Fatalf("NewSQLiteStorage() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStorage_StoreAndQuery(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	records := []*Record{
		testRecord("t-1", "APPROVED", base),
		testRecord("t-2", "BLOCKED", base.Add(time.Minute)),
		testRecord("t-3", "REVISED", base.Add(2*time.Minute)),
	}
	records[1].BlockedBy = "SEC.1"
	records[2].CritiquesJSON = `[{"violation":true,"article_id":"GCP.4"}]`
	records[2].Delta = "@@ -1 +1 @@"

	for _, r := range records {
		if err := s.Store(ctx, r); err != nil {
			t.Fatalf("Store(%s) failed: %v", r.ID, err)
		}
	}

	results, err := s.Query(ctx, &Query{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len = %d, want 3", len(results))
	}
	if results[0].ID != "t-3" {
		t.Errorf("first = %s, want newest t-3", results[0].ID)
	}
	if results[0].CritiquesJSON == "" || results[0].Delta == "" {
		t.Errorf("round-tripped record lost fields: %+v", results[0])
	}

	blocked, err := s.Query(ctx, &Query{Status: "BLOCKED"})
	if err != nil {
		t.Fatalf("Query(BLOCKED) failed: %v", err)
	}
	if len(blocked) != 1 || blocked[0].BlockedBy != "SEC.1" {
		t.Errorf("blocked = %v, want t-2 with SEC.1", blocked)
	}
}

func TestSQLiteStorage_QueryPagination(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	for i := 0; i < 5; i++ {
		r := testRecord(string(rune('a'+i)), "APPROVED", base.Add(time.Duration(i)*time.Minute))
		if err := s.Store(ctx, r); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	page, err := s.Query(ctx, &Query{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(page) != 2 || page[0].ID != "d" || page[1].ID != "c" {
		t.Errorf("page = %v, want [d c]", page)
	}
}

func TestSQLiteStorage_Prune(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	old := testRecord("old", "APPROVED", base.Add(-48*time.Hour))
	recent := testRecord("recent", "APPROVED", base)
	for _, r := range []*Record{old, recent} {
		if err := s.Store(ctx, r); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	deleted, err := s.Prune(ctx, base.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	remaining, err := s.Query(ctx, nil)
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != "recent" {
		t.Errorf("remaining = %v, want [recent]", remaining)
	}
}

func TestSQLiteStorage_SchemaVersionStamped(t *testing.T) {
	s := newTestSQLite(t)

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("reading user_version failed: %v", err)
	}
	if version != schemaVersion {
		t.Errorf("user_version = %d, want %d", version, schemaVersion)
	}
}

func TestSQLiteStorage_DuplicateIDRejected(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	r := testRecord("t-1", "APPROVED", time.Now().UTC())
	if err := s.Store(ctx, r); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}
	if err := s.Store(ctx, r); err == nil {
		t.Fatal("Store() expected error for duplicate primary key")
	}
}
