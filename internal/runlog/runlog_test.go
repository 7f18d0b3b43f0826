package runlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	mdsrouter "github.com/msto63/mDS/docscript/router"
)

func testStores(t *testing.T) map[string]RunStore {
	t.Helper()

	sqlite, err := NewSQLiteRunStore(SQLiteRunConfig{
		Path: filepath.Join(t.TempDir(), "runs.db"),
	})
	if err != nil {
		t.Fatalf("NewSQLiteRunStore failed: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]RunStore{
		"sqlite": sqlite,
		"memory": NewMemoryRunStore(),
	}
}

func sampleRecord(runID string, success bool) *Record {
	return &Record{
		RunID:      runID,
		Source:     "PRINT 1",
		Success:    success,
		Privileged: !success,
		Namespaces: []string{"FILE"},
		Output:     []string{"1"},
		ErrorKind:  "",
		DurationMS: 3,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestAppendAndGet(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := store.Append(ctx, sampleRecord("run-1", true)); err != nil {
				t.Fatalf("Append failed: %v", err)
			}

			rec, err := store.Get(ctx, "run-1")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if rec.Source != "PRINT 1" || !rec.Success {
				t.Errorf("record = %+v", rec)
			}
			if len(rec.Namespaces) != 1 || rec.Namespaces[0] != "FILE" {
				t.Errorf("namespaces = %v", rec.Namespaces)
			}
			if len(rec.Output) != 1 || rec.Output[0] != "1" {
				t.Errorf("output = %v", rec.Output)
			}

			if _, err := store.Get(ctx, "missing"); err == nil {
				t.Error("Get(missing) succeeded")
			}
		})
	}
}

func TestList_NewestFirst(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			for i, id := range []string{"run-a", "run-b", "run-c"} {
				rec := sampleRecord(id, true)
				rec.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Second)
				if err := store.Append(ctx, rec); err != nil {
					t.Fatal(err)
				}
			}

			records, err := store.List(ctx, 2, 0)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(records) != 2 {
				t.Fatalf("got %d records, want 2", len(records))
			}
			if records[0].RunID != "run-c" {
				t.Errorf("first record = %s, want run-c", records[0].RunID)
			}
		})
	}
}

func TestStatistics(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_ = store.Append(ctx, sampleRecord("ok-1", true))
			_ = store.Append(ctx, sampleRecord("ok-2", true))
			_ = store.Append(ctx, sampleRecord("bad-1", false))

			stats, err := store.Statistics(ctx)
			if err != nil {
				t.Fatalf("Statistics failed: %v", err)
			}
			if stats["total_runs"] != 3 || stats["succeeded"] != 2 || stats["failed"] != 1 {
				t.Errorf("stats = %v", stats)
			}
		})
	}
}

func TestFromResult(t *testing.T) {
	result := &mdsrouter.Result{
		RunID:        "run-x",
		Success:      false,
		Output:       []string{"partial"},
		Privileged:   true,
		Namespaces:   []string{"MESH"},
		ErrorKind:    mdsrouter.KindPrivilegedTimeout,
		ErrorMessage: "deadline",
		Duration:     1500 * time.Millisecond,
	}

	rec := FromResult("MESH.PEERS()", result)
	if rec.RunID != "run-x" || rec.Success || !rec.Privileged {
		t.Errorf("record = %+v", rec)
	}
	if rec.ErrorKind != "PrivilegedTimeout" || rec.DurationMS != 1500 {
		t.Errorf("record = %+v", rec)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}
