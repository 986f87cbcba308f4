package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestReopenKeepsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.EventRepo().AppendRequest(ctx, RequestEventData{Method: "GET", URL: "/a", Status: 200, Success: true}); err != nil {
		t.Fatalf("append: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	events, err := s.EventRepo().QueryRequestEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events after reopen, want 1", len(events))
	}
}

func TestRequestEventAppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	inputs := []RequestEventData{
		{Method: "GET", URL: "http://localhost:5000/api/users/profile", Status: 200, LatencyMs: 12, Success: true},
		{Method: "PUT", URL: "http://localhost:5000/api/users/profile", Status: 401, LatencyMs: 8, ErrorMessage: "Not authorized"},
		{Method: "POST", URL: "http://localhost:5000/api/users/logout", LatencyMs: 3, ErrorMessage: "connection refused"},
	}
	for _, in := range inputs {
		if err := repo.AppendRequest(ctx, in); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	events, err := repo.QueryRequestEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}

	// Newest first.
	if events[0].Method != "POST" || events[2].Method != "GET" {
		t.Errorf("unexpected order: %s, %s, %s", events[0].Method, events[1].Method, events[2].Method)
	}
	if events[1].Status != 401 || events[1].ErrorMessage != "Not authorized" || events[1].Success {
		t.Errorf("event fields not round-tripped: %+v", events[1])
	}
	if events[2].Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
	if events[0].Sequence <= events[1].Sequence {
		t.Errorf("sequence not increasing: %d <= %d", events[0].Sequence, events[1].Sequence)
	}

	limited, err := repo.QueryRequestEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d limited events, want 2", len(limited))
	}

	after, err := repo.QueryRequestEvents(ctx, QueryOpts{After: events[1].Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 1 || after[0].Method != "POST" {
		t.Errorf("After filter returned %+v", after)
	}
}

func TestGetRequestEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendRequest(ctx, RequestEventData{Method: "GET", URL: "/api/skills", Status: 200, Success: true}); err != nil {
		t.Fatalf("append: %v", err)
	}
	events, err := repo.QueryRequestEvents(ctx, QueryOpts{})
	if err != nil || len(events) != 1 {
		t.Fatalf("query: %v (%d events)", err, len(events))
	}

	got, err := repo.GetRequestEvent(ctx, events[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.URL != "/api/skills" {
		t.Fatalf("got %+v, want /api/skills", got)
	}

	missing, err := repo.GetRequestEvent(ctx, events[0].ID+100)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing event, got %+v", missing)
	}
}

func TestPruneRequestEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := repo.AppendRequest(ctx, RequestEventData{Method: "GET", URL: "/x", Status: 200 + i}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	n, err := repo.PruneRequestEvents(ctx, 2)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 3 {
		t.Errorf("pruned %d, want 3", n)
	}

	events, err := repo.QueryRequestEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Status != 204 || events[1].Status != 203 {
		t.Errorf("kept wrong events: %d, %d", events[0].Status, events[1].Status)
	}

	n, err = repo.PruneRequestEvents(ctx, 10)
	if err != nil {
		t.Fatalf("prune no-op: %v", err)
	}
	if n != 0 {
		t.Errorf("pruned %d with keep above count, want 0", n)
	}
}

func TestLLMEventsAndUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	inputs := []LLMRequestEventData{
		{Provider: "mock", Model: "m", Purpose: "study-tip", InputTokens: 10, OutputTokens: 20, LatencyMs: 100, Success: true},
		{Provider: "mock", Model: "m", Purpose: "study-tip", InputTokens: 30, OutputTokens: 40, LatencyMs: 300, Success: true},
		{Provider: "mock", Model: "m", Purpose: "other", InputTokens: 1, OutputTokens: 2, LatencyMs: 50, ErrorMessage: "boom"},
	}
	for _, in := range inputs {
		if err := repo.AppendLLMRequest(ctx, in); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Purpose != "other" || events[0].ErrorMessage != "boom" {
		t.Errorf("newest event = %+v", events[0])
	}

	stats, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d usage rows, want 2", len(stats))
	}
	tip := stats[1]
	if tip.Purpose != "study-tip" {
		t.Fatalf("stats[1].Purpose = %q", tip.Purpose)
	}
	if tip.Calls != 2 || tip.InputTokens != 40 || tip.OutputTokens != 60 || tip.AvgLatencyMs != 200 {
		t.Errorf("study-tip usage = %+v", tip)
	}

	models, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("model usage: %v", err)
	}
	if len(models) != 1 || models[0].Model != "m" || models[0].Calls != 3 || models[0].InputTokens != 41 {
		t.Errorf("model usage = %+v", models)
	}

	got, err := repo.GetLLMEvent(ctx, events[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Purpose != "other" {
		t.Errorf("GetLLMEvent = %+v", got)
	}
	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil || missing != nil {
		t.Errorf("GetLLMEvent(missing) = %+v, %v", missing, err)
	}
}

func TestSequenceSharedAcrossTables(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendRequest(ctx, RequestEventData{Method: "GET", URL: "/a"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Purpose: "study-tip"}); err != nil {
		t.Fatal(err)
	}

	reqs, _ := repo.QueryRequestEvents(ctx, QueryOpts{})
	llms, _ := repo.QueryLLMEvents(ctx, QueryOpts{})
	if len(reqs) != 1 || len(llms) != 1 {
		t.Fatalf("got %d request and %d llm events", len(reqs), len(llms))
	}
	if llms[0].Sequence != reqs[0].Sequence+1 {
		t.Errorf("llm sequence %d, request sequence %d", llms[0].Sequence, reqs[0].Sequence)
	}
}

func TestMigrationFollowsEventSchemas(t *testing.T) {
	s := openTestStore(t)

	tables, err := eventTables()
	if err != nil {
		t.Fatalf("event tables: %v", err)
	}
	if len(tables) != len(eventSchemas) {
		t.Fatalf("got %d tables, want %d", len(tables), len(eventSchemas))
	}

	for _, want := range tables {
		rows, err := s.DB().Query("SELECT name FROM pragma_table_info(?)", want.Name)
		if err != nil {
			t.Fatalf("table info %s: %v", want.Name, err)
		}
		got := map[string]bool{}
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				t.Fatalf("scan: %v", err)
			}
			got[name] = true
		}
		rows.Close()

		for _, c := range want.Columns {
			if !got[c.Name] {
				t.Errorf("table %s is missing column %s", want.Name, c.Name)
			}
		}
	}

	for _, idx := range []string{"request_events_timestamp", "llm_events_purpose"} {
		var n int
		err := s.DB().QueryRow("SELECT count(*) FROM sqlite_master WHERE type = 'index' AND name = ?", idx).Scan(&n)
		if err != nil {
			t.Fatalf("lookup index %s: %v", idx, err)
		}
		if n != 1 {
			t.Errorf("index %s not created", idx)
		}
	}
}

func TestStartAndFinishRequest(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	id, err := repo.StartRequest(ctx, "PUT", "/api/users/profile")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	ev, err := repo.GetRequestEvent(ctx, id)
	if err != nil || ev == nil {
		t.Fatalf("get started event: %v, %v", ev, err)
	}
	if !ev.Pending() {
		t.Errorf("started event should be pending: %+v", ev)
	}

	err = repo.FinishRequest(ctx, id, RequestEventData{Status: 500, LatencyMs: 40, ErrorMessage: "boom"})
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	ev, err = repo.GetRequestEvent(ctx, id)
	if err != nil || ev == nil {
		t.Fatalf("get finished event: %v, %v", ev, err)
	}
	if ev.Pending() || ev.Status != 500 || ev.LatencyMs != 40 || ev.ErrorMessage != "boom" {
		t.Errorf("finished event = %+v", ev)
	}
	if ev.Method != "PUT" || ev.URL != "/api/users/profile" {
		t.Errorf("request fields changed on finish: %+v", ev)
	}
}
