package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const requestEventsTable = "request_events"

var requestEventColumns = []string{
	"id", "sequence", "timestamp", "method", "url",
	"status", "latency_ms", "success", "error_message",
}

// eventRepo implements EventRepo using ent's SQL builder and the global
// sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *eventRepo) AppendRequest(ctx context.Context, data RequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(requestEventsTable).
		Columns("sequence", "timestamp", "method", "url", "status", "latency_ms", "success", "error_message").
		Values(seqNum, time.Now().UTC().UnixMilli(), data.Method, data.URL, data.Status, data.LatencyMs, data.Success, data.ErrorMessage).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("save request event: %w", err)
	}
	return nil
}

func (r *eventRepo) StartRequest(ctx context.Context, method, url string) (int, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(requestEventsTable).
		Columns("sequence", "timestamp", "method", "url", "success").
		Values(seqNum, time.Now().UTC().UnixMilli(), method, url, false).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return 0, fmt.Errorf("save request event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save request event: %w", err)
	}
	return int(id), nil
}

func (r *eventRepo) FinishRequest(ctx context.Context, id int, data RequestEventData) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Update(requestEventsTable).
		Set("status", data.Status).
		Set("latency_ms", data.LatencyMs).
		Set("success", data.Success).
		Set("error_message", data.ErrorMessage).
		Where(entsql.EQ("id", id)).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("finish request event %d: %w", id, err)
	}
	return nil
}

func (r *eventRepo) QueryRequestEvents(ctx context.Context, opts QueryOpts) ([]RequestEventRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(requestEventColumns...).
		From(entsql.Table(requestEventsTable)).
		OrderBy(entsql.Desc("sequence"))
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query request events: %w", err)
	}
	defer rows.Close()

	var out []RequestEventRecord
	for rows.Next() {
		rec, err := scanRequestEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetRequestEvent(ctx context.Context, id int) (*RequestEventRecord, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(requestEventColumns...).
		From(entsql.Table(requestEventsTable)).
		Where(entsql.EQ("id", id)).
		Limit(1).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("get request event: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	rec, err := scanRequestEvent(rows)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *eventRepo) PruneRequestEvents(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	// Find the sequence of the oldest event to keep.
	query, args := entsql.Dialect(dialect.SQLite).
		Select("sequence").
		From(entsql.Table(requestEventsTable)).
		OrderBy(entsql.Desc("sequence")).
		Offset(keep).
		Limit(1).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return 0, fmt.Errorf("query prune threshold: %w", err)
	}
	var threshold int64
	found := rows.Next()
	if found {
		if err := rows.Scan(&threshold); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan prune threshold: %w", err)
		}
	}
	rows.Close()
	if !found {
		return 0, nil // fewer than keep events exist
	}

	query, args = entsql.Dialect(dialect.SQLite).
		Delete(requestEventsTable).
		Where(entsql.LTE("sequence", threshold)).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return 0, fmt.Errorf("prune request events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune request events: %w", err)
	}
	return int(n), nil
}

func scanRequestEvent(rows *entsql.Rows) (RequestEventRecord, error) {
	var (
		rec RequestEventRecord
		ts  int64
	)
	err := rows.Scan(
		&rec.ID, &rec.Sequence, &ts, &rec.Method, &rec.URL,
		&rec.Status, &rec.LatencyMs, &rec.Success, &rec.ErrorMessage,
	)
	if err != nil {
		return RequestEventRecord{}, fmt.Errorf("scan request event: %w", err)
	}
	rec.Timestamp = time.UnixMilli(ts).UTC()
	return rec, nil
}

// applyQueryOpts adds filtering and pagination to a selector over an event
// table.
func applyQueryOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}
