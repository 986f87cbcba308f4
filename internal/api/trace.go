package api

import (
	"context"
	"errors"

	"github.com/abhisek/learnpath/internal/store"
)

// StoreTracer records every request as a request event in the event store.
type StoreTracer struct {
	repo store.EventRepo
}

// NewStoreTracer creates a tracer writing to repo.
func NewStoreTracer(repo store.EventRepo) *StoreTracer {
	return &StoreTracer{repo: repo}
}

// TraceRequest records the request as pending and returns a function that
// stores its outcome. Recording failures are dropped so tracing can never
// affect a request's outcome.
func (s *StoreTracer) TraceRequest(ctx context.Context, method, url string) func(Trace) {
	if s == nil || s.repo == nil {
		return nil
	}
	ctx = context.WithoutCancel(ctx)
	id, err := s.repo.StartRequest(ctx, method, url)
	if err != nil {
		return nil
	}
	return func(t Trace) {
		_ = s.repo.FinishRequest(ctx, id, requestEventData(t))
	}
}

func requestEventData(t Trace) store.RequestEventData {
	data := store.RequestEventData{
		Method:    t.Method,
		URL:       t.URL,
		Status:    t.Status,
		LatencyMs: t.Latency.Milliseconds(),
		Success:   t.Err == nil,
	}
	if t.Err != nil {
		data.ErrorMessage = t.Err.Error()
		var ne *NetworkError
		if errors.As(t.Err, &ne) && ne.Err != nil {
			data.ErrorMessage = ne.Err.Error()
		}
	}
	return data
}
