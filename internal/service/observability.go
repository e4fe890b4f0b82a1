package service

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"
)

// UseCaseEvent is reported once per mutating service call, after it returns.
type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	// Fields carries identifiers of the records involved, e.g. lead_id.
	Fields map[string]any
	Err    error
}

func (e UseCaseEvent) Succeeded() bool {
	return e.Err == nil
}

type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

// SlogUseCaseObserver logs each event as one "use_case" record. Failures are
// logged at error level, everything else at info.
type SlogUseCaseObserver struct {
	Logger *slog.Logger
}

// NewLogUseCaseObserver logs text records at or above level to w.
func NewLogUseCaseObserver(w io.Writer, level slog.Level) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return SlogUseCaseObserver{Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))}
}

func (o SlogUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := []slog.Attr{
		slog.String("name", event.Name),
		slog.Int64("duration_ms", event.Duration.Milliseconds()),
	}
	for _, k := range slices.Sorted(maps.Keys(event.Fields)) {
		attrs = append(attrs, slog.Any(k, event.Fields[k]))
	}

	level := slog.LevelInfo
	if event.Err != nil {
		level = slog.LevelError
		attrs = append(attrs, slog.String("error", event.Err.Error()))
	}
	o.Logger.LogAttrs(ctx, level, "use_case", attrs...)
}

// observe reports a use case that began at startedAt and ended with err.
func (s settings) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  s.now().Sub(startedAt),
		Fields:    fields,
		Err:       err,
	})
}
