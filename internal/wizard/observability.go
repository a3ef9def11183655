package wizard

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/crossjob/internal/domain"
)

// SaveEvent records one persistence call made by autosave.
type SaveEvent struct {
	Step     domain.StepID
	Duration time.Duration
	Err      error
}

// SchemaEvent records one DELTA schema load.
type SchemaEvent struct {
	Code       string
	Duration   time.Duration
	FieldCount int
	Err        error
	// Stale is set when the result arrived after the user moved to another code.
	Stale bool
}

// Observer receives engine telemetry.
type Observer interface {
	ObserveSave(ctx context.Context, event SaveEvent)
	ObserveSchemaLoad(ctx context.Context, event SchemaEvent)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) ObserveSave(context.Context, SaveEvent)         {}
func (NoopObserver) ObserveSchemaLoad(context.Context, SchemaEvent) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes engine events to the provided writer.
func NewLogObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logObserver) ObserveSave(ctx context.Context, event SaveEvent) {
	attrs := []any{
		"step", string(event.Step),
		"duration_ms", event.Duration.Milliseconds(),
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "autosave", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "autosave", attrs...)
}

func (o *logObserver) ObserveSchemaLoad(ctx context.Context, event SchemaEvent) {
	attrs := []any{
		"code", event.Code,
		"duration_ms", event.Duration.Milliseconds(),
		"fields", event.FieldCount,
		"stale", event.Stale,
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.WarnContext(ctx, "schema_load", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "schema_load", attrs...)
}

// MultiObserver fans events out to every non-nil observer.
type MultiObserver []Observer

func (m MultiObserver) ObserveSave(ctx context.Context, event SaveEvent) {
	for _, o := range m {
		if o != nil {
			o.ObserveSave(ctx, event)
		}
	}
}

func (m MultiObserver) ObserveSchemaLoad(ctx context.Context, event SchemaEvent) {
	for _, o := range m {
		if o != nil {
			o.ObserveSchemaLoad(ctx, event)
		}
	}
}
