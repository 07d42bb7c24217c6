package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eugener/foyer/internal/storage"
)

const (
	activityChanSize   = 1000
	activityBatchSize  = 100
	activityFlushEvery = 5 * time.Second
	activityDrainTime  = 30 * time.Second
)

// ActivityRecorder buffers audit activity and batch-flushes it to the store.
// Records are dropped if the channel is full (back-pressure on slow DB).
type ActivityRecorder struct {
	ch    chan storage.Activity
	store storage.ActivityStore
}

// NewActivityRecorder creates an ActivityRecorder backed by store.
func NewActivityRecorder(store storage.ActivityStore) *ActivityRecorder {
	return &ActivityRecorder{
		ch:    make(chan storage.Activity, activityChanSize),
		store: store,
	}
}

// Name returns the worker identifier.
func (a *ActivityRecorder) Name() string { return "activity_recorder" }

// Record enqueues an activity record. It never blocks; drops on full channel.
func (a *ActivityRecorder) Record(r storage.Activity) {
	select {
	case a.ch <- r:
	default:
		slog.Warn("activity record dropped, channel full")
	}
}

// Pending reports how many records are waiting to be flushed.
func (a *ActivityRecorder) Pending() int { return len(a.ch) }

// Run processes records until ctx is cancelled, then drains remaining records.
func (a *ActivityRecorder) Run(ctx context.Context) error {
	ticker := time.NewTicker(activityFlushEvery)
	defer ticker.Stop()

	buf := make([]storage.Activity, 0, activityBatchSize)

	for {
		select {
		case r := <-a.ch:
			buf = append(buf, r)
			if len(buf) >= activityBatchSize {
				a.flush(ctx, buf)
				buf = buf[:0]
			}

		case <-ticker.C:
			if len(buf) > 0 {
				a.flush(ctx, buf)
				buf = buf[:0]
			}

		case <-ctx.Done():
			// Drain remaining records with a timeout.
			a.drain(buf)
			return nil
		}
	}
}

func (a *ActivityRecorder) drain(buf []storage.Activity) {
	ctx, cancel := context.WithTimeout(context.Background(), activityDrainTime)
	defer cancel()

	for {
		select {
		case r := <-a.ch:
			buf = append(buf, r)
			if len(buf) >= activityBatchSize {
				a.flush(ctx, buf)
				buf = buf[:0]
			}
		default:
			// Channel empty, flush remaining.
			if len(buf) > 0 {
				a.flush(ctx, buf)
			}
			return
		}
	}
}

func (a *ActivityRecorder) flush(ctx context.Context, buf []storage.Activity) {
	// Copy to avoid aliasing the caller's slice.
	batch := make([]storage.Activity, len(buf))
	copy(batch, buf)

	// Assign IDs off the hot path; callers leave ID empty.
	for i := range batch {
		if batch[i].ID == "" {
			batch[i].ID = uuid.Must(uuid.NewV7()).String()
		}
	}

	if err := a.store.InsertActivity(ctx, batch); err != nil {
		slog.LogAttrs(ctx, slog.LevelError, "activity flush failed",
			slog.Int("count", len(batch)),
			slog.String("error", err.Error()),
		)
	}
}
