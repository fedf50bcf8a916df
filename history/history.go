// Package history keeps the most recent finished attempts in memory and can
// ship them to object storage as JSON lines.
package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sync"
	"time"

	"saythenumber/shared/types"
)

// DefaultSize is how many outcomes a Recorder keeps
const DefaultSize = 50

// ErrObjectExists is returned when an export would overwrite an existing object
var ErrObjectExists = errors.New("export object already exists")

// Recorder is a capped, thread-safe ring of outcomes
type Recorder struct {
	mu       sync.RWMutex
	outcomes []types.Outcome
	max      int
}

// NewRecorder creates a recorder keeping the last size outcomes
func NewRecorder(size int) *Recorder {
	if size <= 0 {
		size = DefaultSize
	}
	return &Recorder{max: size, outcomes: make([]types.Outcome, 0, size)}
}

// AttemptFinished records an outcome, dropping the oldest beyond the cap
func (r *Recorder) AttemptFinished(outcome types.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.outcomes = append(r.outcomes, outcome)
	if len(r.outcomes) > r.max {
		r.outcomes = r.outcomes[len(r.outcomes)-r.max:]
	}
}

// Recent returns a copy of the recorded outcomes, oldest first
func (r *Recorder) Recent() []types.Outcome {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]types.Outcome{}, r.outcomes...)
}

// WriteJSONLines writes one JSON object per outcome
func (r *Recorder) WriteJSONLines(w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, o := range r.Recent() {
		if err := enc.Encode(o); err != nil {
			return fmt.Errorf("failed to encode outcome %s: %w", o.AttemptID, err)
		}
	}
	return nil
}

// ObjectStore is where exports are written
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	Exists(ctx context.Context, bucket, key string) (bool, error)
}

// Exporter uploads recorder snapshots to a bucket
type Exporter struct {
	store  ObjectStore
	bucket string
	prefix string
	now    func() time.Time
}

// NewExporter creates an exporter writing under bucket/prefix
func NewExporter(store ObjectStore, bucket, prefix string) *Exporter {
	return &Exporter{store: store, bucket: bucket, prefix: prefix, now: time.Now}
}

// Export writes the recorder's outcomes to a timestamped key and returns it
func (e *Exporter) Export(ctx context.Context, r *Recorder) (string, error) {
	key := path.Join(e.prefix, e.now().UTC().Format("20060102T150405.000000000Z")+".jsonl")

	exists, err := e.store.Exists(ctx, e.bucket, key)
	if err != nil {
		return "", fmt.Errorf("failed to check %s: %w", key, err)
	}
	if exists {
		return "", fmt.Errorf("%s: %w", key, ErrObjectExists)
	}

	var buf bytes.Buffer
	if err := r.WriteJSONLines(&buf); err != nil {
		return "", err
	}
	if err := e.store.Put(ctx, e.bucket, key, &buf, "application/x-ndjson"); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}
