package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/curationlink/board-api/internal/api/metrics"
	"github.com/curationlink/board-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Dispatcher routes preview warm-up jobs to a fixed set of workers using
// consistent hashing on the board ID, so rapid successive edits to one board
// render in order on a single worker.
type Dispatcher struct {
	workers []chan string
	preview ports.PreviewService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, preview ports.PreviewService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan string, numWorkers),
		preview: preview,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a board ID to the worker responsible for it. When the
// worker's buffer is full the job is dropped: warm-up is best effort and the
// request path renders on demand anyway.
func (d *Dispatcher) Enqueue(boardID string) {
	i := d.shardIndex(boardID)
	select {
	case d.workers[i] <- boardID:
		metrics.RenderQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
	default:
		d.log.Warn().Str("board_id", boardID).Int("worker_id", i).Msg("render queue full, dropping warm-up")
	}
}

// shardIndex maps a board ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(boardID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(boardID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case boardID, ok := <-ch:
			if !ok {
				return
			}
			metrics.RenderQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if err := d.preview.Warm(ctx, boardID); err != nil {
				d.log.Error().Err(err).
					Str("board_id", boardID).
					Int("worker_id", id).
					Msg("preview warm-up failed")
			}
		}
	}
}
