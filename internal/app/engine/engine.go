package engine

import (
	"context"
	"io"
	"time"

	marketreaderv1 "github.com/adarshXpal/orderbook-reconstructor/internal/domain/market-reader/v1"
	marketv1 "github.com/adarshXpal/orderbook-reconstructor/internal/domain/market/v1"
	snapshotpublisherv1 "github.com/adarshXpal/orderbook-reconstructor/internal/domain/snapshot-publisher/v1"
	snapshotwriterv1 "github.com/adarshXpal/orderbook-reconstructor/internal/domain/snapshot-writer/v1"
	"github.com/adarshXpal/orderbook-reconstructor/internal/usecase/orderbook"
	"github.com/adarshXpal/orderbook-reconstructor/internal/usecase/snapshot"
	"github.com/adarshXpal/orderbook-reconstructor/pkg/logger"
	"github.com/adarshXpal/orderbook-reconstructor/pkg/util"
	"github.com/oklog/ulid/v2"
)

// Stats summarizes one reconstruction run.
type Stats struct {
	EventsRead     int64
	RowsEmitted    int64
	RowsSuppressed int64
}

// Engine drives the reconstruction pipeline: it reads MBO events one at a
// time, applies each to the book, builds an MBP-10 snapshot, and hands the
// snapshot to the writer (and optional publisher) when the change filter
// decides it must be emitted. Processing is strictly sequential; the book is
// never shared.
type Engine struct {
	book      *orderbook.Book
	reader    marketreaderv1.EventReader
	writer    snapshotwriterv1.RowWriter
	publisher snapshotpublisherv1.Publisher
	builder   *snapshot.Builder
	filter    *snapshot.ChangeFilter
	logger    *logger.Logger

	stats Stats
}

// NewEngine creates a new Engine. publisher may be nil when snapshot
// streaming is disabled.
func NewEngine(
	book *orderbook.Book,
	reader marketreaderv1.EventReader,
	writer snapshotwriterv1.RowWriter,
	publisher snapshotpublisherv1.Publisher,
	log *logger.Logger,
) *Engine {
	return &Engine{
		book:      book,
		reader:    reader,
		writer:    writer,
		publisher: publisher,
		builder:   snapshot.NewBuilder(),
		filter:    snapshot.NewChangeFilter(),
		logger:    log,
	}
}

// Run processes the whole input stream. It returns the first error
// encountered; a malformed record or a write failure aborts the run.
func (e *Engine) Run(ctx context.Context) error {
	ctx = util.WithRequestID(ctx, ulid.Make().String())
	started := time.Now()

	e.logger.InfoContext(ctx, "starting reconstruction")

	if err := e.writer.WriteHeader(); err != nil {
		return err
	}

	for {
		event, err := e.reader.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		e.stats.EventsRead++

		if err := e.processEvent(ctx, event); err != nil {
			return err
		}
	}

	e.logger.InfoContext(ctx, "reconstruction finished",
		logger.Field{Key: "events_read", Value: e.stats.EventsRead},
		logger.Field{Key: "rows_emitted", Value: e.stats.RowsEmitted},
		logger.Field{Key: "rows_suppressed", Value: e.stats.RowsSuppressed},
		logger.Field{Key: "elapsed", Value: time.Since(started).String()},
	)

	return nil
}

// processEvent applies one event and conditionally emits a snapshot. Cancel
// depth is resolved before the event is applied, while the cancelled order is
// still ranked; add depth after, once its level exists.
func (e *Engine) processEvent(ctx context.Context, event *marketv1.Event) error {
	depth := 0
	if event.Action == marketv1.ActionCancel {
		depth = e.builder.ResolveDepth(e.book, event)
	}

	e.book.Apply(event)

	if event.Action == marketv1.ActionAdd {
		depth = e.builder.ResolveDepth(e.book, event)
	}

	snap := e.builder.Build(e.book, event, depth)

	if !e.filter.Offer(snap) {
		e.stats.RowsSuppressed++
		return nil
	}

	if err := e.writer.WriteSnapshot(snap); err != nil {
		return err
	}
	e.stats.RowsEmitted++

	if e.publisher != nil {
		if err := e.publisher.PublishSnapshot(ctx, snap); err != nil {
			return err
		}
	}

	return nil
}

// Stats returns counters for the run so far.
func (e *Engine) Stats() Stats {
	return e.stats
}
