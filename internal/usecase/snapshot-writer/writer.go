package snapshotwriter

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	snapshotv1 "github.com/adarshXpal/orderbook-reconstructor/internal/domain/snapshot/v1"
	"github.com/adarshXpal/orderbook-reconstructor/pkg/errors"
	"github.com/adarshXpal/orderbook-reconstructor/pkg/logger"
	"github.com/shopspring/decimal"
)

// Writer serializes emitted snapshots as CSV rows. Each row starts with a
// running index; level columns follow the bid/ask interleaved layout with
// zero-padded two-digit suffixes.
type Writer struct {
	file      *os.File
	csvWriter *csv.Writer
	logger    logger.Interface
	rows      int
}

// NewWriter creates the output file, truncating any previous run's output.
func NewWriter(path string, log logger.Interface) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, errors.NewTracer(fmt.Sprintf("could not create output file %s", path)).
			WithCode(errors.OutputCreateError).Wrap(err)
	}

	return &Writer{
		file:      file,
		csvWriter: csv.NewWriter(file),
		logger:    log,
	}, nil
}

// WriteHeader writes the column header row.
func (w *Writer) WriteHeader() error {
	header := []string{
		"", "ts_recv", "ts_event", "rtype", "publisher_id", "instrument_id",
		"action", "side", "depth", "price", "size", "flags", "ts_in_delta", "sequence",
	}
	for i := 0; i < snapshotv1.BookDepth; i++ {
		header = append(header,
			fmt.Sprintf("bid_px_%02d", i),
			fmt.Sprintf("bid_sz_%02d", i),
			fmt.Sprintf("bid_ct_%02d", i),
			fmt.Sprintf("ask_px_%02d", i),
			fmt.Sprintf("ask_sz_%02d", i),
			fmt.Sprintf("ask_ct_%02d", i),
		)
	}
	header = append(header, "symbol", "order_id")

	if err := w.csvWriter.Write(header); err != nil {
		return errors.NewTracer("could not write output header").
			WithCode(errors.OutputWriteError).Wrap(err)
	}
	return nil
}

// WriteSnapshot appends one snapshot row and advances the running row index.
func (w *Writer) WriteSnapshot(snapshot *snapshotv1.Snapshot) error {
	record := []string{
		strconv.Itoa(w.rows),
		snapshot.TsRecv,
		snapshot.TsEvent,
		strconv.Itoa(snapshot.RType),
		strconv.Itoa(snapshot.PublisherID),
		strconv.Itoa(snapshot.InstrumentID),
		string(snapshot.Action),
		string(snapshot.Side),
		strconv.Itoa(snapshot.Depth),
		priceText(snapshot.Price),
		strconv.FormatInt(snapshot.Size, 10),
		strconv.Itoa(snapshot.Flags),
		strconv.Itoa(snapshot.TsInDelta),
		strconv.Itoa(snapshot.Sequence),
	}

	for i := 0; i < snapshotv1.BookDepth; i++ {
		record = append(record,
			priceText(snapshot.Bids[i].Price),
			strconv.FormatInt(snapshot.Bids[i].Size, 10),
			strconv.Itoa(snapshot.Bids[i].Count),
			priceText(snapshot.Asks[i].Price),
			strconv.FormatInt(snapshot.Asks[i].Size, 10),
			strconv.Itoa(snapshot.Asks[i].Count),
		)
	}
	record = append(record, snapshot.Symbol, snapshot.OrderID)

	if err := w.csvWriter.Write(record); err != nil {
		return errors.NewTracer(fmt.Sprintf("could not write output row %d", w.rows)).
			WithCode(errors.OutputWriteError).Wrap(err)
	}

	w.rows++
	return nil
}

// Rows returns the number of snapshot rows written so far.
func (w *Writer) Rows() int {
	return w.rows
}

// Close flushes buffered rows and closes the file. A flush failure is
// reported so the run never claims success with a truncated output.
func (w *Writer) Close() error {
	w.csvWriter.Flush()
	if err := w.csvWriter.Error(); err != nil {
		w.file.Close()
		return errors.NewTracer("could not flush output").
			WithCode(errors.OutputWriteError).Wrap(err)
	}
	return w.file.Close()
}

// priceText renders a price with fixed 2-decimal precision, or empty text for
// a zero/absent price.
func priceText(price decimal.Decimal) string {
	if price.GreaterThan(decimal.Zero) {
		return price.StringFixed(2)
	}
	return ""
}
