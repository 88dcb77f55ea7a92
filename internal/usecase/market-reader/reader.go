package marketreader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	marketv1 "github.com/adarshXpal/orderbook-reconstructor/internal/domain/market/v1"
	"github.com/adarshXpal/orderbook-reconstructor/pkg/errors"
	"github.com/adarshXpal/orderbook-reconstructor/pkg/logger"
	"github.com/shopspring/decimal"
)

// mboFieldCount is the number of columns an MBO record carries:
// ts_recv, ts_event, rtype, publisher_id, instrument_id, action, side, price,
// size, channel_id, order_id, flags, ts_in_delta, sequence, symbol.
const mboFieldCount = 15

// Reader reads MBO events from a CSV file, one record per event. The first
// record is a header and is skipped on construction.
type Reader struct {
	file      *os.File
	csvReader *csv.Reader
	logger    logger.Interface
	line      int
}

// NewReader opens the input file and positions the reader past the header.
func NewReader(path string, log logger.Interface) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewTracer(fmt.Sprintf("could not open input file %s", path)).
			WithCode(errors.InputOpenError).Wrap(err)
	}

	csvReader := csv.NewReader(file)
	csvReader.FieldsPerRecord = -1 // length is validated per record

	reader := &Reader{
		file:      file,
		csvReader: csvReader,
		logger:    log,
	}

	// First record is a header.
	if _, err := csvReader.Read(); err != nil && err != io.EOF {
		file.Close()
		return nil, errors.NewTracer("could not read input header").
			WithCode(errors.InputReadError).Wrap(err)
	}
	reader.line = 1

	return reader, nil
}

// Next reads and parses the next MBO record. It returns io.EOF once the file
// is exhausted. A record whose fields cannot be parsed fails the run: book
// state must never be built from defaulted values.
func (r *Reader) Next(ctx context.Context) (*marketv1.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record, err := r.csvReader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, errors.NewTracer(fmt.Sprintf("could not read record at line %d", r.line+1)).
			WithCode(errors.InputReadError).Wrap(err)
	}
	r.line++

	event, err := r.parseRecord(record)
	if err != nil {
		return nil, errors.NewTracer(fmt.Sprintf("malformed record at line %d", r.line)).
			WithCode(errors.MalformedRecordError).Wrap(err)
	}

	return event, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// parseRecord converts one CSV record into an event, parsing every numeric
// field strictly. An empty price parses to zero, matching streams that leave
// the price blank on no-price events.
func (r *Reader) parseRecord(record []string) (*marketv1.Event, error) {
	if len(record) < mboFieldCount {
		return nil, fmt.Errorf("expected %d fields, got %d", mboFieldCount, len(record))
	}

	event := &marketv1.Event{
		TsRecv:     record[0],
		TsEvent:    record[1],
		Action:     marketv1.ParseAction(record[5]),
		ActionCode: record[5],
		Side:       marketv1.ParseSide(record[6]),
		OrderID:    record[10],
		Symbol:     record[14],
	}

	var err error
	if event.RType, err = parseInt("rtype", record[2]); err != nil {
		return nil, err
	}
	if event.PublisherID, err = parseInt("publisher_id", record[3]); err != nil {
		return nil, err
	}
	if event.InstrumentID, err = parseInt("instrument_id", record[4]); err != nil {
		return nil, err
	}
	if event.Price, err = parsePrice(record[7]); err != nil {
		return nil, err
	}
	if event.Size, err = parseSize(record[8]); err != nil {
		return nil, err
	}
	if event.ChannelID, err = parseInt("channel_id", record[9]); err != nil {
		return nil, err
	}
	if event.Flags, err = parseInt("flags", record[11]); err != nil {
		return nil, err
	}
	if event.TsInDelta, err = parseInt("ts_in_delta", record[12]); err != nil {
		return nil, err
	}
	if event.Sequence, err = parseInt("sequence", record[13]); err != nil {
		return nil, err
	}

	return event, nil
}

func parseInt(field, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	return n, nil
}

func parseSize(value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", value, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid size %q: must be non-negative", value)
	}
	return n, nil
}

func parsePrice(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	price, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", value, err)
	}
	return price, nil
}
