package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	marketreader "github.com/adarshXpal/orderbook-reconstructor/internal/usecase/market-reader"
	"github.com/adarshXpal/orderbook-reconstructor/internal/usecase/orderbook"
	snapshotwriter "github.com/adarshXpal/orderbook-reconstructor/internal/usecase/snapshot-writer"
	"github.com/adarshXpal/orderbook-reconstructor/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mboHeader = "ts_recv,ts_event,rtype,publisher_id,instrument_id,action,side,price,size,channel_id,order_id,flags,ts_in_delta,sequence,symbol\n"

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger()
	require.NoError(t, err)
	return log
}

// mboRow renders one input record with fixed timestamps and ids.
func mboRow(seq int, action, side, price string, size int64, orderID string) string {
	return fmt.Sprintf("1609160400000429831,1609160400000704060,160,2,5482,%s,%s,%s,%d,0,%s,130,165200,%d,ARL\n",
		action, side, price, size, orderID, seq)
}

// runPipeline executes a full reconstruction over the given input records and
// returns the output rows (header included) plus the run stats.
func runPipeline(t *testing.T, records ...string) ([]string, Stats) {
	t.Helper()

	dir := t.TempDir()
	inputPath := filepath.Join(dir, "mbo.csv")
	outputPath := filepath.Join(dir, "mbp.csv")
	require.NoError(t, os.WriteFile(inputPath, []byte(mboHeader+strings.Join(records, "")), 0o644))

	log := newTestLogger(t)

	reader, err := marketreader.NewReader(inputPath, log)
	require.NoError(t, err)
	defer reader.Close()

	writer, err := snapshotwriter.NewWriter(outputPath, log)
	require.NoError(t, err)

	eng := NewEngine(orderbook.NewBook(), reader, writer, nil, log)
	require.NoError(t, eng.Run(context.Background()))
	require.NoError(t, writer.Close())

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n"), eng.Stats()
}

func TestEngine_Run_AggregatesSamePriceLevel(t *testing.T) {
	lines, stats := runPipeline(t,
		mboRow(1, "R", "N", "", 0, ""),
		mboRow(2, "A", "B", "100.00", 10, "1"),
		mboRow(3, "A", "B", "100.00", 5, "2"),
	)

	// Header plus one row per event: the clear baseline and two visible adds.
	require.Len(t, lines, 4)
	assert.Equal(t, int64(3), stats.EventsRead)
	assert.Equal(t, int64(3), stats.RowsEmitted)

	last := strings.Split(lines[3], ",")
	assert.Equal(t, "100.00", last[14]) // bid_px_00
	assert.Equal(t, "15", last[15])     // bid_sz_00
	assert.Equal(t, "2", last[16])      // bid_ct_00
}

func TestEngine_Run_FirstClearAlwaysEmitted(t *testing.T) {
	lines, stats := runPipeline(t, mboRow(1, "R", "N", "", 0, ""))

	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), stats.RowsEmitted)

	row := strings.Split(lines[1], ",")
	assert.Equal(t, "0", row[0])
	assert.Equal(t, "R", row[6])
	assert.Equal(t, "", row[14]) // empty book: blank bid_px_00
}

func TestEngine_Run_ZeroSizeAddRestsWithCountOne(t *testing.T) {
	lines, stats := runPipeline(t,
		mboRow(1, "R", "N", "", 0, ""),
		mboRow(2, "A", "B", "100.00", 0, "1"),
	)

	require.Len(t, lines, 3)
	assert.Equal(t, int64(2), stats.RowsEmitted)

	row := strings.Split(lines[2], ",")
	assert.Equal(t, "100.00", row[14]) // bid_px_00
	assert.Equal(t, "0", row[15])      // bid_sz_00
	assert.Equal(t, "1", row[16])      // bid_ct_00
}

func TestEngine_Run_SuppressesUnchangedSnapshots(t *testing.T) {
	lines, stats := runPipeline(t,
		mboRow(1, "R", "N", "", 0, ""),
		mboRow(2, "A", "B", "100.00", 10, "1"),
		// Sideless trade and unknown cancel leave the top-10 view untouched.
		mboRow(3, "T", "N", "", 5, "1"),
		mboRow(4, "C", "N", "", 0, "never-added"),
	)

	require.Len(t, lines, 3)
	assert.Equal(t, int64(4), stats.EventsRead)
	assert.Equal(t, int64(2), stats.RowsEmitted)
	assert.Equal(t, int64(2), stats.RowsSuppressed)
}

func TestEngine_Run_AddCancelRoundTrip(t *testing.T) {
	lines, _ := runPipeline(t,
		mboRow(1, "R", "N", "", 0, ""),
		mboRow(2, "A", "B", "100.00", 10, "1"),
		mboRow(3, "C", "B", "100.00", 10, "1"),
	)

	require.Len(t, lines, 4)

	baseline := strings.Split(lines[1], ",")
	restored := strings.Split(lines[3], ",")
	// All level columns return to the pre-add state exactly.
	assert.Equal(t, baseline[14:74], restored[14:74])
}

func TestEngine_Run_TradeClipping(t *testing.T) {
	lines, _ := runPipeline(t,
		mboRow(1, "R", "N", "", 0, ""),
		mboRow(2, "A", "A", "101.00", 10, "1"),
		mboRow(3, "T", "A", "101.00", 999, "1"),
	)

	require.Len(t, lines, 4)

	last := strings.Split(lines[3], ",")
	assert.Equal(t, "T", last[6])
	assert.Equal(t, "", last[17])  // ask_px_00 empty: order fully removed
	assert.Equal(t, "0", last[18]) // ask_sz_00 never goes negative
}

func TestEngine_Run_FillReportedAsTrade(t *testing.T) {
	lines, _ := runPipeline(t,
		mboRow(1, "R", "N", "", 0, ""),
		mboRow(2, "A", "A", "101.00", 10, "1"),
		mboRow(3, "F", "A", "101.00", 4, "1"),
	)

	require.Len(t, lines, 4)
	assert.Equal(t, "T", strings.Split(lines[3], ",")[6])
}

func TestEngine_Run_CancelDepthResolvedBeforeRemoval(t *testing.T) {
	lines, _ := runPipeline(t,
		mboRow(1, "R", "N", "", 0, ""),
		mboRow(2, "A", "B", "101.00", 10, "1"),
		mboRow(3, "A", "B", "100.00", 10, "2"),
		mboRow(4, "C", "B", "100.00", 10, "2"),
	)

	require.Len(t, lines, 5)

	cancelRow := strings.Split(lines[4], ",")
	assert.Equal(t, "C", cancelRow[6])
	// The cancelled order sat on the second-best bid level.
	assert.Equal(t, "1", cancelRow[8])
}

func TestEngine_Run_MalformedRecordFailsRun(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "mbo.csv")
	outputPath := filepath.Join(dir, "mbp.csv")
	require.NoError(t, os.WriteFile(inputPath, []byte(mboHeader+
		"1,2,160,2,5482,A,B,100.00,bad,0,1,130,165200,1,ARL\n"), 0o644))

	log := newTestLogger(t)
	reader, err := marketreader.NewReader(inputPath, log)
	require.NoError(t, err)
	defer reader.Close()
	writer, err := snapshotwriter.NewWriter(outputPath, log)
	require.NoError(t, err)
	defer writer.Close()

	eng := NewEngine(orderbook.NewBook(), reader, writer, nil, log)
	assert.Error(t, eng.Run(context.Background()))
}

func TestEngine_Run_Idempotent(t *testing.T) {
	records := []string{
		mboRow(1, "R", "N", "", 0, ""),
		mboRow(2, "A", "B", "100.00", 10, "1"),
		mboRow(3, "A", "A", "101.00", 5, "2"),
		mboRow(4, "T", "A", "101.00", 2, "2"),
		mboRow(5, "C", "B", "100.00", 10, "1"),
	}

	first, _ := runPipeline(t, records...)
	second, _ := runPipeline(t, records...)

	assert.Equal(t, first, second)
}
