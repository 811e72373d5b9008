// Package roster reads player records from a delimited text table.
//
// The table has a header row naming at least the player_id column and every
// metric column. A leading UTF-8 byte-order mark and whitespace around fields
// are ignored, blank lines are skipped and additional columns are ignored.
package roster

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/okian/teambalance/internal/domain/dedupe"
	"github.com/okian/teambalance/internal/domain/model"
	"github.com/okian/teambalance/pkg/logger"
	"github.com/okian/teambalance/pkg/metrics"
)

// byteOrderMark is the UTF-8 encoding of U+FEFF.
var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Reader parses roster tables.
type Reader struct {
	delimiter rune
	metrics   []string
	logger    logger.Logger
	mx        *metrics.Manager
}

// NewReader creates a reader for ';'-separated tables with the default
// metric columns.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		delimiter: ';',
		metrics:   defaultColumns(),
		logger:    logger.Nop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// ReadFile loads the whole roster at path.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]model.PlayerRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer f.Close()

	records, err := r.Read(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	r.logger.Info(ctx, "roster loaded", logger.String("path", path), logger.Int("players", len(records)))
	return records, nil
}

// Read parses a roster from src. The input is consumed entirely before any
// record is returned.
func (r *Reader) Read(ctx context.Context, src io.Reader) ([]model.PlayerRecord, error) {
	br := bufio.NewReader(src)
	if head, err := br.Peek(len(byteOrderMark)); err == nil && bytes.Equal(head, byteOrderMark) {
		_, _ = br.Discard(len(byteOrderMark))
	}

	cr := csv.NewReader(br)
	cr.Comma = r.delimiter
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		header []string
		cols   columnIndex
		out    []model.PlayerRecord
	)
	seen := dedupe.NewInMemoryDeduper()

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line, _ := cr.FieldPos(0)
		if blank(row) {
			r.recordSkip()
			continue
		}

		if header == nil {
			header = row
			if cols, err = r.columns(header); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			continue
		}

		rec, err := r.parseRow(row, cols, len(header))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if first, dup := seen.SeenAndRecord(ctx, rec.PlayerID, line); dup {
			return nil, fmt.Errorf("%w: %q on lines %d and %d", ErrDuplicatePlayer, rec.PlayerID, first, line)
		}
		if r.mx != nil {
			r.mx.RecordRosterRow()
		}
		out = append(out, rec)
	}

	if header == nil {
		return nil, fmt.Errorf("%w: missing header row", ErrParse)
	}

	r.logger.Debug(ctx, "roster parsed", logger.Int("players", len(out)), logger.Int("distinct_ids", seen.Size()))
	return out, nil
}

// columnIndex maps required column names to their header positions.
type columnIndex struct {
	playerID int
	metrics  map[string]int
}

func (r *Reader) columns(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.TrimSpace(name)] = i
	}

	idx := columnIndex{metrics: make(map[string]int, len(r.metrics))}
	var missing []string

	if p, ok := pos[model.ColumnPlayerID]; ok {
		idx.playerID = p
	} else {
		missing = append(missing, model.ColumnPlayerID)
	}
	for _, name := range r.metrics {
		p, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		idx.metrics[name] = p
	}

	if len(missing) > 0 {
		return columnIndex{}, fmt.Errorf("%w: missing columns %s", ErrParse, strings.Join(missing, ", "))
	}
	return idx, nil
}

func (r *Reader) parseRow(row []string, cols columnIndex, width int) (model.PlayerRecord, error) {
	if len(row) != width {
		return model.PlayerRecord{}, fmt.Errorf("%w: expected %d fields, got %d", ErrParse, width, len(row))
	}

	id := strings.TrimSpace(row[cols.playerID])
	if id == "" {
		return model.PlayerRecord{}, fmt.Errorf("%w: empty %s", ErrParse, model.ColumnPlayerID)
	}

	rec := model.PlayerRecord{PlayerID: id, Metrics: make(map[string]float64, len(cols.metrics))}
	for name, p := range cols.metrics {
		raw := strings.TrimSpace(row[p])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.PlayerRecord{}, fmt.Errorf("%w: %s=%q is not a number", ErrParse, name, raw)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return model.PlayerRecord{}, fmt.Errorf("%w: %s=%q must be a finite non-negative number", ErrParse, name, raw)
		}
		rec.Metrics[name] = v
	}
	return rec, nil
}

func (r *Reader) recordSkip() {
	if r.mx != nil {
		r.mx.RecordRosterSkip()
	}
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
