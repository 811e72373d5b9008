// Package rostergen produces synthetic, reproducible rosters for exercising
// the balancer on realistic data.
package rostergen

import (
	"context"
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"

	"github.com/okian/teambalance/internal/domain/model"
	"github.com/okian/teambalance/pkg/logger"
)

// Upper bounds of the generated metrics.
const (
	maxEventEngagements = 60.0
	maxMessagesSent     = 800.0
	maxDaysActive       = 30
)

// Performance profiles.
const (
	profileAverage = iota
	profileHigh
	profileLow
	profileElite
	profileDormant
	profileWide
	profileCount
)

// Config controls one generation run.
type Config struct {
	Players   int
	Seed      string
	Delimiter rune
}

// Generate returns cfg.Players records. Identical configs yield identical
// rosters, player ids included.
func Generate(ctx context.Context, cfg Config) ([]model.PlayerRecord, error) {
	if cfg.Players <= 0 {
		return nil, fmt.Errorf("%w: players must be positive, got %d", ErrInvalidConfig, cfg.Players)
	}

	logger.Get().Info(ctx, "generating roster", logger.Int("players", cfg.Players), logger.String("seed", cfg.Seed))

	src := newChaCha(cfg.Seed)
	rng := rand.New(src)

	records := make([]model.PlayerRecord, cfg.Players)
	for i := range records {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during roster generation: %w", err)
		}
		id, err := uuid.NewRandomFromReader(src)
		if err != nil {
			return nil, fmt.Errorf("player id %d: %w", i, err)
		}
		records[i] = generatePlayer(id.String(), rng)
	}

	logger.Get().Info(ctx, "generated roster", logger.Int("count", len(records)))
	return records, nil
}

// newChaCha derives a ChaCha8 stream from the seed. The stream backs both the
// metric draws and the uuid bytes.
func newChaCha(seed string) *rand.ChaCha8 {
	h := xxh3.HashString128(seed)
	var key [32]byte
	binary.BigEndian.PutUint64(key[0:], h.Hi)
	binary.BigEndian.PutUint64(key[8:], h.Lo)
	binary.BigEndian.PutUint64(key[16:], ^h.Hi)
	binary.BigEndian.PutUint64(key[24:], ^h.Lo)
	return rand.NewChaCha8(key)
}

// generatePlayer draws metrics for one player from a randomly chosen profile.
func generatePlayer(id string, rng *rand.Rand) model.PlayerRecord {
	var lo, hi float64
	switch rng.IntN(profileCount) {
	case profileAverage:
		lo, hi = 0.3, 0.7
	case profileHigh:
		lo, hi = 0.7, 0.9
	case profileLow:
		lo, hi = 0.05, 0.3
	case profileElite:
		lo, hi = 0.9, 1.0
	case profileDormant:
		lo, hi = 0, 0.1
	default:
		lo, hi = 0, 1
	}
	draw := func() float64 { return lo + rng.Float64()*(hi-lo) }

	return model.PlayerRecord{
		PlayerID: id,
		Metrics: map[string]float64{
			model.MetricEventEngagements: float64(int(draw() * maxEventEngagements)),
			model.MetricMessagesSent:     float64(int(draw() * maxMessagesSent)),
			model.MetricDaysActive:       float64(int(draw() * maxDaysActive)),
		},
	}
}

// Write encodes records as a delimited table with a header row.
func Write(w io.Writer, records []model.PlayerRecord, delimiter rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter

	names := model.MetricNames()
	header := append([]string{model.ColumnPlayerID}, names...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("%w: header: %w", ErrWrite, err)
	}

	row := make([]string, len(header))
	for _, r := range records {
		row[0] = r.PlayerID
		for i, name := range names {
			v, _ := r.Metric(name)
			row[i+1] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWrite, r.PlayerID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
