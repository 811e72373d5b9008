package roster

import (
	"github.com/okian/teambalance/internal/domain/model"
	"github.com/okian/teambalance/pkg/logger"
	"github.com/okian/teambalance/pkg/metrics"
)

// Option applies a configuration option to the Reader.
type Option func(*Reader)

// WithDelimiter sets the field separator. The default is ';'.
func WithDelimiter(r rune) Option {
	return func(rd *Reader) {
		if r != 0 {
			rd.delimiter = r
		}
	}
}

// WithMetricColumns overrides the required metric columns.
func WithMetricColumns(names ...string) Option {
	return func(rd *Reader) {
		if len(names) > 0 {
			rd.metrics = append([]string(nil), names...)
		}
	}
}

// WithLogger sets a custom logger for the reader.
func WithLogger(l logger.Logger) Option {
	return func(rd *Reader) {
		if l != nil {
			rd.logger = l
		}
	}
}

// WithMetrics records row counters on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(rd *Reader) {
		rd.mx = m
	}
}

func defaultColumns() []string {
	return model.MetricNames()
}
