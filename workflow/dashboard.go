package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"salescast/logging"
	"salescast/models"
)

// ErrNotLoaded is returned by Charts before a successful Mount.
var ErrNotLoaded = errors.New("dashboard: statistics not loaded")

// StatsSource provides the aggregate statistics.
type StatsSource interface {
	LoadAggregateStats(ctx context.Context) (models.AggregateStats, error)
}

// Chart is one bar chart of the dashboard. Labels and Values are parallel
// and keep the source order.
type Chart struct {
	Dimension models.Dimension `json:"dimension"`
	Title     string           `json:"title"`
	XTitle    string           `json:"xTitle"`
	YTitle    string           `json:"yTitle"`
	Labels    []string         `json:"labels"`
	Values    []float64        `json:"values"`
	Total     float64          `json:"total"`
}

var chartTitles = map[models.Dimension][2]string{
	models.DimensionGender:   {"Sales by Gender", "Gender"},
	models.DimensionState:    {"Sales by State", "State"},
	models.DimensionCategory: {"Sales by Category", "Category"},
	models.DimensionAgeGroup: {"Sales by Age Group", "Age Group"},
}

// Dashboard loads the aggregate statistics once and derives chart series
// from them.
type Dashboard struct {
	source StatsSource
	logger *zap.Logger

	mu      sync.Mutex
	mounted bool
	loaded  bool
	stats   models.AggregateStats
	err     error
}

// NewDashboard creates an unmounted dashboard.
func NewDashboard(source StatsSource, logger *zap.Logger) *Dashboard {
	return &Dashboard{source: source, logger: logging.OrNop(logger)}
}

// Mount loads the statistics. Later calls do not load again; they return
// the first outcome, or nil while it is still loading.
func (d *Dashboard) Mount(ctx context.Context) error {
	d.mu.Lock()
	if d.mounted {
		err := d.err
		d.mu.Unlock()
		return err
	}
	d.mounted = true
	d.mu.Unlock()

	s, err := d.source.LoadAggregateStats(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loaded = true
	if err != nil {
		d.logger.Warn("aggregate statistics unavailable", zap.Error(err))
		d.err = err
		return err
	}
	d.stats = s
	return nil
}

// Message is the text shown in place of the charts, if any.
func (d *Dashboard) Message() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case d.err != nil:
		return fmt.Sprintf("Failed to load EDA data: %v", d.err)
	case !d.loaded:
		return "Loading..."
	}
	return ""
}

// Charts returns one chart per dimension in dashboard order.
func (d *Dashboard) Charts() ([]Chart, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	if !d.loaded {
		return nil, ErrNotLoaded
	}
	return BuildCharts(d.stats), nil
}

// BuildCharts extracts labels and values per dimension.
func BuildCharts(s models.AggregateStats) []Chart {
	charts := make([]Chart, 0, len(models.Dimensions))
	for _, dim := range models.Dimensions {
		b := s.Breakdown(dim)
		values := b.Values()
		total, err := stats.Sum(stats.Float64Data(values))
		if err != nil {
			// empty breakdown
			total = 0
		}
		titles := chartTitles[dim]
		charts = append(charts, Chart{
			Dimension: dim,
			Title:     titles[0],
			XTitle:    titles[1],
			YTitle:    "Amount",
			Labels:    b.Labels(),
			Values:    values,
			Total:     total,
		})
	}
	return charts
}
