package workflow

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescast/models"
)

type fakeStats struct {
	calls atomic.Int32
	stats models.AggregateStats
	err   error
}

func (f *fakeStats) LoadAggregateStats(context.Context) (models.AggregateStats, error) {
	f.calls.Add(1)
	return f.stats, f.err
}

func sampleStats() models.AggregateStats {
	return models.AggregateStats{
		Gender:   models.Breakdown{{Label: "M", Amount: 60}, {Label: "F", Amount: 40}},
		State:    models.Breakdown{{Label: "Karnataka", Amount: 9}, {Label: "Delhi", Amount: 3}},
		Category: models.Breakdown{{Label: "Home", Amount: 5}},
		AgeGroup: models.Breakdown{},
	}
}

func TestDashboardCharts(t *testing.T) {
	src := &fakeStats{stats: sampleStats()}
	d := NewDashboard(src, nil)

	assert.Equal(t, "Loading...", d.Message())
	_, err := d.Charts()
	assert.ErrorIs(t, err, ErrNotLoaded)

	require.NoError(t, d.Mount(context.Background()))
	require.NoError(t, d.Mount(context.Background()))
	assert.Equal(t, int32(1), src.calls.Load())
	assert.Empty(t, d.Message())

	charts, err := d.Charts()
	require.NoError(t, err)
	require.Len(t, charts, 4)

	assert.Equal(t, models.DimensionGender, charts[0].Dimension)
	assert.Equal(t, "Sales by Gender", charts[0].Title)
	assert.Equal(t, "Gender", charts[0].XTitle)
	assert.Equal(t, "Amount", charts[0].YTitle)
	assert.Equal(t, []string{"M", "F"}, charts[0].Labels)
	assert.Equal(t, []float64{60, 40}, charts[0].Values)
	assert.Equal(t, 100.0, charts[0].Total)

	// source order, not sorted
	assert.Equal(t, []string{"Karnataka", "Delhi"}, charts[1].Labels)
	assert.Equal(t, "Sales by Category", charts[2].Title)
	assert.Equal(t, "Sales by Age Group", charts[3].Title)
	assert.Empty(t, charts[3].Labels)
	assert.Zero(t, charts[3].Total)
}

func TestDashboardLoadFailure(t *testing.T) {
	loadErr := &models.LoadError{Kind: models.KindPayload, Message: "EDA error: no data"}
	src := &fakeStats{err: loadErr}
	d := NewDashboard(src, nil)

	err := d.Mount(context.Background())
	assert.True(t, errors.Is(err, loadErr))
	assert.Equal(t, "Failed to load EDA data: EDA error: no data", d.Message())

	_, err = d.Charts()
	assert.Error(t, err)

	assert.Error(t, d.Mount(context.Background()))
	assert.Equal(t, int32(1), src.calls.Load())
}
