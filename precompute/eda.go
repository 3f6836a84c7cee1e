package precompute

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"salescast/models"
)

// TopStates is how many states the state breakdown keeps.
const TopStates = 5

// SaleRecord is one historical sale.
type SaleRecord struct {
	Age             int
	Gender          string
	MaritalStatus   string
	State           string
	ProductCategory string
	Orders          int
	Amount          float64
}

// RecordSource yields the sales history to aggregate.
type RecordSource interface {
	Records(ctx context.Context) ([]SaleRecord, error)
}

// ErrNoRecords is returned when a source is empty.
var ErrNoRecords = errors.New("no sales records")

// ageBins are the right-closed bin edges behind models.AgeGroups:
// (18,25], (25,35], (35,45], (45,55], (55,70].
var ageBins = []int{18, 25, 35, 45, 55, 70}

// AgeGroupFor buckets an age into the form's age groups. The first bin is
// open on the left, so age 18 falls outside every group.
func AgeGroupFor(age int) (string, bool) {
	for i, g := range models.AgeGroups {
		if age > ageBins[i] && age <= ageBins[i+1] {
			return g, true
		}
	}
	return "", false
}

// Aggregate sums sales per dimension: gender by label, the top states and
// all categories by descending amount, age groups in bucket order.
func Aggregate(records []SaleRecord) (models.AggregateStats, error) {
	if len(records) == 0 {
		return models.AggregateStats{}, ErrNoRecords
	}

	byGender := map[string][]float64{}
	byState := map[string][]float64{}
	byCategory := map[string][]float64{}
	byAgeGroup := map[string][]float64{}
	for _, r := range records {
		byGender[r.Gender] = append(byGender[r.Gender], r.Amount)
		byState[r.State] = append(byState[r.State], r.Amount)
		byCategory[r.ProductCategory] = append(byCategory[r.ProductCategory], r.Amount)
		if g, ok := AgeGroupFor(r.Age); ok {
			byAgeGroup[g] = append(byAgeGroup[g], r.Amount)
		}
	}

	gender := sums(byGender)
	sort.SliceStable(gender, func(i, j int) bool { return gender[i].Label < gender[j].Label })

	state := sums(byState)
	sortDescending(state)
	if len(state) > TopStates {
		state = state[:TopStates]
	}

	category := sums(byCategory)
	sortDescending(category)

	ageGroup := make(models.Breakdown, 0, len(models.AgeGroups))
	for _, g := range models.AgeGroups {
		ageGroup = append(ageGroup, models.Bucket{Label: g, Amount: sum(byAgeGroup[g])})
	}

	return models.AggregateStats{
		Gender:   gender,
		State:    state,
		Category: category,
		AgeGroup: ageGroup,
	}, nil
}

// FromSource reads a source and aggregates it.
func FromSource(ctx context.Context, src RecordSource) (models.AggregateStats, error) {
	records, err := src.Records(ctx)
	if err != nil {
		return models.AggregateStats{}, fmt.Errorf("read records: %w", err)
	}
	return Aggregate(records)
}

func sums(groups map[string][]float64) models.Breakdown {
	out := make(models.Breakdown, 0, len(groups))
	for label, amounts := range groups {
		out = append(out, models.Bucket{Label: label, Amount: sum(amounts)})
	}
	// map order is random; fix it before any stable sort
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func sortDescending(b models.Breakdown) {
	sort.SliceStable(b, func(i, j int) bool { return b[i].Amount > b[j].Amount })
}

func sum(values []float64) float64 {
	total, err := stats.Sum(values)
	if err != nil {
		return 0
	}
	return total
}
