package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Dimension names one breakdown of the aggregate statistics file.
type Dimension string

const (
	DimensionGender   Dimension = "sales_by_gender"
	DimensionState    Dimension = "sales_by_state"
	DimensionCategory Dimension = "sales_by_category"
	DimensionAgeGroup Dimension = "sales_by_age_group"
)

// Dimensions is the fixed chart order of the dashboard.
var Dimensions = []Dimension{DimensionGender, DimensionState, DimensionCategory, DimensionAgeGroup}

// Bucket is one group label and its summed sales amount.
type Bucket struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Breakdown keeps buckets in the order the source listed them.
type Breakdown []Bucket

// Labels returns the bucket labels in order.
func (b Breakdown) Labels() []string {
	out := make([]string, len(b))
	for i, bucket := range b {
		out[i] = bucket.Label
	}
	return out
}

// Values returns the bucket amounts in order.
func (b Breakdown) Values() []float64 {
	out := make([]float64, len(b))
	for i, bucket := range b {
		out[i] = bucket.Amount
	}
	return out
}

// AggregateStats is the precomputed dashboard data. It is read-only once
// parsed.
type AggregateStats struct {
	Gender   Breakdown
	State    Breakdown
	Category Breakdown
	AgeGroup Breakdown
}

// Breakdown returns the buckets of one dimension.
func (s AggregateStats) Breakdown(d Dimension) Breakdown {
	switch d {
	case DimensionGender:
		return s.Gender
	case DimensionState:
		return s.State
	case DimensionCategory:
		return s.Category
	case DimensionAgeGroup:
		return s.AgeGroup
	}
	return nil
}

func (s *AggregateStats) set(d Dimension, b Breakdown) {
	switch d {
	case DimensionGender:
		s.Gender = b
	case DimensionState:
		s.State = b
	case DimensionCategory:
		s.Category = b
	case DimensionAgeGroup:
		s.AgeGroup = b
	}
}

// ParseAggregateStats decodes an eda.json document. Object key order is
// preserved, which a plain map decode would lose.
func ParseAggregateStats(data []byte) (AggregateStats, error) {
	var stats AggregateStats
	if !gjson.ValidBytes(data) {
		return stats, fmt.Errorf("aggregate stats: invalid json")
	}
	for _, d := range Dimensions {
		node := gjson.GetBytes(data, string(d))
		if !node.Exists() {
			return AggregateStats{}, fmt.Errorf("aggregate stats: missing %s", d)
		}
		if !node.IsObject() {
			return AggregateStats{}, fmt.Errorf("aggregate stats: %s is not an object", d)
		}

		breakdown := Breakdown{}
		var bad string
		node.ForEach(func(key, value gjson.Result) bool {
			if value.Type != gjson.Number {
				bad = key.String()
				return false
			}
			breakdown = append(breakdown, Bucket{Label: key.String(), Amount: value.Float()})
			return true
		})
		if bad != "" {
			return AggregateStats{}, fmt.Errorf("aggregate stats: %s[%q] is not a number", d, bad)
		}
		stats.set(d, breakdown)
	}
	return stats, nil
}

// MarshalJSON writes the eda.json layout with bucket order intact.
func (s AggregateStats) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range Dimensions {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:", string(d))
		if err := writeBreakdown(&buf, s.Breakdown(d)); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeBreakdown(buf *bytes.Buffer, b Breakdown) error {
	buf.WriteByte('{')
	for i, bucket := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(bucket.Label)
		if err != nil {
			return err
		}
		val, err := json.Marshal(bucket.Amount)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return nil
}
