// Package roster provides read-only queries over derived athlete views.
//
// A Roster is immutable once built; every query returns fresh slices or
// maps, so callers may modify results freely.
package roster

import (
	"cmp"
	"slices"

	"github.com/albanecoiffe/JO2024-visualization/internal/domain/model"
)

// Roster is an ordered, immutable sequence of athlete views.
type Roster struct {
	views []model.AthleteView
}

// GroupValue is one aggregated group.
type GroupValue struct {
	Group string  `json:"group"`
	Value float64 `json:"value"`
}

// Bin is one value of a distribution and how many rows carry it.
type Bin struct {
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// New builds a Roster from views, copying the input.
func New(views []model.AthleteView) *Roster {
	return &Roster{views: detach(views)}
}

// Len returns the number of rows.
func (r *Roster) Len() int {
	return len(r.views)
}

// Rows returns a copy of all rows in roster order.
func (r *Roster) Rows() []model.AthleteView {
	return detach(r.views)
}

// detach copies views along with their nested slices.
func detach(views []model.AthleteView) []model.AthleteView {
	out := make([]model.AthleteView, len(views))
	for i, v := range views {
		v.Disciplines = slices.Clone(v.Disciplines)
		v.OlympicGames = slices.Clone(v.OlympicGames)
		out[i] = v
	}
	return out
}

// Filter returns a new Roster with the rows matching pred, order preserved.
func (r *Roster) Filter(pred Predicate) *Roster {
	out := make([]model.AthleteView, 0, len(r.views))
	for _, v := range r.views {
		if pred(v) {
			out = append(out, v)
		}
	}
	return &Roster{views: out}
}

// CountWhere counts rows matching pred.
func (r *Roster) CountWhere(pred Predicate) int {
	n := 0
	for _, v := range r.views {
		if pred(v) {
			n++
		}
	}
	return n
}

// Sum adds metric over all rows.
func (r *Roster) Sum(metric Metric) float64 {
	var s float64
	for _, v := range r.views {
		s += metric.Value(v)
	}
	return s
}

// TopNBy returns up to n rows with the highest metric. Ties keep roster order.
func (r *Roster) TopNBy(metric Metric, n int) []model.AthleteView {
	return r.nBy(metric, n, func(a, b float64) int { return cmp.Compare(b, a) })
}

// BottomNBy returns up to n rows with the lowest metric. Ties keep roster order.
func (r *Roster) BottomNBy(metric Metric, n int) []model.AthleteView {
	return r.nBy(metric, n, cmp.Compare[float64])
}

func (r *Roster) nBy(metric Metric, n int, order func(a, b float64) int) []model.AthleteView {
	if n <= 0 {
		return []model.AthleteView{}
	}
	sorted := slices.Clone(r.views)
	slices.SortStableFunc(sorted, func(a, b model.AthleteView) int {
		return order(metric.Value(a), metric.Value(b))
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return detach(sorted)
}

// GroupSum sums metric per group. A row with k group keys contributes to
// each of its k groups.
func (r *Roster) GroupSum(key GroupKey, metric Metric) map[string]float64 {
	sums := make(map[string]float64)
	for _, v := range r.views {
		for _, g := range key(v) {
			sums[g] += metric.Value(v)
		}
	}
	return sums
}

// GroupMean averages metric per group with the same explode semantics as
// GroupSum.
func (r *Roster) GroupMean(key GroupKey, metric Metric) map[string]float64 {
	sums := r.GroupSum(key, metric)
	counts := r.GroupCount(key)
	means := make(map[string]float64, len(sums))
	for g, s := range sums {
		means[g] = s / float64(counts[g])
	}
	return means
}

// GroupCount counts rows per group with explode semantics.
func (r *Roster) GroupCount(key GroupKey) map[string]int {
	counts := make(map[string]int)
	for _, v := range r.views {
		for _, g := range key(v) {
			counts[g]++
		}
	}
	return counts
}

// Distribution counts rows per metric value, ordered by value.
func (r *Roster) Distribution(metric Metric) []Bin {
	counts := make(map[float64]int)
	for _, v := range r.views {
		counts[metric.Value(v)]++
	}
	bins := make([]Bin, 0, len(counts))
	for val, c := range counts {
		bins = append(bins, Bin{Value: val, Count: c})
	}
	slices.SortFunc(bins, func(a, b Bin) int { return cmp.Compare(a.Value, b.Value) })
	return bins
}

// Ranked orders a group mapping by value descending, then group name.
func Ranked[V int | float64](groups map[string]V) []GroupValue {
	out := make([]GroupValue, 0, len(groups))
	for g, v := range groups {
		out = append(out, GroupValue{Group: g, Value: float64(v)})
	}
	slices.SortFunc(out, func(a, b GroupValue) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Group, b.Group)
	})
	return out
}
