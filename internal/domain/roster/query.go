package roster

import (
	"github.com/albanecoiffe/JO2024-visualization/internal/domain/derive"
	"github.com/albanecoiffe/JO2024-visualization/internal/domain/model"
)

// Metric extracts a numeric value from a view.
type Metric struct {
	Name  string
	Value func(model.AthleteView) float64
}

// Predicate selects views.
type Predicate func(model.AthleteView) bool

// GroupKey lists the groups a view belongs to. Returning several keys makes
// the view count once in each; returning none leaves it out.
type GroupKey func(model.AthleteView) []string

// Known metrics.
var (
	Gold   = Metric{Name: "gold", Value: func(v model.AthleteView) float64 { return float64(v.Medals.Gold) }}
	Silver = Metric{Name: "silver", Value: func(v model.AthleteView) float64 { return float64(v.Medals.Silver) }}
	Bronze = Metric{Name: "bronze", Value: func(v model.AthleteView) float64 { return float64(v.Medals.Bronze) }}
	Total  = Metric{Name: "total", Value: func(v model.AthleteView) float64 { return float64(v.Medals.Total) }}
	Age    = Metric{Name: "age", Value: func(v model.AthleteView) float64 { return float64(v.Age) }}
)

var metricsByName = map[string]Metric{
	Gold.Name:   Gold,
	Silver.Name: Silver,
	Bronze.Name: Bronze,
	Total.Name:  Total,
	Age.Name:    Age,
}

// MetricByName looks up a known metric.
func MetricByName(name string) (Metric, bool) {
	m, ok := metricsByName[name]
	return m, ok
}

// MetricNames lists the known metric names.
func MetricNames() []string {
	return []string{Gold.Name, Silver.Name, Bronze.Name, Total.Name, Age.Name}
}

// All matches every view.
func All(model.AthleteView) bool { return true }

// ByType matches views of the given athlete type.
func ByType(t model.AthleteType) Predicate {
	return func(v model.AthleteView) bool { return v.Type == t }
}

// TypeFilter parses an athlete type name. Empty and "all" match everyone.
func TypeFilter(name string) (Predicate, bool) {
	switch name {
	case "", "all":
		return All, true
	case string(model.Olympic), string(model.Paralympic):
		return ByType(model.AthleteType(name)), true
	default:
		return nil, false
	}
}

// Medalists matches views with at least one medal.
func Medalists(v model.AthleteView) bool { return v.Medals.Total > 0 }

// ByDiscipline groups by each discipline slug.
func ByDiscipline(v model.AthleteView) []string {
	return v.Disciplines
}

// ByJoinedDisciplines groups by the whole joined discipline string.
func ByJoinedDisciplines(v model.AthleteView) []string {
	if v.DisciplinesJoined == "" {
		return []string{derive.JoinDisciplines(v.Disciplines)}
	}
	return []string{v.DisciplinesJoined}
}
