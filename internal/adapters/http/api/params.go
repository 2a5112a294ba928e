package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/albanecoiffe/JO2024-visualization/internal/domain/roster"
)

// Aggregations accepted by /athletes/groups.
const (
	aggSum   = "sum"
	aggMean  = "mean"
	aggCount = "count"
)

// Group keys accepted by /athletes/groups.
const (
	keyDiscipline = "discipline"
	keyJoined     = "joined"
)

func badParam(name, format string, args ...any) error {
	return fmt.Errorf("%w: %s: "+format, append([]any{ErrBadRequest, name}, args...)...)
}

// typePredicate parses ?type=; empty or "all" selects every athlete.
func typePredicate(q url.Values) (roster.Predicate, error) {
	t := strings.ToLower(strings.TrimSpace(q.Get("type")))
	pred, ok := roster.TypeFilter(t)
	if !ok {
		return nil, badParam("type", "must be olympic, paralympic or all, got %q", t)
	}
	return pred, nil
}

func metricParam(q url.Values, def string) (roster.Metric, error) {
	name := strings.ToLower(strings.TrimSpace(q.Get("metric")))
	if name == "" {
		name = def
	}
	m, ok := roster.MetricByName(name)
	if !ok {
		return roster.Metric{}, badParam("metric", "must be one of %s, got %q", strings.Join(roster.MetricNames(), ", "), name)
	}
	return m, nil
}

// intParam parses a positive integer bounded by limit.
func intParam(q url.Values, name string, def, limit int) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, badParam(name, "must be a positive integer, got %q", raw)
	}
	if n > limit {
		return 0, badParam(name, "must not exceed %d", limit)
	}
	return n, nil
}

func groupKeyParam(q url.Values) (roster.GroupKey, string, error) {
	switch k := strings.ToLower(strings.TrimSpace(q.Get("key"))); k {
	case "", keyDiscipline:
		return roster.ByDiscipline, keyDiscipline, nil
	case keyJoined:
		return roster.ByJoinedDisciplines, keyJoined, nil
	default:
		return nil, "", badParam("key", "must be discipline or joined, got %q", k)
	}
}

func aggParam(q url.Values) (string, error) {
	switch a := strings.ToLower(strings.TrimSpace(q.Get("agg"))); a {
	case "":
		return aggSum, nil
	case aggSum, aggMean, aggCount:
		return a, nil
	default:
		return "", badParam("agg", "must be sum, mean or count, got %q", a)
	}
}

// dateParam parses a YYYY-MM-DD value. ok is false when the parameter is absent.
func dateParam(q url.Values, name string) (t time.Time, ok bool, err error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return time.Time{}, false, nil
	}
	t, err = time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, false, badParam(name, "must be YYYY-MM-DD, got %q", raw)
	}
	return t, true, nil
}
