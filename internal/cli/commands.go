package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/albanecoiffe/JO2024-visualization/internal/domain/model"
	"github.com/albanecoiffe/JO2024-visualization/internal/domain/roster"
	"github.com/albanecoiffe/JO2024-visualization/internal/domain/torch"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// ErrUsage marks invalid flag combinations.
var ErrUsage = errors.New("invalid usage")

func typeFilter(t string) (roster.Predicate, error) {
	pred, ok := roster.TypeFilter(t)
	if !ok {
		return nil, fmt.Errorf("%w: --type must be olympic, paralympic or all", ErrUsage)
	}
	return pred, nil
}

func metricFlag(name string) (roster.Metric, error) {
	m, ok := roster.MetricByName(name)
	if !ok {
		return roster.Metric{}, fmt.Errorf("%w: unknown metric %q", ErrUsage, name)
	}
	return m, nil
}

func aggFlag(agg string) error {
	switch agg {
	case "sum", "mean", "count":
		return nil
	default:
		return fmt.Errorf("%w: --agg must be sum, mean or count", ErrUsage)
	}
}

func (r *runner) newSummaryCommand() *cobra.Command {
	var athleteType string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print headline counts and medal totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pred, err := typeFilter(athleteType)
			if err != nil {
				return err
			}
			snap, err := r.snapshot(cmd)
			if err != nil {
				return err
			}
			ros := snap.Roster.Filter(pred)

			summary := map[string]int{
				"athletes":   ros.Len(),
				"olympic":    ros.CountWhere(roster.ByType(model.Olympic)),
				"paralympic": ros.CountWhere(roster.ByType(model.Paralympic)),
				"medalists":  ros.CountWhere(roster.Medalists),
				"gold":       int(ros.Sum(roster.Gold)),
				"silver":     int(ros.Sum(roster.Silver)),
				"bronze":     int(ros.Sum(roster.Bronze)),
				"medals":     int(ros.Sum(roster.Total)),
			}
			order := []string{"athletes", "olympic", "paralympic", "medalists", "gold", "silver", "bronze", "medals"}
			rows := make([]table.Row, 0, len(order))
			for _, k := range order {
				rows = append(rows, table.Row{k, summary[k]})
			}
			return render(cmd.OutOrStdout(), r.flags.format, view{
				header:  table.Row{"Measure", "Value"},
				rows:    rows,
				payload: summary,
			})
		},
	}
	cmd.Flags().StringVar(&athleteType, "type", "all", "olympic, paralympic or all")
	return cmd
}

func (r *runner) newRankCommand(use, short, defaultMetric string, top bool) *cobra.Command {
	var (
		athleteType string
		metricName  string
		n           int
	)
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  short + ". Ties keep roster order.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pred, err := typeFilter(athleteType)
			if err != nil {
				return err
			}
			metric, err := metricFlag(metricName)
			if err != nil {
				return err
			}
			snap, err := r.snapshot(cmd)
			if err != nil {
				return err
			}
			ros := snap.Roster.Filter(pred)

			var picked []model.AthleteView
			if top {
				picked = ros.TopNBy(metric, n)
			} else {
				picked = ros.BottomNBy(metric, n)
			}
			return render(cmd.OutOrStdout(), r.flags.format, view{
				header:  athleteHeader,
				rows:    athleteRows(picked),
				payload: picked,
			})
		},
	}
	cmd.Flags().StringVar(&athleteType, "type", "all", "olympic, paralympic or all")
	cmd.Flags().StringVar(&metricName, "metric", defaultMetric, "gold, silver, bronze, total or age")
	cmd.Flags().IntVarP(&n, "number", "n", 3, "number of athletes")
	return cmd
}

func (r *runner) newGroupsCommand() *cobra.Command {
	var (
		athleteType string
		metricName  string
		agg         string
		joined      bool
		limit       int
	)
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Aggregate a metric per discipline",
		Long: `Aggregate a metric per discipline, highest first. An athlete counts toward
every one of their disciplines unless --joined groups by the full list.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pred, err := typeFilter(athleteType)
			if err != nil {
				return err
			}
			metric, err := metricFlag(metricName)
			if err != nil {
				return err
			}
			if err := aggFlag(agg); err != nil {
				return err
			}
			key := roster.ByDiscipline
			if joined {
				key = roster.ByJoinedDisciplines
			}
			snap, err := r.snapshot(cmd)
			if err != nil {
				return err
			}
			ros := snap.Roster.Filter(pred)

			var groups []roster.GroupValue
			switch agg {
			case "sum":
				groups = roster.Ranked(ros.GroupSum(key, metric))
			case "mean":
				groups = roster.Ranked(ros.GroupMean(key, metric))
			case "count":
				groups = roster.Ranked(ros.GroupCount(key))
			}
			if limit > 0 && len(groups) > limit {
				groups = groups[:limit]
			}

			rows := make([]table.Row, 0, len(groups))
			for _, g := range groups {
				rows = append(rows, table.Row{g.Group, formatFloat(g.Value)})
			}
			return render(cmd.OutOrStdout(), r.flags.format, view{
				header:  table.Row{"Discipline", agg},
				rows:    rows,
				payload: groups,
			})
		},
	}
	cmd.Flags().StringVar(&athleteType, "type", "all", "olympic, paralympic or all")
	cmd.Flags().StringVar(&metricName, "metric", "total", "gold, silver, bronze, total or age")
	cmd.Flags().StringVar(&agg, "agg", "sum", "sum, mean or count")
	cmd.Flags().BoolVar(&joined, "joined", false, "group by the joined discipline list")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of groups, 0 for all")
	return cmd
}

func (r *runner) newAgesCommand() *cobra.Command {
	var athleteType string
	cmd := &cobra.Command{
		Use:   "ages",
		Short: "Print the age distribution",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pred, err := typeFilter(athleteType)
			if err != nil {
				return err
			}
			snap, err := r.snapshot(cmd)
			if err != nil {
				return err
			}
			bins := snap.Roster.Filter(pred).Distribution(roster.Age)

			rows := make([]table.Row, 0, len(bins))
			for _, b := range bins {
				rows = append(rows, table.Row{formatFloat(b.Value), b.Count})
			}
			return render(cmd.OutOrStdout(), r.flags.format, view{
				header:  table.Row{"Age", "Athletes"},
				rows:    rows,
				payload: bins,
			})
		},
	}
	cmd.Flags().StringVar(&athleteType, "type", "all", "olympic, paralympic or all")
	return cmd
}

func (r *runner) newTorchCommand() *cobra.Command {
	var (
		start, end string
		latest     bool
	)
	cmd := &cobra.Command{
		Use:   "torch",
		Short: "Print torch relay waypoints",
		Long: `Print torch relay waypoints. --start and --end (YYYY-MM-DD, inclusive) must
be given together; --latest prints only the most recent timed waypoint.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (start == "") != (end == "") {
				return fmt.Errorf("%w: --start and --end must be given together", ErrUsage)
			}
			var from, to time.Time
			if start != "" {
				var err error
				if from, err = time.Parse(time.DateOnly, start); err != nil {
					return fmt.Errorf("%w: --start: %w", ErrUsage, err)
				}
				if to, err = time.Parse(time.DateOnly, end); err != nil {
					return fmt.Errorf("%w: --end: %w", ErrUsage, err)
				}
			}
			snap, err := r.snapshot(cmd)
			if err != nil {
				return err
			}

			points := snap.Waypoints
			switch {
			case latest:
				p, ok := torch.Latest(points)
				points = nil
				if ok {
					points = []model.Waypoint{p}
				}
			case start != "":
				points = torch.FilterByDateRange(points, from, to)
			}
			if points == nil {
				points = []model.Waypoint{}
			}

			rows := make([]table.Row, 0, len(points))
			for _, p := range points {
				ts := ""
				if p.HasTimestamp() {
					ts = p.Timestamp.Format(time.DateTime)
				}
				rows = append(rows, table.Row{formatFloat(p.Latitude), formatFloat(p.Longitude), ts})
			}
			return render(cmd.OutOrStdout(), r.flags.format, view{
				header:  table.Row{"Latitude", "Longitude", "Timestamp"},
				rows:    rows,
				payload: points,
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last day (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&latest, "latest", false, "only the most recent timed waypoint")
	return cmd
}
