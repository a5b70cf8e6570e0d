package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-hb-stats/internal/model"
	"github.com/pable/go-hb-stats/internal/report"
)

var (
	heatmapSide string
	heatmapView string
)

var statsCmd = &cobra.Command{
	Use:   "stats <match-id>",
	Short: "Show team and goalkeeper statistics for a match",
	Long: `Recompute statistics from the event log.

Shooting efficiency is goals / (goals + saved + wide/post); blocked shots and
missed 7 m throws are not in the denominator. Goalkeeper save% is saves /
(saves + goals conceded).`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

var heatmapCmd = &cobra.Command{
	Use:   "heatmap <match-id>",
	Short: "Show where shots ended up in the goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runHeatmap,
}

func init() {
	heatmapCmd.Flags().StringVar(&heatmapSide, "side", "", "only shots taken by this side (A or B)")
	heatmapCmd.Flags().StringVar(&heatmapView, "view", string(model.ViewAll), "ALL, WING or 7M")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := loadSession(ctx, db, args[0])
	if err != nil {
		return err
	}
	stats, err := s.Stats()
	if err != nil {
		return fmt.Errorf("compute stats: %w", err)
	}

	report.PrintMatchSummary(os.Stdout, s.Match())
	report.PrintTeamTable(os.Stdout, stats)
	fmt.Fprintln(os.Stdout)
	report.PrintGoalkeeperTable(os.Stdout, stats.Goalkeepers)
	return nil
}

func parseHeatmapFilter(side, view string) (model.HeatmapFilter, error) {
	var f model.HeatmapFilter
	if side != "" {
		s, err := model.ParseSide(side)
		if err != nil {
			return f, err
		}
		f.Shooter = s
	}
	switch v := model.HeatmapView(strings.ToUpper(view)); v {
	case model.ViewAll, model.ViewWing, model.ViewSevenMeter:
		f.View = v
	case "":
		f.View = model.ViewAll
	default:
		return f, fmt.Errorf("unknown heatmap view %q (ALL, WING, 7M)", view)
	}
	return f, nil
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	filter, err := parseHeatmapFilter(heatmapSide, heatmapView)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := loadSession(ctx, db, args[0])
	if err != nil {
		return err
	}
	report.PrintMatchSummary(os.Stdout, s.Match())
	report.PrintHeatmap(os.Stdout, s.Heatmap(filter))
	return nil
}
