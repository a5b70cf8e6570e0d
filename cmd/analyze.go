package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-hb-stats/internal/model"
)

const analyzeSystemPrompt = `You are a handball performance analyst. You are given structured data
captured live from the bench by an observer and a question from a coach.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable: focus on what the team can change in the next match.

Metrics glossary:
- Efficiency %: goals / (goals + saved + wide/post). Blocked shots and missed 7 m are excluded.
- Save %: goalkeeper saves / (saves + goals conceded).
- EQ / PP / SH: goals at equal strength / in power play / shorthanded.
- Possessions: times the side gained the ball (kick-off counts for the side that started).
- Goal zones 1-9: the goal seen from the shooter, row-major from the top-left corner.
- Heatmap intensity: goals in a zone relative to the zone with the most goals.`

var (
	analyzeModel  string
	analyzeAPIKey string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <match-id> <question>",
	Short: "AI-powered grounded match analysis (requires ANTHROPIC_API_KEY)",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
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
	heatmaps := map[string]*model.Heatmap{
		"A": s.Heatmap(model.HeatmapFilter{Shooter: model.SideA, View: model.ViewAll}),
		"B": s.Heatmap(model.HeatmapFilter{Shooter: model.SideB, View: model.ViewAll}),
	}

	contextJSON, err := buildMatchContext(s.Match(), stats, heatmaps)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(ctx, analyzeAPIKey, analyzeModel, contextJSON, args[1])
}

// buildMatchContext serialises a match's statistics into compact JSON.
func buildMatchContext(m model.Match, stats *model.MatchStats, heatmaps map[string]*model.Heatmap) (string, error) {
	type teamEntry struct {
		Side          string `json:"side"`
		Name          string `json:"name"`
		Defense       string `json:"declared_defense,omitempty"`
		Goals         int    `json:"goals"`
		Goals7m       int    `json:"goals_7m"`
		Saved         int    `json:"shots_saved"`
		WidePost      int    `json:"wide_or_post"`
		Blocked       int    `json:"blocked"`
		Missed7m      int    `json:"missed_7m"`
		EfficiencyPct int    `json:"efficiency_pct"`
		Assists       int    `json:"assists"`
		Turnovers     int    `json:"turnovers"`
		Recoveries    int    `json:"recoveries"`
		GoalsEQ       int    `json:"goals_eq"`
		GoalsPP       int    `json:"goals_pp"`
		GoalsSH       int    `json:"goals_sh"`
		Possessions   int    `json:"possessions"`
	}
	type keeperEntry struct {
		Side     string `json:"side"`
		Number   int    `json:"number"`
		Name     string `json:"name"`
		Saves    int    `json:"saves"`
		Conceded int    `json:"conceded"`
		SavePct  int    `json:"save_pct"`
	}
	type zoneEntry struct {
		Zone      int     `json:"zone"`
		Shots     int     `json:"shots"`
		Goals     int     `json:"goals"`
		Saves     int     `json:"saves"`
		Intensity float64 `json:"intensity"`
	}

	teams := make([]teamEntry, 0, 2)
	for _, side := range []model.Side{model.SideA, model.SideB} {
		t, ok := stats.Teams[side]
		if !ok {
			continue
		}
		teams = append(teams, teamEntry{
			Side: string(side), Name: t.Name, Defense: string(m.Defense(side)),
			Goals: t.Goals, Goals7m: t.Goals7m, Saved: t.SavedShots, WidePost: t.WidePost,
			Blocked: t.Blocked, Missed7m: t.Missed7m, EfficiencyPct: t.Efficiency(),
			Assists: t.Assists, Turnovers: t.Turnovers, Recoveries: t.Recoveries,
			GoalsEQ: t.GoalsEqual, GoalsPP: t.GoalsPowerPlay, GoalsSH: t.GoalsShorthanded,
			Possessions: t.Possessions,
		})
	}

	keepers := make([]keeperEntry, 0, len(stats.Goalkeepers))
	for _, g := range stats.Goalkeepers {
		keepers = append(keepers, keeperEntry{
			Side: string(g.Side), Number: g.Number, Name: g.Name,
			Saves: g.Saves, Conceded: g.GoalsConceded, SavePct: g.SavePct(),
		})
	}

	zones := make(map[string][]zoneEntry, len(heatmaps))
	for side, h := range heatmaps {
		var cells []zoneEntry
		for _, z := range h.Zones {
			if z.Shots == 0 {
				continue
			}
			cells = append(cells, zoneEntry{
				Zone: int(z.Zone), Shots: z.Shots, Goals: z.Goals, Saves: z.Saves,
				Intensity: round2(z.Intensity),
			})
		}
		zones[side] = cells
	}

	doc := map[string]interface{}{
		"subject":     "match",
		"teams":       fmt.Sprintf("%s (A) vs %s (B)", m.TeamAName, m.TeamBName),
		"score":       fmt.Sprintf("%d-%d", m.ScoreA, m.ScoreB),
		"clock":       model.FormatClock(m.ElapsedSeconds),
		"status":      string(m.Status),
		"events":      stats.Events,
		"team_stats":  teams,
		"goalkeepers": keepers,
		"shot_zones":  zones,
	}

	b, err := json.Marshal(doc)
	return string(b), err
}

// round2 rounds a float64 to 2 decimal places.
func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed: check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
