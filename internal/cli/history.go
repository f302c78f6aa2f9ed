package cli

import (
	"time"

	"github.com/urfave/cli/v2"

	deverrors "github.com/AndreyAkinshin/devgenie/internal/errors"
	"github.com/AndreyAkinshin/devgenie/internal/history"
	"github.com/AndreyAkinshin/devgenie/internal/output"
)

func (s *session) cmdHistory(c *cli.Context) error {
	if err := s.load(c); err != nil {
		return err
	}
	if s.history == nil {
		return deverrors.Config("history is disabled (history.disabled in devgenie.yaml)")
	}

	all, err := s.history.List()
	if err != nil {
		return deverrors.Wrap(err, "failed to read history")
	}
	if len(all) == 0 {
		s.out.Info("no runs recorded yet")
		return nil
	}
	recent, err := s.history.Recent(c.Int("limit"))
	if err != nil {
		return deverrors.Wrap(err, "failed to read history")
	}

	rows := make([][]string, 0, len(recent))
	for _, r := range recent {
		tests := ""
		if r.Kind == history.KindTest {
			tests = s.out.Number(r.Passed) + "/" + s.out.Number(r.Total)
		}
		rows = append(rows, []string{
			shortID(r.ID),
			r.StartedAt.Local().Format(time.DateTime),
			string(r.Kind),
			r.Project,
			resultLabel(r.Success, r.Canceled),
			tests,
			output.FormatDuration(r.Duration),
		})
	}
	s.out.Table([]string{"ID", "Started", "Kind", "Project", "Result", "Tests", "Duration"}, rows, "Tests", "Duration")

	a := history.Analyze(all)
	s.out.SummaryHeader(s.out.Title("analytics"))
	s.out.SummaryItem("Runs", s.out.Number(a.Runs))
	s.out.SummaryItem("Builds", s.out.Number(a.Builds))
	if a.Builds > 0 {
		s.out.SummaryItem("Build success rate", s.out.Percent(a.BuildSuccessRate))
	}
	s.out.SummaryItem("Test runs", s.out.Number(a.Tests))
	if a.Tests > 0 {
		s.out.SummaryPassed("Tests passed", s.out.Number(a.TestsPassed))
		s.out.SummaryFailed("Tests failed", s.out.Number(a.TestsFailed))
		s.out.SummaryItem("Pass rate", s.out.Percent(a.PassRate))
	}
	s.out.SummaryItem("Mean duration", output.FormatDuration(a.MeanDuration))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
