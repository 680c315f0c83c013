// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/toasty-votes/models"
	"github.com/danielhkuo/toasty-votes/voting"
)

// Terminal colors
const (
	colorAccent = "#F25C54"
	colorWinner = "#F7B267"
	colorMuted  = "#8A8A8A"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorAccent)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorAccent)).
			Padding(0, 2)
	categoryStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	nameStyle     = lipgloss.NewStyle().Width(24)
	winnerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorWinner))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted))
)

var resultsCmd = &cobra.Command{
	Use:                "results <code>",
	Short:              "Print the tally for a session",
	Long:               "Print the current tally for a session, whether or not results have been published.",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}
		code, err := singleArg(cfg, "session code")
		if err != nil {
			return err
		}

		database, closeDB, err := openDatabase(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		svc := voting.NewService(database, voting.Options{TTL: cfg.SessionTTL, DefaultTitle: cfg.DefaultSessionTitle})
		session, err := svc.GetByCode(cmd.Context(), code)
		if err != nil {
			return err
		}
		results, err := svc.ComputeResults(cmd.Context(), session.ID)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderResults(session, results, svc.Now()))
		return nil
	},
}

// renderResults formats a session tally for the terminal
func renderResults(session models.Session, results []models.CategoryResult, now time.Time) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(session.Title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("code %s · %s", session.Code, sessionStatus(session, now))))
	b.WriteString("\n")

	if len(results) == 0 {
		b.WriteString("\nNo candidates registered.\n")
		return b.String()
	}

	for _, result := range results {
		b.WriteString("\n")
		b.WriteString(categoryStyle.Render(result.Label))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s votes", humanize.Comma(int64(result.TotalVotes)))))
		b.WriteString("\n")

		winners := make(map[string]bool, len(result.Winners))
		for _, w := range result.Winners {
			winners[w] = true
		}

		for _, tally := range result.Tallies {
			line := nameStyle.Render(tally.Name) + " " + humanize.Comma(int64(tally.Votes))
			if winners[tally.Name] {
				b.WriteString(winnerStyle.Render("★ " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

func sessionStatus(session models.Session, now time.Time) string {
	var parts []string
	switch {
	case session.PollsClosed:
		parts = append(parts, "polls closed")
	case session.IsExpired(now):
		parts = append(parts, "expired "+humanize.RelTime(session.ExpiresAt, now, "ago", "from now"))
	default:
		parts = append(parts, "open, expires "+humanize.RelTime(session.ExpiresAt, now, "ago", "from now"))
	}
	if session.ShowResults {
		parts = append(parts, "results published")
	}
	return strings.Join(parts, ", ")
}
