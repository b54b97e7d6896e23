package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fadedpez/stakejack/pkg/entities"
	"github.com/fadedpez/stakejack/pkg/services/blackjack"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#AF0000")).
			Padding(0, 1).
			Bold(true)

	labelStyle  = lipgloss.NewStyle().Bold(true)
	redCard     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
	blackCard   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	hiddenCard  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FFF87")).Bold(true)
)

func renderCard(c *entities.Card) string {
	if c.Suit == entities.Hearts || c.Suit == entities.Diamonds {
		return redCard.Render(c.String())
	}
	return blackCard.Render(c.String())
}

func renderHand(cards []*entities.Card, hideHole bool) string {
	parts := make([]string, 0, len(cards))
	for i, c := range cards {
		if hideHole && i == 1 {
			parts = append(parts, hiddenCard.Render("[??]"))
			continue
		}
		parts = append(parts, renderCard(c))
	}
	return strings.Join(parts, " ")
}

func renderSnapshot(snap *blackjack.Snapshot) string {
	var b strings.Builder

	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s", labelStyle.Render("Dealer:"), renderHand(snap.DealerCards, !snap.HoleRevealed))
	if len(snap.DealerCards) > 0 {
		if snap.HoleRevealed {
			fmt.Fprintf(&b, "  (%d)", snap.DealerScore)
		} else {
			fmt.Fprintf(&b, "  (%d showing)", snap.DealerScore)
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s %s", labelStyle.Render("You:   "), renderHand(snap.PlayerCards, false))
	if len(snap.PlayerCards) > 0 {
		fmt.Fprintf(&b, "  (%d)", snap.PlayerScore)
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s %d", labelStyle.Render("Balance:"), snap.Balance)
	if snap.Bet > 0 {
		fmt.Fprintf(&b, "   %s %d", labelStyle.Render("Bet:"), snap.Bet)
	}
	fmt.Fprintf(&b, "   %s %s\n", labelStyle.Render("Mode:"), snap.Difficulty)

	if len(snap.AtRiskFiles) > 0 {
		b.WriteString(warnStyle.Render("Files on the table:"))
		b.WriteString("\n")
		for _, path := range snap.AtRiskFiles {
			fmt.Fprintf(&b, "  %s\n", warnStyle.Render(path))
		}
	}

	if snap.LastReport != nil {
		rep := snap.LastReport
		verb := "deleted"
		if rep.Simulated {
			verb = "would have deleted"
		}
		fmt.Fprintf(&b, "%s\n", warnStyle.Render(
			fmt.Sprintf("The house %s %d of %d files (%d protected).", verb, rep.Deleted, rep.Attempted, rep.Protected)))
		for _, f := range rep.Failures {
			fmt.Fprintf(&b, "  %s\n", mutedStyle.Render(fmt.Sprintf("%s: %s", f.Path, f.Err)))
		}
	}

	fmt.Fprintf(&b, "%s\n", statusStyle.Render(snap.Status))

	if len(snap.Actions) > 0 {
		names := make([]string, 0, len(snap.Actions))
		for _, a := range snap.Actions {
			names = append(names, strings.ToLower(string(a)))
		}
		fmt.Fprintf(&b, "%s\n", mutedStyle.Render("Commands: "+strings.Join(names, ", ")))
	}

	return b.String()
}

func renderHistory(records []*entities.RoundRecord) string {
	if len(records) == 0 {
		return mutedStyle.Render("No rounds played yet.") + "\n"
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render("Recent rounds (newest first):"))
	b.WriteString("\n")
	for _, rec := range records {
		line := fmt.Sprintf("%s  %-9s bet %-5d you %-2d dealer %-2d balance %d",
			rec.CompletedAt.Format("2006-01-02 15:04:05"),
			rec.Outcome, rec.Bet, rec.PlayerScore, rec.DealerScore, rec.BalanceAfter)
		if rec.FilesDeleted > 0 {
			line += fmt.Sprintf("  files lost %d", rec.FilesDeleted)
		}
		if rec.Outcome.IsWin() {
			fmt.Fprintf(&b, "  %s\n", promptStyle.Render(line))
		} else if rec.Outcome.IsLoss() {
			fmt.Fprintf(&b, "  %s\n", errorStyle.Render(line))
		} else {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	return b.String()
}

func renderHelp() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Commands:"))
	b.WriteString("\n")
	help := [][2]string{
		{"bet <n>", "start a round with a wager"},
		{"hit", "draw a card"},
		{"stand", "let the dealer play"},
		{"double", "double the bet for one card"},
		{"surrender", "give up half the bet (before acting)"},
		{"split", "split a pair"},
		{"save / load", "write or restore the session"},
		{"history", "show recent rounds"},
		{"quit", "leave the table"},
	}
	for _, h := range help {
		fmt.Fprintf(&b, "  %-12s %s\n", h[0], mutedStyle.Render(h[1]))
	}
	return b.String()
}
