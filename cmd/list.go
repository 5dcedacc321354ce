package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ashwin-phadke/copilot-chat-extractor-vscode/internal"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	listClearCache bool
	listLimit      int
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	workspaceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available sessions",
	Long:  `List all chat sessions discovered across installed editor variants.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listClearCache {
			cacheManager := internal.NewCacheManager(cfg.CacheDir)
			if err := cacheManager.ClearCache(); err != nil {
				internal.LogWarn("failed to clear cache: %v", err)
			} else {
				internal.LogInfo("cache cleared")
			}
		}

		sessions := loadSessions()

		limit := listLimit
		if limit <= 0 {
			limit = cfg.ResultLimit
		}

		displaySessions(sessions, limit)
		return nil
	},
}

func displaySessions(sessions []*internal.ChatSession, limit int) {
	if len(sessions) == 0 {
		fmt.Println(headerStyle.Render("No sessions found"))
		return
	}

	shown := sessions
	if limit > 0 && limit < len(shown) {
		shown = shown[:limit]
	}

	header := headerStyle.Render(fmt.Sprintf("Found %d session(s)", len(sessions)))
	fmt.Println(header)
	fmt.Println()

	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)

	_, _ = fmt.Fprintln(w, titleStyle.Render("Title")+"\t"+titleStyle.Render("ID")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Modified")+"\t"+titleStyle.Render("Workspace")+"\t"+titleStyle.Render("Source")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 120))

	for _, session := range shown {
		title := truncate(session.Title, 50)
		workspace := truncate(session.WorkspaceName, 25)

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			title,
			idStyle.Render(shortID(session.SessionID)),
			countStyle.Render(strconv.Itoa(len(session.Messages))),
			dateStyle.Render(formatRelativeTime(session.ModifiedAt)),
			workspaceStyle.Render(workspace),
			sourceStyle.Render(session.Source),
		)
	}

	_ = w.Flush()

	if limit > 0 && limit < len(sessions) {
		fmt.Println()
		fmt.Println(dateStyle.Render(fmt.Sprintf("... and %d more (raise result_limit or use --limit)", len(sessions)-limit)))
	}
}

// truncate clips s to at most max display runes, with an ellipsis when
// clipped. Byte slicing would split multibyte runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// shortID clips a session id to its first 12 runes for column display.
func shortID(id string) string {
	runes := []rune(id)
	if len(runes) <= 12 {
		return id
	}
	return string(runes[:12])
}

// formatRelativeTime renders a timestamp the way the list column expects:
// recent sessions show time of day, older ones show the date.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listClearCache, "clear-cache", false, "Clear the cache before running")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Limit number of sessions shown")
}
