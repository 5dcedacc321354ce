package cmd

import (
	"fmt"
	"strings"

	"github.com/ashwin-phadke/copilot-chat-extractor-vscode/internal"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var searchLimit int

var (
	matchTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	snippetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Padding(0, 2)

	matchMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search session titles and message bodies",
	Long:  `Search all sessions for a case-insensitive substring match in the title or any message.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		sessions := loadSessions()
		results := internal.SearchSessions(sessions, query)

		if len(results) == 0 {
			fmt.Println(headerStyle.Render(fmt.Sprintf("No sessions match %q", query)))
			return nil
		}

		limit := searchLimit
		if limit <= 0 {
			limit = cfg.ResultLimit
		}
		shown := results
		if limit > 0 && limit < len(shown) {
			shown = shown[:limit]
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("%d session(s) match %q", len(results), query)))
		fmt.Println()

		for _, result := range shown {
			displaySearchResult(result, query)
		}

		if limit > 0 && limit < len(results) {
			fmt.Println(matchMetaStyle.Render(fmt.Sprintf("... and %d more result(s)", len(results)-limit)))
		}
		return nil
	},
}

func displaySearchResult(result internal.SearchResult, query string) {
	session := result.Session

	fmt.Println(matchTitleStyle.Render(session.Title) + " " + idStyle.Render(shortID(session.SessionID)))

	meta := fmt.Sprintf("%s • %s", session.WorkspaceName, session.Source)
	if len(result.Matches) > 0 {
		meta += fmt.Sprintf(" • %d matching message(s)", len(result.Matches))
	} else {
		meta += " • title match"
	}
	fmt.Println(matchMetaStyle.Render(meta))

	if len(result.Matches) > 0 {
		fmt.Println(snippetStyle.Render(makeSnippet(result.Matches[0].Content, query, 40)))
	}
	fmt.Println()
}

// makeSnippet extracts a snippet around the first occurrence of query in
// text. The match is located in a case-folded copy; folding never changes
// the rune count, so the rune position carries back to the original text
// even when folding changes byte lengths.
func makeSnippet(text, query string, contextChars int) string {
	flat := strings.ReplaceAll(text, "\n", " ")
	folded := strings.ToLower(flat)
	foldedQuery := strings.ToLower(query)
	idx := strings.Index(folded, foldedQuery)
	if idx < 0 {
		if len([]rune(flat)) > contextChars*2 {
			return string([]rune(flat)[:contextChars*2]) + "..."
		}
		return flat
	}

	runes := []rune(flat)
	runePos := len([]rune(folded[:idx]))
	qLen := len([]rune(foldedQuery))

	start := runePos - contextChars
	if start < 0 {
		start = 0
	}
	end := runePos + qLen + contextChars
	if end > len(runes) {
		end = len(runes)
	}

	prefix := ""
	if start > 0 {
		prefix = "..."
	}
	suffix := ""
	if end < len(runes) {
		suffix = "..."
	}
	return prefix + string(runes[start:end]) + suffix
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "Limit number of results shown")
}
