package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/ashwin-phadke/copilot-chat-extractor-vscode/internal"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var showLimit int

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show messages for a specific session",
	Long:  `Display messages from a specific chat session. A unique session id prefix is accepted.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]

		sessions := loadSessions()
		session := findSession(sessions, sessionID)
		if session == nil {
			return fmt.Errorf("session not found: %s (use 'copilot-chat-extractor list' to see available sessions)", sessionID)
		}

		displaySessionHeader(session)

		messagesToShow := session.Messages
		total := len(messagesToShow)
		if showLimit > 0 && showLimit < len(messagesToShow) {
			messagesToShow = messagesToShow[:showLimit]
		}

		for i, msg := range messagesToShow {
			displayMessage(i+1, msg, total)
		}

		if showLimit > 0 && showLimit < total {
			remaining := total - showLimit
			fmt.Println()
			fmt.Println(timestampStyle.Render(fmt.Sprintf("... (%d more message(s))", remaining)))
		}

		return nil
	},
}

// findSession resolves an exact session id, or a prefix when it is
// unambiguous.
func findSession(sessions []*internal.ChatSession, id string) *internal.ChatSession {
	for _, session := range sessions {
		if session.SessionID == id {
			return session
		}
	}
	var match *internal.ChatSession
	for _, session := range sessions {
		if strings.HasPrefix(session.SessionID, id) {
			if match != nil {
				return nil // ambiguous prefix
			}
			match = session
		}
	}
	return match
}

func displaySessionHeader(session *internal.ChatSession) {
	header := sessionHeaderStyle.Render(fmt.Sprintf("💬 %s", session.Title))
	fmt.Println(header)

	var metaParts []string
	if !session.CreatedAt.IsZero() {
		metaParts = append(metaParts, fmt.Sprintf("Created: %s", session.CreatedAt.Format(time.RFC3339)))
	}
	metaParts = append(metaParts, fmt.Sprintf("Messages: %d", len(session.Messages)))
	if session.WorkspaceName != "" {
		metaParts = append(metaParts, fmt.Sprintf("Workspace: %s", session.WorkspaceName))
	}
	if session.Model != "" {
		metaParts = append(metaParts, fmt.Sprintf("Model: %s", session.Model))
	}
	metaParts = append(metaParts, fmt.Sprintf("Source: %s", session.Source))

	fmt.Println(sessionMetaStyle.Render(strings.Join(metaParts, " • ")))
	fmt.Println()
}

func displayMessage(index int, msg internal.ChatMessage, total int) {
	var actorStyle lipgloss.Style
	var actorLabel string

	switch msg.Role {
	case internal.RoleUser:
		actorStyle = userMessageStyle
		actorLabel = "👤 User"
	case internal.RoleAssistant:
		actorStyle = assistantMessageStyle
		actorLabel = "🤖 Assistant"
	default:
		actorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		actorLabel = fmt.Sprintf("🔧 %s", msg.Role)
	}

	header := actorStyle.Render(actorLabel) + " " + timestampStyle.Render(fmt.Sprintf("[%d/%d]", index, total))
	if !msg.Timestamp.IsZero() {
		header += " " + timestampStyle.Render(msg.Timestamp.Format("15:04:05"))
	}
	fmt.Println(header)

	content := strings.TrimSpace(msg.Content)
	if content != "" {
		fmt.Println(messageContentStyle.Render(wrapText(content, 80)))
	} else {
		fmt.Println(messageContentStyle.Foreground(lipgloss.Color("240")).Render("(empty message)"))
	}

	fmt.Println()
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				if currentLine != "" {
					wrapped = append(wrapped, currentLine)
					currentLine = word
				} else {
					wrapped = append(wrapped, word)
					currentLine = ""
				}
			} else {
				if currentLine == "" {
					currentLine = word
				} else {
					currentLine += " " + word
				}
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&showLimit, "limit", "n", 0, "Limit number of messages to show")
}
