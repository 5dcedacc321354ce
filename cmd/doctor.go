package cmd

import (
	"fmt"
	"os"

	"github.com/ashwin-phadke/copilot-chat-extractor-vscode/internal"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check which editor variants and session sources are available",
	Long: `Check whether chat session data can be located by verifying:
  • Per-variant storage root detection
  • Workspace discovery
  • Transcript file and state database availability

This command is useful for debugging storage issues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(sectionStyle.Render("🔍 Storage Health Check"))
		fmt.Println()

		env := internal.DetectEnvironment()

		fmt.Println(infoStyle.Render("Editor variants:"))
		found := 0
		for _, variant := range internal.DefaultVariants {
			root := env.VariantRoot(variant)
			if root == "" {
				fmt.Printf("  %s %s (unsupported OS: %s)\n", warningStyle.Render("⚠"), variant.Name, env.OS)
				continue
			}
			if info, err := os.Stat(root); err == nil && info.IsDir() {
				fmt.Printf("  %s %s\n", successStyle.Render("✓"), variant.Name)
				if verbose {
					fmt.Printf("      %s\n", root)
				}
				found++
			} else {
				fmt.Printf("  %s %s (not installed)\n", warningStyle.Render("✗"), variant.Name)
				if verbose {
					fmt.Printf("      expected: %s\n", root)
				}
			}
		}
		fmt.Println()

		if found == 0 && len(cfg.ExtraRoots) == 0 {
			fmt.Println(warningStyle.Render("No editor variant storage found on this machine."))
			return nil
		}

		fmt.Println(infoStyle.Render("Workspaces:"))
		workspaces := internal.DiscoverAll(env, internal.DefaultVariants, cfg.ExtraRoots)
		if len(workspaces) == 0 {
			fmt.Println(warningStyle.Render("  No workspaces with chat data found."))
			return nil
		}

		fileSessions := 0
		dbWorkspaces := 0
		for _, ws := range workspaces {
			fileSessions += len(ws.ChatSessionFiles)
			if ws.HasStateDB {
				dbWorkspaces++
			}
			if verbose {
				status := fmt.Sprintf("%d transcript file(s)", len(ws.ChatSessionFiles))
				if ws.HasStateDB {
					_, outcome := internal.ExtractFromStateDB(ws)
					status += fmt.Sprintf(", state database: %s", outcome)
				}
				fmt.Printf("  • %s [%s]: %s\n", ws.Name(), ws.Variant, status)
			}
		}
		fmt.Printf("  %s %d workspace(s), %d transcript file(s), %d with a state database\n",
			successStyle.Render("✓"), len(workspaces), fileSessions, dbWorkspaces)
		fmt.Println()

		sessions := internal.GetAllSessions(workspaces)
		fmt.Println(sectionStyle.Render("📊 Summary"))
		if len(sessions) > 0 {
			fmt.Println(successStyle.Render(fmt.Sprintf("✓ %d session(s) available", len(sessions))))
		} else {
			fmt.Println(warningStyle.Render("⚠ Storage available but no sessions extracted"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
