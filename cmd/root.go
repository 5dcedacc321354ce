package cmd

import (
	"fmt"
	"os"

	"github.com/ashwin-phadke/copilot-chat-extractor-vscode/internal"
	"github.com/ashwin-phadke/copilot-chat-extractor-vscode/internal/config"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	noCache bool
	cfg     *config.Config
	version string = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "copilot-chat-extractor",
	Short: "Extract and export AI chat sessions from VS Code family editors",
	Long: `Extract AI assistant chat sessions stored locally by VS Code family
editors (VS Code, VS Code Insiders, VSCodium, Cursor, Windsurf).

Sessions are discovered per workspace, from chatSessions transcript files
and from the state.vscdb database, normalized into a single model, and
rendered in several formats.

Quick Start:
  copilot-chat-extractor list                  # List all sessions
  copilot-chat-extractor show <session-id>     # View one session
  copilot-chat-extractor search "binary tree"  # Search titles and messages
  copilot-chat-extractor export --format md    # Export as Markdown`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		internal.SetVerbose(verbose)
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadSessions runs the discovery and aggregation pipeline, consulting the
// session cache first unless --no-cache was given.
func loadSessions() []*internal.ChatSession {
	cacheManager := internal.NewCacheManager(cfg.CacheDir)

	if !noCache && cacheManager.IsCacheValid() {
		if sessions, err := cacheManager.LoadAllSessions(); err == nil && len(sessions) > 0 {
			internal.LogDebug("loaded %d session(s) from cache", len(sessions))
			return sessions
		}
	}

	env := internal.DetectEnvironment()
	workspaces := internal.DiscoverAll(env, internal.DefaultVariants, cfg.ExtraRoots)
	sessions := internal.GetAllSessions(workspaces)

	if !noCache {
		if err := cacheManager.SaveSessions(sessions); err != nil {
			internal.LogWarn("failed to save session cache: %v", err)
		}
	}
	return sessions
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Bypass the session cache")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
