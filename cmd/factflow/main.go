// factflow is the command-line front end: inline investigations, the MCP
// stdio server and database migrations.
//
// Usage:
//
//	factflow investigate "<claim>"
//	factflow investigate --file claims.txt --parallel 3
//	factflow mcp
//	factflow migrate
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"factflow/internal/config"
	"factflow/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "factflow",
	Short: "Automated fact-checking investigations",
	Long:  "factflow gathers web evidence for a claim, has a language model write a\nstructured investigation report and exports it as TXT, HTML and PDF.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		_ = godotenv.Load(".env")
		cfg = config.Load()
		logging.Init(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, cmd.ErrOrStderr())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(investigateCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
