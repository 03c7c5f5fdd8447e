package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/fincoach/internal/advisor"
	"github.com/theirongolddev/fincoach/internal/cli"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask QUESTION...",
	Short: "Ask a financial question about your profile",
	Example: `  fincoach ask how can I save more
  fincoach --sample student ask where should I invest`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	sess, err := loadSession(nil)
	if err != nil {
		return err
	}
	if _, err := requireProfile(sess); err != nil {
		return err
	}

	reply, err := sess.Ask(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(reply.Text)
	fmt.Println()
	if reply.Degraded && !flagQuiet {
		fmt.Fprintln(os.Stderr, cli.RenderMuted("  AI backend unavailable, answered from built-in guidance"))
	} else if reply.Source == advisor.SourceBackend && !flagQuiet {
		fmt.Fprintln(os.Stderr, cli.RenderMuted("  answered by "+appCfg.AI.Model))
	}
	return nil
}
