package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/fincoach/internal/config"
	"github.com/theirongolddev/fincoach/internal/export"

	"github.com/spf13/cobra"
)

var flagExportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export profile, budget report and goals as JSON",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportDir, "dir", "o", "", "Output directory (default from config)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	tracker, closeFn, err := openGoals()
	if err != nil {
		return err
	}
	defer closeFn()

	sess, err := loadSession(tracker)
	if err != nil {
		return err
	}

	dir := flagExportDir
	if dir == "" {
		dir = config.ExportDir(appCfg)
	}
	path, err := export.Write(dir, sess.Snapshot(), time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("  Exported to %s\n", path)
	return nil
}
