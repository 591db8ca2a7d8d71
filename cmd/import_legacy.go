package cmd

import (
	"fmt"

	"learnbase/config"
	"learnbase/database"
	"learnbase/logger"

	"github.com/spf13/cobra"
)

var importLegacyCmd = &cobra.Command{
	Use:   "import-legacy <path>",
	Short: "Copy notes from a legacy learning-notes database",
	Long: `Reads the learning_note table of an older database, in either the
free-text category layout or the category table layout, and adds its notes to
the current database. Categories are matched by name ignoring case; notes with
no category go to "Uncategorized". Timestamps are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ExpandTilde(config.DatabasePath(args[0]))
		logger.Info("Executing 'import-legacy' from '%s'", path)
		report, err := database.ImportLegacy(path)
		if err != nil {
			return err
		}
		for _, w := range report.Warnings {
			fmt.Printf("warning: %s\n", w)
		}
		fmt.Printf("Imported %d notes (%d already present, %d skipped). Categories: %d created, %d reused.\n",
			report.NotesImported, report.NotesAlreadyPresent, report.NotesSkipped, report.CategoriesCreated, report.CategoriesReused)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importLegacyCmd)
}
