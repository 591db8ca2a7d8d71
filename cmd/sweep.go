package cmd

import (
	"fmt"

	"learnbase/config"
	"learnbase/database"
	"learnbase/logger"
	"learnbase/media"

	"github.com/spf13/cobra"
)

var sweepDelete bool

var sweepImagesCmd = &cobra.Command{
	Use:   "sweep-images",
	Short: "Report uploaded images no note refers to",
	Long: `Compares the files in the image directory with every note's content and
lists those that are not referenced. With --delete they are removed. The server
never does this on its own.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, err := database.ListNotes()
		if err != nil {
			return err
		}
		contents := make([]string, 0, len(notes))
		for _, n := range notes {
			contents = append(contents, n.Content)
		}

		dir := config.AppConfig.Images.Dir
		orphans, err := media.FindOrphans(dir, contents)
		if err != nil {
			return err
		}
		if len(orphans) == 0 {
			fmt.Println("No orphaned images.")
			return nil
		}
		for _, name := range orphans {
			fmt.Println(name)
		}
		if !sweepDelete {
			fmt.Printf("%d orphaned images in %s. Re-run with --delete to remove them.\n", len(orphans), dir)
			return nil
		}
		removed, err := media.RemoveOrphans(dir, orphans)
		logger.Info("sweep-images: Removed %d of %d orphaned images from %s", removed, len(orphans), dir)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d orphaned images.\n", removed)
		return nil
	},
}

func init() {
	sweepImagesCmd.Flags().BoolVar(&sweepDelete, "delete", false, "remove the orphaned files")
	rootCmd.AddCommand(sweepImagesCmd)
}
