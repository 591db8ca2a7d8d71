package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"learnbase/database"
	"learnbase/logger"

	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Short:   "Manage note categories",
	Long:    `Lists categories with their note counts or adds new ones. Categories cannot be deleted.`,
	Aliases: []string{"cat"},
}

var categoryListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all categories",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("Executing 'category list' command")
		categories, err := database.ListCategoriesWithCounts()
		if err != nil {
			logger.Error("Failed to list categories: %v", err)
			return err
		}
		if len(categories) == 0 {
			fmt.Println("No categories found in the database.")
			return nil
		}

		writer := tabwriter.NewWriter(os.Stdout, 0, 8, 1, '\t', 0)
		fmt.Fprintln(writer, "ID\tNAME\tNOTES")
		fmt.Fprintln(writer, "--\t----\t-----")
		for _, c := range categories {
			fmt.Fprintf(writer, "%d\t%s\t%d\n", c.ID, c.Name, c.NoteCount)
		}
		writer.Flush()
		logger.Info("Successfully listed %d categories", len(categories))
		return nil
	},
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category, or show the existing one with the same name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		logger.Info("Executing 'category add' command for '%s'", name)
		category, created, err := database.CreateCategory(name)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("Created category '%s' with ID %d.\n", category.Name, category.ID)
		} else {
			fmt.Printf("Category '%s' already exists with ID %d.\n", category.Name, category.ID)
		}
		return nil
	},
}

func init() {
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryAddCmd)
	rootCmd.AddCommand(categoryCmd)
}
