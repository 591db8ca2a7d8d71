package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"learnbase/config"
	"learnbase/database"
	"learnbase/logger"
	"learnbase/models"

	"github.com/spf13/cobra"
)

var notePage int

var noteCmd = &cobra.Command{
	Use:     "note",
	Short:   "Browse and remove notes",
	Aliases: []string{"n"},
}

func printNotePage(page models.NotePage) {
	if len(page.Notes) == 0 {
		fmt.Println("No notes found.")
		return
	}
	writer := tabwriter.NewWriter(os.Stdout, 0, 8, 1, '\t', 0)
	fmt.Fprintln(writer, "ID\tTITLE\tCATEGORY\tTAGS\tUPDATED")
	fmt.Fprintln(writer, "--\t-----\t--------\t----\t-------")
	for _, n := range page.Notes {
		fmt.Fprintf(writer, "%d\t%s\t%s\t%s\t%s\n", n.ID, n.Title, n.CategoryName, strings.Join(n.TagList, ", "), n.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	writer.Flush()
	fmt.Printf("Page %d of %d (%d notes)\n", page.Page, page.Pages, page.Total)
}

func parseNoteID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note ID '%s'", arg)
	}
	return id, nil
}

var noteListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List notes, newest update first",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := database.ListNotesPage(notePage, config.AppConfig.Notes.PerPage)
		if err != nil {
			return err
		}
		printNotePage(page)
		return nil
	},
}

var noteSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search note titles, content and tags",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := database.SearchNotes(strings.Join(args, " "), notePage, config.AppConfig.Notes.PerPage)
		if err != nil {
			return err
		}
		printNotePage(page)
		return nil
	},
}

var noteShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseNoteID(args[0])
		if err != nil {
			return err
		}
		note, err := database.GetNoteByID(id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return fmt.Errorf("note %d not found", id)
			}
			return err
		}
		fmt.Printf("# %s\n\n", note.Title)
		fmt.Printf("Category: %s\n", note.CategoryName)
		if len(note.TagList) > 0 {
			fmt.Printf("Tags:     %s\n", strings.Join(note.TagList, ", "))
		}
		fmt.Printf("Created:  %s\n", note.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Updated:  %s\n\n", note.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Println(note.Content)
		return nil
	},
}

var noteDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Delete a note",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseNoteID(args[0])
		if err != nil {
			return err
		}
		if err := database.DeleteNote(id); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return fmt.Errorf("note %d not found", id)
			}
			return err
		}
		logger.Info("note delete: Deleted note %d", id)
		fmt.Printf("Deleted note %d.\n", id)
		return nil
	},
}

func init() {
	noteListCmd.Flags().IntVar(&notePage, "page", 1, "page number")
	noteSearchCmd.Flags().IntVar(&notePage, "page", 1, "page number")
	noteCmd.AddCommand(noteListCmd, noteSearchCmd, noteShowCmd, noteDeleteCmd)
	rootCmd.AddCommand(noteCmd)
}
