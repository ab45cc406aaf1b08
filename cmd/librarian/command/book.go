package command

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bookrental/internal/microservices/http-api/service"
)

func newBookCommand(open Opener) *cobra.Command {
	bookCmd := &cobra.Command{
		Use:   "book",
		Short: "Manage the catalog",
	}

	var in service.BookInput
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app) error {
				book, err := a.books.Create(cmd.Context(), in)
				if err != nil {
					return fmt.Errorf("add book: %w", err)
				}
				success.Fprintf(cmd.OutOrStdout(), "✓ Added book %d: %s\n", book.ID, book.Title)
				return nil
			})
		},
	}
	addCmd.Flags().StringVar(&in.ISBN13, "isbn", "", "ISBN-13")
	addCmd.Flags().StringVar(&in.Title, "title", "", "Title")
	addCmd.Flags().StringVar(&in.Author, "author", "", "Author")
	addCmd.Flags().StringVar(&in.PublishDate, "published", "", "Publish date (YYYY-MM-DD)")
	for _, f := range []string{"isbn", "title", "author", "published"} {
		addCmd.MarkFlagRequired(f)
	}

	var page int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app) error {
				books, maxPage, err := a.books.List(cmd.Context(), page)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tISBN\tTITLE\tAUTHOR")
				for _, b := range books {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", b.ID, b.ISBN13, b.Title, b.Author)
				}
				if err := w.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d\n", page, maxPage)
				return nil
			})
		},
	}
	listCmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")

	bookCmd.AddCommand(addCmd, listCmd)
	return bookCmd
}
