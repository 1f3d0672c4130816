package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"biblioteca/pkg/models"
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Catalog commands",
	Long:  `List, search, and inspect the book catalog.`,
}

var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List books",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		if v, _ := cmd.Flags().GetString("search"); v != "" {
			params.Set("search", v)
		}
		if v, _ := cmd.Flags().GetString("genre"); v != "" {
			params.Set("genre", v)
		}
		if v, _ := cmd.Flags().GetString("read-status"); v != "" {
			params.Set("read_status", v)
		}
		if v, _ := cmd.Flags().GetBool("favorite"); v {
			params.Set("favorite", "1")
		}
		if v, _ := cmd.Flags().GetBool("loanable"); v {
			params.Set("loanable", "1")
		}
		if v, _ := cmd.Flags().GetInt64("collection"); v > 0 {
			params.Set("collection_id", fmt.Sprintf("%d", v))
		}

		path := "/books"
		if len(params) > 0 {
			path += "?" + params.Encode()
		}

		var res struct {
			Books []models.BookRow `json:"books"`
			Count int              `json:"count"`
		}
		if err := apiGet(path, &res); err != nil {
			return err
		}

		if res.Count == 0 {
			fmt.Println("No books found")
			return nil
		}

		fmt.Printf("Found %d book(s):\n\n", res.Count)
		for i, book := range res.Books {
			fmt.Printf("%d. %s\n", i+1, book.Title)
			fmt.Printf("   ID: %d\n", book.ID)
			if book.Authors != nil {
				fmt.Printf("   Authors: %s\n", *book.Authors)
			}
			if book.Genre != nil {
				fmt.Printf("   Genre: %s\n", *book.Genre)
			}
			fmt.Printf("   Read status: %s\n", book.ReadStatus)
			if book.IsLoaned == 1 {
				loanedTo := ""
				if book.LoanedTo != nil {
					loanedTo = " to " + *book.LoanedTo
				}
				fmt.Printf("   Loaned%s\n", loanedTo)
			}
			fmt.Println()
		}
		return nil
	},
}

var booksGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var book models.BookDetail
		if err := apiGet("/books/"+args[0], &book); err != nil {
			return err
		}

		fmt.Printf("%s (ID %d)\n", book.Title, book.ID)
		if book.Subtitle != nil {
			fmt.Printf("  Subtitle: %s\n", *book.Subtitle)
		}
		for _, a := range book.BookAuthors {
			fmt.Printf("  %s: %s\n", a.Role, a.Name)
		}
		if book.ISBN != nil {
			fmt.Printf("  ISBN: %s\n", *book.ISBN)
		}
		if book.Genre != nil {
			fmt.Printf("  Genre: %s\n", *book.Genre)
		}
		fmt.Printf("  Language: %s\n", book.Language)
		fmt.Printf("  Read status: %s\n", book.ReadStatus)
		if book.Signature != nil {
			fmt.Printf("  Signature: %s\n", *book.Signature)
		}
		if book.IsLoaned == 1 && book.LoanedTo != nil {
			fmt.Printf("  Loaned to: %s\n", *book.LoanedTo)
		}
		return nil
	},
}

var booksDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Remove a book from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiSend("DELETE", "/books/"+args[0], nil, nil); err != nil {
			return err
		}
		printSuccess("Book deleted")
		return nil
	},
}

func init() {
	booksListCmd.Flags().String("search", "", "free-text search (title, subtitle, genre, author)")
	booksListCmd.Flags().String("genre", "", "filter by exact genre")
	booksListCmd.Flags().String("read-status", "", "filter by read status (unread, reading, completed)")
	booksListCmd.Flags().Bool("favorite", false, "only favorites")
	booksListCmd.Flags().Bool("loanable", false, "only loanable books")
	booksListCmd.Flags().Int64("collection", 0, "filter by collection id")

	booksCmd.AddCommand(booksListCmd)
	booksCmd.AddCommand(booksGetCmd)
	booksCmd.AddCommand(booksDeleteCmd)
	rootCmd.AddCommand(booksCmd)
}
