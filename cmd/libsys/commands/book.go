package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/libsys-io/libsys/library"
	"github.com/libsys-io/libsys/logger"
)

// BookCmd groups catalog management.
var BookCmd = &cobra.Command{
	Use:   "book",
	Short: "Manage the book catalog",
	Long: `book — Manage the book catalog

Examples:
  libsys book add B001 "The Hobbit" --author "J.R.R. Tolkien" --year 1937
  libsys book ls
  libsys book rm B001`,
}

var (
	bookAuthorFlag string
	bookYearFlag   int
	bookTitleFlag  string
)

func bookFromArgs(args []string) library.Book {
	b := library.Book{
		ID:       args[0],
		BookName: args[1],
		Title:    bookTitleFlag,
		Author:   bookAuthorFlag,
		Year:     bookYearFlag,
	}
	// The index title usually matches the display name.
	if b.Title == "" {
		b.Title = b.BookName
	}
	return b
}

var bookAddCmd = &cobra.Command{
	Use:   "add <book-id> <name>",
	Short: "Add a book to the catalog",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase("")
		if err != nil {
			return err
		}
		defer database.Close()

		store := library.NewBookStore(database, logger.Logger)
		if err := store.Add(cmd.Context(), bookFromArgs(args)); err != nil {
			return err
		}

		pterm.Success.Printf("Book %s added\n", args[0])
		return nil
	},
}

var bookUpdateCmd = &cobra.Command{
	Use:   "update <book-id> <name>",
	Short: "Update a catalog entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase("")
		if err != nil {
			return err
		}
		defer database.Close()

		store := library.NewBookStore(database, logger.Logger)
		if err := store.Update(cmd.Context(), bookFromArgs(args)); err != nil {
			return err
		}

		pterm.Success.Printf("Book %s updated\n", args[0])
		return nil
	},
}

var bookRmCmd = &cobra.Command{
	Use:   "rm <book-id>",
	Short: "Remove a book from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase("")
		if err != nil {
			return err
		}
		defer database.Close()

		store := library.NewBookStore(database, logger.Logger)
		if err := store.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}

		pterm.Success.Printf("Book %s removed\n", args[0])
		return nil
	},
}

var bookLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase("")
		if err != nil {
			return err
		}
		defer database.Close()

		store := library.NewBookStore(database, logger.Logger)
		books, err := store.List(cmd.Context())
		if err != nil {
			return err
		}

		if len(books) == 0 {
			pterm.Info.Println("Catalog is empty")
			return nil
		}

		fmt.Printf("%-8s %-32s %-24s %s\n", "ID", "NAME", "AUTHOR", "YEAR")
		for _, b := range books {
			fmt.Printf("%-8s %-32s %-24s %d\n", b.ID, b.BookName, b.Author, b.Year)
		}
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{bookAddCmd, bookUpdateCmd} {
		cmd.Flags().StringVar(&bookAuthorFlag, "author", "", "Author name")
		cmd.Flags().IntVar(&bookYearFlag, "year", 0, "Publication year")
		cmd.Flags().StringVar(&bookTitleFlag, "title", "", "Index title when it differs from the display name")
		cmd.MarkFlagRequired("author")
	}

	BookCmd.AddCommand(bookAddCmd)
	BookCmd.AddCommand(bookUpdateCmd)
	BookCmd.AddCommand(bookRmCmd)
	BookCmd.AddCommand(bookLsCmd)
}
