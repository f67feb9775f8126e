package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/libsys-io/libsys/library"
	"github.com/libsys-io/libsys/logger"
)

// NotifyCmd groups loan-intent management.
var NotifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Manage loan intents from members",
	Long: `notify — Manage loan intents

A loan intent is a member's "I want this" on a recommended book,
queued for an admin to confirm or reject.

Examples:
  libsys notify add M001 "Dune" "Frank Herbert"
  libsys notify ls
  libsys notify confirm 1f6c...
  libsys notify reject 1f6c...`,
}

var notifyImageFlag string

var notifyAddCmd = &cobra.Command{
	Use:   "add <member-id> <title> <author>",
	Short: "Record a member's loan intent",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase("")
		if err != nil {
			return err
		}
		defer database.Close()

		books := library.NewBookStore(database, logger.Logger)
		store := library.NewNotifyStore(database, books, logger.Logger)
		intent, err := store.Record(cmd.Context(), args[0], args[1], args[2], notifyImageFlag)
		if err != nil {
			return err
		}

		pterm.Success.Printf("Loan intent %s recorded\n", intent.ID)
		return nil
	},
}

var notifyLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List pending loan intents",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase("")
		if err != nil {
			return err
		}
		defer database.Close()

		books := library.NewBookStore(database, logger.Logger)
		store := library.NewNotifyStore(database, books, logger.Logger)
		intents, err := store.Pending(cmd.Context())
		if err != nil {
			return err
		}

		if len(intents) == 0 {
			pterm.Info.Println("No pending loan intents")
			return nil
		}

		fmt.Printf("%-38s %-8s %-8s %-32s %s\n", "ID", "MEMBER", "BOOK", "TITLE", "WHEN")
		for _, intent := range intents {
			fmt.Printf("%-38s %-8s %-8s %-32s %s\n",
				intent.ID, intent.MemberID, intent.BookID, intent.Title,
				intent.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var notifyConfirmCmd = &cobra.Command{
	Use:   "confirm <intent-id>",
	Short: "Confirm a pending intent",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return resolveIntent(cmd, args[0], true) },
}

var notifyRejectCmd = &cobra.Command{
	Use:   "reject <intent-id>",
	Short: "Reject a pending intent",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return resolveIntent(cmd, args[0], false) },
}

func resolveIntent(cmd *cobra.Command, id string, confirm bool) error {
	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	books := library.NewBookStore(database, logger.Logger)
	store := library.NewNotifyStore(database, books, logger.Logger)

	if confirm {
		if err := store.Confirm(cmd.Context(), id); err != nil {
			return err
		}
		pterm.Success.Printf("Intent %s confirmed\n", id)
	} else {
		if err := store.Reject(cmd.Context(), id); err != nil {
			return err
		}
		pterm.Success.Printf("Intent %s rejected\n", id)
	}
	return nil
}

func init() {
	notifyAddCmd.Flags().StringVar(&notifyImageFlag, "image", "", "Cover image URL to keep with the intent")

	NotifyCmd.AddCommand(notifyAddCmd)
	NotifyCmd.AddCommand(notifyLsCmd)
	NotifyCmd.AddCommand(notifyConfirmCmd)
	NotifyCmd.AddCommand(notifyRejectCmd)
}
