package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/libsys-io/libsys/library"
	"github.com/libsys-io/libsys/logger"
)

// MemberCmd groups member management.
var MemberCmd = &cobra.Command{
	Use:   "member",
	Short: "Manage library members",
	Long: `member — Manage library members

Examples:
  libsys member add M001 "Nimal Perera" --contact 0771234567 --age 34
  libsys member update M001 "Nimal Perera" --contact 0779999999
  libsys member ls
  libsys member rm M001`,
}

var (
	memberAgeFlag     int
	memberEmailFlag   string
	memberContactFlag string
	memberPhotoFlag   string
)

var memberAddCmd = &cobra.Command{
	Use:   "add <member-id> <name>",
	Short: "Register a new member",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase("")
		if err != nil {
			return err
		}
		defer database.Close()

		store := library.NewMemberStore(database, logger.Logger)
		err = store.Add(cmd.Context(), library.Member{
			ID:      args[0],
			Name:    args[1],
			Age:     memberAgeFlag,
			Email:   memberEmailFlag,
			Contact: memberContactFlag,
			Photo:   memberPhotoFlag,
		})
		if err != nil {
			return err
		}

		pterm.Success.Printf("Member %s registered\n", args[0])
		return nil
	},
}

var memberUpdateCmd = &cobra.Command{
	Use:   "update <member-id> <name>",
	Short: "Update an existing member",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase("")
		if err != nil {
			return err
		}
		defer database.Close()

		store := library.NewMemberStore(database, logger.Logger)
		err = store.Update(cmd.Context(), library.Member{
			ID:      args[0],
			Name:    args[1],
			Age:     memberAgeFlag,
			Email:   memberEmailFlag,
			Contact: memberContactFlag,
			Photo:   memberPhotoFlag,
		})
		if err != nil {
			return err
		}

		pterm.Success.Printf("Member %s updated\n", args[0])
		return nil
	},
}

var memberRmCmd = &cobra.Command{
	Use:   "rm <member-id>",
	Short: "Remove a member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase("")
		if err != nil {
			return err
		}
		defer database.Close()

		store := library.NewMemberStore(database, logger.Logger)
		if err := store.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}

		pterm.Success.Printf("Member %s removed\n", args[0])
		return nil
	},
}

var memberLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all members",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase("")
		if err != nil {
			return err
		}
		defer database.Close()

		store := library.NewMemberStore(database, logger.Logger)
		members, err := store.List(cmd.Context())
		if err != nil {
			return err
		}

		if len(members) == 0 {
			pterm.Info.Println("No members registered")
			return nil
		}

		fmt.Printf("%-8s %-24s %-5s %-24s %s\n", "ID", "NAME", "AGE", "EMAIL", "CONTACT")
		for _, m := range members {
			fmt.Printf("%-8s %-24s %-5d %-24s %s\n", m.ID, m.Name, m.Age, m.Email, m.Contact)
		}
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{memberAddCmd, memberUpdateCmd} {
		cmd.Flags().IntVar(&memberAgeFlag, "age", 0, "Member age")
		cmd.Flags().StringVar(&memberEmailFlag, "email", "", "Email address")
		cmd.Flags().StringVar(&memberContactFlag, "contact", "", "Contact number")
		cmd.Flags().StringVar(&memberPhotoFlag, "photo", "", "Photo path")
		cmd.MarkFlagRequired("contact")
	}

	MemberCmd.AddCommand(memberAddCmd)
	MemberCmd.AddCommand(memberUpdateCmd)
	MemberCmd.AddCommand(memberRmCmd)
	MemberCmd.AddCommand(memberLsCmd)
}
