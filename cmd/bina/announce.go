package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func announceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "announce",
		Short: "Manage saved announcement templates",
	}

	cmd.AddCommand(listAnnouncementsCmd())
	cmd.AddCommand(addAnnouncementCmd())
	cmd.AddCommand(deleteAnnouncementCmd())

	return cmd
}

func listAnnouncementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved announcements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, sess, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			anns := sess.Announcements()
			if len(anns) == 0 {
				fmt.Println("No saved announcements.")
				return nil
			}
			for _, a := range anns {
				fmt.Printf("#%d [%s] %s\n", a.ID, a.CreatedAt.Format(time.DateOnly), a.Title)
				if a.Body != "" {
					fmt.Printf("    %s\n", a.Body)
				}
			}
			return nil
		},
	}
}

func addAnnouncementCmd() *cobra.Command {
	var body string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Save an announcement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, sess, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			a, err := sess.AddAnnouncement(ctx, args[0], body)
			if err != nil {
				return err
			}
			fmt.Printf("Saved announcement #%d\n", a.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&body, "body", "", "announcement text")
	return cmd
}

func deleteAnnouncementCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved announcement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, sess, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid announcement id %q", args[0])
			}
			if err := sess.DeleteAnnouncement(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Deleted announcement #%d\n", id)
			return nil
		},
	}
}
