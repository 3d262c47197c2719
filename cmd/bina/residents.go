package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/syaprakli/bina-yonetim/internal/model"
)

func residentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "residents",
		Short: "Manage the resident directory",
		Long:  `List, add, update, and remove residents of the building.`,
	}

	cmd.AddCommand(listResidentsCmd())
	cmd.AddCommand(addResidentCmd())
	cmd.AddCommand(updateResidentCmd())
	cmd.AddCommand(removeResidentCmd())

	return cmd
}

func listResidentsCmd() *cobra.Command {
	var withBalance bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all residents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, sess, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			residents := sess.Residents()
			if len(residents) == 0 {
				fmt.Println("No residents yet. Use 'bina residents add' to create one.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			if withBalance {
				fmt.Fprintln(w, "Daire\tAd Soyad\tTip\tTelefon\tBakiye")
			} else {
				fmt.Fprintln(w, "Daire\tAd Soyad\tTip\tTelefon")
			}

			now := time.Now()
			for _, r := range residents {
				name := r.FullName
				if r.Residency == model.ResidencyTenant && r.OwnerName != "" {
					name += fmt.Sprintf(" (Ev S: %s)", r.OwnerName)
				}
				kind := "Ev Sahibi"
				if r.Residency == model.ResidencyTenant {
					kind = "Kiracı"
				}
				if withBalance {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
						r.DoorNumber, name, kind, r.Phone, formatTRY(sess.Balance(r.ID, now)))
				} else {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.DoorNumber, name, kind, r.Phone)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withBalance, "balances", false, "include current balances")
	return cmd
}

func addResidentCmd() *cobra.Command {
	var (
		door       int
		name       string
		phone      string
		tenant     bool
		ownerName  string
		ownerPhone string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a resident",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, sess, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			residency := model.ResidencyOwner
			if tenant {
				residency = model.ResidencyTenant
			}
			r, err := sess.AddResident(ctx, model.Resident{
				DoorNumber: door,
				FullName:   name,
				Phone:      phone,
				Residency:  residency,
				OwnerName:  ownerName,
				OwnerPhone: ownerPhone,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Added %s\n", residentLabel(r))
			return nil
		},
	}

	cmd.Flags().IntVar(&door, "door", 0, "unit number (required)")
	cmd.Flags().StringVar(&name, "name", "", "full name (required)")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().BoolVar(&tenant, "tenant", false, "resident is a tenant")
	cmd.Flags().StringVar(&ownerName, "owner-name", "", "landlord name (tenants)")
	cmd.Flags().StringVar(&ownerPhone, "owner-phone", "", "landlord phone (tenants)")
	_ = cmd.MarkFlagRequired("door")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func updateResidentCmd() *cobra.Command {
	var (
		door       int
		name       string
		phone      string
		tenant     bool
		ownerName  string
		ownerPhone string
	)

	cmd := &cobra.Command{
		Use:   "update <resident>",
		Short: "Update a resident",
		Long:  `Update a resident found by name or "Daire N" lookup. Only the provided flags change.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, sess, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			r, err := findResident(sess, args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("door") {
				r.DoorNumber = door
			}
			if cmd.Flags().Changed("name") {
				r.FullName = name
			}
			if cmd.Flags().Changed("phone") {
				r.Phone = phone
			}
			if cmd.Flags().Changed("tenant") {
				r.Residency = model.ResidencyOwner
				if tenant {
					r.Residency = model.ResidencyTenant
				}
			}
			if cmd.Flags().Changed("owner-name") {
				r.OwnerName = ownerName
			}
			if cmd.Flags().Changed("owner-phone") {
				r.OwnerPhone = ownerPhone
			}

			if err := sess.UpdateResident(ctx, r); err != nil {
				return err
			}
			fmt.Printf("Updated %s\n", residentLabel(r))
			return nil
		},
	}

	cmd.Flags().IntVar(&door, "door", 0, "unit number")
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().BoolVar(&tenant, "tenant", false, "resident is a tenant")
	cmd.Flags().StringVar(&ownerName, "owner-name", "", "landlord name")
	cmd.Flags().StringVar(&ownerPhone, "owner-phone", "", "landlord phone")
	return cmd
}

func removeResidentCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <resident>",
		Short: "Remove a resident",
		Long: `Remove a resident from the directory. Their past transactions are
kept and show up as unassigned.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, sess, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			r, err := findResident(sess, args[0])
			if err != nil {
				return err
			}

			if !yes {
				fmt.Printf("Remove %s? Past transactions are kept. [y/N]: ", residentLabel(r))
				var answer string
				_, _ = fmt.Scanln(&answer)
				if !strings.EqualFold(strings.TrimSpace(answer), "y") {
					fmt.Println("Cancelled.")
					return nil
				}
			}

			if err := sess.RemoveResident(ctx, r.ID); err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", residentLabel(r))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
