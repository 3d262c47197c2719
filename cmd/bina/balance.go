package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func balanceCmd() *cobra.Command {
	var asOfStr string

	cmd := &cobra.Command{
		Use:   "balance [resident]",
		Short: "Show resident balances and building totals",
		Long: `Without arguments, prints every resident's balance plus the
building's aggregate cash position. With a resident, prints that
resident's balance only. Dues start counting against a balance on
the first day of the month after they were posted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, sess, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			asOf := time.Now()
			if asOfStr != "" {
				if asOf, err = parseDateArg(asOfStr); err != nil {
					return err
				}
			}

			if len(args) == 1 {
				r, err := findResident(sess, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("%s: %s\n", residentLabel(r), formatTRY(sess.Balance(r.ID, asOf)))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, r := range sess.Residents() {
				fmt.Fprintf(w, "%s\t%s\n", residentLabel(r), formatTRY(sess.Balance(r.ID, asOf)))
			}
			w.Flush()

			totals := sess.Totals()
			fmt.Printf("\nToplam Gelir:  %s\n", formatTRY(totals.Income))
			fmt.Printf("Toplam Gider:  %s\n", formatTRY(totals.Expense))
			fmt.Printf("Kasa:          %s\n", formatTRY(totals.Net()))
			return nil
		},
	}

	cmd.Flags().StringVar(&asOfStr, "as-of", "", "compute balances as of this date (DD.MM.YYYY)")
	return cmd
}
