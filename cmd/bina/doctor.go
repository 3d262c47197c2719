package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syaprakli/bina-yonetim/internal/integrity"
	"github.com/syaprakli/bina-yonetim/internal/ledger"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check and repair the stored data",
		Long: `Run the startup consistency pass explicitly: apply known name
corrections, merge duplicate resident entries (payments follow the
surviving entry), and drop duplicate dues charges from rapid
double-submissions.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage()
			if err != nil {
				return err
			}
			defer store.Close()

			sess, report, err := ledger.Open(ctx, store, integrity.DefaultCorrections)
			if err != nil {
				return err
			}

			fmt.Printf("Residents:    %d\n", len(sess.Residents()))
			fmt.Printf("Transactions: %d\n", len(sess.Transactions()))
			fmt.Println(describeReport(report))
			return nil
		},
	}
}

// describeReport renders the outcome of the consistency pass.
func describeReport(report integrity.Report) string {
	if report.Clean() {
		return "Data is consistent."
	}
	return fmt.Sprintf("Repairs applied: %d renamed, %d merged, %d reassigned, %d duplicate transactions removed",
		report.Renamed, report.Merged, report.Reassigned, report.DroppedTxns)
}
