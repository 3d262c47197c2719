package main

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syaprakli/bina-yonetim/internal/accrual"
)

func accrueCmd() *cobra.Command {
	var (
		amountStr   string
		dateStr     string
		description string
		months      int
	)

	cmd := &cobra.Command{
		Use:   "accrue",
		Short: "Post monthly dues to every resident",
		Long: `Generate dues charges for all residents at once, optionally spread
over several months as installments. Re-running with the same
parameters is safe: charges that already exist are skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, sess, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if amountStr == "" {
				amountStr = viper.GetString("dues.amount")
			}
			if amountStr == "" {
				return fmt.Errorf("no dues amount: pass --amount or set dues.amount in config")
			}
			amount, err := parseAmountArg(amountStr)
			if err != nil {
				return err
			}
			baseDate := time.Now()
			if dateStr != "" {
				if baseDate, err = parseDateArg(dateStr); err != nil {
					return err
				}
			}

			req := accrual.Request{
				BaseDate:    baseDate,
				Description: description,
				Amount:      amount,
				MonthCount:  months,
			}

			residents := sess.Residents()
			bar := progressbar.NewOptions(len(residents),
				progressbar.OptionSetDescription("Posting dues"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			txns, err := accrual.Generate(ctx, residents, sess.Transactions(), req, sess.MintID,
				func(done, _ int) { _ = bar.Set(done) })
			if err != nil {
				return err
			}

			sess.AppendBatch(ctx, txns)
			fmt.Printf("Posted %d dues charge(s) across %d resident(s)\n", len(txns), len(residents))
			return nil
		},
	}

	cmd.Flags().StringVar(&amountStr, "amount", "", "monthly dues amount (default from config dues.amount)")
	cmd.Flags().StringVar(&dateStr, "date", "", "base date DD.MM.YYYY (default today)")
	cmd.Flags().StringVar(&description, "description", "AİDAT", "charge description")
	cmd.Flags().IntVar(&months, "months", 1, "number of monthly installments")
	return cmd
}
