package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/syaprakli/bina-yonetim/internal/ledger"
	"github.com/syaprakli/bina-yonetim/internal/model"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage ledger transactions",
		Long:  `List, add, and delete income, expense, and debt entries.`,
	}

	cmd.AddCommand(listTxCmd())
	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(deleteTxCmd())

	return cmd
}

func txFilterFlags(cmd *cobra.Command, txType, category, resident, from, to *string) {
	cmd.Flags().StringVar(txType, "type", "", "filter by type (income, expense, personal_debt, accrual)")
	cmd.Flags().StringVar(category, "category", "", "filter by expense category")
	cmd.Flags().StringVar(resident, "resident", "", "filter by resident (name or Daire N)")
	cmd.Flags().StringVar(from, "from", "", "start date (DD.MM.YYYY)")
	cmd.Flags().StringVar(to, "to", "", "end date (DD.MM.YYYY)")
}

func buildFilter(sess *ledger.Session, txType, category, resident, from, to string) (ledger.TxFilter, error) {
	var f ledger.TxFilter
	if txType != "" {
		t := model.TxType(txType)
		if !t.Valid() {
			return f, fmt.Errorf("unknown transaction type %q", txType)
		}
		f.Type = t
	}
	f.Category = category
	if resident != "" {
		r, err := findResident(sess, resident)
		if err != nil {
			return f, err
		}
		f.ResidentID = r.ID
	}
	if from != "" {
		d, err := parseDateArg(from)
		if err != nil {
			return f, err
		}
		f.From = d
	}
	if to != "" {
		d, err := parseDateArg(to)
		if err != nil {
			return f, err
		}
		f.To = d
	}
	return f, nil
}

func listTxCmd() *cobra.Command {
	var txType, category, resident, from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, sess, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			filter, err := buildFilter(sess, txType, category, resident, from, to)
			if err != nil {
				return err
			}

			names := make(map[string]string)
			for _, r := range sess.Residents() {
				names[r.ID] = fmt.Sprintf("Daire %d %s", r.DoorNumber, r.FullName)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "ID\tTarih\tTip\tTutar\tKategori\tAçıklama\tSakin")

			shown := 0
			for _, t := range sess.Transactions() {
				if !filter.Matches(&t) {
					continue
				}
				shown++
				who := names[t.ResidentID]
				if t.ResidentID != "" && who == "" {
					who = "(silinmiş sakin)"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.DateKey(), t.Type, formatTRY(t.Amount), t.Category, t.Description, who)
			}
			if shown == 0 {
				fmt.Fprintln(w, "(no transactions)")
			}
			return nil
		},
	}

	txFilterFlags(cmd, &txType, &category, &resident, &from, &to)
	return cmd
}

func addTxCmd() *cobra.Command {
	var (
		txType      string
		amountStr   string
		dateStr     string
		description string
		category    string
		subCategory string
		resident    string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction",
		Long: `Record a single entry. Income and personal debts take a resident;
expenses take a category.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, sess, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			amount, err := parseAmountArg(amountStr)
			if err != nil {
				return err
			}
			date, err := parseDateArg(dateStr)
			if err != nil {
				return err
			}

			t := model.Transaction{
				Type:        model.TxType(txType),
				Amount:      amount,
				Date:        date,
				Description: description,
				Category:    category,
				SubCategory: subCategory,
			}
			if resident != "" {
				r, err := findResident(sess, resident)
				if err != nil {
					return err
				}
				t.ResidentID = r.ID
			}
			if t.Type == model.TxExpense && t.Category == "" {
				t.Category = model.CategoryOther
			}

			saved, err := sess.AddTransaction(ctx, t)
			if err != nil {
				return err
			}
			fmt.Printf("Recorded #%d: %s %s (%s)\n", saved.ID, saved.Type, formatTRY(saved.Amount), saved.Description)
			return nil
		},
	}

	cmd.Flags().StringVar(&txType, "type", "income", "transaction type (income, expense, personal_debt, accrual)")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount (required)")
	cmd.Flags().StringVar(&dateStr, "date", "", "date DD.MM.YYYY (required)")
	cmd.Flags().StringVar(&description, "description", "", "description (required)")
	cmd.Flags().StringVar(&category, "category", "", "expense category")
	cmd.Flags().StringVar(&subCategory, "sub-category", "", "free-text detail for the DİĞER category")
	cmd.Flags().StringVar(&resident, "resident", "", "resident (name or Daire N)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func deleteTxCmd() *cobra.Command {
	var (
		txType, category, resident, from, to string
		yes                                  bool
	)

	cmd := &cobra.Command{
		Use:   "delete [id...]",
		Short: "Delete transactions by ID or by filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, sess, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) > 0 {
				for _, arg := range args {
					id, err := strconv.ParseInt(arg, 10, 64)
					if err != nil {
						return fmt.Errorf("invalid transaction id %q", arg)
					}
					if err := sess.DeleteTransaction(ctx, id); err != nil {
						return fmt.Errorf("deleting #%d: %w", id, err)
					}
					fmt.Printf("Deleted #%d\n", id)
				}
				return nil
			}

			filter, err := buildFilter(sess, txType, category, resident, from, to)
			if err != nil {
				return err
			}
			if filter == (ledger.TxFilter{}) {
				return fmt.Errorf("refusing to delete everything: give IDs or at least one filter flag")
			}

			if !yes {
				fmt.Print("Delete all matching transactions? [y/N]: ")
				var answer string
				_, _ = fmt.Scanln(&answer)
				if !strings.EqualFold(strings.TrimSpace(answer), "y") {
					fmt.Println("Cancelled.")
					return nil
				}
			}

			removed := sess.DeleteTransactionsWhere(ctx, filter)
			fmt.Printf("Deleted %d transaction(s)\n", removed)
			return nil
		},
	}

	txFilterFlags(cmd, &txType, &category, &resident, &from, &to)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
