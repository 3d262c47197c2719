package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syaprakli/bina-yonetim/internal/extract"
	"github.com/syaprakli/bina-yonetim/internal/importer"
	"github.com/syaprakli/bina-yonetim/internal/ledger"
	"github.com/syaprakli/bina-yonetim/internal/model"
	"github.com/syaprakli/bina-yonetim/internal/review"
)

func importCmd() *cobra.Command {
	var (
		commit bool
		useAI  bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bank statement",
		Long: `Import transactions from a bank statement export.

CSV and semicolon-separated files are parsed directly. With --ai,
plain-text statements are sent to Gemini for extraction instead.
Incoming transfers are matched to residents by apartment number,
known aliases, and name.

Without --commit the matched rows are only printed for review;
nothing is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, sess, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			residents := sess.Residents()

			var rows []importer.RawRow
			if useAI || !isDelimited(args[0]) {
				rows, err = extractRows(cmd, args[0], residents)
				// Extraction can return the rows it did recover
				// alongside an error for the chunks it could not.
				if err != nil && len(rows) > 0 {
					fmt.Fprintf(os.Stderr, "Warning: incomplete extraction: %v\n", err)
					err = nil
				}
			} else {
				rows, err = readDelimited(args[0])
			}
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("no rows found in %s", args[0])
			}

			batch := review.NewBatch(rows)
			if err := batch.Normalize(time.Now()); err != nil {
				return err
			}
			if err := batch.AutoMatch(residents); err != nil {
				return err
			}
			if err := batch.BeginReview(); err != nil {
				return err
			}

			printBatch(sess, batch.Rows())

			if !commit {
				fmt.Println("\nDry run - re-run with --commit to save these transactions.")
				return batch.Discard()
			}

			txns, err := batch.Commit(ctx, sess)
			if err != nil {
				return err
			}
			fmt.Printf("\nCommitted %d transaction(s)\n", len(txns))
			return nil
		},
	}

	cmd.Flags().BoolVar(&commit, "commit", false, "write the imported transactions")
	cmd.Flags().BoolVar(&useAI, "ai", false, "extract with Gemini instead of parsing columns")
	return cmd
}

func isDelimited(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return true
	}
	return false
}

// readDelimited reads a CSV export. Turkish bank exports commonly use
// semicolons, so the delimiter is sniffed from the first line.
func readDelimited(path string) ([]importer.RawRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	delim := ','
	first, _, _ := strings.Cut(string(data), "\n")
	if strings.Count(first, ";") > strings.Count(first, ",") {
		delim = ';'
	}

	r := csv.NewReader(strings.NewReader(string(data)))
	r.Comma = delim
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return importer.RowsFromRecords(records), nil
}

func extractRows(cmd *cobra.Command, path string, residents []model.Resident) ([]importer.RawRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	ex, err := extract.New(cmd.Context(), viper.GetString("gemini.api_key"), viper.GetString("gemini.model"))
	if err != nil {
		return nil, err
	}
	return ex.Extract(cmd.Context(), string(data), residents)
}

func printBatch(sess *ledger.Session, rows []model.Candidate) {
	names := make(map[string]string)
	for _, r := range sess.Residents() {
		names[r.ID] = fmt.Sprintf("Daire %d %s", r.DoorNumber, r.FullName)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTarih\tTip\tTutar\tAçıklama\tSakin\tEşleşme")

	matched := 0
	for i, row := range rows {
		who := names[row.ResidentID]
		if row.ResidentID != "" {
			matched++
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, row.Date.Format(model.DateLayout), row.Type, formatTRY(row.Amount),
			row.Description, who, row.MatchReason)
	}
	w.Flush()
	fmt.Printf("\n%d of %d row(s) matched to a resident\n", matched, len(rows))
}
