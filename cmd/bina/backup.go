package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syaprakli/bina-yonetim/internal/storage"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and restore the full dataset",
	}

	cmd.AddCommand(backupExportCmd())
	cmd.AddCommand(backupRestoreCmd())

	return cmd
}

func backupExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a plain-JSON backup file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage()
			if err != nil {
				return err
			}
			defer store.Close()

			data, err := store.Export(ctx)
			if err != nil {
				return err
			}

			if outPath == "" || outPath == "-" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o600); err != nil {
				return fmt.Errorf("writing backup: %w", err)
			}
			fmt.Printf("Backup written to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func backupRestoreCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the dataset from a backup file",
		Long: `Validate a backup file and replace the stored residents,
transactions, and announcements with its contents. An invalid file
leaves the current data untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading backup: %w", err)
			}
			// validate before touching storage or asking anything
			if _, err := storage.ParseBackup(data); err != nil {
				return fmt.Errorf("invalid backup file: %w", err)
			}

			if !yes {
				fmt.Print("Replace ALL current data with this backup? [y/N]: ")
				var answer string
				_, _ = fmt.Scanln(&answer)
				if !strings.EqualFold(strings.TrimSpace(answer), "y") {
					fmt.Println("Cancelled.")
					return nil
				}
			}

			store, err := initStorage()
			if err != nil {
				return err
			}
			defer store.Close()

			b, err := store.Restore(ctx, data)
			if err != nil {
				return err
			}
			fmt.Printf("Restored %d resident(s) and %d transaction(s)\n",
				len(b.Residents), len(b.Transactions))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
