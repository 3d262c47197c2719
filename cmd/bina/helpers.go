package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/syaprakli/bina-yonetim/internal/integrity"
	"github.com/syaprakli/bina-yonetim/internal/ledger"
	"github.com/syaprakli/bina-yonetim/internal/match"
	"github.com/syaprakli/bina-yonetim/internal/model"
	"github.com/syaprakli/bina-yonetim/internal/storage"
)

// initStorage opens the database named in config, creating the parent
// directory on first run.
func initStorage() (*storage.Store, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "bina", "bina.db")
	}
	dbPath = os.ExpandEnv(dbPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	key := viper.GetString("database.key")
	if key == "" {
		key = storage.DefaultKey
	}
	return storage.Open(dbPath, key)
}

// openLedger opens storage plus a healed ledger session. The caller
// owns closing the returned store.
func openLedger(ctx context.Context) (*storage.Store, *ledger.Session, error) {
	store, err := initStorage()
	if err != nil {
		return nil, nil, err
	}

	sess, report, err := ledger.Open(ctx, store, integrity.DefaultCorrections)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	if !report.Clean() {
		fmt.Println(describeReport(report))
	}
	return store, sess, nil
}

// formatTRY renders a decimal amount as Turkish lira.
func formatTRY(amount decimal.Decimal) string {
	minor := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return money.New(minor, money.TRY).Display()
}

// parseAmountArg parses a user-supplied amount accepting both comma
// and dot decimal separators.
func parseAmountArg(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// parseDateArg parses a user-supplied date in day-first or ISO form.
func parseDateArg(s string) (time.Time, error) {
	for _, layout := range []string{"02.01.2006", "2006-01-02", "02/01/2006"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (expected DD.MM.YYYY or YYYY-MM-DD)", s)
}

// findResident resolves free text (a name fragment or a full
// "Daire N: ..." label) to a single resident.
func findResident(sess *ledger.Session, query string) (model.Resident, error) {
	residents := sess.Residents()
	id, err := match.Resolve(match.BuildLabels(residents), query)
	if err != nil {
		return model.Resident{}, fmt.Errorf("resolving %q: %w", query, err)
	}
	return sess.Resident(id)
}

// residentLabel is the one-line display form used by listings.
func residentLabel(r model.Resident) string {
	label := fmt.Sprintf("Daire %d: %s", r.DoorNumber, r.FullName)
	if r.Residency == model.ResidencyTenant && r.OwnerName != "" {
		label += fmt.Sprintf(" (Ev S: %s)", r.OwnerName)
	}
	return label
}
