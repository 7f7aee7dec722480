package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLotteryBinsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_lottery_bins.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no lottery bins migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS lottery_bins",
		"FOREIGN KEY (store_id) REFERENCES stores(id) ON DELETE CASCADE",
		"UNIQUE (store_id, display_order)",
		"CHECK (display_order >= 0)",
		"DROP TABLE IF EXISTS lottery_bins",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestLotteryPacksMigrationKeepsBinNullable(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_lottery_packs.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no lottery packs migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	if strings.Contains(content, "bin_id UUID NOT NULL") {
		t.Errorf("bin_id must stay nullable so packs can be unassigned")
	}

	checks := []string{
		"FOREIGN KEY (bin_id) REFERENCES lottery_bins(id) ON DELETE SET NULL",
		"UNIQUE (store_id, game_code, pack_number)",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
