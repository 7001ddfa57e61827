package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hireloop-io/hireloop-backend/pkg/migrate"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestPurchasesMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_purchases.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS purchases",
		"CHECK (remaining_times >= 0)",
		"FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE",
		"idx_purchases_expiration_date",
		"DROP TABLE IF EXISTS purchases",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestRefundsMigrationEnforcesSingleRefundPerPurchase(t *testing.T) {
	content := readMigration(t, "*_create_refunds.sql")

	checks := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_refunds_purchase_id",
		"CREATE TABLE IF NOT EXISTS refund_status_changes",
		"status refund_status NOT NULL DEFAULT 'apply'",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestUsageEventsMigrationIsAppendOnlyShape(t *testing.T) {
	content := readMigration(t, "*_create_usage_events.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS usage_events",
		"expiration_date_snapshot TIMESTAMPTZ NOT NULL",
		"CHECK (remaining_after >= 0)",
		"FOREIGN KEY (purchase_id) REFERENCES purchases(id) ON DELETE CASCADE",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
	if strings.Contains(content, "updated_at") {
		t.Error("usage_events should not carry updated_at")
	}
}

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir should validate: %v", err)
	}
}
