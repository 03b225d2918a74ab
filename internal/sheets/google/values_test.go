package google

import (
	"testing"
	"time"

	"payoutrecon/internal/core"
)

func TestSheetTitle(t *testing.T) {
	p, _ := core.NewPeriod(2024, 5, nil)
	cases := []struct {
		base, want string
	}{
		{"Revenue", "2024-05 Revenue"},
		{"  Revenue ", "2024-05 Revenue"},
		{"2024-05 Payouts", "2024-05 Payouts"},
	}
	for _, tc := range cases {
		if got := sheetTitle(tc.base, p); got != tc.want {
			t.Errorf("sheetTitle(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}
}

func TestQuoteSheet(t *testing.T) {
	if got := quoteSheet("2024-05 Revenue"); got != "'2024-05 Revenue'" {
		t.Fatalf("got %q", got)
	}
	if got := quoteSheet("Bob's"); got != "'Bob''s'" {
		t.Fatalf("got %q", got)
	}
}

func TestBuildValues(t *testing.T) {
	p, _ := core.NewPeriod(2024, 5, nil)
	r := &core.Report{
		RunID:       "run-1",
		Period:      p,
		GeneratedAt: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
		Rows:        []core.Revenue{{Name: "Widget", ProductID: "p1", Amount: core.Cents(9700)}},
		Total:       core.Cents(9700),
	}

	got := buildValues(r)
	if len(got) != 6 {
		t.Fatalf("expected header, 1 row, total, blank, 2 metadata rows; got %d rows", len(got))
	}
	if got[0][0] != "Product name" || got[1][2] != "97.00" || got[2][0] != "Total" {
		t.Fatalf("unexpected table: %v", got)
	}
	if len(got[3]) != 0 {
		t.Fatalf("expected blank separator, got %v", got[3])
	}
	if got[4][1] != "run-1" || got[5][1] != "2024-06-01T08:00:00Z" {
		t.Fatalf("unexpected metadata: %v %v", got[4], got[5])
	}
}
