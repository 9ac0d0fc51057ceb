package status

import "testing"

func TestCanonicalCoversLegacyAliases(t *testing.T) {
	cases := []struct {
		raw  string
		want Status
	}{
		{"pending", Pending},
		{"pendente", Pending},
		{"scheduled", Scheduled},
		{"agendado", Scheduled},
		{"assigned", Scheduled},
		{"in_progress", InProgress},
		{"in-progress", InProgress},
		{"em-andamento", InProgress},
		{"completed", Completed},
		{"concluido", Completed},
		{"cancelled", Cancelled},
		{"canceled", Cancelled},
		{"cancelado", Cancelled},
	}

	for _, tc := range cases {
		got, ok := Canonical(tc.raw)
		if !ok {
			t.Fatalf("Canonical(%q) not recognized", tc.raw)
		}
		if got != tc.want {
			t.Fatalf("Canonical(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestCanonicalRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "pend", "PENDING", "done", "unknown"} {
		if _, ok := Canonical(raw); ok {
			t.Fatalf("Canonical(%q) unexpectedly recognized", raw)
		}
	}
}

func TestCanonicalReview(t *testing.T) {
	cases := []struct {
		raw  string
		want ReviewStatus
	}{
		{"pending", ReviewPending},
		{"sent", ReviewSent},
		{"approved", ReviewSent},
	}
	for _, tc := range cases {
		got, ok := CanonicalReview(tc.raw)
		if !ok || got != tc.want {
			t.Fatalf("CanonicalReview(%q) = %q/%v, want %q", tc.raw, got, ok, tc.want)
		}
	}
	if _, ok := CanonicalReview("reviewed"); ok {
		t.Fatal("CanonicalReview should not recognize 'reviewed'")
	}
}

func TestEveryCanonicalStatusHasLabel(t *testing.T) {
	for _, s := range All() {
		if s.Label() == string(s) && s != Pending {
			// Label falls back to the raw string only for unknown statuses;
			// canonical ones must have an explicit entry.
			if _, ok := labels[s]; !ok {
				t.Fatalf("status %q has no label", s)
			}
		}
	}
}

func TestTransitionTable(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{Pending, Scheduled},
		{Pending, Cancelled},
		{Scheduled, InProgress},
		{Scheduled, Cancelled},
		{InProgress, Completed},
		{InProgress, Cancelled},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransition(tc.to) {
			t.Fatalf("expected %q -> %q to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to Status }{
		{Pending, Completed},
		{Pending, InProgress},
		{Completed, InProgress},
		{Cancelled, Pending},
		{Completed, Cancelled},
	}
	for _, tc := range denied {
		if tc.from.CanTransition(tc.to) {
			t.Fatalf("expected %q -> %q to be denied", tc.from, tc.to)
		}
	}

	for _, s := range []Status{Completed, Cancelled} {
		if !s.IsTerminal() {
			t.Fatalf("expected %q to be terminal", s)
		}
	}
}
