// Package status defines the canonical status vocabulary shared by service
// requests, scheduled services, and photo review. Status strings arrive from
// several legacy tables with inconsistent spellings; everything normalizes
// through one mapping table here instead of ad hoc substring matching.
package status

// Status is a canonical status key for service requests and scheduled services.
type Status string

const (
	Pending    Status = "pending"
	Scheduled  Status = "scheduled"
	InProgress Status = "in_progress"
	Completed  Status = "completed"
	Cancelled  Status = "cancelled"
)

// ReviewStatus is a canonical review state for service photos.
type ReviewStatus string

const (
	ReviewPending ReviewStatus = "pending"
	ReviewSent    ReviewStatus = "sent"
)

// All lists every canonical status in display order. Dashboards seed their
// tallies from this so absent statuses show as zero, not as missing keys.
func All() []Status {
	return []Status{Pending, Scheduled, InProgress, Completed, Cancelled}
}

// aliases maps every legacy spelling observed in the source tables to its
// canonical status. Canonical keys map to themselves.
var aliases = map[string]Status{
	"pending":      Pending,
	"pendente":     Pending,
	"scheduled":    Scheduled,
	"agendado":     Scheduled,
	"assigned":     Scheduled,
	"in_progress":  InProgress,
	"in-progress":  InProgress,
	"em-andamento": InProgress,
	"completed":    Completed,
	"concluido":    Completed,
	"cancelled":    Cancelled,
	"canceled":     Cancelled,
	"cancelado":    Cancelled,
}

// reviewAliases maps legacy photo review spellings to canonical values.
// "approved" predates the sent/pending split and counts as sent.
var reviewAliases = map[string]ReviewStatus{
	"pending":  ReviewPending,
	"sent":     ReviewSent,
	"approved": ReviewSent,
}

// Canonical resolves a raw status string to its canonical form.
// Unknown strings return ok=false; callers decide whether that is an error.
func Canonical(raw string) (Status, bool) {
	s, ok := aliases[raw]
	return s, ok
}

// CanonicalReview resolves a raw photo review status string.
func CanonicalReview(raw string) (ReviewStatus, bool) {
	s, ok := reviewAliases[raw]
	return s, ok
}

// labels holds the human-readable display label per canonical status.
var labels = map[Status]string{
	Pending:    "Pending",
	Scheduled:  "Scheduled",
	InProgress: "In progress",
	Completed:  "Completed",
	Cancelled:  "Cancelled",
}

// Label returns the display label for a canonical status.
// Unknown statuses fall back to the raw string.
func (s Status) Label() string {
	if label, ok := labels[s]; ok {
		return label
	}
	return string(s)
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// transitions is the allowed transition table for scheduled services and
// service requests. Terminal statuses have no outgoing edges.
var transitions = map[Status][]Status{
	Pending:    {Scheduled, Cancelled},
	Scheduled:  {InProgress, Cancelled},
	InProgress: {Completed, Cancelled},
}

// CanTransition reports whether moving from s to next is allowed.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
