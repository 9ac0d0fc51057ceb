package service

import (
	"strings"

	"fieldops_backend/internal/photoreview/transport"
)

// Filters holds the post-aggregation filter parameters. Empty values and the
// sentinels "all"/"todos" disable the corresponding filter.
type Filters struct {
	Search  string
	Area    string
	Status  string
	Manager string
}

// searchFieldsOf enumerates the display fields the free-text search matches
// against. Matching is OR across fields, case-insensitive substring.
func searchFieldsOf(sub transport.Submission) []string {
	return []string{
		sub.ClientName,
		sub.CollaboratorName,
		sub.ManagerName,
		sub.ServiceType,
		sub.ID,
	}
}

// ApplyFilters filters an aggregated submission list. Active filters are
// AND-composed; relative order is preserved and the input is not mutated.
func ApplyFilters(subs []transport.Submission, f Filters) []transport.Submission {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	area := normalizeCategory(f.Area)
	statusFilter := normalizeCategory(f.Status)
	manager := normalizeCategory(f.Manager)

	result := make([]transport.Submission, 0, len(subs))
	for _, sub := range subs {
		if area != "" && sub.ClientArea != area {
			continue
		}
		if statusFilter != "" && sub.Status != statusFilter {
			continue
		}
		if manager != "" && sub.ManagerName != manager {
			continue
		}
		if search != "" && !matchesSearch(sub, search) {
			continue
		}
		result = append(result, sub)
	}
	return result
}

func matchesSearch(sub transport.Submission, loweredTerm string) bool {
	for _, field := range searchFieldsOf(sub) {
		if strings.Contains(strings.ToLower(field), loweredTerm) {
			return true
		}
	}
	return false
}

// normalizeCategory maps sentinel values to "" (filter disabled).
func normalizeCategory(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.EqualFold(trimmed, "all") || strings.EqualFold(trimmed, "todos") {
		return ""
	}
	return trimmed
}
