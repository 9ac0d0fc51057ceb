package service

import (
	"fmt"
	"time"

	"fieldops_backend/internal/photoreview/repository"
	"fieldops_backend/internal/photoreview/transport"
	"fieldops_backend/internal/shared/status"
)

// Photo type discriminants on raw rows. Rows with any other value still
// contribute to their group's header but to neither photo array.
const (
	PhotoTypeBefore = "before"
	PhotoTypeAfter  = "after"
)

// Documented fallback literals applied when a relation field is missing.
// Tests pin these; the UI relies on them never being empty.
const (
	FallbackClientName     = "N/A"
	FallbackClientArea     = "central"
	FallbackClientLocation = "Unknown location"
	FallbackServiceType    = "Ad-hoc service"
	FallbackDescription    = "No description"
	FallbackCollaborator   = "Unassigned"
	// Applies when no reviewer touched the photos yet, or the reviewer
	// account was removed.
	FallbackManager = "System"
)

const (
	dateLayout = "02/01/2006"
	timeLayout = "15:04"
)

// submissionGroup accumulates one view-model plus the bookkeeping needed to
// resolve last-write-wins fields before output.
type submissionGroup struct {
	sub        transport.Submission
	noteTakenAt time.Time
}

// BuildSubmissions groups flat photo rows into submission view-models, one
// per scheduled service. Rows without a service reference each form their own
// orphan group keyed by the photo's id, so they surface for review instead of
// colliding or being dropped. Output preserves the insertion order of first
// key occurrence; the function is pure and never fails on missing fields.
func BuildSubmissions(rows []repository.PhotoRow) []transport.Submission {
	groups := make(map[string]*submissionGroup, len(rows))
	order := make([]string, 0, len(rows))

	for _, row := range rows {
		key := groupKey(row)

		group, ok := groups[key]
		if !ok {
			group = &submissionGroup{sub: seedSubmission(row)}
			groups[key] = group
			order = append(order, key)
		}

		switch row.PhotoType {
		case PhotoTypeBefore:
			group.sub.BeforePhotos = append(group.sub.BeforePhotos, row.URL)
			// The note of the most recent before photo wins; no history kept.
			if row.Note != nil && *row.Note != "" && row.CreatedAt.After(group.noteTakenAt) {
				group.sub.CollaboratorNotes = *row.Note
				group.noteTakenAt = row.CreatedAt
			}
		case PhotoTypeAfter:
			group.sub.AfterPhotos = append(group.sub.AfterPhotos, row.URL)
		}
	}

	result := make([]transport.Submission, 0, len(order))
	for _, key := range order {
		result = append(result, groups[key].sub)
	}
	return result
}

// groupKey selects the grouping key: the parent service when present,
// otherwise a per-photo fallback so orphans never merge with real groups
// or with each other.
func groupKey(row repository.PhotoRow) string {
	if row.ServiceID != nil {
		return fmt.Sprintf("svc-%d", *row.ServiceID)
	}
	return fmt.Sprintf("orphan-%d", row.PhotoID)
}

// seedSubmission builds a group's header from its first row, applying the
// documented fallbacks for every unresolved relation.
func seedSubmission(row repository.PhotoRow) transport.Submission {
	orphaned := row.ServiceID == nil

	sub := transport.Submission{
		ClientName:         stringOr(row.CompanyName, FallbackClientName),
		ClientArea:         stringOr(row.BranchArea, FallbackClientArea),
		ClientLocation:     stringOr(row.BranchDistrict, FallbackClientLocation),
		ServiceType:        stringOr(row.ServiceName, FallbackServiceType),
		ServiceDescription: stringOr(row.ServiceNotes, FallbackDescription),
		CollaboratorName:   stringOr(row.CollaboratorName, FallbackCollaborator),
		ManagerName:        stringOr(row.ReviewerName, FallbackManager),
		UploadDate:         row.CreatedAt.Format(dateLayout),
		UploadTime:         row.CreatedAt.Format(timeLayout),
		BeforePhotos:       []string{},
		AfterPhotos:        []string{},
		ManagerNotes:       stringOr(row.ReviewNotes, ""),
		Status:             string(reviewStatusOf(row)),
		Orphaned:           orphaned,
	}

	if orphaned {
		sub.ID = fmt.Sprintf("PHOTO-%06d", row.PhotoID)
	} else {
		sub.ID = fmt.Sprintf("SUB-%06d", *row.ServiceID)
		sub.ServiceRequestID = fmt.Sprintf("SERV-%06d", *row.ServiceID)
	}

	if row.CollaboratorID != nil {
		sub.CollaboratorID = row.CollaboratorID.String()
	}

	if row.ReviewedAt != nil {
		sub.SentDate = row.ReviewedAt.Format(dateLayout)
	}

	return sub
}

// reviewStatusOf normalizes a row's raw review status; anything the mapping
// table does not recognize counts as still pending.
func reviewStatusOf(row repository.PhotoRow) status.ReviewStatus {
	if s, ok := status.CanonicalReview(row.ReviewStatus); ok {
		return s
	}
	return status.ReviewPending
}

func stringOr(value *string, fallback string) string {
	if value != nil && *value != "" {
		return *value
	}
	return fallback
}
