package email

const (
	subjectPhotoReviewFmt     = "Photo report for service %s"
	subjectServiceReminderFmt = "Reminder: service scheduled for %s"
)
