package domain

type NotificationKind string

const (
	NotificationEmailVerification NotificationKind = "email_verification"
	NotificationPasswordReset     NotificationKind = "password_reset"
	NotificationAccountDeletion   NotificationKind = "account_deletion"
	NotificationBookingCreated    NotificationKind = "booking_created"
	NotificationBookingCancelled  NotificationKind = "booking_cancelled"
	NotificationBookingUpdated    NotificationKind = "booking_status_updated"
	NotificationBookingExpired    NotificationKind = "booking_expired"
)

// NotificationKindFor maps a code purpose to its email template.
func NotificationKindFor(p Purpose) NotificationKind {
	switch p {
	case PurposePasswordReset:
		return NotificationPasswordReset
	case PurposeAccountDeletion:
		return NotificationAccountDeletion
	default:
		return NotificationEmailVerification
	}
}

type Notification struct {
	Recipient  string
	UserName   string
	Kind       NotificationKind
	Code       string
	TTLMinutes int
	Data       map[string]string
}
