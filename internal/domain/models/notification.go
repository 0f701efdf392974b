package models

// NotificationLevel is the severity of a user-facing notification
type NotificationLevel string

const (
	NotificationInfo    NotificationLevel = "info"
	NotificationSuccess NotificationLevel = "success"
	NotificationWarning NotificationLevel = "warning"
	NotificationError   NotificationLevel = "error"
)

// NotificationKind identifies the operation a notification reports on
type NotificationKind string

const (
	NotifyApproved NotificationKind = "approve"
	NotifyRejected NotificationKind = "reject"
	NotifyExecuted NotificationKind = "execute"
	NotifyExpired  NotificationKind = "expire"
	NotifySynced   NotificationKind = "sync"
	NotifySession  NotificationKind = "session"
)

// Notification is an (eventKind, message, level) triple delivered to the user
type Notification struct {
	Kind    NotificationKind
	Message string
	Level   NotificationLevel
}
