package domain

import "context"

type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Notifier is the user-interaction capability handed to callers that need to
// ask or tell the operator something. The planning core never sees it.
type Notifier interface {
	Confirm(ctx context.Context, prompt string) bool
	Notify(ctx context.Context, message string, kind NoticeKind)
}
