package ai

import (
	"context"
	"sync"

	"resumelift/internal/errors"
)

// Severity classifies a user-facing notification
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// User-facing notification messages.
const (
	MsgAnalysisSucceeded   = "Resume analyzed successfully!"
	MsgAnalysisFellBack    = "Failed to analyze resume with AI. Using fallback analysis."
	MsgEnhanceFellBack     = "AI enhancement unavailable. Applied rule-based improvements instead."
	MsgEnhancementFailed   = "Failed to enhance resume. Please try again."
	MsgEnhancementComplete = "Resume enhanced successfully!"
)

// Notifier receives messages meant for the person using the application,
// as opposed to the operator reading logs.
type Notifier interface {
	Notify(ctx context.Context, severity Severity, message string)
}

// Notification is one recorded message
type Notification struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// LogNotifier writes notifications to the structured log
type LogNotifier struct {
	Logger *errors.Logger
}

func (n LogNotifier) Notify(_ context.Context, severity Severity, message string) {
	if n.Logger == nil {
		return
	}
	switch severity {
	case SeverityError:
		n.Logger.Error(message, "notification", true)
	case SeverityWarning:
		n.Logger.Warn(message, "notification", true)
	default:
		n.Logger.Info(message, "notification", true)
	}
}

// RecordingNotifier keeps notifications in memory. It is safe for concurrent use.
type RecordingNotifier struct {
	mu            sync.Mutex
	notifications []Notification
}

func (n *RecordingNotifier) Notify(_ context.Context, severity Severity, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, Notification{Severity: severity, Message: message})
}

// Notifications returns a copy of everything recorded so far
func (n *RecordingNotifier) Notifications() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.notifications))
	copy(out, n.notifications)
	return out
}

// Count returns how many notifications of severity were recorded
func (n *RecordingNotifier) Count(severity Severity) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, note := range n.notifications {
		if note.Severity == severity {
			count++
		}
	}
	return count
}

// MultiNotifier fans a notification out to several notifiers
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, severity Severity, message string) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, severity, message)
		}
	}
}

type notifierKey struct{}

// WithNotifier returns a context carrying a request-scoped notifier. The
// service sends notifications to it in addition to its own notifier.
func WithNotifier(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, notifierKey{}, n)
}

func notifierFromContext(ctx context.Context) Notifier {
	if n, ok := ctx.Value(notifierKey{}).(Notifier); ok {
		return n
	}
	return nil
}
