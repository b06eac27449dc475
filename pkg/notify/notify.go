// Package notify delivers user feedback (success, error, warning messages) and
// asks for confirmation before destructive operations.
package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Notifier is fire-and-forget; implementations must not block for long.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Warning(msg string)
}

type Confirmation struct {
	Title        string
	Content      string
	PositiveText string
	NegativeText string
}

// Confirmer asks the user to approve a Confirmation. A decline is reported as
// (false, nil).
type Confirmer interface {
	Confirm(ctx context.Context, c Confirmation) (bool, error)
}

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Notification is the event form of a notifier call.
type Notification struct {
	Level   Level
	Message string
}

type nop struct{}

func (nop) Success(string) {}
func (nop) Error(string)   {}
func (nop) Warning(string) {}

// Nop discards every notification.
func Nop() Notifier { return nop{} }

// LogNotifier writes notifications to a logrus logger.
type LogNotifier struct {
	log logrus.FieldLogger
}

func NewLogNotifier(log logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{log: log.WithField("component", "notify")}
}

func (n *LogNotifier) Success(msg string) { n.log.WithField("level_name", LevelSuccess).Info(msg) }
func (n *LogNotifier) Error(msg string)   { n.log.WithField("level_name", LevelError).Error(msg) }
func (n *LogNotifier) Warning(msg string) { n.log.WithField("level_name", LevelWarning).Warn(msg) }

// Multi fans every notification out to all notifiers.
func Multi(notifiers ...Notifier) Notifier {
	return multi(notifiers)
}

type multi []Notifier

func (m multi) Success(msg string) {
	for _, n := range m {
		n.Success(msg)
	}
}

func (m multi) Error(msg string) {
	for _, n := range m {
		n.Error(msg)
	}
}

func (m multi) Warning(msg string) {
	for _, n := range m {
		n.Warning(msg)
	}
}

// StaticConfirmer answers every confirmation with the same choice.
type StaticConfirmer bool

func (s StaticConfirmer) Confirm(context.Context, Confirmation) (bool, error) {
	return bool(s), nil
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(ctx context.Context, c Confirmation) (bool, error)

func (f ConfirmerFunc) Confirm(ctx context.Context, c Confirmation) (bool, error) {
	return f(ctx, c)
}
