package notify

import (
	"github.com/iota-uz/crudkit/pkg/eventbus"
)

// BusNotifier publishes every notification as a *Notification event so other
// parts of a process (an HTTP stream, a test recorder) can subscribe to them.
type BusNotifier struct {
	bus eventbus.EventBus
}

func NewBusNotifier(bus eventbus.EventBus) *BusNotifier {
	return &BusNotifier{bus: bus}
}

func (n *BusNotifier) publish(level Level, msg string) {
	n.bus.Publish(&Notification{Level: level, Message: msg})
}

func (n *BusNotifier) Success(msg string) { n.publish(LevelSuccess, msg) }
func (n *BusNotifier) Error(msg string)   { n.publish(LevelError, msg) }
func (n *BusNotifier) Warning(msg string) { n.publish(LevelWarning, msg) }
