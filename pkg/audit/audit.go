// Package audit logs entity changes published on the event bus.
package audit

import (
	"encoding/json"

	"github.com/sirupsen/logrus"
	"github.com/wI2L/jsondiff"

	"github.com/iota-uz/crudkit/pkg/eventbus"
)

// Change is implemented by update events carrying both states of an entity.
type Change interface {
	Entity() string
	EntityID() int64
	States() (before, after any)
}

// Diff returns the JSON patch turning before into after.
func Diff(before, after any) (jsondiff.Patch, error) {
	return jsondiff.Compare(before, after)
}

// Subscribe logs every Change published on bus with its JSON patch. The
// returned handler can be passed to bus.Unsubscribe.
func Subscribe(bus eventbus.EventBus, log logrus.FieldLogger) func(Change) {
	handler := func(c Change) {
		before, after := c.States()
		entry := log.WithFields(logrus.Fields{
			"component": "audit",
			"entity":    c.Entity(),
			"id":        c.EntityID(),
		})
		patch, err := Diff(before, after)
		if err != nil {
			entry.WithError(err).Warn("failed to diff change")
			return
		}
		if len(patch) == 0 {
			entry.Debug("entity saved without changes")
			return
		}
		raw, err := json.Marshal(patch)
		if err != nil {
			entry.WithError(err).Warn("failed to encode change")
			return
		}
		entry.WithField("patch", string(raw)).Info("entity updated")
	}
	bus.Subscribe(handler)
	return handler
}
