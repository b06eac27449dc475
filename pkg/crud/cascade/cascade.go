// Package cascade loads mode- and data-dependent option lists for form fields.
package cascade

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/crudkit/pkg/crud/form"
)

// Loader caches the most recently loaded options per field key. One Loader
// belongs to one orchestrator; it is never shared between screens.
type Loader struct {
	log   logrus.FieldLogger
	mu    sync.RWMutex
	cache map[string][]form.Option
}

func New(log logrus.FieldLogger) *Loader {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Loader{
		log:   log,
		cache: make(map[string][]form.Option),
	}
}

// Load runs every field loader concurrently and waits for all of them. Each
// result lands in the cache independently; a failing loader stores an empty
// list for its field and never affects its siblings.
func (l *Loader) Load(ctx context.Context, mode form.Mode, data form.Data, fields []form.Field) {
	if len(fields) == 0 {
		return
	}
	snapshot := data.Clone()

	var wg sync.WaitGroup
	for _, f := range fields {
		if f.Load == nil {
			continue
		}
		wg.Add(1)
		go func(f form.Field) {
			defer wg.Done()
			options := l.run(ctx, mode, snapshot, f)
			l.mu.Lock()
			l.cache[f.Key] = options
			l.mu.Unlock()
		}(f)
	}
	wg.Wait()
}

func (l *Loader) run(ctx context.Context, mode form.Mode, snapshot form.Data, f form.Field) (options []form.Option) {
	defer func() {
		if r := recover(); r != nil {
			l.log.WithFields(logrus.Fields{"field": f.Key, "mode": mode}).
				Errorf("cascade: loader panicked: %v", r)
			options = []form.Option{}
		}
	}()

	// each loader gets its own copy so one cannot observe another's mutations
	opts, err := f.Load(ctx, mode, snapshot.Clone())
	if err != nil {
		l.log.WithError(err).WithFields(logrus.Fields{"field": f.Key, "mode": mode}).
			Error("cascade: failed to load field options")
		return []form.Option{}
	}
	if opts == nil {
		return []form.Option{}
	}
	return opts
}

// Options returns the cached options for key.
func (l *Loader) Options(key string) ([]form.Option, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	opts, ok := l.cache[key]
	return opts, ok
}

// Snapshot copies the whole cache.
func (l *Loader) Snapshot() map[string][]form.Option {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string][]form.Option, len(l.cache))
	for k, v := range l.cache {
		out[k] = v
	}
	return out
}
