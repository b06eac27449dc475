// Package crud drives one entity management screen from a declarative
// configuration: list or tree loading, the add/edit form, the detail view,
// single and batch deletion and page level actions.
package crud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/crudkit/pkg/crud/cascade"
	"github.com/iota-uz/crudkit/pkg/crud/field"
	"github.com/iota-uz/crudkit/pkg/crud/form"
	"github.com/iota-uz/crudkit/pkg/crud/pagination"
	"github.com/iota-uz/crudkit/pkg/crud/tree"
	"github.com/iota-uz/crudkit/pkg/notify"
)

type options struct {
	log       logrus.FieldLogger
	notifier  notify.Notifier
	confirmer notify.Confirmer
}

type Option func(*options)

func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

func WithNotifier(n notify.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithConfirmer sets the confirmation prompt. Without one every deletion is
// declined.
func WithConfirmer(c notify.Confirmer) Option {
	return func(o *options) { o.confirmer = c }
}

// Orchestrator owns the state of one entity screen. All methods are safe for
// concurrent use; API calls are made without holding the state lock.
type Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail any] struct {
	cfg       Config[TItem, TQuery, TCreate, TUpdate, TDetail]
	msgs      Messages
	log       logrus.FieldLogger
	notifier  notify.Notifier
	confirmer notify.Confirmer
	metrics   *metrics

	pagination *pagination.Controller
	cascade    *cascade.Loader
	expander   *tree.Expander[TItem, ID]

	mu         sync.RWMutex
	loading    bool
	generation uint64
	items      []TItem
	total      int
	selected   []ID
	query      TQuery
	form       FormState
	formSeq    uint64
	detail     DetailState[TDetail]
}

// New validates cfg and returns a ready orchestrator. Configuration defects
// match ErrMissingAPI or ErrInvalidConfig.
func New[TItem, TQuery, TCreate, TUpdate, TDetail any](
	cfg Config[TItem, TQuery, TCreate, TUpdate, TDetail],
	opts ...Option,
) (*Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		o.log = l
	}
	if o.notifier == nil {
		o.notifier = notify.Nop()
	}
	if o.confirmer == nil {
		o.confirmer = notify.StaticConfirmer(false)
	}
	if cfg.Name == "" {
		cfg.Name = string(cfg.Mode)
	}

	log := o.log.WithFields(logrus.Fields{"component": "crud", "entity": cfg.Name})
	orc := &Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]{
		cfg:       cfg,
		msgs:      cfg.Messages.withDefaults(),
		log:       log,
		notifier:  o.notifier,
		confirmer: o.confirmer,
		metrics:   getMetrics(),
		cascade:   cascade.New(log),
		query:     cfg.InitialQuery,
		form:      FormState{Mode: form.ModeCreate, Data: form.Data{}},
	}

	switch cfg.Mode {
	case ModeList:
		if !cfg.Pagination.Disabled {
			orc.pagination = pagination.New(orc.reload, cfg.Pagination.Options...)
		}
	case ModeTree:
		orc.expander = tree.NewExpander(orc.Items, cfg.children(), orc.RowID)
	}
	return orc, nil
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) reload(ctx context.Context) {
	if err := o.LoadDataList(ctx); err != nil {
		o.log.WithError(err).Error("reload failed")
	}
}

// RowID resolves the identifier of row.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) RowID(row TItem) ID {
	if o.cfg.IDFunc != nil {
		return o.cfg.IDFunc(row)
	}
	v, ok := field.Lookup(row, o.cfg.IDKey)
	if !ok || v == nil {
		return ""
	}
	return ID(field.String(v))
}

// RowName resolves the display name of row, falling back to the configured
// unknown-name text.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) RowName(row TItem) string {
	if o.cfg.NameFunc != nil {
		if name := o.cfg.NameFunc(row); name != "" {
			return name
		}
		return o.msgs.UnknownName
	}
	if o.cfg.NameKey != "" {
		if v, ok := field.Lookup(row, o.cfg.NameKey); ok && v != nil {
			if s := field.String(v); s != "" {
				return s
			}
		}
	}
	return o.msgs.UnknownName
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) opLog(op string) logrus.FieldLogger {
	return o.log.WithField("op", op)
}

// fail reports one failed API call: a single error notification plus a log
// line and a metric sample.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) fail(op, msg string, err error) {
	o.opLog(op).WithError(err).Error(msg)
	o.metrics.record(o.cfg.Name, op, resultError)
	o.notifyError(msg)
}

// Notifications are best effort: a misbehaving notifier is logged and never
// undoes the operation that triggered it.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) deliver(kind string, send func()) {
	defer func() {
		if r := recover(); r != nil {
			o.log.WithField("notification", kind).Errorf("notifier panicked: %v", r)
		}
	}()
	send()
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) notifySuccess(msg string) {
	o.deliver("success", func() { o.notifier.Success(msg) })
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) notifyError(msg string) {
	o.deliver("error", func() { o.notifier.Error(msg) })
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) notifyWarning(msg string) {
	o.deliver("warning", func() { o.notifier.Warning(msg) })
}

// Pagination is nil in tree mode and when pagination is disabled.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) Pagination() *pagination.Controller {
	return o.pagination
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) Mode() Mode {
	return o.cfg.Mode
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) Name() string {
	return o.cfg.Name
}

// Items returns the current rows (top-level nodes in tree mode).
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) Items() []TItem {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return slices.Clone(o.items)
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) Query() TQuery {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.query
}

// SetQuery replaces the search criteria used by the next load.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) SetQuery(q TQuery) {
	o.mu.Lock()
	o.query = q
	o.mu.Unlock()
}

// FieldOptions returns the options loaded for a form field.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) FieldOptions(key string) ([]form.Option, bool) {
	return o.cascade.Options(key)
}

// decode converts between shapes by their json field names. Numbers landing
// in untyped values stay json.Number so large ids keep every digit.
func decode[T any](src any) (T, error) {
	var out T
	raw, err := json.Marshal(src)
	if err != nil {
		return out, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) detailToForm(d TDetail) (form.Data, error) {
	if o.cfg.TransformDetailToForm != nil {
		data := o.cfg.TransformDetailToForm(d)
		if data == nil {
			data = form.Data{}
		}
		return data, nil
	}
	data, err := decode[form.Data](d)
	if err != nil {
		return nil, fmt.Errorf("crud: detail to form: %w", err)
	}
	if data == nil {
		data = form.Data{}
	}
	return data, nil
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) toCreate(data form.Data) (TCreate, error) {
	if o.cfg.ToCreate != nil {
		return o.cfg.ToCreate(data)
	}
	return decode[TCreate](data)
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) toUpdate(data form.Data) (TUpdate, error) {
	if o.cfg.ToUpdate != nil {
		return o.cfg.ToUpdate(data)
	}
	return decode[TUpdate](data)
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) defaults() form.Data {
	var d form.Data
	if o.cfg.DefaultsFunc != nil {
		d = o.cfg.DefaultsFunc()
	} else {
		d = o.cfg.Defaults
	}
	return d.Clone()
}
