// Package form holds the declarative description of create/edit forms:
// field descriptors, the form mode and the in-progress form data.
package form

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iota-uz/crudkit/pkg/serrors"
)

// Mode tells whether the form creates a new entity or updates an existing one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeUpdate Mode = "update"
)

// Kind is the input widget a field is rendered with.
type Kind string

const (
	KindInput      Kind = "input"
	KindPassword   Kind = "password"
	KindNumber     Kind = "number"
	KindTextarea   Kind = "textarea"
	KindSelect     Kind = "select"
	KindRadio      Kind = "radio"
	KindCheckbox   Kind = "checkbox"
	KindSwitch     Kind = "switch"
	KindDate       Kind = "date"
	KindDateRange  Kind = "date-range"
	KindDateTime   Kind = "datetime"
	KindTreeSelect Kind = "tree-select"
)

// Option is one selectable value of a select/radio/tree-select field or a
// status/tag column. Children is only used by tree-select fields.
type Option struct {
	Label    string   `json:"label"`
	Value    any      `json:"value"`
	Type     string   `json:"type,omitempty"`
	Children []Option `json:"children,omitempty"`
}

// Data is the in-progress form content keyed by field key.
type Data map[string]any

// Clone returns a shallow copy. A nil receiver yields an empty map.
func (d Data) Clone() Data {
	out := make(Data, len(d))
	maps.Copy(out, d)
	return out
}

// Merge copies every entry of other into d.
func (d Data) Merge(other Data) {
	maps.Copy(d, other)
}

// LoadFunc fetches the options of one field. It receives the form mode and a
// read-only snapshot of the current form data.
type LoadFunc func(ctx context.Context, mode Mode, data Data) ([]Option, error)

// Field describes one form input.
type Field struct {
	Key         string `validate:"required"`
	Label       string `validate:"required"`
	Kind        Kind   `validate:"omitempty,oneof=input password number textarea select radio checkbox switch date date-range datetime tree-select"`
	Required    bool
	Placeholder string
	Span        int `validate:"gte=0,lte=24"`
	Options     []Option
	// Load populates Options asynchronously when the form opens.
	Load LoadFunc
	// Validate returns a non-empty message when value is not acceptable.
	Validate func(value any) string
}

// Config is the form section of an entity configuration.
type Config struct {
	Title    string
	Fields   []Field `validate:"dive"`
	GridCols int     `validate:"gte=0"`
}

var validate = validator.New()

// Validate checks the field descriptors themselves: keys and labels present,
// known kinds, unique keys.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			return serrors.ProcessValidatorErrors(verrs, nil)
		}
		return err
	}
	seen := make(map[string]struct{}, len(c.Fields))
	for _, f := range c.Fields {
		if _, dup := seen[f.Key]; dup {
			return serrors.ValidationErrors{f.Key: "duplicate field key"}
		}
		seen[f.Key] = struct{}{}
	}
	return nil
}

// Loaders returns the fields that declare an asynchronous option loader.
func (c Config) Loaders() []Field {
	var out []Field
	for _, f := range c.Fields {
		if f.Load != nil {
			out = append(out, f)
		}
	}
	return out
}

// Check verifies data against the Required flags and per-field validators.
// It returns nil when data is acceptable.
func (c Config) Check(data Data) serrors.ValidationErrors {
	errs := serrors.ValidationErrors{}
	for _, f := range c.Fields {
		v, ok := data[f.Key]
		if f.Required && (!ok || isBlank(v)) {
			label := f.Label
			if label == "" {
				label = f.Key
			}
			errs[f.Key] = fmt.Sprintf("%s is required", label)
			continue
		}
		if f.Validate != nil && ok {
			if msg := f.Validate(v); msg != "" {
				errs[f.Key] = msg
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
