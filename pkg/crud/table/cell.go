package table

import (
	"time"

	"github.com/iota-uz/crudkit/pkg/crud/field"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Cell returns the display value of row in column c.
func (c Column[T]) Cell(row T) any {
	if c.Type != TypeData {
		return nil
	}
	if c.Render != nil {
		return c.Render(row)
	}
	v, ok := field.Lookup(row, c.Key)
	if !ok {
		return nil
	}
	switch c.RenderKind {
	case RenderStatus, RenderTag:
		return c.optionLabel(v)
	case RenderDate:
		return formatTime(v, DateLayout)
	case RenderDateTime:
		return formatTime(v, DateTimeLayout)
	default:
		return v
	}
}

// Text is Cell rendered as a plain string; nil becomes "".
func (c Column[T]) Text(row T) string {
	v := c.Cell(row)
	if v == nil {
		return ""
	}
	return field.String(v)
}

func (c Column[T]) optionLabel(v any) any {
	want := field.String(v)
	for _, o := range c.Options {
		if field.String(o.Value) == want {
			return o.Label
		}
	}
	return v
}

func formatTime(v any, layout string) any {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(layout)
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format(layout)
	case string:
		for _, in := range []string{time.RFC3339Nano, time.RFC3339, DateTimeLayout, DateLayout} {
			if parsed, err := time.Parse(in, t); err == nil {
				return parsed.Format(layout)
			}
		}
		return t
	default:
		return v
	}
}
