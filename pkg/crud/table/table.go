// Package table turns declarative column specs and row-action settings into
// the concrete column list of a data table.
package table

import (
	"github.com/iota-uz/crudkit/pkg/crud/form"
)

const (
	// SelectionWidth is the fixed width of the checkbox column.
	SelectionWidth = 50
	// DefaultActionWidth is the width of the action column when none is set.
	DefaultActionWidth = 140
	// ActionKey is the key of the generated action column.
	ActionKey = "action"
)

type ColumnType int

const (
	TypeData ColumnType = iota
	TypeSelection
	TypeAction
)

type Fixed string

const (
	FixedNone  Fixed = ""
	FixedLeft  Fixed = "left"
	FixedRight Fixed = "right"
)

// RenderKind selects a built-in cell renderer.
type RenderKind string

const (
	RenderNone     RenderKind = ""
	RenderStatus   RenderKind = "status"
	RenderTag      RenderKind = "tag"
	RenderDate     RenderKind = "date"
	RenderDateTime RenderKind = "datetime"
)

// ButtonKind identifies one slot of the action column.
type ButtonKind string

const (
	ButtonCustom ButtonKind = "custom"
	ButtonView   ButtonKind = "view"
	ButtonEdit   ButtonKind = "edit"
	ButtonDelete ButtonKind = "delete"
)

// DefaultActionOrder renders custom buttons first, then view, edit, delete.
var DefaultActionOrder = []ButtonKind{ButtonCustom, ButtonView, ButtonEdit, ButtonDelete}

type ButtonStyle string

const (
	StyleDefault ButtonStyle = "default"
	StylePrimary ButtonStyle = "primary"
	StyleSuccess ButtonStyle = "success"
	StyleWarning ButtonStyle = "warning"
	StyleError   ButtonStyle = "error"
	StyleInfo    ButtonStyle = "info"
)

// Spec is the declarative description of one data column.
type Spec[T any] struct {
	Title    string
	Key      string
	Width    int
	Ellipsis bool
	Fixed    Fixed
	// RenderKind picks a built-in renderer; Render wins when both are set.
	RenderKind RenderKind
	Options    []form.Option
	Render     func(row T) any
}

// CustomButton is a row action bound to a handler by ActionKey.
type CustomButton struct {
	ActionKey string
	Text      string
	Icon      string
	Style     ButtonStyle
	Tertiary  bool
}

// Buttons selects which row buttons exist.
type Buttons struct {
	View   bool
	Edit   bool
	Delete bool
	Custom []CustomButton
}

// Handlers are invoked by the row buttons. A button whose handler is nil is
// not rendered.
type Handlers[T any] struct {
	Edit   func(row T)
	Delete func(row T)
	View   func(row T)
	Custom map[string]func(row T)
}

// Button is one concrete, clickable row action.
type Button[T any] struct {
	Kind     ButtonKind
	Key      string
	Text     string
	Icon     string
	Style    ButtonStyle
	Tertiary bool
	OnClick  func()
}

// Column is one renderable table column.
type Column[T any] struct {
	Type       ColumnType
	Title      string
	Key        string
	Width      int
	Ellipsis   bool
	Fixed      Fixed
	Align      string
	RenderKind RenderKind
	Options    []form.Option
	Render     func(row T) any

	buttons func(row T) []Button[T]
}

// Buttons returns the horizontally laid out button group of an action column
// for row, left to right. It is empty for every other column type.
func (c Column[T]) Buttons(row T) []Button[T] {
	if c.buttons == nil {
		return nil
	}
	return c.buttons(row)
}

// Settings control the generated selection and action columns.
type Settings struct {
	ShowSelection  bool
	ShowActions    bool
	SelectionWidth int
	ActionTitle    string
	ActionWidth    int
	FixedActions   bool
	Buttons        Buttons
	ActionOrder    []ButtonKind
}

func DefaultSettings() Settings {
	return Settings{
		ShowSelection:  true,
		ShowActions:    true,
		SelectionWidth: SelectionWidth,
		ActionTitle:    "操作",
		ActionWidth:    DefaultActionWidth,
		FixedActions:   true,
		Buttons:        Buttons{Edit: true, Delete: true},
		ActionOrder:    DefaultActionOrder,
	}
}

type Option func(*Settings)

func WithoutSelection() Option {
	return func(s *Settings) { s.ShowSelection = false }
}

func WithoutActions() Option {
	return func(s *Settings) { s.ShowActions = false }
}

func WithSelectionWidth(w int) Option {
	return func(s *Settings) {
		if w > 0 {
			s.SelectionWidth = w
		}
	}
}

func WithButtons(b Buttons) Option {
	return func(s *Settings) { s.Buttons = b }
}

func WithActionOrder(order ...ButtonKind) Option {
	return func(s *Settings) {
		if len(order) > 0 {
			s.ActionOrder = order
		}
	}
}

func WithActionWidth(w int) Option {
	return func(s *Settings) {
		if w > 0 {
			s.ActionWidth = w
		}
	}
}

func WithActionTitle(title string) Option {
	return func(s *Settings) { s.ActionTitle = title }
}

func WithUnfixedActions() Option {
	return func(s *Settings) { s.FixedActions = false }
}

// Build assembles [selection] + data columns + [action].
func Build[T any](specs []Spec[T], h Handlers[T], opts ...Option) []Column[T] {
	s := DefaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return BuildWith(specs, h, s)
}

// BuildWith is Build with explicit settings.
func BuildWith[T any](specs []Spec[T], h Handlers[T], s Settings) []Column[T] {
	cols := make([]Column[T], 0, len(specs)+2)
	if s.ShowSelection {
		width := s.SelectionWidth
		if width <= 0 {
			width = SelectionWidth
		}
		cols = append(cols, Column[T]{Type: TypeSelection, Key: "selection", Width: width})
	}
	for _, spec := range specs {
		cols = append(cols, Column[T]{
			Type:       TypeData,
			Title:      spec.Title,
			Key:        spec.Key,
			Width:      spec.Width,
			Ellipsis:   spec.Ellipsis,
			Fixed:      spec.Fixed,
			RenderKind: spec.RenderKind,
			Options:    spec.Options,
			Render:     spec.Render,
		})
	}
	if s.ShowActions {
		cols = append(cols, actionColumn(s, h))
	}
	return cols
}

func actionColumn[T any](s Settings, h Handlers[T]) Column[T] {
	width := s.ActionWidth
	if width <= 0 {
		width = DefaultActionWidth
	}
	order := s.ActionOrder
	if len(order) == 0 {
		order = DefaultActionOrder
	}
	col := Column[T]{
		Type:  TypeAction,
		Title: s.ActionTitle,
		Key:   ActionKey,
		Width: width,
		Align: "center",
	}
	if s.FixedActions {
		col.Fixed = FixedRight
	}
	buttons := s.Buttons
	col.buttons = func(row T) []Button[T] {
		return rowButtons(buttons, order, h, row)
	}
	return col
}

func rowButtons[T any](b Buttons, order []ButtonKind, h Handlers[T], row T) []Button[T] {
	out := make([]Button[T], 0, len(b.Custom)+3)
	for _, kind := range order {
		switch kind {
		case ButtonView:
			if b.View && h.View != nil {
				out = append(out, Button[T]{Kind: ButtonView, Key: string(ButtonView), Icon: "eye", Style: StyleInfo, Tertiary: true, OnClick: func() { h.View(row) }})
			}
		case ButtonEdit:
			if b.Edit && h.Edit != nil {
				out = append(out, Button[T]{Kind: ButtonEdit, Key: string(ButtonEdit), Icon: "create", Style: StylePrimary, Tertiary: true, OnClick: func() { h.Edit(row) }})
			}
		case ButtonDelete:
			if b.Delete && h.Delete != nil {
				out = append(out, Button[T]{Kind: ButtonDelete, Key: string(ButtonDelete), Icon: "trash", Style: StyleError, Tertiary: true, OnClick: func() { h.Delete(row) }})
			}
		case ButtonCustom:
			for _, cb := range b.Custom {
				handler := h.Custom[cb.ActionKey]
				if handler == nil {
					continue
				}
				style := cb.Style
				if style == "" {
					style = StyleDefault
				}
				out = append(out, Button[T]{
					Kind:     ButtonCustom,
					Key:      cb.ActionKey,
					Text:     cb.Text,
					Icon:     cb.Icon,
					Style:    style,
					Tertiary: cb.Tertiary,
					OnClick:  func() { handler(row) },
				})
			}
		}
	}
	return out
}

// ScrollWidth is the total width of cols for sizing a horizontal scroll
// container. Columns without a width count as zero.
func ScrollWidth[T any](cols []Column[T]) int {
	total := 0
	for _, c := range cols {
		if c.Type == TypeSelection {
			if c.Width > 0 {
				total += c.Width
			} else {
				total += SelectionWidth
			}
			continue
		}
		if c.Width > 0 {
			total += c.Width
		}
	}
	return total
}
