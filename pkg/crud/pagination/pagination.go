// Package pagination implements the page/page-size counter that drives list
// reloads.
package pagination

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// DefaultPageSizes are offered when no page sizes are configured.
var DefaultPageSizes = []int{10, 15, 30}

// ReloadFunc is invoked synchronously after every page or page-size change.
type ReloadFunc func(ctx context.Context)

// PrefixFunc renders the label shown before the pager, e.g. "共 35 条".
type PrefixFunc func(itemCount int) string

type Option func(*Controller)

func WithPageSizes(sizes ...int) Option {
	return func(c *Controller) {
		valid := make([]int, 0, len(sizes))
		for _, s := range sizes {
			if s > 0 {
				valid = append(valid, s)
			}
		}
		if len(valid) > 0 {
			c.pageSizes = valid
		}
	}
}

func WithoutSizePicker() Option {
	return func(c *Controller) {
		c.showSizePicker = false
	}
}

func WithoutQuickJumper() Option {
	return func(c *Controller) {
		c.showQuickJumper = false
	}
}

func WithPrefix(fn PrefixFunc) Option {
	return func(c *Controller) {
		if fn != nil {
			c.prefix = fn
		}
	}
}

func defaultPrefix(itemCount int) string {
	if itemCount == 0 {
		return ""
	}
	return fmt.Sprintf("共 %d 条", itemCount)
}

// Controller holds {page, pageSize, itemCount}. It does not fetch anything
// itself; reload is the caller's hook.
type Controller struct {
	mu              sync.RWMutex
	page            int
	pageSize        int
	itemCount       int
	pageSizes       []int
	showSizePicker  bool
	showQuickJumper bool
	prefix          PrefixFunc
	reload          ReloadFunc
}

func New(reload ReloadFunc, opts ...Option) *Controller {
	c := &Controller{
		page:            1,
		pageSizes:       slices.Clone(DefaultPageSizes),
		showSizePicker:  true,
		showQuickJumper: true,
		prefix:          defaultPrefix,
		reload:          reload,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.pageSize = c.pageSizes[0]
	return c
}

// SetReload replaces the reload hook. Used when the hook needs the owner that
// is being constructed together with the controller.
func (c *Controller) SetReload(fn ReloadFunc) {
	c.mu.Lock()
	c.reload = fn
	c.mu.Unlock()
}

// OnChange moves to page and reloads. Pages below 1 are clamped to 1.
func (c *Controller) OnChange(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	c.page = page
	reload := c.reload
	c.mu.Unlock()

	if reload != nil {
		reload(ctx)
	}
}

// OnUpdatePageSize changes the page size, always returns to the first page
// and reloads. Non-positive sizes keep the current size.
func (c *Controller) OnUpdatePageSize(ctx context.Context, size int) {
	c.mu.Lock()
	if size > 0 {
		c.pageSize = size
	}
	c.page = 1
	reload := c.reload
	c.mu.Unlock()

	if reload != nil {
		reload(ctx)
	}
}

// Reset returns to the first page without reloading.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.page = 1
	c.mu.Unlock()
}

func (c *Controller) SetItemCount(n int) {
	if n < 0 {
		n = 0
	}
	c.mu.Lock()
	c.itemCount = n
	c.mu.Unlock()
}

func (c *Controller) Page() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.page
}

func (c *Controller) PageSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pageSize
}

func (c *Controller) ItemCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.itemCount
}

// PageCount is the number of pages needed for ItemCount; at least 1.
func (c *Controller) PageCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.itemCount == 0 || c.pageSize == 0 {
		return 1
	}
	return (c.itemCount + c.pageSize - 1) / c.pageSize
}

func (c *Controller) PageSizes() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.pageSizes)
}

func (c *Controller) ShowSizePicker() bool {
	return c.showSizePicker
}

func (c *Controller) ShowQuickJumper() bool {
	return c.showQuickJumper
}

func (c *Controller) Prefix() string {
	return c.prefix(c.ItemCount())
}

// State is a point-in-time copy of the counter.
type State struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	ItemCount int `json:"itemCount"`
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return State{Page: c.page, PageSize: c.pageSize, ItemCount: c.itemCount}
}
