package crud

import (
	"context"
	"fmt"
	"sync"

	"github.com/iota-uz/crudkit/pkg/crud/form"
	"github.com/iota-uz/crudkit/pkg/notify"
)

type user struct {
	UserID   int    `json:"userId"`
	UserName string `json:"userName"`
	Status   int    `json:"status"`
}

type userQuery struct {
	Keywords string `json:"keywords"`
}

type userCreate struct {
	UserName string `json:"userName"`
	Status   int    `json:"status"`
}

type userUpdate struct {
	UserID   int    `json:"userId"`
	UserName string `json:"userName"`
	Status   int    `json:"status"`
}

type userDetail struct {
	UserID   int    `json:"userId"`
	UserName string `json:"userName"`
	Status   int    `json:"status"`
	Email    string `json:"email"`
}

type dept struct {
	DeptID   int    `json:"deptId"`
	DeptName string `json:"deptName"`
	Children []dept `json:"children,omitempty"`
}

func users(n int) []user {
	out := make([]user, n)
	for i := range out {
		out[i] = user{UserID: i + 1, UserName: fmt.Sprintf("user-%d", i+1), Status: 1}
	}
	return out
}

// fakeUserAPI records every call and returns canned results.
type fakeUserAPI struct {
	mu sync.Mutex

	pages     []PageQuery[userQuery]
	created   []userCreate
	updated   []userUpdate
	deleted   []ID
	batches   [][]ID
	detailIDs []ID

	pageResult  PageResult[user]
	pageErr     error
	detail      userDetail
	detailErr   error
	mutationErr error
}

func (f *fakeUserAPI) api() API[user, userQuery, userCreate, userUpdate, userDetail] {
	return API[user, userQuery, userCreate, userUpdate, userDetail]{
		Page: func(_ context.Context, q PageQuery[userQuery]) (PageResult[user], error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.pages = append(f.pages, q)
			return f.pageResult, f.pageErr
		},
		Detail: func(_ context.Context, id ID) (userDetail, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.detailIDs = append(f.detailIDs, id)
			return f.detail, f.detailErr
		},
		Create: func(_ context.Context, p userCreate) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.created = append(f.created, p)
			return f.mutationErr
		},
		Update: func(_ context.Context, p userUpdate) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.updated = append(f.updated, p)
			return f.mutationErr
		},
		Delete: func(_ context.Context, id ID) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.deleted = append(f.deleted, id)
			return f.mutationErr
		},
		BatchDelete: func(_ context.Context, ids []ID) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.batches = append(f.batches, ids)
			return f.mutationErr
		},
	}
}

func (f *fakeUserAPI) mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created) + len(f.updated) + len(f.deleted) + len(f.batches)
}

type recordingNotifier struct {
	mu       sync.Mutex
	success  []string
	errors   []string
	warnings []string
}

func (r *recordingNotifier) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success = append(r.success, msg)
}

func (r *recordingNotifier) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

func (r *recordingNotifier) Warning(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, msg)
}

func (r *recordingNotifier) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.success) + len(r.errors) + len(r.warnings)
}

type recordingConfirmer struct {
	answer bool
	err    error
	asked  []notify.Confirmation
}

func (r *recordingConfirmer) Confirm(_ context.Context, c notify.Confirmation) (bool, error) {
	r.asked = append(r.asked, c)
	return r.answer, r.err
}

type userOrchestrator = Orchestrator[user, userQuery, userCreate, userUpdate, userDetail]

func userConfig(f *fakeUserAPI) Config[user, userQuery, userCreate, userUpdate, userDetail] {
	return Config[user, userQuery, userCreate, userUpdate, userDetail]{
		Name:       "user",
		Mode:       ModeList,
		IDKey:      "userId",
		NameKey:    "userName",
		API:        f.api(),
		RowActions: []Action{ActionView, ActionEdit, ActionDelete},
		PageActions: []Action{
			ActionAdd,
			ActionRefresh,
		},
		Defaults: form.Data{"status": 1},
		Form: form.Config{Fields: []form.Field{
			{Key: "userName", Label: "User name", Kind: form.KindInput, Required: true},
			{Key: "status", Label: "Status", Kind: form.KindRadio},
		}},
	}
}
