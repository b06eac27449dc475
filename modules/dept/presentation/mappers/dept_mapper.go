package mappers

import (
	"time"

	"github.com/iota-uz/crudkit/modules/dept/domain/aggregates/dept"
	"github.com/iota-uz/crudkit/modules/dept/presentation/viewmodels"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func DeptToViewModel(d dept.Dept) viewmodels.Dept {
	return viewmodels.Dept{
		DeptID:     d.ID,
		DeptName:   d.Name,
		ParentID:   d.ParentID,
		DeptSort:   d.Sort,
		Status:     int(d.Status),
		CreateTime: formatTime(d.CreatedAt),
		UpdateTime: formatTime(d.UpdatedAt),
	}
}

func DeptToDetail(d dept.Dept) viewmodels.DeptDetail {
	return viewmodels.DeptDetail{
		DeptID:      d.ID,
		DeptName:    d.Name,
		ParentID:    d.ParentID,
		DeptSort:    d.Sort,
		Status:      int(d.Status),
		Description: d.Description,
		CreateTime:  formatTime(d.CreatedAt),
		UpdateTime:  formatTime(d.UpdatedAt),
	}
}

// BuildTree nests the flat list under parents, preserving list order among
// siblings. Nodes whose parent is absent become roots.
func BuildTree(items []dept.Dept) []viewmodels.Dept {
	present := make(map[int64]bool, len(items))
	for _, d := range items {
		present[d.ID] = true
	}
	childrenOf := make(map[int64][]dept.Dept, len(items))
	roots := make([]dept.Dept, 0)
	for _, d := range items {
		if d.ParentID == nil || !present[*d.ParentID] {
			roots = append(roots, d)
			continue
		}
		childrenOf[*d.ParentID] = append(childrenOf[*d.ParentID], d)
	}

	var build func(d dept.Dept) viewmodels.Dept
	build = func(d dept.Dept) viewmodels.Dept {
		vm := DeptToViewModel(d)
		for _, c := range childrenOf[d.ID] {
			vm.Children = append(vm.Children, build(c))
		}
		return vm
	}
	out := make([]viewmodels.Dept, 0, len(roots))
	for _, r := range roots {
		out = append(out, build(r))
	}
	return out
}
