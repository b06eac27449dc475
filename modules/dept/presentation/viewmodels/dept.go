package viewmodels

// Dept is a tree node as listed by GET /dept/tree.
type Dept struct {
	DeptID     int64  `json:"deptId"`
	DeptName   string `json:"deptName"`
	ParentID   *int64 `json:"parentId,omitempty"`
	DeptSort   int    `json:"deptSort"`
	Status     int    `json:"status"`
	Children   []Dept `json:"children,omitempty"`
	CreateTime string `json:"createTime"`
	UpdateTime string `json:"updateTime,omitempty"`
}

type DeptDetail struct {
	DeptID      int64  `json:"deptId"`
	DeptName    string `json:"deptName"`
	ParentID    *int64 `json:"parentId,omitempty"`
	DeptSort    int    `json:"deptSort"`
	Status      int    `json:"status"`
	Description string `json:"description"`
	CreateTime  string `json:"createTime"`
	UpdateTime  string `json:"updateTime,omitempty"`
}

// Query filters the tree. Matching nodes are kept with their ancestors.
type Query struct {
	Keywords string `json:"keywords,omitempty" form:"keywords,omitempty"`
}
