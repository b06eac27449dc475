package viewmodels

// User is one row of GET /user/page.
type User struct {
	UserID      int64  `json:"userId"`
	DeptID      *int64 `json:"deptId,omitempty"`
	DeptName    string `json:"deptName"`
	Username    string `json:"username"`
	Nickname    string `json:"nickname"`
	Avatar      string `json:"avatar,omitempty"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Gender      int    `json:"gender"`
	Status      int    `json:"status"`
	CreateTime  string `json:"createTime"`
}

type UserDetail struct {
	User
	UpdateTime string `json:"updateTime,omitempty"`
}

// Query is the search form of the user list.
type Query struct {
	Keywords string `json:"keywords,omitempty" form:"keywords,omitempty"`
	Username string `json:"username,omitempty" form:"username,omitempty"`
	Nickname string `json:"nickname,omitempty" form:"nickname,omitempty"`
	Email    string `json:"email,omitempty" form:"email,omitempty"`
	DeptID   *int64 `json:"deptId,omitempty" form:"deptId,omitempty"`
	Status   *int   `json:"status,omitempty" form:"status,omitempty"`
	Gender   *int   `json:"gender,omitempty" form:"gender,omitempty"`
}

// PageQuery is Query plus paging as sent in the query string.
type PageQuery struct {
	Query
	PageNum  int `form:"pageNum"`
	PageSize int `form:"pageSize"`
}
