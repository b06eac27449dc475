package mappers

import (
	"time"

	"github.com/iota-uz/crudkit/modules/user/domain/aggregates/user"
	"github.com/iota-uz/crudkit/modules/user/presentation/viewmodels"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func UserToViewModel(u user.User) viewmodels.User {
	return viewmodels.User{
		UserID:      u.ID,
		DeptID:      u.DeptID,
		DeptName:    u.DeptName,
		Username:    u.Username,
		Nickname:    u.Nickname,
		Avatar:      u.Avatar,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Gender:      int(u.Gender),
		Status:      int(u.Status),
		CreateTime:  formatTime(u.CreatedAt),
	}
}

func UserToDetail(u user.User) viewmodels.UserDetail {
	return viewmodels.UserDetail{
		User:       UserToViewModel(u),
		UpdateTime: formatTime(u.UpdatedAt),
	}
}

// QueryToFindParams converts the search form. Zero dept ids mean "any".
func QueryToFindParams(q viewmodels.Query) *user.FindParams {
	params := &user.FindParams{
		Keywords: q.Keywords,
		Username: q.Username,
		Nickname: q.Nickname,
		Email:    q.Email,
	}
	if q.DeptID != nil && *q.DeptID > 0 {
		params.DeptID = q.DeptID
	}
	if q.Status != nil {
		s := user.Status(*q.Status)
		params.Status = &s
	}
	if q.Gender != nil {
		g := user.Gender(*q.Gender)
		params.Gender = &g
	}
	return params
}
