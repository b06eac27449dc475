package modules

import (
	deptentity "github.com/iota-uz/crudkit/modules/dept/domain/aggregates/dept"
	userentity "github.com/iota-uz/crudkit/modules/user/domain/aggregates/user"
)

// DemoSeed is a small organisation with one administrator whose password is
// adminPassword.
func DemoSeed(adminPassword string) (Seed, error) {
	root := int64(1)
	admin, err := userentity.User{
		ID:       1,
		DeptID:   &root,
		Username: "admin",
		Nickname: "管理员",
		Email:    "admin@example.com",
		Gender:   userentity.GenderMale,
		Status:   userentity.StatusEnabled,
	}.SetPassword(adminPassword)
	if err != nil {
		return Seed{}, err
	}
	return Seed{
		Depts: []deptentity.Dept{
			{ID: 1, Name: "总公司", Status: deptentity.StatusEnabled},
			{ID: 2, Name: "研发部", ParentID: &root, Sort: 1, Status: deptentity.StatusEnabled},
			{ID: 3, Name: "市场部", ParentID: &root, Sort: 2, Status: deptentity.StatusEnabled},
			{ID: 4, Name: "财务部", ParentID: &root, Sort: 3, Status: deptentity.StatusDisabled},
		},
		Users: []userentity.User{admin},
	}, nil
}
