package modules

import (
	"github.com/iota-uz/crudkit/modules/dept"
	deptentity "github.com/iota-uz/crudkit/modules/dept/domain/aggregates/dept"
	deptpersistence "github.com/iota-uz/crudkit/modules/dept/infrastructure/persistence"
	"github.com/iota-uz/crudkit/modules/user"
	userentity "github.com/iota-uz/crudkit/modules/user/domain/aggregates/user"
	userpersistence "github.com/iota-uz/crudkit/modules/user/infrastructure/persistence"
	"github.com/iota-uz/crudkit/pkg/application"
	"github.com/iota-uz/crudkit/pkg/configuration"
)

// Seed is the initial content of the in-memory store.
type Seed struct {
	Depts []deptentity.Dept
	Users []userentity.User
}

// BuiltInModules returns every module in registration order. The user schema
// references departments, so dept comes first. With configuration.StoreMemory
// both modules share in-memory repositories filled from seed.
func BuiltInModules(store string, seed Seed) []application.Module {
	if store != configuration.StoreMemory {
		return []application.Module{
			dept.NewModule(nil),
			user.NewModule(nil),
		}
	}
	depts := deptpersistence.NewMemoryDeptRepository(seed.Depts...)
	users := userpersistence.NewMemoryUserRepository(depts, seed.Users...)
	return []application.Module{
		dept.NewModule(&dept.ModuleOptions{Repository: depts}),
		user.NewModule(&user.ModuleOptions{Repository: users}),
	}
}

func Load(app application.Application, store string, seed Seed) error {
	return application.Load(app, BuiltInModules(store, seed)...)
}
