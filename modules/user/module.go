package user

import (
	"embed"

	"github.com/iota-uz/crudkit/modules/user/domain/aggregates/user"
	"github.com/iota-uz/crudkit/modules/user/infrastructure/persistence"
	"github.com/iota-uz/crudkit/modules/user/presentation/controllers"
	"github.com/iota-uz/crudkit/modules/user/services"
	"github.com/iota-uz/crudkit/pkg/application"
	"github.com/iota-uz/crudkit/pkg/migrations"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

// ModuleOptions selects the repository. A nil Repository means Postgres.
// The schema references sys_dept, so load this module after dept.
type ModuleOptions struct {
	Repository user.Repository
}

func NewModule(opts *ModuleOptions) application.Module {
	if opts == nil {
		opts = &ModuleOptions{}
	}
	return &Module{options: opts}
}

type Module struct {
	options *ModuleOptions
}

func (m *Module) Register(app application.Application) error {
	schema, err := migrations.NewSource(m.Name(), migrationFiles, "infrastructure/persistence/schema")
	if err != nil {
		return err
	}
	app.RegisterSchema(schema)

	repo := m.options.Repository
	if repo == nil {
		repo = persistence.NewUserRepository()
	}
	app.RegisterServices(
		services.NewUserService(repo, app.EventPublisher()),
	)
	app.RegisterControllers(
		controllers.NewUserAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "user"
}
