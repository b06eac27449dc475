package dept

import (
	"embed"

	"github.com/iota-uz/crudkit/modules/dept/domain/aggregates/dept"
	"github.com/iota-uz/crudkit/modules/dept/infrastructure/persistence"
	"github.com/iota-uz/crudkit/modules/dept/presentation/controllers"
	"github.com/iota-uz/crudkit/modules/dept/services"
	"github.com/iota-uz/crudkit/pkg/application"
	"github.com/iota-uz/crudkit/pkg/migrations"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

// ModuleOptions selects the repository. A nil Repository means Postgres.
type ModuleOptions struct {
	Repository dept.Repository
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
		repo = persistence.NewDeptRepository()
	}
	app.RegisterServices(
		services.NewDeptService(repo, app.EventPublisher()),
	)
	app.RegisterControllers(
		controllers.NewDeptAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "dept"
}
