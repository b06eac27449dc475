package application

import (
	"fmt"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/crudkit/pkg/eventbus"
	"github.com/iota-uz/crudkit/pkg/migrations"
)

// Controller mounts a set of routes on the server router.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

// Module wires an entity's services and controllers into an Application.
type Module interface {
	Name() string
	Register(app Application) error
}

// Application is the container the server and the modules share.
type Application interface {
	DB() *pgxpool.Pool
	EventPublisher() eventbus.EventBus
	Logger() logrus.FieldLogger
	Controllers() []Controller
	Middleware() []mux.MiddlewareFunc
	Schemas() []migrations.Source
	RegisterControllers(controllers ...Controller)
	RegisterMiddleware(middleware ...mux.MiddlewareFunc)
	RegisterSchema(sources ...migrations.Source)
	RegisterServices(services ...interface{})
	Service(service interface{}) interface{}
	Services() map[reflect.Type]interface{}
}

type ApplicationOptions struct {
	Pool     *pgxpool.Pool
	EventBus eventbus.EventBus
	Logger   logrus.FieldLogger
}

func New(opts *ApplicationOptions) Application {
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	bus := opts.EventBus
	if bus == nil {
		bus = eventbus.New(log)
	}
	return &application{
		pool:           opts.Pool,
		eventPublisher: bus,
		log:            log,
		controllers:    make(map[string]Controller),
		services:       make(map[reflect.Type]interface{}),
	}
}

// application with a dynamically extendable service registry
type application struct {
	pool           *pgxpool.Pool
	eventPublisher eventbus.EventBus
	log            logrus.FieldLogger
	services       map[reflect.Type]interface{}
	controllers    map[string]Controller
	order          []string
	middleware     []mux.MiddlewareFunc
	schemas        []migrations.Source
}

func (app *application) DB() *pgxpool.Pool {
	return app.pool
}

func (app *application) EventPublisher() eventbus.EventBus {
	return app.eventPublisher
}

func (app *application) Logger() logrus.FieldLogger {
	return app.log
}

func (app *application) Middleware() []mux.MiddlewareFunc {
	return app.middleware
}

// Controllers returns the controllers in registration order. A controller
// registered again under the same key replaces the earlier one in place.
func (app *application) Controllers() []Controller {
	controllers := make([]Controller, 0, len(app.order))
	for _, key := range app.order {
		controllers = append(controllers, app.controllers[key])
	}
	return controllers
}

func (app *application) Schemas() []migrations.Source {
	return app.schemas
}

func (app *application) RegisterControllers(controllers ...Controller) {
	for _, c := range controllers {
		if _, ok := app.controllers[c.Key()]; !ok {
			app.order = append(app.order, c.Key())
		}
		app.controllers[c.Key()] = c
	}
}

func (app *application) RegisterMiddleware(middleware ...mux.MiddlewareFunc) {
	app.middleware = append(app.middleware, middleware...)
}

func (app *application) RegisterSchema(sources ...migrations.Source) {
	app.schemas = append(app.schemas, sources...)
}

// RegisterServices registers a new service in the application by its type
func (app *application) RegisterServices(services ...interface{}) {
	for _, service := range services {
		serviceType := reflect.TypeOf(service).Elem()
		app.services[serviceType] = service
	}
}

// Service retrieves a service by its type
func (app *application) Service(service interface{}) interface{} {
	serviceType := reflect.TypeOf(service)
	svc, exists := app.services[serviceType]
	if !exists {
		panic(fmt.Sprintf("service %s not found", serviceType.Name()))
	}
	return svc
}

func (app *application) Services() map[reflect.Type]interface{} {
	return app.services
}

// Load registers every module with app, stopping at the first failure.
func Load(app Application, modules ...Module) error {
	for _, module := range modules {
		if err := module.Register(app); err != nil {
			return fmt.Errorf("register module %s: %w", module.Name(), err)
		}
	}
	return nil
}
