package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/iota-uz/utils/fs"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/crudkit/pkg/logging"
)

const Production = "production"

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

var singleton = sync.OnceValue(func() *Configuration {
	c, err := Load([]string{".env", ".env.local"})
	if err != nil {
		panic(err)
	}
	return c
})

// LoadEnv loads the env files that exist, looking first in the working
// directory and then in the nearest parent holding a go.mod. It returns how
// many files were loaded.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if fs.FileExists(file) {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		if root := moduleRoot(); root != "" {
			for _, file := range envFiles {
				if p := filepath.Join(root, file); !filepath.IsAbs(file) && fs.FileExists(p) {
					existing = append(existing, p)
				}
			}
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func moduleRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if fs.FileExists(filepath.Join(dir, "go.mod")) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

type DatabaseOptions struct {
	Opts     string `env:"-"`
	Name     string `env:"DB_NAME" envDefault:"crudkit"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/debug/prometheus"`
}

type RateLimitOptions struct {
	Enabled   bool  `env:"RATE_LIMIT_ENABLED" envDefault:"false"`
	GlobalRPS int64 `env:"RATE_LIMIT_GLOBAL_RPS" envDefault:"100"`
}

// APIOptions configure the REST client used by crudctl.
type APIOptions struct {
	BaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:3200"`
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
}

// CrudOptions are the screen defaults shared by every entity.
type CrudOptions struct {
	PageSizes      []int `env:"CRUD_PAGE_SIZES" envDefault:"10,15,30" envSeparator:","`
	ActionWidth    int   `env:"CRUD_ACTION_WIDTH" envDefault:"140"`
	SelectionWidth int   `env:"CRUD_SELECTION_WIDTH" envDefault:"50"`
}

func (c *CrudOptions) Validate() error {
	if len(c.PageSizes) == 0 {
		return fmt.Errorf("CRUD_PAGE_SIZES must list at least one size")
	}
	for _, s := range c.PageSizes {
		if s <= 0 {
			return fmt.Errorf("CRUD_PAGE_SIZES entries must be positive, got %d", s)
		}
	}
	if c.ActionWidth <= 0 {
		return fmt.Errorf("CRUD_ACTION_WIDTH must be positive, got %d", c.ActionWidth)
	}
	if c.SelectionWidth <= 0 {
		return fmt.Errorf("CRUD_SELECTION_WIDTH must be positive, got %d", c.SelectionWidth)
	}
	return nil
}

type Configuration struct {
	Database   DatabaseOptions
	Prometheus PrometheusOptions
	RateLimit  RateLimitOptions
	API        APIOptions
	Crud       CrudOptions

	CorsOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	// Store selects the repositories: postgres or memory.
	Store             string `env:"STORE" envDefault:"postgres"`
	MigrationsEnabled bool   `env:"MIGRATIONS_ENABLED" envDefault:"true"`
	ServerPort        int    `env:"PORT" envDefault:"3200"`
	GoAppEnvironment  string `env:"GO_APP_ENV" envDefault:"development"`
	SocketAddress     string `env:"-"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	// Empty LOG_PATH logs to stdout only.
	LogPath string `env:"LOG_PATH"`
	// Incoming requests without this header get a random uuidv4.
	RequestIDHeader string `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`

	logFile *os.File
	logger  *logrus.Logger
}

func Use() *Configuration {
	return singleton()
}

// Load reads envFiles and the process environment into a new Configuration.
func Load(envFiles []string) (*Configuration, error) {
	c := &Configuration{}
	if err := c.load(envFiles); err != nil {
		c.Unload()
		return nil, err
	}
	return c, nil
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

func (c *Configuration) validateLogLevel() error {
	level := strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch level {
	case "silent", "error", "warn", "info", "debug":
	default:
		return fmt.Errorf("invalid LOG_LEVEL=%q (expected silent|error|warn|info|debug)", c.LogLevel)
	}
	c.LogLevel = level
	return nil
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}
	if err := c.validateLogLevel(); err != nil {
		return err
	}
	switch c.Store {
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("invalid STORE=%q (expected postgres|memory)", c.Store)
	}
	if err := c.Crud.Validate(); err != nil {
		return fmt.Errorf("crud configuration error: %w", err)
	}

	if c.LogPath == "" {
		c.logger = logging.ConsoleLogger(c.LogrusLogLevel())
	} else {
		f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
		if err != nil {
			return err
		}
		c.logFile = f
		c.logger = logger
	}

	c.Database.Opts = c.Database.ConnectionString()
	if c.GoAppEnvironment == Production {
		c.SocketAddress = fmt.Sprintf(":%d", c.ServerPort)
	} else {
		c.SocketAddress = fmt.Sprintf("localhost:%d", c.ServerPort)
	}
	return nil
}

// Unload closes the log file, if any.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}
