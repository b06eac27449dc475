package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iota-uz/crudkit/pkg/configuration"
	"github.com/iota-uz/crudkit/pkg/crud"
	"github.com/iota-uz/crudkit/pkg/notify"
	"github.com/iota-uz/crudkit/pkg/restclient"
)

// cli carries the global flags and the session shared by every command.
type cli struct {
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	envFiles []string

	apiURL  string
	timeout time.Duration
	output  string
	yes     bool

	conf   *configuration.Configuration
	client *restclient.Client
	notes  *tracker
}

func newRootCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "crudctl",
		Short:         "Manage departments and users through the crudkit API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.conf != nil {
				c.conf.Unload()
			}
		},
	}
	cmd.SetIn(c.in)
	cmd.SetOut(c.out)
	cmd.SetErr(c.errOut)

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.apiURL, "api", "", "API base url (default API_BASE_URL)")
	flags.DurationVar(&c.timeout, "timeout", 0, "request timeout (default API_TIMEOUT)")
	flags.StringVarP(&c.output, "output", "o", outputTable, "output format: table, json or yaml")
	flags.BoolVarP(&c.yes, "yes", "y", false, "confirm deletions without asking")

	cmd.AddCommand(newDeptCmd(c))
	cmd.AddCommand(newUserCmd(c))
	return cmd
}

func (c *cli) init() error {
	switch c.output {
	case outputTable, outputJSON, outputYAML:
	default:
		return withCode(exitUsage, fmt.Errorf("invalid --output %q", c.output))
	}

	conf, err := configuration.Load(c.envFiles)
	if err != nil {
		return withCode(exitUsage, err)
	}
	c.conf = conf
	if conf.LogPath == "" {
		conf.Logger().SetOutput(c.errOut)
	}
	if c.apiURL == "" {
		c.apiURL = conf.API.BaseURL
	}
	if c.timeout <= 0 {
		c.timeout = conf.API.Timeout
	}

	client, err := restclient.New(c.apiURL,
		restclient.WithTimeout(c.timeout),
		restclient.WithRequestIDHeader(conf.RequestIDHeader),
		restclient.WithLogger(conf.Logger()),
	)
	if err != nil {
		return withCode(exitUsage, err)
	}
	c.client = client
	c.notes = &tracker{Notifier: notify.NewConsoleNotifier(c.errOut)}
	return nil
}

func (c *cli) crudOptions() []crud.Option {
	var confirmer notify.Confirmer = notify.NewPromptConfirmer(c.in, c.errOut)
	if c.yes {
		confirmer = notify.StaticConfirmer(true)
	}
	return []crud.Option{
		crud.WithNotifier(c.notes),
		crud.WithConfirmer(confirmer),
		crud.WithLogger(c.conf.Logger()),
	}
}

func Execute() {
	c := &cli{
		in:       os.Stdin,
		out:      os.Stdout,
		errOut:   os.Stderr,
		envFiles: []string{".env", ".env.local"},
	}
	if err := newRootCmd(c).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(exitCode(err))
	}
}
