package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iota-uz/crudkit/modules/dept/presentation/screens"
	"github.com/iota-uz/crudkit/modules/dept/presentation/viewmodels"
	"github.com/iota-uz/crudkit/pkg/crud"
	"github.com/iota-uz/crudkit/pkg/crud/form"
)

func newDeptCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dept",
		Short: "Manage the department tree",
	}
	cmd.AddCommand(newDeptTreeCmd(c))
	cmd.AddCommand(newDeptViewCmd(c))
	cmd.AddCommand(newDeptAddCmd(c))
	cmd.AddCommand(newDeptEditCmd(c))
	cmd.AddCommand(newDeptDeleteCmd(c))
	return cmd
}

func (c *cli) deptScreen() (*screens.Screen, error) {
	s, err := screens.New(c.client, c.crudOptions()...)
	if err != nil {
		return nil, withCode(exitFailure, err)
	}
	return s, nil
}

func newDeptTreeCmd(c *cli) *cobra.Command {
	var keywords string
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the department tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.deptScreen()
			if err != nil {
				return err
			}
			if err := s.Search(cmd.Context(), viewmodels.Query{Keywords: keywords}); err != nil {
				return apiFailure(err)
			}
			if err := c.notes.failure(); err != nil {
				return err
			}

			cols := dataColumns(s.Columns(cmd.Context()))
			var rows [][]string
			var walk func(nodes []viewmodels.Dept, depth int)
			walk = func(nodes []viewmodels.Dept, depth int) {
				for _, n := range nodes {
					row := cells(cols, n)
					row[0] = strings.Repeat("  ", depth) + row[0]
					rows = append(rows, append([]string{strconv.FormatInt(n.DeptID, 10)}, row...))
					walk(s.Children(n), depth+1)
				}
			}
			walk(s.Items(), 0)
			return c.render(s.Items(), append([]string{"ID"}, titles(cols)...), rows)
		},
	}
	cmd.Flags().StringVar(&keywords, "keywords", "", "keep departments whose name matches, with their ancestors")
	return cmd
}

func newDeptViewCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "Show one department",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := c.deptScreen()
			if err != nil {
				return err
			}
			if err := s.HandleView(cmd.Context(), viewmodels.Dept{DeptID: id}); err != nil {
				return apiFailure(err)
			}
			if err := c.notes.failure(); err != nil {
				return err
			}
			detail := s.Detail().Data
			return c.render(detail, []string{"字段", "值"}, detailRows(s.DetailColumns(), detail))
		},
	}
}

type deptFlags struct {
	name        string
	parent      int64
	sort        int
	status      int
	description string
}

func (f *deptFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "department name")
	cmd.Flags().Int64Var(&f.parent, "parent", screens.RootValue, "parent department id, 0 for top level")
	cmd.Flags().IntVar(&f.sort, "sort", 0, "sort order among siblings")
	cmd.Flags().IntVar(&f.status, "status", 1, "1 enabled, 0 disabled")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
}

// changed returns the form values of the flags given on the command line.
func (f *deptFlags) changed(cmd *cobra.Command) form.Data {
	data := form.Data{}
	flags := cmd.Flags()
	if flags.Changed("name") {
		data["deptName"] = f.name
	}
	if flags.Changed("parent") {
		data["parentId"] = f.parent
	}
	if flags.Changed("sort") {
		data["deptSort"] = f.sort
	}
	if flags.Changed("status") {
		data["status"] = f.status
	}
	if flags.Changed("description") {
		data["description"] = f.description
	}
	return data
}

func newDeptAddCmd(c *cli) *cobra.Command {
	var f deptFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a department",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.deptScreen()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := s.HandleAdd(ctx); err != nil {
				return withCode(exitFailure, err)
			}
			s.HandleFormDataUpdate(f.changed(cmd))
			return apiFailure(s.HandleSubmit(ctx, s.Form().Data))
		},
	}
	f.bind(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newDeptEditCmd(c *cli) *cobra.Command {
	var f deptFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a department; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := c.deptScreen()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := openEdit(ctx, c, s, viewmodels.Dept{DeptID: id}); err != nil {
				return err
			}
			s.HandleFormDataUpdate(f.changed(cmd))
			return apiFailure(s.HandleSubmit(ctx, s.Form().Data))
		},
	}
	f.bind(cmd)
	return cmd
}

func newDeptDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a department without children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			detail, err := screens.NewEntity(c.client).Detail(ctx, crud.ID(args[0]))
			if err != nil {
				return apiFailure(err)
			}
			s, err := c.deptScreen()
			if err != nil {
				return err
			}
			if err := s.HandleDelete(ctx, viewmodels.Dept{DeptID: id, DeptName: detail.DeptName}, nil); err != nil {
				return withCode(exitFailure, err)
			}
			return c.notes.outcome()
		},
	}
}

type editor[TItem any] interface {
	HandleEdit(ctx context.Context, row TItem) error
	Form() crud.FormState
}

// openEdit loads row into the form and fails when the detail fetch did.
func openEdit[TItem any](ctx context.Context, c *cli, s editor[TItem], row TItem) error {
	if err := s.HandleEdit(ctx, row); err != nil {
		return withCode(exitFailure, err)
	}
	if err := c.notes.failure(); err != nil {
		return err
	}
	if !s.Form().Visible {
		return withCode(exitFailure, fmt.Errorf("form did not open"))
	}
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, withCode(exitUsage, fmt.Errorf("invalid id %q", raw))
	}
	return id, nil
}
