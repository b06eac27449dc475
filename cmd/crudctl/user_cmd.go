package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iota-uz/crudkit/modules/user/presentation/screens"
	"github.com/iota-uz/crudkit/modules/user/presentation/viewmodels"
	"github.com/iota-uz/crudkit/pkg/crud"
	"github.com/iota-uz/crudkit/pkg/crud/form"
)

func newUserCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserListCmd(c))
	cmd.AddCommand(newUserViewCmd(c))
	cmd.AddCommand(newUserAddCmd(c))
	cmd.AddCommand(newUserEditCmd(c))
	cmd.AddCommand(newUserDeleteCmd(c))
	cmd.AddCommand(newUserBatchDeleteCmd(c))
	cmd.AddCommand(newUserExportCmd(c))
	return cmd
}

func (c *cli) userScreen() (*screens.Screen, error) {
	s, err := screens.New(c.client, c.conf.Crud.PageSizes, c.crudOptions()...)
	if err != nil {
		return nil, withCode(exitFailure, err)
	}
	return s, nil
}

type userQueryFlags struct {
	keywords string
	username string
	nickname string
	email    string
	dept     int64
	status   int
	gender   int
}

func (f *userQueryFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.keywords, "keywords", "", "match username, nickname, email or phone number")
	cmd.Flags().StringVar(&f.username, "username", "", "username contains")
	cmd.Flags().StringVar(&f.nickname, "nickname", "", "nickname contains")
	cmd.Flags().StringVar(&f.email, "email", "", "email contains")
	cmd.Flags().Int64Var(&f.dept, "dept", 0, "department id")
	cmd.Flags().IntVar(&f.status, "status", 0, "1 enabled, 0 disabled")
	cmd.Flags().IntVar(&f.gender, "gender", 0, "1 male, 2 female")
}

func (f *userQueryFlags) query(cmd *cobra.Command) viewmodels.Query {
	q := viewmodels.Query{
		Keywords: f.keywords,
		Username: f.username,
		Nickname: f.nickname,
		Email:    f.email,
	}
	if cmd.Flags().Changed("dept") {
		q.DeptID = &f.dept
	}
	if cmd.Flags().Changed("status") {
		q.Status = &f.status
	}
	if cmd.Flags().Changed("gender") {
		q.Gender = &f.gender
	}
	return q
}

type userPage struct {
	Records  []viewmodels.User `json:"records"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

func newUserListCmd(c *cli) *cobra.Command {
	var (
		f        userQueryFlags
		page     int
		pageSize int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.userScreen()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s.SetQuery(f.query(cmd))
			p := s.Pagination()
			if pageSize > 0 {
				p.OnUpdatePageSize(ctx, pageSize)
			}
			if page > 1 {
				p.OnChange(ctx, page)
			} else if pageSize <= 0 {
				if err := s.LoadDataList(ctx); err != nil {
					return apiFailure(err)
				}
			}
			if err := c.notes.failure(); err != nil {
				return err
			}

			cols := dataColumns(s.Columns(ctx))
			rows := make([][]string, 0, len(s.Items()))
			for _, u := range s.Items() {
				rows = append(rows, append([]string{fmt.Sprint(u.UserID)}, cells(cols, u)...))
			}
			result := userPage{Records: s.Items(), Total: s.Total(), Page: p.Page(), PageSize: p.PageSize()}
			if err := c.render(result, append([]string{"ID"}, titles(cols)...), rows); err != nil {
				return err
			}
			if c.output == outputTable {
				fmt.Fprintf(c.out, "%s  第 %d/%d 页\n", p.Prefix(), p.Page(), p.PageCount())
			}
			return nil
		},
	}
	f.bind(cmd)
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "page size (default the first CRUD_PAGE_SIZES entry)")
	return cmd
}

func newUserViewCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := c.userScreen()
			if err != nil {
				return err
			}
			if err := s.HandleRowAction(cmd.Context(), string(crud.ActionView), viewmodels.User{UserID: id}); err != nil {
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

type userFlags struct {
	username string
	password string
	nickname string
	email    string
	phone    string
	gender   int
	dept     int64
	status   int
}

func (f *userFlags) bind(cmd *cobra.Command, withUsername bool) {
	if withUsername {
		cmd.Flags().StringVar(&f.username, "username", "", "login name: letters, digits and underscores")
	}
	cmd.Flags().StringVar(&f.password, "password", "", "password, 6 to 20 characters")
	cmd.Flags().StringVar(&f.nickname, "nickname", "", "display name")
	cmd.Flags().StringVar(&f.email, "email", "", "email address")
	cmd.Flags().StringVar(&f.phone, "phone", "", "mobile number")
	cmd.Flags().IntVar(&f.gender, "gender", 1, "1 male, 2 female")
	cmd.Flags().Int64Var(&f.dept, "dept", 0, "department id, 0 for none")
	cmd.Flags().IntVar(&f.status, "status", 1, "1 enabled, 0 disabled")
}

func (f *userFlags) changed(cmd *cobra.Command) form.Data {
	data := form.Data{}
	set := func(flag, key string, v any) {
		if cmd.Flags().Changed(flag) {
			data[key] = v
		}
	}
	set("username", "username", f.username)
	set("password", "password", f.password)
	set("nickname", "nickname", f.nickname)
	set("email", "email", f.email)
	set("phone", "phoneNumber", f.phone)
	set("gender", "gender", f.gender)
	set("dept", "deptId", f.dept)
	set("status", "status", f.status)
	return data
}

func newUserAddCmd(c *cli) *cobra.Command {
	var f userFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.userScreen()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := s.HandlePageAction(ctx, string(crud.ActionAdd)); err != nil {
				return withCode(exitFailure, err)
			}
			s.HandleFormDataUpdate(f.changed(cmd))
			return apiFailure(s.HandleSubmit(ctx, s.Form().Data))
		},
	}
	f.bind(cmd, true)
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("nickname")
	return cmd
}

func newUserEditCmd(c *cli) *cobra.Command {
	var f userFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a user; only the given flags change and the username is fixed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := c.userScreen()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := openEdit(ctx, c, s, viewmodels.User{UserID: id}); err != nil {
				return err
			}
			s.HandleFormDataUpdate(f.changed(cmd))
			return apiFailure(s.HandleSubmit(ctx, s.Form().Data))
		},
	}
	f.bind(cmd, false)
	return cmd
}

func newUserDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := parseID(args[0]); err != nil {
				return err
			}
			ctx := cmd.Context()
			detail, err := screens.NewEntity(c.client).Detail(ctx, crud.ID(args[0]))
			if err != nil {
				return apiFailure(err)
			}
			s, err := c.userScreen()
			if err != nil {
				return err
			}
			if err := s.HandleDelete(ctx, detail.User, nil); err != nil {
				return withCode(exitFailure, err)
			}
			return c.notes.outcome()
		},
	}
}

func newUserBatchDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "batch-delete <id>...",
		Short: "Delete several users at once; all or none are removed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]crud.ID, 0, len(args))
			for _, raw := range args {
				if _, err := parseID(raw); err != nil {
					return err
				}
				ids = append(ids, crud.ID(raw))
			}
			s, err := c.userScreen()
			if err != nil {
				return err
			}
			s.HandleCheck(ids)
			if err := s.HandlePageAction(cmd.Context(), screens.ActionBatchDelete); err != nil {
				return withCode(exitFailure, err)
			}
			return c.notes.outcome()
		},
	}
}
