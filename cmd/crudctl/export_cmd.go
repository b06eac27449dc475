package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/crudkit/modules/user/presentation/screens"
	"github.com/iota-uz/crudkit/modules/user/presentation/viewmodels"
	"github.com/iota-uz/crudkit/pkg/crud/table"
)

const (
	exportSheet    = "用户"
	exportPageSize = 100
)

func newUserExportCmd(c *cli) *cobra.Command {
	var (
		f    userQueryFlags
		file string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every matching user to an xlsx file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !strings.HasSuffix(strings.ToLower(file), ".xlsx") {
				return withCode(exitUsage, fmt.Errorf("--file must end in .xlsx"))
			}
			s, err := c.userScreen()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			users, err := collectUsers(ctx, c, s, f.query(cmd))
			if err != nil {
				return err
			}
			cols := dataColumns(s.Columns(ctx))
			if err := writeWorkbook(file, cols, users); err != nil {
				return withCode(exitFailure, err)
			}
			c.notes.Success(fmt.Sprintf("已导出 %d 条数据到 %s", len(users), file))
			return nil
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&file, "file", "users.xlsx", "output file")
	return cmd
}

// collectUsers walks every page of the search through the screen.
func collectUsers(ctx context.Context, c *cli, s *screens.Screen, q viewmodels.Query) ([]viewmodels.User, error) {
	s.SetQuery(q)
	p := s.Pagination()
	p.OnUpdatePageSize(ctx, exportPageSize)
	if err := c.notes.failure(); err != nil {
		return nil, err
	}
	users := append([]viewmodels.User(nil), s.Items()...)
	for page := 2; page <= p.PageCount(); page++ {
		p.OnChange(ctx, page)
		if err := c.notes.failure(); err != nil {
			return nil, err
		}
		users = append(users, s.Items()...)
	}
	return users, nil
}

func writeWorkbook(path string, cols []table.Column[viewmodels.User], users []viewmodels.User) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	header := make([]any, 0, len(cols)+1)
	header = append(header, "ID")
	for _, col := range cols {
		header = append(header, col.Title)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(exportSheet, "A1", last, bold); err != nil {
		return err
	}

	for i, u := range users {
		row := make([]any, 0, len(cols)+1)
		row = append(row, u.UserID)
		for _, col := range cols {
			row = append(row, col.Text(u))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}

	for i, col := range cols {
		name, err := excelize.ColumnNumberToName(i + 2)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(exportSheet, name, name, float64(max(col.Width, 80))/7); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
