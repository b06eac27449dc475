package dept

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func TestCreateDTOOk(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		dto    CreateDTO
		fields []string
	}{
		{"valid", CreateDTO{DeptName: " R&D ", Status: intPtr(1)}, nil},
		{"blank name", CreateDTO{DeptName: "  ", Status: intPtr(1)}, []string{"deptName"}},
		{"long name", CreateDTO{DeptName: strings.Repeat("x", 51), Status: intPtr(0)}, []string{"deptName"}},
		{"missing status", CreateDTO{DeptName: "Ops"}, []string{"status"}},
		{"bad status and sort", CreateDTO{DeptName: "Ops", Status: intPtr(3), DeptSort: -1}, []string{"deptSort", "status"}},
		{"negative parent", CreateDTO{DeptName: "Ops", Status: intPtr(1), ParentID: int64Ptr(-2)}, []string{"parentId"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dto := tc.dto
			errs, ok := dto.Ok()
			require.Equal(t, len(tc.fields) == 0, ok)
			got := make([]string, 0, len(errs))
			for f := range errs {
				got = append(got, f)
			}
			require.ElementsMatch(t, tc.fields, got)
		})
	}
}

func TestNormalizeDropsZeroParent(t *testing.T) {
	t.Parallel()

	dto := CreateDTO{DeptName: " Ops ", ParentID: int64Ptr(0), Status: intPtr(1)}
	_, ok := dto.Ok()
	require.True(t, ok)
	require.Nil(t, dto.ParentID)
	require.Equal(t, "Ops", dto.DeptName)
	require.True(t, dto.ToEntity().IsRoot())
}

func TestUpdateDTORequiresID(t *testing.T) {
	t.Parallel()

	dto := UpdateDTO{CreateDTO: CreateDTO{DeptName: "Ops", Status: intPtr(1)}}
	errs, ok := dto.Ok()
	require.False(t, ok)
	require.Contains(t, errs, "deptId")

	dto.DeptID = 4
	_, ok = dto.Ok()
	require.True(t, ok)
	e := dto.ToEntity()
	require.Equal(t, int64(4), e.ID)
	require.Equal(t, StatusEnabled, e.Status)
}
