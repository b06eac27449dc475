package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/crudkit/modules"
	deptviewmodels "github.com/iota-uz/crudkit/modules/dept/presentation/viewmodels"
	"github.com/iota-uz/crudkit/modules/user/domain/aggregates/user"
	"github.com/iota-uz/crudkit/pkg/application"
	"github.com/iota-uz/crudkit/pkg/configuration"
	"github.com/iota-uz/crudkit/pkg/server"
)

// startServer serves the demo organisation plus extra users without
// passwords.
func startServer(t *testing.T, extra int) string {
	t.Helper()
	seed, err := modules.DemoSeed("admin123")
	require.NoError(t, err)
	root := int64(1)
	for i := 0; i < extra; i++ {
		seed.Users = append(seed.Users, user.User{
			ID: int64(i + 2), DeptID: &root, Username: fmt.Sprintf("member_%02d", i), Nickname: "Member",
			Gender: user.GenderMale, Status: user.StatusEnabled,
		})
	}
	app := application.New(&application.ApplicationOptions{})
	require.NoError(t, modules.Load(app, configuration.StoreMemory, seed))
	srv := httptest.NewServer(server.NewHTTPServer(app, nil, nil).Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

type result struct {
	stdout string
	stderr string
	code   int
}

func run(t *testing.T, url, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	c := &cli{in: strings.NewReader(stdin), out: &out, errOut: &errOut}
	cmd := newRootCmd(c)
	cmd.SetArgs(append([]string{"--api", url}, args...))
	err := cmd.ExecuteContext(context.Background())
	return result{stdout: out.String(), stderr: errOut.String(), code: exitCode(err)}
}

func TestDeptTree(t *testing.T) {
	t.Parallel()

	url := startServer(t, 0)
	res := run(t, url, "", "dept", "tree")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "部门名称")
	require.Contains(t, res.stdout, "总公司")
	require.Contains(t, res.stdout, "  研发部")
	require.Contains(t, res.stdout, "禁用")

	res = run(t, url, "", "-o", "json", "dept", "tree", "--keywords", "财务")
	require.Equal(t, exitOK, res.code, res.stderr)
	var roots []deptviewmodels.Dept
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &roots))
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Children, 1)
	require.Equal(t, "财务部", roots[0].Children[0].DeptName)
}

func TestDeptLifecycle(t *testing.T) {
	t.Parallel()

	url := startServer(t, 0)
	res := run(t, url, "", "dept", "add", "--name", "测试部", "--parent", "2")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stderr, "新增成功")

	res = run(t, url, "", "dept", "edit", "5", "--name", "QA", "--status", "0")
	require.Equal(t, exitOK, res.code, res.stderr)

	res = run(t, url, "", "-o", "json", "dept", "view", "5")
	require.Equal(t, exitOK, res.code, res.stderr)
	var detail deptviewmodels.DeptDetail
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &detail))
	require.Equal(t, "QA", detail.DeptName)
	require.Equal(t, 0, detail.Status)
	require.NotNil(t, detail.ParentID)
	require.Equal(t, int64(2), *detail.ParentID)

	res = run(t, url, "", "dept", "add", "--name", "Bad", "--status", "5")
	require.Equal(t, exitValidation, res.code, res.stderr)

	res = run(t, url, "", "-y", "dept", "delete", "2")
	require.Equal(t, exitAPI, res.code, "departments with children are kept")

	res = run(t, url, "n\n", "dept", "delete", "5")
	require.Equal(t, exitDeclined, res.code)

	res = run(t, url, "y\n", "dept", "delete", "5")
	require.Equal(t, exitOK, res.code, res.stderr)

	res = run(t, url, "", "-y", "dept", "delete", "5")
	require.Equal(t, exitNotFound, res.code)

	res = run(t, url, "", "dept", "view", "abc")
	require.Equal(t, exitUsage, res.code)
}

func TestUserLifecycle(t *testing.T) {
	t.Parallel()

	url := startServer(t, 0)
	res := run(t, url, "", "user", "add", "--username", "alice_1", "--password", "secret1", "--nickname", "Alice", "--dept", "2")
	require.Equal(t, exitOK, res.code, res.stderr)

	res = run(t, url, "", "user", "add", "--username", "bad name", "--password", "secret1", "--nickname", "Bad")
	require.Equal(t, exitValidation, res.code)

	res = run(t, url, "", "-o", "json", "user", "list", "--username", "alice")
	require.Equal(t, exitOK, res.code, res.stderr)
	var page userPage
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &page))
	require.Equal(t, 1, page.Total)
	require.Equal(t, "研发部", page.Records[0].DeptName)
	id := page.Records[0].UserID

	res = run(t, url, "", "user", "edit", fmt.Sprint(id), "--nickname", "Alicia", "--gender", "2")
	require.Equal(t, exitOK, res.code, res.stderr)

	res = run(t, url, "", "-o", "yaml", "user", "view", fmt.Sprint(id))
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "nickname: Alicia")
	require.Contains(t, res.stdout, "username: alice_1")

	res = run(t, url, "", "user", "view", fmt.Sprint(id))
	require.Contains(t, res.stdout, "女")

	res = run(t, url, "", "-y", "user", "batch-delete", "99", fmt.Sprint(id))
	require.Equal(t, exitAPI, res.code)

	res = run(t, url, "", "-y", "user", "batch-delete", fmt.Sprint(id))
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stderr, "成功删除 1 条数据")

	res = run(t, url, "", "-y", "user", "delete", "1")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stderr, "删除 admin 成功")
}

func TestUserListPages(t *testing.T) {
	t.Parallel()

	url := startServer(t, 12)
	res := run(t, url, "", "user", "list", "--page", "2", "--page-size", "5")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "用户名")
	require.Contains(t, res.stdout, "member_04")
	require.Contains(t, res.stdout, "member_08")
	require.NotContains(t, res.stdout, "member_03")
	require.NotContains(t, res.stdout, "member_09")
	require.Contains(t, res.stdout, "共 13 条  第 2/3 页")

	res = run(t, url, "", "-o", "json", "user", "list")
	var page userPage
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &page))
	require.Len(t, page.Records, 10)
	require.Equal(t, 1, page.Page)
}

func TestUserExport(t *testing.T) {
	t.Parallel()

	url := startServer(t, 120)
	path := filepath.Join(t.TempDir(), "users.xlsx")
	res := run(t, url, "", "user", "export", "--file", path)
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stderr, "已导出 121 条数据")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 122)
	require.Equal(t, "ID", rows[0][0])
	require.Equal(t, "用户名", rows[0][1])
	require.Equal(t, "admin", rows[1][1])

	res = run(t, url, "", "user", "export", "--file", "users.csv")
	require.Equal(t, exitUsage, res.code)
}

func TestUnknownOutputIsUsageError(t *testing.T) {
	t.Parallel()

	res := run(t, "http://localhost:1", "", "-o", "xml", "dept", "tree")
	require.Equal(t, exitUsage, res.code)
}

func TestUnreachableAPI(t *testing.T) {
	t.Parallel()

	res := run(t, "http://127.0.0.1:1", "", "--timeout", "1s", "dept", "tree")
	require.Equal(t, exitAPI, res.code)
	require.Contains(t, res.stderr, "加载数据失败")
}

func TestWriteTableAlignsWideRunes(t *testing.T) {
	t.Parallel()

	var b bytes.Buffer
	require.NoError(t, writeTable(&b, []string{"名称", "ID"}, [][]string{{"研发部", "1"}, {"QA", "2"}}))
	require.Equal(t, "名称    ID\n------  --\n研发部  1\nQA      2\n", b.String())
	require.Equal(t, 6, displayWidth("研发部"))
	require.Equal(t, 2, displayWidth("QA"))
}

func TestWriteYAMLKeepsWideIDs(t *testing.T) {
	t.Parallel()

	var b bytes.Buffer
	require.NoError(t, writeYAML(&b, deptviewmodels.Dept{DeptID: 9007199254740993, DeptName: "Lab"}))
	require.Contains(t, b.String(), "deptId: 9007199254740993\n")
	require.Contains(t, b.String(), "deptName: Lab\n")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	require.Equal(t, exitOK, exitCode(nil))
	require.Equal(t, exitFailure, exitCode(fmt.Errorf("plain")))
	require.Equal(t, exitNotFound, exitCode(fmt.Errorf("wrapped: %w", withCode(exitNotFound, errDeclined))))
	require.Nil(t, withCode(exitAPI, nil))
}

