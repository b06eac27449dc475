package crud

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/crudkit/pkg/crud/form"
)

type account struct {
	AccountID int64  `json:"accountId"`
	ParentID  int64  `json:"parentId"`
	Name      string `json:"name"`
}

// 2^53 + 1 is the first integer a float64 cannot hold.
const wideID int64 = 9007199254740993

func TestLargeIDsSurviveEditAndSubmit(t *testing.T) {
	t.Parallel()

	var (
		detailID ID
		updated  []account
		excluded string
	)
	cfg := Config[form.Data, struct{}, account, account, account]{
		Name:    "account",
		Mode:    ModeList,
		IDKey:   "accountId",
		NameKey: "name",
		API: API[form.Data, struct{}, account, account, account]{
			Page: func(context.Context, PageQuery[struct{}]) (PageResult[form.Data], error) {
				return PageResult[form.Data]{Records: []form.Data{{"accountId": json.Number("9007199254740993"), "name": "ops"}}, Total: 1}, nil
			},
			Detail: func(_ context.Context, id ID) (account, error) {
				detailID = id
				return account{AccountID: wideID, ParentID: 1000000, Name: "ops"}, nil
			},
			Update: func(_ context.Context, a account) error {
				updated = append(updated, a)
				return nil
			},
			Delete: func(context.Context, ID) error { return nil },
		},
		Form: form.Config{Fields: []form.Field{
			{Key: "name", Label: "Name", Kind: form.KindInput, Required: true},
			{Key: "parentId", Label: "Parent", Kind: form.KindTreeSelect,
				Load: func(_ context.Context, _ form.Mode, data form.Data) ([]form.Option, error) {
					excluded = data["accountId"].(json.Number).String()
					return nil, nil
				}},
		}},
	}
	o, err := New(cfg, WithNotifier(&recordingNotifier{}))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, o.LoadDataList(ctx))
	row := o.Items()[0]
	require.Equal(t, ID("9007199254740993"), o.RowID(row))

	require.NoError(t, o.HandleEdit(ctx, row))
	require.Equal(t, ID(strconv.FormatInt(wideID, 10)), detailID)
	data := o.Form().Data
	require.Equal(t, json.Number("9007199254740993"), data["accountId"])
	require.Equal(t, json.Number("1000000"), data["parentId"])
	require.Equal(t, "9007199254740993", excluded)

	require.NoError(t, o.HandleSubmit(ctx, data))
	require.Equal(t, []account{{AccountID: wideID, ParentID: 1000000, Name: "ops"}}, updated)
}
