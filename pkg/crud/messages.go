package crud

import "fmt"

// Messages holds every user-facing text of an orchestrator. Zero fields fall
// back to DefaultMessages.
type Messages struct {
	DeleteTitle        string
	DeleteContent      func(name string) string
	BatchDeleteTitle   string
	BatchDeleteContent func(count int) string
	PositiveText       string
	NegativeText       string

	CreateSuccess      string
	UpdateSuccess      string
	DeleteSuccess      func(name string) string
	BatchDeleteSuccess func(count int) string

	LoadError        string
	DetailError      string
	CreateError      string
	UpdateError      string
	DeleteError      string
	BatchDeleteError string

	BatchDeleteUnavailable string
	EmptySelection         string
	UnknownAction          func(key string) string

	// UnknownName is shown for rows without a display name.
	UnknownName string
}

func DefaultMessages() Messages {
	return Messages{
		DeleteTitle: "删除确认",
		DeleteContent: func(name string) string {
			return fmt.Sprintf("确定要删除 \"%s\" 吗？此操作不可撤销。", name)
		},
		BatchDeleteTitle: "批量删除确认",
		BatchDeleteContent: func(count int) string {
			return fmt.Sprintf("确定要删除选中的 %d 条数据吗？此操作不可撤销。", count)
		},
		PositiveText: "确定删除",
		NegativeText: "取消",

		CreateSuccess: "新增成功",
		UpdateSuccess: "更新成功",
		DeleteSuccess: func(name string) string {
			return fmt.Sprintf("删除 %s 成功", name)
		},
		BatchDeleteSuccess: func(count int) string {
			return fmt.Sprintf("成功删除 %d 条数据", count)
		},

		LoadError:        "加载数据失败",
		DetailError:      "获取详情失败",
		CreateError:      "新增失败",
		UpdateError:      "更新失败",
		DeleteError:      "删除失败",
		BatchDeleteError: "批量删除失败",

		BatchDeleteUnavailable: "未配置批量删除API",
		EmptySelection:         "请先选择要删除的数据",
		UnknownAction: func(key string) string {
			return fmt.Sprintf("未知的操作: %s", key)
		},

		UnknownName: "未知",
	}
}

func (m Messages) withDefaults() Messages {
	d := DefaultMessages()
	str := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	str(&m.DeleteTitle, d.DeleteTitle)
	str(&m.BatchDeleteTitle, d.BatchDeleteTitle)
	str(&m.PositiveText, d.PositiveText)
	str(&m.NegativeText, d.NegativeText)
	str(&m.CreateSuccess, d.CreateSuccess)
	str(&m.UpdateSuccess, d.UpdateSuccess)
	str(&m.LoadError, d.LoadError)
	str(&m.DetailError, d.DetailError)
	str(&m.CreateError, d.CreateError)
	str(&m.UpdateError, d.UpdateError)
	str(&m.DeleteError, d.DeleteError)
	str(&m.BatchDeleteError, d.BatchDeleteError)
	str(&m.BatchDeleteUnavailable, d.BatchDeleteUnavailable)
	str(&m.EmptySelection, d.EmptySelection)
	str(&m.UnknownName, d.UnknownName)
	if m.DeleteContent == nil {
		m.DeleteContent = d.DeleteContent
	}
	if m.BatchDeleteContent == nil {
		m.BatchDeleteContent = d.BatchDeleteContent
	}
	if m.DeleteSuccess == nil {
		m.DeleteSuccess = d.DeleteSuccess
	}
	if m.BatchDeleteSuccess == nil {
		m.BatchDeleteSuccess = d.BatchDeleteSuccess
	}
	if m.UnknownAction == nil {
		m.UnknownAction = d.UnknownAction
	}
	return m
}
