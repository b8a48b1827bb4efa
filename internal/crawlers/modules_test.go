package crawlers

import (
	"testing"

	"github.com/lmsgrab/lmsgrab/internal/models"
)

func header(label string) scanNode {
	return scanNode{Class: headerClass, Aria: label}
}

func item(name, href string) scanNode {
	return scanNode{Class: itemClass, Text: name, Href: href}
}

// 周次归属属性: 归属严格按扫描序列中的先后位置,不按元素包含关系
func TestAssembleItems_WeekAttribution(t *testing.T) {
	nodes := []scanNode{
		header("1주차"),
		item("a", "/item/a"),
		item("b", "/item/b"),
		header("2주차"),
		item("c", "/item/c"),
	}

	items := assembleItems(nodes)

	want := []models.ModuleItem{
		{Name: "a", URL: "/item/a", Week: "1주차"},
		{Name: "b", URL: "/item/b", Week: "1주차"},
		{Name: "c", URL: "/item/c", Week: "2주차"},
	}

	if len(items) != len(want) {
		t.Fatalf("条目数 = %d, 期望 %d", len(items), len(want))
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("条目%d = %+v, 期望 %+v", i, items[i], want[i])
		}
	}
}

func TestAssembleItems(t *testing.T) {
	tests := []struct {
		name      string
		nodes     []scanNode
		wantItems int
		wantWeeks []string
	}{
		{
			name:      "标题前的条目归入哨兵周次",
			nodes:     []scanNode{item("a", "/a"), header("1주차"), item("b", "/b")},
			wantItems: 2,
			wantWeeks: []string{models.UnknownWeek, "1주차"},
		},
		{
			name:      "无href的条目被丢弃",
			nodes:     []scanNode{header("1주차"), item("a", ""), item("b", "/b")},
			wantItems: 1,
			wantWeeks: []string{"1주차"},
		},
		{
			name:      "空标签的标题不改变当前周次",
			nodes:     []scanNode{header("1주차"), item("a", "/a"), {Class: headerClass}, item("b", "/b")},
			wantItems: 2,
			wantWeeks: []string{"1주차", "1주차"},
		},
		{
			name:      "未知class的节点被忽略",
			nodes:     []scanNode{{Class: "xnmb-something-else", Text: "x", Href: "/x"}, header("1주차"), item("a", "/a")},
			wantItems: 1,
			wantWeeks: []string{"1주차"},
		},
		{
			name:      "空序列",
			nodes:     nil,
			wantItems: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := assembleItems(tt.nodes)
			if len(items) != tt.wantItems {
				t.Fatalf("条目数 = %d, 期望 %d", len(items), tt.wantItems)
			}
			for i, week := range tt.wantWeeks {
				if items[i].Week != week {
					t.Errorf("条目%d周次 = %q, 期望 %q", i, items[i].Week, week)
				}
			}
			// 不变式: 每个条目的周次都非空
			for i, it := range items {
				if it.Week == "" {
					t.Errorf("条目%d周次为空", i)
				}
			}
		})
	}
}

func TestHeaderLabel(t *testing.T) {
	tests := []struct {
		name string
		node scanNode
		want string
	}{
		{"aria-label优先", scanNode{Aria: "1주차", Text: "其他文本"}, "1주차"},
		{"aria缺席取可见文本首行", scanNode{Text: "2주차\n2개의 항목"}, "2주차"},
		{"首行两侧空白被剥离", scanNode{Text: "  3주차  \n항목"}, "3주차"},
		{"aria为纯空白时退回文本", scanNode{Aria: "  ", Text: "4주차"}, "4주차"},
		{"两者皆空返回空串", scanNode{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := headerLabel(tt.node); got != tt.want {
				t.Errorf("headerLabel() = %q, 期望 %q", got, tt.want)
			}
		})
	}
}
