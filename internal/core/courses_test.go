package core

import (
	"testing"
)

const testTerm = "2025년 1학기"
const testBase = "https://canvas.ssu.ac.kr"

func TestEvaluateCourseRow(t *testing.T) {
	tests := []struct {
		name     string
		row      courseRow
		wantName string // 空表示期望被跳过
		wantURL  string
	}{
		{
			name:     "有效课程行",
			row:      courseRow{Term: testTerm, Name: "자료구조 (12345)", Href: "/courses/9876"},
			wantName: "자료구조 (12345)",
			wantURL:  "https://canvas.ssu.ac.kr/courses/9876",
		},
		{
			name:     "绝对URL原样保留",
			row:      courseRow{Term: testTerm, Name: "운영체제 (20001)", Href: "https://canvas.ssu.ac.kr/courses/1111"},
			wantName: "운영체제 (20001)",
			wantURL:  "https://canvas.ssu.ac.kr/courses/1111",
		},
		{
			name: "非当前学期被跳过",
			row:  courseRow{Term: "2024년 2학기", Name: "자료구조 (12345)", Href: "/courses/9876"},
		},
		{
			name: "缺少学期标签被跳过",
			row:  courseRow{Term: "  ", Name: "자료구조 (12345)", Href: "/courses/9876"},
		},
		{
			name: "名称无课程代码被跳过",
			row:  courseRow{Term: testTerm, Name: "신입생 오리엔테이션", Href: "/courses/9876"},
		},
		{
			name: "缺少链接被跳过",
			row:  courseRow{Term: testTerm, Name: "자료구조 (12345)", Href: ""},
		},
		{
			name: "非课程路径被跳过",
			row:  courseRow{Term: testTerm, Name: "자료구조 (12345)", Href: "/accounts/self"},
		},
		{
			name: "课程路径无数字被跳过",
			row:  courseRow{Term: testTerm, Name: "자료구조 (12345)", Href: "/courses/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make(map[string]bool)
			course, reason := evaluateCourseRow(tt.row, testTerm, testBase, seen)

			if tt.wantName == "" {
				if course != nil {
					t.Fatalf("期望跳过, 实际得到课程: %+v", course)
				}
				if reason == "" {
					t.Error("跳过时必须给出原因")
				}
				return
			}

			if course == nil {
				t.Fatalf("期望得到课程, 实际被跳过: %s", reason)
			}
			if course.Name != tt.wantName {
				t.Errorf("课程名 = %q, 期望 %q", course.Name, tt.wantName)
			}
			if course.URL != tt.wantURL {
				t.Errorf("课程URL = %q, 期望 %q", course.URL, tt.wantURL)
			}
		})
	}
}

// 课程过滤属性: 只有当期学期且名称带代码的行入选,顺序保持文档顺序,
// 单行畸形不影响兄弟行
func TestEvaluateCourseRow_FilterProperty(t *testing.T) {
	rows := []courseRow{
		{Term: testTerm, Name: "A (1)", Href: "/courses/1"},
		{Term: "다른 학기", Name: "B (2)", Href: "/courses/2"},
		{Term: testTerm, Name: "C", Href: "/courses/3"},
		{Term: "다른 학기", Name: "", Href: ""},
		{Term: testTerm, Name: "D (3)", Href: "/courses/4"},
	}

	seen := make(map[string]bool)
	var names []string
	for _, row := range rows {
		if course, _ := evaluateCourseRow(row, testTerm, testBase, seen); course != nil {
			names = append(names, course.Name)
		}
	}

	want := []string{"A (1)", "D (3)"}
	if len(names) != len(want) {
		t.Fatalf("入选课程 = %v, 期望 %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("第%d门课程 = %q, 期望 %q", i, names[i], want[i])
		}
	}
}

func TestEvaluateCourseRow_DuplicateURL(t *testing.T) {
	seen := make(map[string]bool)

	first := courseRow{Term: testTerm, Name: "자료구조 (12345)", Href: "/courses/9876"}
	if course, _ := evaluateCourseRow(first, testTerm, testBase, seen); course == nil {
		t.Fatal("第一次出现的URL应当入选")
	}

	// 标题不同但URL相同: 按URL身份去重,不按标题
	dup := courseRow{Term: testTerm, Name: "자료구조 분반 (99999)", Href: "/courses/9876"}
	if course, reason := evaluateCourseRow(dup, testTerm, testBase, seen); course != nil {
		t.Errorf("重复URL应当被跳过, 实际入选: %+v (原因=%s)", course, reason)
	}
}
