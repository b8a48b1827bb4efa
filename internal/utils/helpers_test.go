package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"混合敌对字符", `A/B:C*D`, "ABCD"},
		{"全部敌对字符", `\/*?:"<>|`, ""},
		{"干净名称原样保留", "자료구조 (12345)", "자료구조 (12345)"},
		{"周次标签", "1주차 [3월 4일 ~ 3월 10일]", "1주차 [3월 4일 ~ 3월 10일]"},
		{"问号和引号", `"중간고사?" 안내`, "중간고사 안내"},
		{"空串", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.input); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, 期望 %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "lecture.pdf")
	if FileExists(path) {
		t.Error("不存在的文件返回了true")
	}

	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(path) {
		t.Error("存在的文件返回了false")
	}

	// 目录不算文件
	if FileExists(dir) {
		t.Error("目录不应被当作文件")
	}
}

// 去重幂等性: 同名文件已存在时第二次落位是零写入,目录列表不变
func TestCommitDownload_Idempotent(t *testing.T) {
	staging := t.TempDir()
	target := t.TempDir()

	writeStaged := func(name, content string) string {
		path := filepath.Join(staging, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	// 第一次落位
	saved, err := CommitDownload(writeStaged("guid-1", "v1"), target, "lecture.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if !saved {
		t.Fatal("第一次落位应当保存")
	}

	// 第二次同名落位: 跳过且不覆盖
	saved, err = CommitDownload(writeStaged("guid-2", "v2"), target, "lecture.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if saved {
		t.Error("同名文件已存在时不应再次保存")
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("目标目录文件数 = %d, 期望 1", len(entries))
	}

	data, err := os.ReadFile(filepath.Join(target, "lecture.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "v1" {
		t.Errorf("已有文件被覆盖: %q", data)
	}

	// 暂存文件在跳过时被清理
	if FileExists(filepath.Join(staging, "guid-2")) {
		t.Error("跳过落位后暂存文件未被清理")
	}
}

// 建议文件名按下载源原样使用,不经过清洗
func TestCommitDownload_FilenameNotSanitized(t *testing.T) {
	staging := t.TempDir()
	target := t.TempDir()

	stagedPath := filepath.Join(staging, "guid-1")
	if err := os.WriteFile(stagedPath, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	// 合法但带空格和括号的建议名必须原样保留
	filename := "강의자료 (3월).pdf"
	saved, err := CommitDownload(stagedPath, target, filename)
	if err != nil {
		t.Fatal(err)
	}
	if !saved {
		t.Fatal("期望保存成功")
	}
	if !FileExists(filepath.Join(target, filename)) {
		t.Errorf("文件未按建议名原样落位: %s", filename)
	}
}

func TestLastPathSegment(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"普通URL", "https://example.com/files/lecture.pdf", "lecture.pdf"},
		{"末尾斜杠", "https://example.com/files/", "files"},
		{"无路径", "lecture.pdf", "lecture.pdf"},
		{"条目URL", "/courses/9876/modules/items/100", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LastPathSegment(tt.url); got != tt.want {
				t.Errorf("LastPathSegment(%q) = %q, 期望 %q", tt.url, got, tt.want)
			}
		})
	}
}
