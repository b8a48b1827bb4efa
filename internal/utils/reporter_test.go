package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lmsgrab/lmsgrab/internal/models"
)

func TestGenerateRunReport(t *testing.T) {
	dir := t.TempDir()

	stats := &models.RunStats{
		RunID:        "abc-123",
		Term:         "2026년 2학기",
		TotalCourses: 2,
		StartedAt:    time.Now(),
	}
	stats.Add(models.CourseResult{
		Course:     models.Course{Name: "자료구조 (12345)", URL: "https://canvas.ssu.ac.kr/courses/12345"},
		Status:     models.CourseStatusCompleted,
		Items:      5,
		Downloaded: 3,
		Skipped:    2,
		Duration:   12.5,
	})
	stats.Add(models.CourseResult{
		Course: models.Course{Name: "운영체제 (67890)", URL: "https://canvas.ssu.ac.kr/courses/67890"},
		Status: models.CourseStatusNoItems,
	})

	r := NewReporter(dir)
	if err := r.GenerateRunReport(stats); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "run_abc-123.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("报告文件未生成: %v", err)
	}

	var loaded models.RunStats
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("报告不是合法JSON: %v", err)
	}
	if loaded.RunID != "abc-123" {
		t.Errorf("RunID = %q, 期望 abc-123", loaded.RunID)
	}
	if loaded.CompletedCount != 1 || loaded.NoItemsCount != 1 || loaded.FailedCount != 0 {
		t.Errorf("计数错误: completed=%d noItems=%d failed=%d",
			loaded.CompletedCount, loaded.NoItemsCount, loaded.FailedCount)
	}
	if loaded.TotalDownloads != 3 || loaded.TotalSkipped != 2 {
		t.Errorf("下载计数错误: downloads=%d skipped=%d",
			loaded.TotalDownloads, loaded.TotalSkipped)
	}
	if len(loaded.Results) != 2 {
		t.Errorf("结果条数 = %d, 期望 2", len(loaded.Results))
	}
}

func TestSummarizeDownloads(t *testing.T) {
	root := t.TempDir()

	// 构造 课程/周次/文件 三层目录树
	mkFile := func(parts ...string) {
		path := filepath.Join(append([]string{root}, parts...)...)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	mkFile("자료구조 (12345)", "1주차", "lecture1.pdf")
	mkFile("자료구조 (12345)", "1주차", "lecture2.pdf")
	mkFile("자료구조 (12345)", "2주차", "slides.pptx")
	mkFile("운영체제 (67890)", "Unknown_Week", "syllabus.hwp")
	// 空周次目录也要出现在汇总里
	if err := os.MkdirAll(filepath.Join(root, "운영체제 (67890)", "3주차"), 0755); err != nil {
		t.Fatal(err)
	}
	// 根目录下的散落文件不计入
	mkFile("stray.txt")

	summaries, total, err := SummarizeDownloads(root)
	if err != nil {
		t.Fatal(err)
	}

	if total != 4 {
		t.Errorf("文件总数 = %d, 期望 4", total)
	}
	if len(summaries) != 2 {
		t.Fatalf("课程数 = %d, 期望 2", len(summaries))
	}

	// 排序后第一门是운영체제
	first := summaries[0]
	if first.Course != "운영체제 (67890)" {
		t.Errorf("排序错误, 第一门课程 = %q", first.Course)
	}
	if first.Files != 1 {
		t.Errorf("운영체제文件数 = %d, 期望 1", first.Files)
	}
	if n, ok := first.Weeks["3주차"]; !ok || n != 0 {
		t.Errorf("空周次目录应计为0个文件, got %d (ok=%v)", n, ok)
	}

	second := summaries[1]
	if second.Files != 3 {
		t.Errorf("자료구조文件数 = %d, 期望 3", second.Files)
	}
	if second.Weeks["1주차"] != 2 || second.Weeks["2주차"] != 1 {
		t.Errorf("周次计数错误: %v", second.Weeks)
	}
}

func TestSummarizeDownloads_MissingDir(t *testing.T) {
	_, _, err := SummarizeDownloads(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Error("不存在的目录应返回错误")
	}
}
