package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/lmsgrab/lmsgrab/internal/models"
	"github.com/schollz/progressbar/v3"
)

// Reporter 运行报告生成器
type Reporter struct {
	reportDir string
}

// NewReporter 创建报告生成器
func NewReporter(reportDir string) *Reporter {
	return &Reporter{reportDir: reportDir}
}

// GenerateRunReport 生成运行报告
// 报告按运行ID命名,记录每门课程的处理状态、条目数和下载数,
// 用于区分"成功但没有附件"与"什么都没提取到"两种结果
func (r *Reporter) GenerateRunReport(stats *models.RunStats) error {
	if err := EnsureDir(r.reportDir); err != nil {
		return err
	}

	filename := fmt.Sprintf("run_%s.json", stats.RunID)
	path := filepath.Join(r.reportDir, filename)

	jsonData, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化JSON失败: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("写入报告文件失败: %w", err)
	}

	Infof("✅ 运行报告已生成: %s", path)
	return nil
}

// CourseSummary 单门课程的下载汇总
type CourseSummary struct {
	Course string         // 课程目录名
	Weeks  map[string]int // 周次目录 -> 文件数
	Files  int            // 课程文件总数
}

// SummarizeDownloads 汇总下载目录树
// 遍历 downloads/<课程>/<周次>/<文件> 三层结构,统计每门课程每周的文件数
func SummarizeDownloads(rootDir string) ([]CourseSummary, int, error) {
	entries, err := os.ReadDir(rootDir)
	if err != nil {
		return nil, 0, fmt.Errorf("读取下载目录失败 %s: %w", rootDir, err)
	}

	summaries := make([]CourseSummary, 0, len(entries))
	total := 0

	for _, courseEntry := range entries {
		if !courseEntry.IsDir() {
			continue
		}

		summary := CourseSummary{
			Course: courseEntry.Name(),
			Weeks:  make(map[string]int),
		}

		coursePath := filepath.Join(rootDir, courseEntry.Name())
		weekEntries, err := os.ReadDir(coursePath)
		if err != nil {
			Warnf("读取课程目录失败 %s: %v", coursePath, err)
			continue
		}

		for _, weekEntry := range weekEntries {
			if !weekEntry.IsDir() {
				continue
			}
			weekPath := filepath.Join(coursePath, weekEntry.Name())
			files, err := os.ReadDir(weekPath)
			if err != nil {
				Warnf("读取周次目录失败 %s: %v", weekPath, err)
				continue
			}
			count := 0
			for _, f := range files {
				if !f.IsDir() {
					count++
				}
			}
			summary.Weeks[weekEntry.Name()] = count
			summary.Files += count
		}

		total += summary.Files
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Course < summaries[j].Course
	})
	return summaries, total, nil
}

// PrintDownloadSummary 打印下载汇总到标准输出
func PrintDownloadSummary(rootDir string) error {
	summaries, total, err := SummarizeDownloads(rootDir)
	if err != nil {
		return err
	}

	fmt.Printf("扫描目录: %s\n\n", rootDir)
	for _, s := range summaries {
		fmt.Printf("[%s]\n", s.Course)

		weeks := make([]string, 0, len(s.Weeks))
		for w := range s.Weeks {
			weeks = append(weeks, w)
		}
		sort.Strings(weeks)

		for _, w := range weeks {
			if s.Weeks[w] > 0 {
				fmt.Printf("  - %s: %d个文件\n", w, s.Weeks[w])
			} else {
				fmt.Printf("  - %s: (无文件)\n", w)
			}
		}
		fmt.Printf("  => 课程合计: %d个文件\n\n", s.Files)
	}
	fmt.Printf("所有课程文件总数: %d\n", total)
	return nil
}

// NewProgressBar 创建进度条
func NewProgressBar(max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
