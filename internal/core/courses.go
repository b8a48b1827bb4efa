package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/lmsgrab/lmsgrab/internal/models"
	"github.com/lmsgrab/lmsgrab/internal/utils"
)

// courseRow 从课程列表行中提取的原始字段
type courseRow struct {
	Term string // 学期单元格文本
	Name string // 课程标题
	Href string // 课程链接(可能是相对路径)
}

// evaluateCourseRow 判定单行是否为有效的当期课程
// 纯函数: 返回课程或跳过原因,不触碰DOM
// 过滤规则(按序):
//  1. 学期标签必须等于当前学期
//  2. 名称必须匹配 "<标题> (<数字代码>)" 模式(过滤新生指南等系统页面)
//  3. 链接必须包含课程路径段且至少一个数字
//  4. 规范化后的URL不得重复
func evaluateCourseRow(row courseRow, currentTerm, canvasBase string, seen map[string]bool) (*models.Course, string) {
	term := strings.TrimSpace(row.Term)
	if term == "" {
		return nil, "缺少学期标签"
	}
	if term != currentTerm {
		return nil, fmt.Sprintf("非当前学期: %s", term)
	}

	name := strings.TrimSpace(row.Name)
	if name == "" {
		return nil, "缺少课程标题"
	}
	if !models.ValidCourseName(name) {
		return nil, fmt.Sprintf("名称不含课程代码: %s", name)
	}

	if row.Href == "" {
		return nil, "缺少课程链接"
	}
	if !models.ValidCourseHref(row.Href) {
		return nil, fmt.Sprintf("链接不是课程页面: %s", row.Href)
	}

	fullURL := models.ResolveURL(canvasBase, row.Href)
	if seen[fullURL] {
		return nil, fmt.Sprintf("URL重复: %s", fullURL)
	}
	seen[fullURL] = true

	return &models.Course{Name: name, URL: fullURL}, ""
}

// ListCourses 发现当前学期的课程列表
// 结果按文档顺序排列; 单行解析失败仅跳过该行,不影响整体扫描
func ListCourses(page *rod.Page, config *Config) ([]models.Course, error) {
	currentTerm := CurrentTerm(time.Now())
	utils.Infof("当前学期: %s", currentTerm)
	utils.Info("📋 获取课程列表...")

	if err := page.Navigate(config.Portal.CoursesURL); err != nil {
		return nil, fmt.Errorf("打开课程列表失败: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("课程列表加载失败: %w", err)
	}

	rows, err := page.Elements("tr.course-list-table-row")
	if err != nil {
		return nil, fmt.Errorf("查找课程行失败: %w", err)
	}

	courses := make([]models.Course, 0, len(rows))
	seen := make(map[string]bool)

	for i, rowEl := range rows {
		row, err := extractCourseRow(rowEl)
		if err != nil {
			// 单行畸形不丢掉其余行
			utils.Warnf("解析课程行失败 (第%d行): %v", i+1, err)
			continue
		}

		course, skipReason := evaluateCourseRow(row, currentTerm, config.Portal.CanvasURL, seen)
		if course == nil {
			utils.Debugf("跳过课程行 (第%d行): %s", i+1, skipReason)
			continue
		}

		courses = append(courses, *course)
	}

	utils.Infof("找到 %d 门 %s 课程", len(courses), currentTerm)
	return courses, nil
}

// extractCourseRow 从行元素中提取原始字段
// 提取过程被rod.Try包裹,任何DOM异常都转为该行的错误
func extractCourseRow(rowEl *rod.Element) (courseRow, error) {
	var row courseRow

	err := rod.Try(func() {
		termEl, err := rowEl.Element("td.course-list-term-column")
		if err == nil {
			row.Term = termEl.MustText()
		}

		linkEl, err := rowEl.Element("td.course-list-course-title-column a")
		if err != nil {
			return
		}

		if href, err := linkEl.Attribute("href"); err == nil && href != nil {
			row.Href = *href
		}

		// 标题优先取name子元素,退回链接全文
		if nameEl, err := linkEl.Element("span.name"); err == nil {
			row.Name = nameEl.MustText()
		} else {
			row.Name = linkEl.MustText()
		}
	})

	return row, err
}
