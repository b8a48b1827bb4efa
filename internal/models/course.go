package models

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// UnknownWeek 周次哨兵值
// 在扫描到第一个周次标题之前,所有条目归入该周次
const UnknownWeek = "Unknown_Week"

// courseNamePattern 课程名称模式: "<标题> (<数字代码>)"
// 用于过滤没有课程代码的系统页面(新生指南、公告板等)
var courseNamePattern = regexp.MustCompile(`.+ \(\d+\)`)

// digitPattern URL中必须包含数字(课程ID)
var digitPattern = regexp.MustCompile(`\d`)

// Course 一门课程
// 由课程发现器创建,创建后不可变,生命周期为一次运行
// 身份标识 = URL
type Course struct {
	Name string `json:"name"` // 课程名称,形如 "자료구조 (12345)"
	URL  string `json:"url"`  // 绝对URL,已去重
}

// ValidCourseName 检查课程名称是否符合 "<标题> (<数字代码>)" 模式
func ValidCourseName(name string) bool {
	return courseNamePattern.MatchString(name)
}

// ValidCourseHref 检查链接是否指向课程页面
// 要求包含课程路径段且至少有一个数字
func ValidCourseHref(href string) bool {
	return strings.Contains(href, "/courses/") && digitPattern.MatchString(href)
}

// ModuleItem 学习条目
// Week 字段携带最近一次扫描到的周次标题,扫描顺序决定归属
type ModuleItem struct {
	Name string `json:"name"` // 条目名称
	URL  string `json:"url"`  // 相对或绝对URL
	Week string `json:"week"` // 所属周次,非空(无标题时为UnknownWeek)
}

// Validate 校验条目的完整性
func (m *ModuleItem) Validate() error {
	if m.URL == "" {
		return fmt.Errorf("条目缺少URL: %s", m.Name)
	}
	if m.Week == "" {
		return fmt.Errorf("条目缺少周次: %s", m.Name)
	}
	return nil
}

// AbsoluteURL 将条目URL规范化为绝对URL
// base 为门户站点根(如 https://canvas.ssu.ac.kr)
func (m *ModuleItem) AbsoluteURL(base string) string {
	return ResolveURL(base, m.URL)
}

// ResolveURL 相对URL转绝对URL,已是绝对URL则原样返回
func ResolveURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}
