package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/lmsgrab/lmsgrab/internal/utils"
)

// PreflightResult 门户预检结果
type PreflightResult struct {
	StatusCode int    // 门户首页HTTP状态码
	Title      string // 页面标题
	HasSSOLink bool   // 是否找到统一登录入口标记
}

// Preflight 门户可达性预检
// 在付出浏览器启动成本之前,用纯HTTP请求确认门户可达、
// 统一登录入口存在; 只读检查,不携带凭证
func Preflight(portalURL string) (*PreflightResult, error) {
	result := &PreflightResult{}

	c := colly.NewCollector()
	c.SetRequestTimeout(15 * time.Second)

	c.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
	})

	c.OnHTML("html", func(e *colly.HTMLElement) {
		result.Title = strings.TrimSpace(e.DOM.Find("title").First().Text())
		result.HasSSOLink = hasSSOEntry(e.DOM)
	})

	if err := c.Visit(portalURL); err != nil {
		return nil, fmt.Errorf("门户预检请求失败: %w", err)
	}
	c.Wait()

	utils.Infof("门户预检: HTTP %d, 标题=%q, 登录入口=%v",
		result.StatusCode, result.Title, result.HasSSOLink)

	if result.StatusCode >= 400 {
		return result, fmt.Errorf("门户返回错误状态码: %d", result.StatusCode)
	}
	return result, nil
}

// hasSSOEntry 在文档中查找统一登录入口
// 主标记为已知class,退回按链接文本匹配
func hasSSOEntry(doc *goquery.Selection) bool {
	if doc.Find("a.xn-sso-login-btn").Length() > 0 {
		return true
	}

	found := false
	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(strings.TrimSpace(s.Text()), "통합 로그인") {
			found = true
			return false
		}
		return true
	})
	return found
}
