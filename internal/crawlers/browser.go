package crawlers

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/lmsgrab/lmsgrab/internal/models"
	"github.com/lmsgrab/lmsgrab/internal/utils"
)

// LaunchBrowser 启动一个独立的浏览器进程并建立连接
// 每个执行单元都拥有自己的浏览器实例,单元之间不共享任何活动句柄
func LaunchBrowser(headless bool) (*rod.Browser, error) {
	l := launcher.New().Headless(headless)

	// 校内自签名证书场景下跳过证书验证
	l = l.Set("ignore-certificate-errors")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("启动浏览器失败: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("连接浏览器失败: %w", err)
	}

	utils.Debugf("浏览器已启动: %s", controlURL)
	return browser, nil
}

// LaunchBrowserWithCredential 从会话凭证重建已认证的浏览器
// 凭证只读,注入的是凭证Cookie的拷贝
func LaunchBrowserWithCredential(headless bool, cred *models.SessionCredential) (*rod.Browser, error) {
	if err := cred.Validate(); err != nil {
		return nil, fmt.Errorf("会话凭证无效: %w", err)
	}

	browser, err := LaunchBrowser(headless)
	if err != nil {
		return nil, err
	}

	if err := browser.SetCookies(cred.CookieParams()); err != nil {
		browser.MustClose()
		return nil, fmt.Errorf("注入会话Cookie失败: %w", err)
	}

	return browser, nil
}

// CloseBrowser 关闭浏览器,吞掉关闭过程中的panic
// 单元收尾阶段的清理失败不应影响结果上报
func CloseBrowser(browser *rod.Browser) {
	if browser == nil {
		return
	}
	if err := rod.Try(func() { browser.MustClose() }); err != nil {
		utils.Debugf("关闭浏览器时出错(忽略): %v", err)
	}
}

// VisibleElement 在超时内查找第一个可见的匹配元素
// 未找到或不可见均返回错误,调用方按软失败处理
func VisibleElement(page *rod.Page, selector string, timeout time.Duration) (*rod.Element, error) {
	el, err := page.Timeout(timeout).Element(selector)
	if err != nil {
		return nil, err
	}
	visible, err := el.Visible()
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, fmt.Errorf("元素不可见: %s", selector)
	}
	return el, nil
}

// VisibleElementR 在超时内按文本正则查找第一个可见元素
func VisibleElementR(page *rod.Page, selector, jsRegex string, timeout time.Duration) (*rod.Element, error) {
	el, err := page.Timeout(timeout).ElementR(selector, jsRegex)
	if err != nil {
		return nil, err
	}
	visible, err := el.Visible()
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, fmt.Errorf("元素不可见: %s %s", selector, jsRegex)
	}
	return el, nil
}

// ClickElement 左键单击元素
func ClickElement(el *rod.Element) error {
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// ClickByText 按精确文本查找可见元素并单击
func ClickByText(page *rod.Page, text string, timeout time.Duration) error {
	el, err := VisibleElementR(page, "a, button, span, div", exactTextRegex(text), timeout)
	if err != nil {
		return err
	}
	return ClickElement(el)
}

// exactTextRegex 构造精确匹配的JS正则
func exactTextRegex(text string) string {
	return "/^" + text + "$/"
}

// WaitSettle 固定的页面稳定等待
// 站点的折叠动画和延迟加载没有可靠的完成信号,只能按时长等待
func WaitSettle(seconds int) {
	if seconds > 0 {
		time.Sleep(time.Duration(seconds) * time.Second)
	}
}
