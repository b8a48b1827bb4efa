package core

import (
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/lmsgrab/lmsgrab/internal/crawlers"
	"github.com/lmsgrab/lmsgrab/internal/models"
	"github.com/lmsgrab/lmsgrab/internal/utils"
)

// SessionProvider 会话提供者
// 驱动一次完整的SSO登录流程,并导出可序列化的会话凭证
// 导出的凭证是唯一跨越并发边界的状态
type SessionProvider struct {
	config  *Config
	browser *rod.Browser
	page    *rod.Page
}

// loginStep 登录步骤
// 每个步骤显式声明是否必需: 可选步骤缺席(含超时)按跳过处理,
// 必需步骤失败则整个登录流程以认证错误终止
type loginStep struct {
	name     string
	required bool
	run      func() error
}

// NewSessionProvider 创建会话提供者
func NewSessionProvider(config *Config) *SessionProvider {
	return &SessionProvider{config: config}
}

// Login 执行登录流程
// 失败返回认证错误(对整个运行致命)
func (sp *SessionProvider) Login() error {
	redactor := utils.NewCredentialRedactor()
	utils.Infof("🔐 开始登录: %s (用户: %s)",
		sp.config.Portal.BaseURL, redactor.RedactUserID(sp.config.Credentials.UserID))

	browser, err := crawlers.LaunchBrowser(sp.config.Crawl.Headless)
	if err != nil {
		return models.AuthError("无法启动登录浏览器: %v", err)
	}
	sp.browser = browser

	page, err := browser.Page(defaultPageOpts())
	if err != nil {
		return models.AuthError("无法创建登录页面: %v", err)
	}
	sp.page = page

	if err := runLoginSteps(sp.loginSteps()); err != nil {
		return err
	}

	utils.Info("✅ 登录流程完成")
	return nil
}

// ExportCredential 导出当前会话的不可变凭证
// 必须在课程发现之后调用: 访问课程站点会补齐该域下的会话Cookie,
// 过早导出会让执行单元拿到不完整的认证状态
func (sp *SessionProvider) ExportCredential() (*models.SessionCredential, error) {
	if sp.browser == nil {
		return nil, models.AuthError("会话尚未建立")
	}

	cookies, err := sp.browser.GetCookies()
	if err != nil {
		return nil, models.AuthError("导出Cookie失败: %v", err)
	}

	cred := models.NewSessionCredential(cookies, sp.config.Portal.BaseURL)
	if err := cred.Validate(); err != nil {
		return nil, models.AuthError("未得到有效会话: %v", err)
	}

	utils.Infof("已导出会话凭证 (%d个Cookie)", len(cred.Cookies))
	return cred, nil
}

// Page 返回登录会话的活动页面
// 仅供课程发现在fan-out之前顺序使用,不得跨单元共享
func (sp *SessionProvider) Page() *rod.Page {
	return sp.page
}

// Close 关闭登录浏览器
func (sp *SessionProvider) Close() {
	crawlers.CloseBrowser(sp.browser)
	sp.browser = nil
	sp.page = nil
}

// runLoginSteps 按声明的策略执行步骤序列
// 可选步骤的失败降级为调试日志,必需步骤的失败终止流程
func runLoginSteps(steps []loginStep) error {
	for _, step := range steps {
		err := step.run()
		if err == nil {
			utils.Debugf("登录步骤完成: %s", step.name)
			continue
		}
		if step.required {
			return models.AuthError("登录步骤失败 [%s]: %v", step.name, err)
		}
		utils.Debugf("可选登录步骤跳过 [%s]: %v", step.name, err)
	}
	return nil
}

// defaultPageOpts 创建空白页面的目标参数
func defaultPageOpts() proto.TargetCreateTarget {
	return proto.TargetCreateTarget{URL: "about:blank"}
}

// loginSteps 登录流程的策略表
func (sp *SessionProvider) loginSteps() []loginStep {
	cfg := sp.config.Crawl
	loginTimeout := time.Duration(cfg.LoginTimeout) * time.Second
	shortTimeout := time.Duration(cfg.VisibleTimeout) * time.Second

	return []loginStep{
		{
			name:     "打开门户首页",
			required: true,
			run: func() error {
				if err := sp.page.Navigate(sp.config.Portal.BaseURL); err != nil {
					return err
				}
				return sp.page.WaitLoad()
			},
		},
		{
			name:     "关闭公告弹窗",
			required: false,
			run: func() error {
				return crawlers.ClickByText(sp.page, "닫기", shortTimeout)
			},
		},
		{
			name:     "进入统一登录",
			required: true,
			run: func() error {
				// 优先主选择器,退回文本匹配
				if el, err := crawlers.VisibleElement(sp.page, "a.xn-sso-login-btn", shortTimeout); err == nil {
					return crawlers.ClickElement(el)
				}
				return crawlers.ClickByText(sp.page, "통합 로그인", loginTimeout)
			},
		},
		{
			name:     "等待账号输入框",
			required: false, // 部分流程会直接落在凭证页,缺席不致命
			run: func() error {
				_, err := sp.page.Timeout(loginTimeout).Element("#userid")
				return err
			},
		},
		{
			name:     "填写凭证",
			required: true,
			run: func() error {
				idField, err := sp.page.Timeout(loginTimeout).Element("#userid")
				if err != nil {
					return err
				}
				if err := idField.Input(sp.config.Credentials.UserID); err != nil {
					return err
				}
				pwField, err := sp.page.Timeout(loginTimeout).Element("#pwd")
				if err != nil {
					return err
				}
				return pwField.Input(sp.config.Credentials.UserPW)
			},
		},
		{
			name:     "提交登录",
			required: true,
			run: func() error {
				if el, err := crawlers.VisibleElement(sp.page, "a.btn_login", shortTimeout); err == nil {
					return crawlers.ClickElement(el)
				}
				return crawlers.ClickByText(sp.page, "로그인", loginTimeout)
			},
		},
		{
			name:     "等待登录完成",
			required: true,
			run: func() error {
				wait := sp.page.Timeout(loginTimeout).WaitRequestIdle(
					time.Second, nil, nil, nil)
				wait()
				return nil
			},
		},
		{
			name:     "关闭登录后弹窗",
			required: false,
			run: func() error {
				return crawlers.ClickByText(sp.page, "닫기", shortTimeout)
			},
		},
	}
}
