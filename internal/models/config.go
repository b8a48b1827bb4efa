package models

import "fmt"

// CrawlConfig 爬取配置
// 所有等待点都是有界挂起: 超时与"功能不存在"在大多数调用点不做区分,
// 两者都按软失败处理,记录日志后跳过所在步骤
type CrawlConfig struct {
	Headless        bool   `json:"headless"`         // 无头模式 (默认:true)
	WaitTime        int    `json:"wait_time"`        // 页面稳定等待时间(秒) (默认:2)
	LoginTimeout    int    `json:"login_timeout"`    // 登录表单等待超时(秒) (默认:10)
	FrameTimeout    int    `json:"frame_timeout"`    // 内嵌框架等待超时(秒) (默认:8)
	VisibleTimeout  int    `json:"visible_timeout"`  // 控件可见性等待超时(秒) (默认:2)
	DownloadTimeout int    `json:"download_timeout"` // 单次下载等待超时(秒) (默认:10)
	DownloadDir     string `json:"download_dir"`     // 下载根目录 (默认:downloads)
	DebugDir        string `json:"debug_dir"`        // 诊断截图目录 (默认:debug_screenshots)
	ReportDir       string `json:"report_dir"`       // 运行报告目录 (默认:reports)
}

// Validate 验证配置
func (c *CrawlConfig) Validate() error {
	if c.WaitTime < 0 || c.WaitTime > 60 {
		return fmt.Errorf("等待时间必须在0-60秒之间")
	}
	if c.LoginTimeout < 1 || c.LoginTimeout > 120 {
		return fmt.Errorf("登录超时必须在1-120秒之间")
	}
	if c.FrameTimeout < 1 || c.FrameTimeout > 60 {
		return fmt.Errorf("框架等待超时必须在1-60秒之间")
	}
	if c.DownloadTimeout < 1 || c.DownloadTimeout > 300 {
		return fmt.Errorf("下载超时必须在1-300秒之间")
	}
	if c.DownloadDir == "" {
		return fmt.Errorf("下载目录不能为空")
	}
	return nil
}
