package main

import (
	"fmt"
	"net/url"

	"github.com/lmsgrab/lmsgrab/internal/core"
)

// ValidateFlags 验证合并后的运行配置
func ValidateFlags(config *core.Config) error {
	if err := validatePortalURL(config.Portal.BaseURL, "portal.base_url"); err != nil {
		return err
	}
	if err := validatePortalURL(config.Portal.CoursesURL, "portal.courses_url"); err != nil {
		return err
	}

	if err := config.Crawl.Validate(); err != nil {
		return fmt.Errorf("爬取配置无效: %w", err)
	}

	return nil
}

// validatePortalURL 验证门户URL格式
func validatePortalURL(rawURL, name string) error {
	if rawURL == "" {
		return fmt.Errorf("%s 不能为空", name)
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s 格式无效: %w", name, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s 必须是http或https协议, 当前值: %s", name, rawURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s 缺少主机名: %s", name, rawURL)
	}
	return nil
}
