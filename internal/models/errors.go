package models

import (
	"errors"
	"fmt"
)

// 错误分类
// 传播策略: 错误被限制在最小的包含单元内(元素、链接、条目、课程),
// 只有 ErrConfig / ErrAuth 允许终止整个运行
var (
	// ErrConfig 配置错误(缺少凭证等) - 启动前致命
	ErrConfig = errors.New("配置错误")

	// ErrAuth 登录流程无法完成 - 整个运行致命(没有会话就没有课程)
	ErrAuth = errors.New("认证失败")

	// ErrNavigation 课程内容入口未找到 - 仅跳过该课程
	ErrNavigation = errors.New("导航失败")

	// ErrExtraction 单个元素扫描失败 - 仅跳过该元素,扫描继续
	ErrExtraction = errors.New("提取失败")

	// ErrDownload 单次下载尝试失败 - 落入下一策略或下一条目
	ErrDownload = errors.New("下载失败")
)

// ConfigError 包装配置错误
func ConfigError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

// AuthError 包装认证错误
func AuthError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrAuth, fmt.Sprintf(format, args...))
}

// NavigationError 包装导航错误
func NavigationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNavigation, fmt.Sprintf(format, args...))
}

// ExtractionError 包装提取错误
func ExtractionError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrExtraction, fmt.Sprintf(format, args...))
}

// DownloadError 包装下载错误
func DownloadError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrDownload, fmt.Sprintf(format, args...))
}

// IsFatal 是否为终止整个运行的错误
// 仅配置错误和认证错误允许向上传播到进程边界
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfig) || errors.Is(err, ErrAuth)
}
