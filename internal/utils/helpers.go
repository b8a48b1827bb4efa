package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// pathHostileChars 路径敌对字符集
// 课程名称和周次标题落盘前必须剥离这些字符
// 注意: 不对下载源给出的建议文件名做清洗,建议文件名原样使用
const pathHostileChars = `\/*?:"<>|`

// SanitizeName 剥离路径敌对字符
// 两个不同的原始名称清洗后相同时,视为同一目录(可接受的碰撞,不是错误)
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if strings.ContainsRune(pathHostileChars, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// EnsureDir 确保目录存在
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建目录失败 %s: %w", dir, err)
	}
	return nil
}

// FileExists 检查文件是否存在
// 去重的唯一依据: 目标路径存在即跳过,不做内容哈希比较
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// CommitDownload 将临时下载文件落位到目标目录
// 文件名使用下载源给出的建议名,原样不清洗
// 返回值: saved=false 表示同名文件已存在,临时文件被丢弃(幂等保证)
func CommitDownload(tmpPath, targetDir, filename string) (saved bool, err error) {
	destPath := filepath.Join(targetDir, filename)
	if FileExists(destPath) {
		// 同名文件已存在,丢弃本次下载
		_ = os.Remove(tmpPath)
		return false, nil
	}
	if err := EnsureDir(targetDir); err != nil {
		return false, err
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		// 跨文件系统时Rename会失败,退回到拷贝
		data, readErr := os.ReadFile(tmpPath)
		if readErr != nil {
			return false, fmt.Errorf("移动下载文件失败: %w", err)
		}
		if writeErr := os.WriteFile(destPath, data, 0644); writeErr != nil {
			return false, fmt.Errorf("写入下载文件失败: %w", writeErr)
		}
		_ = os.Remove(tmpPath)
	}
	return true, nil
}

// LastPathSegment 取URL路径的最后一段(用于从URL猜测文件名)
func LastPathSegment(rawURL string) string {
	trimmed := strings.TrimRight(rawURL, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}
