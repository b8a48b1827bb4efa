package crawlers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-rod/rod"
	"github.com/lmsgrab/lmsgrab/internal/utils"
)

// SaveSnapshot 保存诊断截图
// 路径: <debugDir>/<清洗后的课程名>/<清洗后的标签>.png
// 截图失败只记日志,诊断手段本身不允许产生新的错误
func SaveSnapshot(page *rod.Page, debugDir, courseName, label string) {
	dir := filepath.Join(debugDir, utils.SanitizeName(courseName))
	if err := utils.EnsureDir(dir); err != nil {
		utils.Warnf("创建诊断目录失败: %v", err)
		return
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.png", utils.SanitizeName(label)))

	data, err := page.Screenshot(false, nil)
	if err != nil {
		utils.Warnf("诊断截图失败 [%s]: %v", path, err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		utils.Warnf("写入诊断截图失败 [%s]: %v", path, err)
		return
	}

	utils.Infof("📸 诊断截图已保存: %s", path)
}
