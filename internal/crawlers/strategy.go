package crawlers

import "github.com/lmsgrab/lmsgrab/internal/utils"

// StrategyResult 一次策略命中的产出
// Downloaded 与 Skipped 分开计数: 已存在的同名文件算命中但不算新下载
type StrategyResult struct {
	Strategy   string // 命中的策略名
	Downloaded int    // 新落盘文件数
	Skipped    int    // 因已存在而跳过的文件数
}

// Strategy 下载策略
// 统一契约: Attempt返回nil表示该策略未命中(比如页面上没有这类控件),
// 返回错误表示策略执行失败; 两者都落入下一个策略
type Strategy interface {
	Name() string
	Attempt(weekDir string) (*StrategyResult, error)
}

// runStrategies 按序执行策略列表,首个命中即短路
// 策略执行失败记日志后继续,失败不会截断策略链
func runStrategies(strategies []Strategy, weekDir string) *StrategyResult {
	for _, s := range strategies {
		result, err := s.Attempt(weekDir)
		if err != nil {
			utils.Warnf("策略执行失败 [%s]: %v", s.Name(), err)
			continue
		}
		if result != nil {
			result.Strategy = s.Name()
			utils.Debugf("策略命中 [%s]: 新下载%d, 跳过%d", s.Name(), result.Downloaded, result.Skipped)
			return result
		}
	}
	return nil
}
