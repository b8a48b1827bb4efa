package core

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lmsgrab/lmsgrab/internal/crawlers"
	"github.com/lmsgrab/lmsgrab/internal/models"
	"github.com/lmsgrab/lmsgrab/internal/utils"
)

// courseWorker 处理一门课程的执行单元
// 抽象成函数类型以便在测试中注入故障单元
type courseWorker func(course models.Course, cred *models.SessionCredential) models.CourseResult

// Coordinator 爬取协调器
// 每门课程fan-out一个独立执行单元,单元间唯一共享的是不可变的
// 会话凭证; 输出目录按课程名分区,单元间不存在写冲突
type Coordinator struct {
	config *Config
	worker courseWorker
}

// NewCoordinator 创建协调器
func NewCoordinator(config *Config) *Coordinator {
	c := &Coordinator{config: config}
	c.worker = c.runCourseUnit
	return c
}

// RunAll 并行处理全部课程
// 等待所有单元结束后返回汇总; 单个单元的失败(含panic)被限制在
// 单元边界内,不取消兄弟单元,也不改变整体进程的成功信号
func (c *Coordinator) RunAll(courses []models.Course, cred *models.SessionCredential) *models.RunStats {
	stats := &models.RunStats{
		RunID:        uuid.New().String(),
		Term:         CurrentTerm(time.Now()),
		TotalCourses: len(courses),
		StartedAt:    time.Now(),
	}

	if len(courses) == 0 {
		utils.Warn("没有需要处理的课程")
		return stats
	}

	utils.Infof("🚀 启动 %d 个课程执行单元 (运行ID: %s)", len(courses), stats.RunID)
	CheckWorkerCapacity(len(courses))

	bar := utils.NewProgressBar(len(courses), "课程进度")
	results := make(chan models.CourseResult, len(courses))

	var wg sync.WaitGroup
	for _, course := range courses {
		wg.Add(1)
		go func(course models.Course) {
			defer wg.Done()
			results <- c.safeRun(course, cred)
			_ = bar.Add(1)
		}(course)
	}

	wg.Wait()
	close(results)

	for result := range results {
		stats.Add(result)
	}
	stats.Duration = time.Since(stats.StartedAt).Seconds()

	c.logSummary(stats)

	reporter := utils.NewReporter(c.config.Crawl.ReportDir)
	if err := reporter.GenerateRunReport(stats); err != nil {
		utils.Warnf("生成运行报告失败: %v", err)
	}

	return stats
}

// safeRun 单元边界
// panic在这里被捕获并转为失败结果,绝不外溢到兄弟单元
func (c *Coordinator) safeRun(course models.Course, cred *models.SessionCredential) (result models.CourseResult) {
	defer func() {
		if r := recover(); r != nil {
			utils.Errorf("课程单元panic [%s]: %v", course.Name, r)
			result = models.CourseResult{
				Course: course,
				Status: models.CourseStatusFailed,
				Error:  fmt.Sprintf("panic: %v", r),
			}
		}
	}()
	return c.worker(course, cred)
}

// runCourseUnit 一门课程的完整处理
// 从凭证重建自己的浏览器,跑完提取和逐条目下载,无论结果如何
// 都在收尾时拆除浏览器
func (c *Coordinator) runCourseUnit(course models.Course, cred *models.SessionCredential) models.CourseResult {
	startTime := time.Now()
	result := models.CourseResult{Course: course}

	utils.Infof("[单元] 开始处理: %s", course.Name)

	browser, err := crawlers.LaunchBrowserWithCredential(c.config.Crawl.Headless, cred)
	if err != nil {
		result.Status = models.CourseStatusFailed
		result.Error = err.Error()
		utils.Errorf("[单元] 重建会话失败 [%s]: %v", course.Name, err)
		return result
	}
	defer crawlers.CloseBrowser(browser)

	page, err := browser.Page(defaultPageOpts())
	if err != nil {
		result.Status = models.CourseStatusFailed
		result.Error = err.Error()
		return result
	}

	extractor := crawlers.NewModuleExtractor(c.config.Crawl, c.config.Portal.CanvasURL)
	items, err := extractor.ExtractItems(page, course)
	if err != nil {
		// 入口未找到等导航错误: 跳过该课程,不影响其他单元
		result.Status = models.CourseStatusFailed
		result.Error = err.Error()
		result.Duration = time.Since(startTime).Seconds()
		utils.Errorf("[单元] 提取失败 [%s]: %v", course.Name, err)
		return result
	}

	result.Items = len(items)
	if len(items) == 0 {
		result.Status = models.CourseStatusNoItems
		result.Duration = time.Since(startTime).Seconds()
		return result
	}

	resolver, err := crawlers.NewAttachmentResolver(browser, c.config.Crawl, c.config.Portal.CanvasURL)
	if err != nil {
		result.Status = models.CourseStatusFailed
		result.Error = err.Error()
		result.Duration = time.Since(startTime).Seconds()
		return result
	}
	defer resolver.Close()

	for _, item := range items {
		utils.Infof("[单元] 处理条目 [%s] %s", item.Week, item.Name)
		downloaded, skipped := resolver.ResolveAndDownload(page, item, course.Name)
		result.Downloaded += downloaded
		result.Skipped += skipped
	}

	result.Status = models.CourseStatusCompleted
	result.Duration = time.Since(startTime).Seconds()
	utils.Infof("[单元] 完成: %s (新下载%d, 跳过%d)", course.Name, result.Downloaded, result.Skipped)
	return result
}

// logSummary 汇总日志
func (c *Coordinator) logSummary(stats *models.RunStats) {
	utils.Infof("==================================================")
	utils.Infof("📊 运行汇总 (%s)", stats.Term)
	utils.Infof("课程总数: %d (完成%d / 零条目%d / 失败%d)",
		stats.TotalCourses, stats.CompletedCount, stats.NoItemsCount, stats.FailedCount)
	utils.Infof("条目总数: %d", stats.TotalItems)
	utils.Infof("新下载文件: %d, 已存在跳过: %d", stats.TotalDownloads, stats.TotalSkipped)
	utils.Infof("总耗时: %.2f秒", stats.Duration)

	for _, r := range stats.Results {
		switch r.Status {
		case models.CourseStatusFailed:
			utils.Errorf("  ❌ %s: %s", r.Course.Name, r.Error)
		case models.CourseStatusNoItems:
			utils.Warnf("  ⚠️  %s: 未提取到条目(见诊断截图)", r.Course.Name)
		default:
			utils.Infof("  ✅ %s: %d条目, 新下载%d", r.Course.Name, r.Items, r.Downloaded)
		}
	}
	utils.Infof("==================================================")
}
