package models

import "time"

// CourseStatus 课程处理结果状态
type CourseStatus string

const (
	CourseStatusCompleted CourseStatus = "completed" // 正常完成
	CourseStatusNoItems   CourseStatus = "no_items"  // 提取到0个条目(已留诊断截图)
	CourseStatusFailed    CourseStatus = "failed"    // 单元内未处理的失败
)

// CourseResult 单个课程执行单元的结果
// 用于区分"成功但没有可下载附件"与"什么都没提取到"两种情况
type CourseResult struct {
	Course     Course       `json:"course"`
	Status     CourseStatus `json:"status"`
	Items      int          `json:"items"`      // 提取到的条目数
	Downloaded int          `json:"downloaded"` // 新下载文件数
	Skipped    int          `json:"skipped"`    // 因已存在而跳过的文件数
	Error      string       `json:"error,omitempty"`
	Duration   float64      `json:"duration"` // 耗时(秒)
}

// RunStats 整次运行的统计
type RunStats struct {
	RunID          string         `json:"run_id"` // 运行唯一ID (UUID)
	Term           string         `json:"term"`   // 本次运行的学期标签
	TotalCourses   int            `json:"total_courses"`
	CompletedCount int            `json:"completed_count"`
	NoItemsCount   int            `json:"no_items_count"`
	FailedCount    int            `json:"failed_count"`
	TotalItems     int            `json:"total_items"`
	TotalDownloads int            `json:"total_downloads"`
	TotalSkipped   int            `json:"total_skipped"`
	Duration       float64        `json:"duration"` // 总耗时(秒)
	StartedAt      time.Time      `json:"started_at"`
	Results        []CourseResult `json:"results"`
}

// Add 合并一个课程结果
func (rs *RunStats) Add(result CourseResult) {
	rs.Results = append(rs.Results, result)
	rs.TotalItems += result.Items
	rs.TotalDownloads += result.Downloaded
	rs.TotalSkipped += result.Skipped

	switch result.Status {
	case CourseStatusCompleted:
		rs.CompletedCount++
	case CourseStatusNoItems:
		rs.NoItemsCount++
	case CourseStatusFailed:
		rs.FailedCount++
	}
}
