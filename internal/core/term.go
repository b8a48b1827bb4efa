package core

import (
	"fmt"
	"time"
)

// CurrentTerm 根据当前日期计算活动学期标签
// 该校的学期划分是固定约定,不可配置:
//   - 2月~7月: 当年1学期
//   - 8月~12月: 当年2学期
//   - 1月: 上一年2学期
func CurrentTerm(now time.Time) string {
	year := now.Year()
	month := int(now.Month())

	semester := 2
	if month >= 2 && month <= 7 {
		semester = 1
	} else if month == 1 {
		year--
	}

	return fmt.Sprintf("%d년 %d학기", year, semester)
}
