package core

import (
	"github.com/lmsgrab/lmsgrab/internal/utils"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// browserMemoryEstimate 单个浏览器进程的内存估算(字节)
// 经验值: 一个无头Chromium实例加一个活动页面大约消耗300~500MB
const browserMemoryEstimate = 400 * 1024 * 1024

// CheckWorkerCapacity fan-out前的资源预检
// 每门课程一个浏览器进程是固定策略,这里只做预警不做限流:
// 主机看起来装不下N个浏览器时提前给出警告,方便用户解读后续的失败
func CheckWorkerCapacity(units int) {
	vmStat, err := mem.VirtualMemory()
	if err != nil {
		utils.Debugf("获取系统内存失败(跳过资源预检): %v", err)
		return
	}

	needed := uint64(units) * browserMemoryEstimate
	if vmStat.Available < needed {
		utils.Warnf("⚠️  可用内存 %.1f GB,%d个浏览器实例估算需要 %.1f GB,可能出现启动失败或变慢",
			float64(vmStat.Available)/(1024*1024*1024),
			units,
			float64(needed)/(1024*1024*1024))
	} else {
		utils.Debugf("资源预检通过: 可用内存 %.1f GB / 估算需要 %.1f GB",
			float64(vmStat.Available)/(1024*1024*1024),
			float64(needed)/(1024*1024*1024))
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 && percents[0] > 90 {
		utils.Warnf("⚠️  当前CPU负载 %.0f%%,并行爬取可能变慢", percents[0])
	}
}
