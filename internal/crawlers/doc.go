// Package crawlers 提供基于go-rod的课程页面提取与附件下载功能
//
// # 概述
//
// crawlers包驱动真实浏览器完成三件事: 重建已认证的浏览器实例、
// 展开课程的周次模块结构、按多策略下载每个学习条目携带的附件。
// 所有等待点都有超时上界,单个元素/链接/框架的失败被限制在最小
// 包含单元内,不截断兄弟元素的处理。
//
// # 核心组件
//
// ## ModuleExtractor (模块提取器)
//
// 打开课程主页,点击周次学习入口(标签候选按优先级尝试),必要时切入
// tool_content框架,展开全部折叠周次,然后对标题类和条目类元素做一次
// 文档顺序扫描。扫描产出的类型化节点流由assembleItems做单遍折叠:
// 标题更新当前周次,其后的条目依次归入,直到下一个标题。
//
//	extractor := NewModuleExtractor(cfg, canvasBase)
//	items, err := extractor.ExtractItems(page, course)
//
// 入口未找到返回导航错误(调用方跳过该课程并留诊断截图);
// 提取到0个条目不是错误,但同样留截图供事后排查。
//
// ## AttachmentResolver (附件解析器)
//
// 对单个条目页面按序尝试下载策略,首个命中的策略短路其余:
//
//  1. directLinkStrategy: 扫描显式下载链接(下载路径、文件类、扩展名兜底)
//  2. frameDocumentStrategy: 框架地址本身是文档(内联PDF)时间接打开下载
//  3. frameViewerStrategy: 在各框架内查找"下载"控件的已知变体并点击
//
// 下载先落到每单元独立的暂存目录,等浏览器暴露建议文件名后再做
// 存在性判定: 同名文件已存在即丢弃暂存文件计为跳过。同一条目对
// 已填充目录重跑是零写入的。
//
//	resolver, err := NewAttachmentResolver(browser, cfg, canvasBase)
//	defer resolver.Close()
//	downloaded, skipped := resolver.ResolveAndDownload(page, item, courseName)
//
// ## 浏览器辅助
//
// LaunchBrowser / LaunchBrowserWithCredential 负责浏览器进程的启动与
// 会话Cookie注入,每个执行单元一个独立实例,单元间不共享活动句柄。
// VisibleElement / ClickByText 等helpers统一了"限时查找+可见性门控"
// 的元素访问方式。
//
// # 错误处理
//
//   - 单元素扫描失败: rod.Try捕获,跳过该元素继续扫描
//   - 单链接下载失败: 记日志,继续下一个候选链接
//   - 单策略执行失败: 记日志,落入下一个策略
//   - 全部策略未命中: 留诊断截图,按空结果处理
//   - 浏览器关闭失败: 吞掉panic,清理失败不影响结果上报
package crawlers
