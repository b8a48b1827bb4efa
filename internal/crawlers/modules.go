package crawlers

import (
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/lmsgrab/lmsgrab/internal/models"
	"github.com/lmsgrab/lmsgrab/internal/utils"
)

// entryLabels 周次学习入口的候选标签,按优先级排列
// 不同院系的课程主页用词不一,第一个可见的精确匹配胜出
var entryLabels = []string{"주차학습", "강의콘텐츠", "Modules", "강의자료"}

// expandAllSelectors 一键展开控件的已知变体
// 同一功能在不同UI版本下有多个外观变体,逐个尝试,首个可见即停
var expandAllSelectors = []string{
	"button.xnmb-all_fold-btn",
	"button.xncb-fold-toggle-button",
}

// expandAllTexts 一键展开控件的文本变体
var expandAllTexts = []string{"모두 펼치기", "모든 주차 펴기"}

// 扫描选择器: 周次标题元素与条目元素合并为一次文档顺序扫描
// 标题与条目在拍平后的扫描里是兄弟关系,周次归属完全由先后位置决定
const (
	headerClass  = "xnmb-module-left-wrapper"
	itemClass    = "xnmb-module_item-left-title"
	scanSelector = "div." + headerClass + ", a." + itemClass
)

// toolContentFrame 第三方内容框架的标识
const toolContentFrame = "iframe[name='tool_content']"

// scanNode 扫描层产出的类型化节点
// 提取出DOM无关的字段,归周逻辑成为对节点流的单遍折叠
type scanNode struct {
	Class string // class属性,用于分类
	Aria  string // aria-label(标题元素取周次的首选来源)
	Text  string // 可见文本
	Href  string // href属性(条目元素必需)
}

// ModuleExtractor 周次模块提取器
// 展开课程的周次结构,把标题/条目的拍平序列线性化为有序条目列表
type ModuleExtractor struct {
	cfg        models.CrawlConfig
	canvasBase string
}

// NewModuleExtractor 创建模块提取器
func NewModuleExtractor(cfg models.CrawlConfig, canvasBase string) *ModuleExtractor {
	return &ModuleExtractor{cfg: cfg, canvasBase: canvasBase}
}

// ExtractItems 提取一门课程的全部学习条目
// 入口未找到返回导航错误(调用方跳过该课程); 提取到0个条目不是错误,
// 但会留下诊断截图供事后排查
func (me *ModuleExtractor) ExtractItems(page *rod.Page, course models.Course) ([]models.ModuleItem, error) {
	utils.Infof("📖 处理课程: %s", course.Name)

	if err := page.Navigate(course.URL); err != nil {
		return nil, models.NavigationError("打开课程页面失败 [%s]: %v", course.Name, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, models.NavigationError("课程页面加载失败 [%s]: %v", course.Name, err)
	}

	if err := me.openWeeklyContent(page); err != nil {
		SaveSnapshot(page, me.cfg.DebugDir, course.Name, "no_link")
		return nil, models.NavigationError("未找到周次学习入口 [%s]: %v", course.Name, err)
	}

	working := me.resolveWorkingPage(page)

	me.expandAllSections(working)

	nodes := me.scanNodes(working)
	items := assembleItems(nodes)

	utils.Infof("课程 [%s] 提取到 %d 个条目", course.Name, len(items))

	if len(items) == 0 {
		// 0条目要与"有条目但无附件"区分开,留截图并告警
		utils.Warnf("课程 [%s] 未提取到任何条目", course.Name)
		SaveSnapshot(page, me.cfg.DebugDir, course.Name, "no_items")
	}

	return items, nil
}

// openWeeklyContent 查找并点击周次学习入口
func (me *ModuleExtractor) openWeeklyContent(page *rod.Page) error {
	timeout := time.Duration(me.cfg.VisibleTimeout) * time.Second

	var entry *rod.Element
	var label string
	for _, candidate := range entryLabels {
		el, err := VisibleElementR(page, "a, button, span, div", exactTextRegex(candidate), timeout)
		if err == nil {
			entry = el
			label = candidate
			break
		}
	}
	if entry == nil {
		return models.NavigationError("所有入口候选标签均未命中")
	}

	utils.Debugf("找到入口: %s", label)
	return ClickElement(entry)
}

// resolveWorkingPage 决定提取上下文
// 内容挂在第三方框架里则切换到框架;框架在限时内未出现不是错误,
// 继续在主页面上提取
func (me *ModuleExtractor) resolveWorkingPage(page *rod.Page) *rod.Page {
	frameTimeout := time.Duration(me.cfg.FrameTimeout) * time.Second

	frameEl, err := page.Timeout(frameTimeout).Element(toolContentFrame)
	if err == nil {
		frame, ferr := frameEl.Frame()
		if ferr == nil {
			utils.Debug("检测到tool_content框架,切换提取上下文")
			// 等待框架内的周次结构渲染完成
			if _, werr := frame.Timeout(frameTimeout).Element("div[aria-label*='주차']"); werr != nil {
				utils.Debugf("等待框架内周次结构超时(继续): %v", werr)
			}
			return frame
		}
		utils.Debugf("进入tool_content框架失败(使用主页面): %v", ferr)
	} else {
		utils.Debug("未检测到tool_content框架,使用主页面")
	}

	wait := page.Timeout(frameTimeout).WaitRequestIdle(time.Second, nil, nil, nil)
	wait()
	return page
}

// expandAllSections 展开全部折叠的周次
// 先尝试一键展开控件的各个变体,全部缺席时退回逐标题展开
func (me *ModuleExtractor) expandAllSections(working *rod.Page) {
	timeout := time.Duration(me.cfg.VisibleTimeout) * time.Second

	for _, sel := range expandAllSelectors {
		if el, err := VisibleElement(working, sel, timeout); err == nil {
			utils.Debugf("找到一键展开控件: %s", sel)
			if err := ClickElement(el); err == nil {
				WaitSettle(me.cfg.WaitTime)
				return
			}
		}
	}
	for _, text := range expandAllTexts {
		if el, err := VisibleElementR(working, "button", exactTextRegex(text), timeout); err == nil {
			utils.Debugf("找到一键展开控件(文本): %s", text)
			if err := ClickElement(el); err == nil {
				WaitSettle(me.cfg.WaitTime)
				return
			}
		}
	}

	utils.Debug("未找到一键展开控件,尝试逐个展开")
	me.expandHeadersIndividually(working)
}

// expandHeadersIndividually 逐标题展开
// 只点击带折叠指示图标的标题,点击间留短暂稳定间隔
func (me *ModuleExtractor) expandHeadersIndividually(working *rod.Page) {
	headers, err := working.Elements("div[aria-label*='주차']")
	if err != nil {
		utils.Debugf("查找周次标题失败: %v", err)
		return
	}

	for _, header := range headers {
		err := rod.Try(func() {
			collapsed := false
			if _, err := header.Element("i.fa-caret-right"); err == nil {
				collapsed = true
			} else if _, err := header.Element("i.icon-solid.fa-caret-right"); err == nil {
				collapsed = true
			}
			if collapsed {
				header.MustClick()
				time.Sleep(200 * time.Millisecond)
			}
		})
		if err != nil {
			utils.Debugf("展开单个周次失败(跳过): %v", err)
		}
	}
	WaitSettle(1)
}

// scanNodes 对标题类和条目类元素做一次文档顺序扫描
// 单个元素的分类失败被逐个捕获,不截断剩余扫描
func (me *ModuleExtractor) scanNodes(working *rod.Page) []scanNode {
	elements, err := working.Elements(scanSelector)
	if err != nil {
		utils.Warnf("扫描模块元素失败: %v", err)
		return nil
	}

	nodes := make([]scanNode, 0, len(elements))
	for _, el := range elements {
		var node scanNode
		err := rod.Try(func() {
			if class, err := el.Attribute("class"); err == nil && class != nil {
				node.Class = *class
			}
			if aria, err := el.Attribute("aria-label"); err == nil && aria != nil {
				node.Aria = *aria
			}
			node.Text = el.MustText()
			if href, err := el.Attribute("href"); err == nil && href != nil {
				node.Href = *href
			}
		})
		if err != nil {
			utils.Debugf("扫描单个元素失败(跳过): %v", err)
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// assembleItems 把类型化节点流折叠为有序条目列表
// 携带单一状态(currentWeek)的单遍折叠: 标题更新周次,其后的每个条目
// 都归入最近一次出现的周次,直到下一个标题; 无标题时使用哨兵周次
func assembleItems(nodes []scanNode) []models.ModuleItem {
	currentWeek := models.UnknownWeek
	items := make([]models.ModuleItem, 0, len(nodes))

	for _, node := range nodes {
		switch {
		case strings.Contains(node.Class, headerClass):
			if label := headerLabel(node); label != "" {
				currentWeek = label
			}
		case strings.Contains(node.Class, itemClass):
			if node.Href == "" {
				continue
			}
			items = append(items, models.ModuleItem{
				Name: strings.TrimSpace(node.Text),
				URL:  node.Href,
				Week: currentWeek,
			})
		}
	}
	return items
}

// headerLabel 取标题的周次标签
// aria-label优先,缺席时取可见文本的第一行
func headerLabel(node scanNode) string {
	if label := strings.TrimSpace(node.Aria); label != "" {
		return label
	}
	text := strings.TrimSpace(node.Text)
	if text == "" {
		return ""
	}
	lines := strings.SplitN(text, "\n", 2)
	return strings.TrimSpace(lines[0])
}
