package crawlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/lmsgrab/lmsgrab/internal/models"
	"github.com/lmsgrab/lmsgrab/internal/utils"
)

// directLinkSelectors 直接下载链接的选择器集合
// 显式下载路径、已知文件下载类,以及按扩展名兜底
var directLinkSelectors = []string{
	"a[href*='/download']",
	"a.file_download_btn",
	"a.instructure_file_link",
	"a[href$='.zip']", "a[href$='.pdf']", "a[href$='.pptx']", "a[href$='.ppt']",
	"a[href$='.docx']", "a[href$='.doc']", "a[href$='.hwp']", "a[href$='.xlsx']", "a[href$='.xls']",
}

// viewerControlSelectors 内嵌查看器里"下载"控件的选择器集合
// 覆盖显式ID/类、本地化的title/aria标签、图标标记和宽泛的类名匹配
var viewerControlSelectors = []string{
	"#doc_viewer_download_link",
	"a.download_link",
	".vc-pctrl-download-btn",
	"[title*='Download']", "[title*='다운로드']",
	"[aria-label*='Download']", "[aria-label*='다운로드']",
	"button:has(i.fa-download)", "a:has(i.fa-download)",
	"button:has(svg[data-icon='download'])",
	"button[class*='download']", "a[class*='download']",
}

// frameDocSuffixes 框架自身地址直接指向文档的已知扩展名
var frameDocSuffixes = []string{".pdf"}

// AttachmentResolver 附件解析器
// 对单个条目页面按序尝试下载策略,首个命中的策略短路其余策略
// 幂等保证: 同一条目对同一已填充目录重跑,零次新写入
type AttachmentResolver struct {
	browser    *rod.Browser
	cfg        models.CrawlConfig
	canvasBase string
	stagingDir string // 浏览器下载的暂存目录,落位前在这里等待
}

// NewAttachmentResolver 创建附件解析器
// 每个执行单元一个实例,暂存目录互不干扰
func NewAttachmentResolver(browser *rod.Browser, cfg models.CrawlConfig, canvasBase string) (*AttachmentResolver, error) {
	stagingDir, err := os.MkdirTemp("", "lmsgrab-staging-*")
	if err != nil {
		return nil, fmt.Errorf("创建下载暂存目录失败: %w", err)
	}
	return &AttachmentResolver{
		browser:    browser,
		cfg:        cfg,
		canvasBase: canvasBase,
		stagingDir: stagingDir,
	}, nil
}

// Close 清理暂存目录
func (ar *AttachmentResolver) Close() {
	if ar.stagingDir != "" {
		_ = os.RemoveAll(ar.stagingDir)
	}
}

// ResolveAndDownload 解析并下载一个条目的全部附件
// 所有策略都未命中时留诊断截图,按空结果处理而不是错误
func (ar *AttachmentResolver) ResolveAndDownload(page *rod.Page, item models.ModuleItem, courseName string) (downloaded, skipped int) {
	weekDir := filepath.Join(ar.cfg.DownloadDir,
		utils.SanitizeName(courseName), utils.SanitizeName(item.Week))
	if err := utils.EnsureDir(weekDir); err != nil {
		utils.Errorf("创建周次目录失败 [%s]: %v", weekDir, err)
		return 0, 0
	}

	itemURL := item.AbsoluteURL(ar.canvasBase)
	if err := page.Navigate(itemURL); err != nil {
		utils.Warnf("打开条目失败 [%s]: %v", item.Name, err)
		return 0, 0
	}
	if err := page.WaitLoad(); err != nil {
		utils.Warnf("条目页面加载失败 [%s]: %v", item.Name, err)
		return 0, 0
	}
	wait := page.Timeout(time.Duration(ar.cfg.FrameTimeout) * time.Second).
		WaitRequestIdle(time.Second, nil, nil, nil)
	wait()

	strategies := []Strategy{
		&directLinkStrategy{ar: ar, page: page},
		&frameDocumentStrategy{ar: ar, page: page},
		&frameViewerStrategy{ar: ar, page: page},
	}

	result := runStrategies(strategies, weekDir)
	if result == nil {
		// 与"成功但没有附件"区分: 留下可核对的截图
		label := fmt.Sprintf("%s_%s", item.Week, utils.LastPathSegment(item.URL))
		SaveSnapshot(page, ar.cfg.DebugDir, courseName, label)
		return 0, 0
	}

	return result.Downloaded, result.Skipped
}

// awaitDownload 触发下载并等待完成
// 去重判定发生在下载源暴露其建议文件名之后: 同名文件已存在时
// 丢弃暂存文件,计为跳过而不是新下载
func (ar *AttachmentResolver) awaitDownload(weekDir string, trigger func() error) (saved bool, filename string, err error) {
	timeout := time.Duration(ar.cfg.DownloadTimeout) * time.Second
	waitDownload := ar.browser.Timeout(timeout).WaitDownload(ar.stagingDir)

	if err := trigger(); err != nil {
		return false, "", models.DownloadError("触发下载失败: %v", err)
	}

	info := waitDownload()
	if info == nil {
		return false, "", models.DownloadError("等待下载超时(%s)", timeout)
	}

	stagedPath := filepath.Join(ar.stagingDir, info.GUID)
	filename = info.SuggestedFilename
	if filename == "" {
		filename = info.GUID
	}

	saved, err = utils.CommitDownload(stagedPath, weekDir, filename)
	if err != nil {
		return false, filename, models.DownloadError("落位下载文件失败 [%s]: %v", filename, err)
	}
	return saved, filename, nil
}

// directLinkStrategy 直接链接策略
// 扫描固定的选择器集合,每个匹配链接都触发一次下载
// 单个链接失败只记日志,继续下一个候选
type directLinkStrategy struct {
	ar   *AttachmentResolver
	page *rod.Page
}

func (s *directLinkStrategy) Name() string { return "direct_links" }

func (s *directLinkStrategy) Attempt(weekDir string) (*StrategyResult, error) {
	result := &StrategyResult{}
	found := false

	for _, sel := range directLinkSelectors {
		links, err := s.page.Elements(sel)
		if err != nil {
			utils.Debugf("查找下载链接失败 [%s]: %v", sel, err)
			continue
		}

		for _, link := range links {
			href, err := link.Attribute("href")
			if err != nil || href == nil || *href == "" {
				continue
			}

			utils.Infof("    发现下载链接: %s", *href)

			saved, filename, err := s.ar.awaitDownload(weekDir, func() error {
				return ClickElement(link)
			})
			if err != nil {
				utils.Warnf("    下载失败 [%s]: %v", *href, err)
				continue
			}

			found = true
			if saved {
				result.Downloaded++
				utils.Infof("    ✅ 已下载: %s", filename)
			} else {
				result.Skipped++
				utils.Infof("    ⏭️  文件已存在,跳过: %s", filename)
			}
		}
	}

	if !found {
		return nil, nil
	}
	return result, nil
}

// frameDocumentStrategy 内嵌文档策略
// 框架地址本身就是文档(如内联渲染的PDF)时,先用URL推测文件名做
// 廉价的存在性检查,避免为已有文件触发网络下载; 未命中再走间接打开
type frameDocumentStrategy struct {
	ar   *AttachmentResolver
	page *rod.Page
}

func (s *frameDocumentStrategy) Name() string { return "frame_document" }

func (s *frameDocumentStrategy) Attempt(weekDir string) (*StrategyResult, error) {
	frames, err := s.page.Elements("iframe")
	if err != nil {
		return nil, err
	}

	for _, frameEl := range frames {
		src, err := frameEl.Attribute("src")
		if err != nil || src == nil || *src == "" {
			continue
		}
		if !hasDocSuffix(*src) {
			continue
		}

		utils.Infof("    发现框架内嵌文档: %s", *src)

		// 先按URL推测的文件名检查,已存在就不必触发下载
		guessedName := utils.LastPathSegment(*src)
		if utils.FileExists(filepath.Join(weekDir, guessedName)) {
			utils.Infof("    ⏭️  文档已存在(按URL推测): %s", guessedName)
			return &StrategyResult{Skipped: 1}, nil
		}

		frameURL := *src
		saved, filename, err := s.ar.awaitDownload(weekDir, func() error {
			_, evalErr := s.page.Eval(`(u) => { window.open(u) }`, frameURL)
			return evalErr
		})
		if err != nil {
			utils.Warnf("    框架文档下载失败: %v", err)
			continue
		}

		// 建议文件名确定后的再次存在性检查由落位逻辑完成
		if saved {
			utils.Infof("    ✅ 已下载框架文档: %s", filename)
			return &StrategyResult{Downloaded: 1}, nil
		}
		utils.Infof("    ⏭️  文件已存在,跳过: %s", filename)
		return &StrategyResult{Skipped: 1}, nil
	}

	return nil, nil
}

// frameViewerStrategy 内嵌查看器策略
// 在每个框架内搜索"下载"控件的已知变体,短暂等待可见性,
// 命中即点击并等待下载
type frameViewerStrategy struct {
	ar   *AttachmentResolver
	page *rod.Page
}

func (s *frameViewerStrategy) Name() string { return "frame_viewer" }

func (s *frameViewerStrategy) Attempt(weekDir string) (*StrategyResult, error) {
	frames, err := s.page.Elements("iframe")
	if err != nil {
		return nil, err
	}

	combined := strings.Join(viewerControlSelectors, ", ")
	timeout := time.Duration(s.ar.cfg.VisibleTimeout) * time.Second

	for i, frameEl := range frames {
		frame, err := frameEl.Frame()
		if err != nil {
			utils.Debugf("    进入框架%d失败: %v", i, err)
			continue
		}

		btn, err := VisibleElement(frame, combined, timeout)
		if err != nil {
			continue
		}

		utils.Infof("    框架%d内发现下载控件", i)

		saved, filename, err := s.ar.awaitDownload(weekDir, func() error {
			return ClickElement(btn)
		})
		if err != nil {
			utils.Warnf("    查看器下载失败: %v", err)
			continue
		}

		if saved {
			utils.Infof("    ✅ 已通过查看器下载: %s", filename)
			return &StrategyResult{Downloaded: 1}, nil
		}
		utils.Infof("    ⏭️  文件已存在,跳过: %s", filename)
		return &StrategyResult{Skipped: 1}, nil
	}

	return nil, nil
}

// hasDocSuffix 框架地址是否以已知文档扩展名结尾
func hasDocSuffix(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, suffix := range frameDocSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
