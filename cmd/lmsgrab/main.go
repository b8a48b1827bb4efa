package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/lmsgrab/lmsgrab/internal/core"
	"github.com/lmsgrab/lmsgrab/internal/utils"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 命令行参数
var (
	configFile string
	verbose    bool
	logLevel   string

	headless      bool
	waitTime      int
	downloadDir   string
	skipPreflight bool
)

var rootCmd = &cobra.Command{
	Use:   "lmsgrab",
	Short: "LMS课程资料批量下载工具",
	Long: `lmsgrab - 숭실대 LMS(Canvas)课程资料批量下载工具

登录统一门户后自动发现本学期的全部课程,逐门展开周次学习结构,
把每个学习条目携带的附件下载到按 课程/周次 组织的本地目录树中,
已下载过的文件自动跳过。

凭证通过环境变量注入:
  USER_ID  学号
  USER_PW  口令

示例:
  USER_ID=20201234 USER_PW=... lmsgrab
  lmsgrab verify    # 只验证登录和课程发现,不下载
  lmsgrab report    # 汇总已下载的目录树

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		logConfig := utils.LogConfig{
			Level:      config.Logging.Level,
			LogDir:     config.Logging.LogDir,
			MaxSize:    config.Logging.Rotation.MaxSize,
			MaxBackups: config.Logging.Rotation.MaxBackups,
			MaxAge:     config.Logging.Rotation.MaxAge,
			Compress:   config.Logging.Rotation.Compress,
		}

		// 命令行参数覆盖配置文件
		if logLevel != "" {
			logConfig.Level = logLevel
		}

		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		if verbose {
			utils.Info("详细模式已启用")
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Ctrl+C优雅退出
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		go func() {
			sig := <-sigChan
			utils.Warnf("\n收到中断信号: %v, 正在退出...", sig)
			os.Exit(0)
		}()

		config, err := loadRunConfig(cmd)
		if err != nil {
			return err
		}

		// 凭证缺失是致命配置错误,必须在任何网络活动之前暴露
		if err := config.ValidateCredentials(); err != nil {
			return err
		}

		// 浏览器启动前的廉价可达性预检; 失败只告警,登录流程自会给出权威结论
		if !skipPreflight {
			if _, err := core.Preflight(config.Portal.BaseURL); err != nil {
				utils.Warnf("门户预检未通过(继续尝试登录): %v", err)
			}
		}

		// 1. 登录
		provider := core.NewSessionProvider(config)
		defer provider.Close()

		if err := provider.Login(); err != nil {
			return err
		}

		// 2. 课程发现(仍在登录会话内顺序执行)
		courses, err := core.ListCourses(provider.Page(), config)
		if err != nil {
			return fmt.Errorf("课程发现失败: %w", err)
		}

		if len(courses) == 0 {
			utils.Warn("本学期没有符合条件的课程,结束")
			return nil
		}

		// 3. 导出凭证并关闭主浏览器
		cred, err := provider.ExportCredential()
		if err != nil {
			return err
		}
		provider.Close()

		downloadRoot, _ := filepath.Abs(config.Crawl.DownloadDir)
		utils.Infof("📂 文件将下载到: %s", downloadRoot)

		// 4. fan-out并行处理课程
		coordinator := core.NewCoordinator(config)
		stats := coordinator.RunAll(courses, cred)

		fmt.Println("\n==================================================")
		fmt.Println("📊 下载统计")
		fmt.Println("==================================================")
		fmt.Printf("✅ 课程总数: %d\n", stats.TotalCourses)
		fmt.Printf("✅ 条目总数: %d\n", stats.TotalItems)
		fmt.Printf("✅ 新下载文件: %d\n", stats.TotalDownloads)
		fmt.Printf("⏭️  已存在跳过: %d\n", stats.TotalSkipped)
		fmt.Printf("❌ 失败课程: %d\n", stats.FailedCount)
		fmt.Printf("⏱️  总耗时: %.2f秒\n", stats.Duration)
		fmt.Println("==================================================")

		utils.Info("✨ 全部完成!")
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "验证门户连接和登录流程(不下载)",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadRunConfig(cmd)
		if err != nil {
			return err
		}
		if err := config.ValidateCredentials(); err != nil {
			return err
		}

		// 验证模式固定无头
		config.Crawl.Headless = true

		result, err := core.Preflight(config.Portal.BaseURL)
		if err != nil {
			return fmt.Errorf("门户预检失败: %w", err)
		}
		if !result.HasSSOLink {
			utils.Warn("预检未发现统一登录入口,页面结构可能已变化")
		}

		provider := core.NewSessionProvider(config)
		defer provider.Close()

		if err := provider.Login(); err != nil {
			return err
		}

		courses, err := core.ListCourses(provider.Page(), config)
		if err != nil {
			return fmt.Errorf("课程发现失败: %w", err)
		}

		fmt.Printf("验证通过: 登录成功,发现 %d 门课程\n", len(courses))
		for _, c := range courses {
			fmt.Printf("  - %s\n", c.Name)
		}
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "汇总已下载的目录树",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadRunConfig(cmd)
		if err != nil {
			return err
		}
		return utils.PrintDownloadSummary(config.Crawl.DownloadDir)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lmsgrab %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
	},
}

// loadRunConfig 加载配置并合并命令行参数
func loadRunConfig(cmd *cobra.Command) (*core.Config, error) {
	config, err := core.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("headless") {
		config.Crawl.Headless = headless
	}
	if cmd.Flags().Changed("wait") {
		config.Crawl.WaitTime = waitTime
	}
	if downloadDir != "" {
		config.Crawl.DownloadDir = downloadDir
	}

	if err := ValidateFlags(config); err != nil {
		return nil, err
	}
	return config, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVar(&headless, "headless", true, "无头浏览器模式")
	rootCmd.PersistentFlags().IntVarP(&waitTime, "wait", "w", 2, "页面稳定等待时间(秒)")
	rootCmd.PersistentFlags().StringVarP(&downloadDir, "output", "o", "", "下载根目录(默认: downloads)")
	rootCmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "跳过门户可达性预检")

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
