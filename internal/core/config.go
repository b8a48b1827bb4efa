package core

import (
	"os"
	"path/filepath"

	"github.com/lmsgrab/lmsgrab/internal/models"
	"github.com/spf13/viper"
)

// Config 应用程序配置
type Config struct {
	Portal      PortalConfig       `mapstructure:"portal"`
	Credentials CredentialsConfig  `mapstructure:"credentials"`
	Crawl       models.CrawlConfig `mapstructure:"crawl"`
	Logging     LoggingConfig      `mapstructure:"logging"`
}

// PortalConfig 门户站点配置
type PortalConfig struct {
	BaseURL    string `mapstructure:"base_url"`    // LMS门户根
	CanvasURL  string `mapstructure:"canvas_url"`  // Canvas站点根(相对链接的基准)
	CoursesURL string `mapstructure:"courses_url"` // 课程列表页
}

// CredentialsConfig 登录凭证
// 仅从环境变量读取,不写入配置文件
type CredentialsConfig struct {
	UserID string `mapstructure:"user_id"`
	UserPW string `mapstructure:"user_pw"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// LoadConfig 加载配置文件
// 凭证通过环境变量 USER_ID / USER_PW 注入
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".lmsgrab"))
		}
	}

	setDefaults(v)

	// 凭证绑定到环境变量
	_ = v.BindEnv("credentials.user_id", "USER_ID")
	_ = v.BindEnv("credentials.user_pw", "USER_PW")

	if err := v.ReadInConfig(); err != nil {
		// 配置文件不存在时使用默认值
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, models.ConfigError("读取配置文件失败: %v", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, models.ConfigError("解析配置文件失败: %v", err)
	}

	return &config, nil
}

// ValidateCredentials 启动前的凭证校验
// 缺少任一凭证都是致命配置错误,必须在任何网络活动之前暴露
func (c *Config) ValidateCredentials() error {
	if c.Credentials.UserID == "" || c.Credentials.UserPW == "" {
		return models.ConfigError("必须设置环境变量 USER_ID 和 USER_PW")
	}
	return nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// 门户默认值
	v.SetDefault("portal.base_url", "https://lms.ssu.ac.kr/")
	v.SetDefault("portal.canvas_url", "https://canvas.ssu.ac.kr")
	v.SetDefault("portal.courses_url", "https://canvas.ssu.ac.kr/courses")

	// 爬取配置默认值
	v.SetDefault("crawl.headless", true)
	v.SetDefault("crawl.wait_time", 2)
	v.SetDefault("crawl.login_timeout", 10)
	v.SetDefault("crawl.frame_timeout", 8)
	v.SetDefault("crawl.visible_timeout", 2)
	v.SetDefault("crawl.download_timeout", 10)
	v.SetDefault("crawl.download_dir", "downloads")
	v.SetDefault("crawl.debug_dir", "debug_screenshots")
	v.SetDefault("crawl.report_dir", "reports")

	// 日志配置默认值
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.rotation.max_size", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 28)
	v.SetDefault("logging.rotation.compress", true)
}
