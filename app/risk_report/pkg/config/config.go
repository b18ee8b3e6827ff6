package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/risk_report/app/risk_report/pkg/assessment"
)

// 凭据相关的环境变量，优先级高于配置文件
const (
	EnvAPIKey  = "OPENAI_API_KEY"
	EnvBaseURL = "OPENAI_BASE_URL"
	EnvModel   = "OPENAI_MODEL"
)

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Fonts       FontsConfig       `yaml:"fonts"`
	Report      ReportConfig      `yaml:"report"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
}

// LLMConfig 翻译所用 LLM 配置
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	// Timeout 单次翻译请求超时，单位秒
	Timeout int `yaml:"timeout"`
}

// Enabled 是否配置了可用的凭据
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

// RequestTimeout 请求超时
func (c LLMConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// FontsConfig 中文字体配置
type FontsConfig struct {
	// CJKFont 优先使用的中文字体文件路径
	CJKFont string `yaml:"cjk_font"`
	// SearchDirs 额外的字体搜索目录，排在系统目录之前
	SearchDirs []string `yaml:"search_dirs"`
	// Candidates 按优先级排列的字体文件名，为空时使用内置列表
	Candidates []string `yaml:"candidates"`
}

// ReportConfig 报告渲染配置
type ReportConfig struct {
	TimeZone    string `yaml:"time_zone"`
	DefaultCity string `yaml:"default_city"`
	// Banner 报告首页顶部的抬头文字
	Banner   string `yaml:"banner"`
	Compress *bool  `yaml:"compress"`
	// OutputDir CLI 未指定输出路径时的目录
	OutputDir string `yaml:"output_dir"`
}

// Compression 是否压缩 PDF 内容流，默认开启
func (c ReportConfig) Compression() bool {
	return c.Compress == nil || *c.Compress
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 翻译请求限速
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// DBConfig 数据库相关配置，Host 为空表示不启用持久化
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN 返回 lib/pq 连接串，未配置时返回空串
func (c DBConfig) DSN() string {
	if c.Host == "" {
		return ""
	}
	ssl := c.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, ssl)
}

// Default 返回带默认值的配置
func Default() *Config {
	return WithDefaults(&Config{})
}

// WithDefaults 为未设置的字段填充默认值，返回同一个指针
func WithDefaults(cfg *Config) *Config {
	cfg.applyDefaults()
	return cfg
}

// LoadConfig 从指定路径加载配置，并应用默认值与环境变量
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.ApplyEnv()
	return &cfg, nil
}

// ApplyEnv 用环境变量覆盖 LLM 凭据
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		c.LLM.Model = v
	}
}

func (c *Config) applyDefaults() {
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-3.5-turbo"
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 30
	}
	if c.Report.TimeZone == "" {
		c.Report.TimeZone = "Asia/Shanghai"
	}
	if c.Report.DefaultCity == "" {
		c.Report.DefaultCity = assessment.DefaultCity
	}
	if c.Report.Banner == "" {
		c.Report.Banner = "PRODUCTION RISK ASSESSMENT REPORT"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = 5
	}
	if c.DB.Port == 0 {
		c.DB.Port = 5432
	}
}

// Location 返回报告时区，无法加载时回退为 UTC+8
func (c ReportConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.FixedZone("CST", 8*60*60)
	}
	return loc
}
