package serde

import (
	"time"

	"golang.org/x/text/language"

	"github.com/lk2023060901/serde-garden-go/pkg/util/viper"
)

const (
	// DefaultMaxDepth 为对象图允许的最大嵌套深度。
	DefaultMaxDepth = 32
	// DefaultMaxRetries 为异步操作失败后的最大重试次数。
	DefaultMaxRetries = 3
	// DefaultRetryDelay 为线性退避的时间单位。
	DefaultRetryDelay = time.Second
	// DefaultMaxInputLength 为解码输入的大小上限（100MB）。
	DefaultMaxInputLength = 100 * 1024 * 1024
	// DefaultBatchSize 为批量 CSV 写出时每批的记录数。
	DefaultBatchSize = 1000
	// DefaultDelimiter 为 CSV 默认分隔符。
	DefaultDelimiter = ','
)

// Config 为一次序列化调用的配置值对象。
//
// 所有字段都有安全的零值语义；调用方传 nil 即使用全部默认值。
// 管线内部不会修改调用方传入的 Config。
type Config struct {
	// MaxDepth 为编码时允许的最大嵌套深度，超出按编码错误处理。
	MaxDepth int `mapstructure:"max-depth"`
	// EnableCompression 控制是否对 JSON/CSV 产物做 gzip+base64 封包。
	EnableCompression bool `mapstructure:"enable-compression"`
	// MaxRetries 为异步操作的最大重试次数，0 表示只尝试一次。
	MaxRetries uint `mapstructure:"max-retries"`
	// RetryDelay 为线性退避的时间单位，第 n 次重试前等待 n*RetryDelay。
	RetryDelay time.Duration `mapstructure:"retry-delay"`
	// MaxInputLength 为异步解码输入的大小上限，超出按参数错误拒绝。
	MaxInputLength int64 `mapstructure:"max-input-length"`
	// Locale 为诊断输出中数值渲染使用的区域；und 表示区域无关格式。
	// CSV/JSON 产物始终使用区域无关格式，保证跨进程可解析。
	Locale language.Tag `mapstructure:"-"`
	// BatchSize 为批量 CSV 写出时每批的记录数。
	BatchSize int `mapstructure:"batch-size"`
	// Delimiter 为 CSV 字段分隔符。
	Delimiter rune `mapstructure:"-"`
	// IncludeHeader 表示 CSV 编码是否写入表头行（解码侧按相同开关解释输入）。
	IncludeHeader bool `mapstructure:"include-header"`
	// Timeout 为名义超时；仅在 ctx 自身没有 deadline 时生效。
	Timeout time.Duration `mapstructure:"timeout"`
	// XMLRootName 为 XML 编码时自定义的根元素名，留空使用类型默认。
	XMLRootName string `mapstructure:"xml-root-name"`
	// XMLNamespace 为 XML 根元素上的命名空间声明，留空不写。
	XMLNamespace string `mapstructure:"xml-namespace"`
}

// DefaultConfig 返回带全部默认值的配置。
func DefaultConfig() *Config {
	return &Config{
		MaxDepth:       DefaultMaxDepth,
		MaxRetries:     DefaultMaxRetries,
		RetryDelay:     DefaultRetryDelay,
		MaxInputLength: DefaultMaxInputLength,
		Locale:         language.Und,
		BatchSize:      DefaultBatchSize,
		Delimiter:      DefaultDelimiter,
	}
}

// withDefaults 返回填充了默认值的副本；cfg 为 nil 时返回全默认配置。
func (cfg *Config) withDefaults() *Config {
	if cfg == nil {
		return DefaultConfig()
	}
	out := *cfg
	if out.MaxDepth <= 0 {
		out.MaxDepth = DefaultMaxDepth
	}
	if out.RetryDelay <= 0 {
		out.RetryDelay = DefaultRetryDelay
	}
	if out.MaxInputLength <= 0 {
		out.MaxInputLength = DefaultMaxInputLength
	}
	if out.BatchSize <= 0 {
		out.BatchSize = DefaultBatchSize
	}
	if out.Delimiter == 0 {
		out.Delimiter = DefaultDelimiter
	}
	return &out
}

// fileConfig 为配置文件中的原始形态，区域与分隔符以字符串表达。
type fileConfig struct {
	Config    `mapstructure:",squash"`
	LocaleTag string `mapstructure:"locale"`
	DelimStr  string `mapstructure:"delimiter"`
}

// LoadConfig 从 YAML/JSON 配置文件加载配置，未出现的键保持默认值。
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	if err := v.LoadFile(path); err != nil {
		return nil, err
	}

	raw := fileConfig{Config: *DefaultConfig()}
	if err := v.Unmarshal(&raw); err != nil {
		return nil, err
	}

	cfg := raw.Config
	if raw.LocaleTag != "" {
		tag, err := language.Parse(raw.LocaleTag)
		if err != nil {
			return nil, err
		}
		cfg.Locale = tag
	}
	if raw.DelimStr != "" {
		cfg.Delimiter = []rune(raw.DelimStr)[0]
	}
	return cfg.withDefaults(), nil
}
