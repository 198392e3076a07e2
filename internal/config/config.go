package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// IngestConfig 控制入库清洗的阈值与默认值
type IngestConfig struct {
	// MinAmount 最小入库金额（元），绝对值低于该值的行直接丢弃
	MinAmount   float64 `mapstructure:"min_amount"`
	DefaultUnit string  `mapstructure:"default_unit"`
}

type CacheConfig struct {
	Size       int `mapstructure:"size"`
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

// AnalysisConfig 分析侧的展示上限与判定阈值
type AnalysisConfig struct {
	StatsLimit          int      `mapstructure:"stats_limit"`
	LargeEdgeThreshold  float64  `mapstructure:"large_edge_threshold"`
	HiddenWindowMinutes int      `mapstructure:"hidden_window_minutes"`
	Keywords            []string `mapstructure:"keywords"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// DefaultKeywords 重点行业对端关键词（烟酒/回收/废旧金属等销赃高发行业）
var DefaultKeywords = []string{
	"烟酒", "副食", "小卖", "回收", "维修", "摩托车",
	"汽修", "手机", "废旧", "金属", "超市",
}

// Load loads configuration from the given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. FFA_SERVER_PORT=9000
	v.SetEnvPrefix("FFA") // fund flow analysis
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Default returns a configuration with all defaults applied.
// Used by tests and as fallback when no config file exists.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Address: "0.0.0.0", Port: 8000, Mode: "release"},
		Database: DatabaseConfig{Path: "data/fundflow.db"},
		Log:      LogConfig{Level: "info"},
		Ingest:   IngestConfig{MinAmount: 100, DefaultUnit: "yuan"},
		Cache:    CacheConfig{Size: 256, TTLSeconds: 300},
		Analysis: AnalysisConfig{
			StatsLimit:          50,
			LargeEdgeThreshold:  10000,
			HiddenWindowMinutes: 30,
			Keywords:            DefaultKeywords,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.log_mode", false)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("ingest.min_amount", d.Ingest.MinAmount)
	v.SetDefault("ingest.default_unit", d.Ingest.DefaultUnit)
	v.SetDefault("cache.size", d.Cache.Size)
	v.SetDefault("cache.ttl_seconds", d.Cache.TTLSeconds)
	v.SetDefault("analysis.stats_limit", d.Analysis.StatsLimit)
	v.SetDefault("analysis.large_edge_threshold", d.Analysis.LargeEdgeThreshold)
	v.SetDefault("analysis.hidden_window_minutes", d.Analysis.HiddenWindowMinutes)
	v.SetDefault("analysis.keywords", DefaultKeywords)
}
