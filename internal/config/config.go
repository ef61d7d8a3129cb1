package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"bdshop_dev_v1_202608/pkg/logger"
)

// ==================== 配置结构 ====================

// Config 全量配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Shipping ShippingConfig `mapstructure:"shipping"`
	Social   SocialConfig   `mapstructure:"social"`
}

// ServerConfig HTTP 服务
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug | release
}

// DatabaseConfig 数据库
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// JWTConfig 签发配置
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
	Issuer     string        `mapstructure:"issuer"`
}

// StorageConfig 文件存储
type StorageConfig struct {
	Provider  string `mapstructure:"provider"` // "s3" | "local"
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Endpoint  string `mapstructure:"endpoint"`
	CDNDomain string `mapstructure:"cdn_domain"`
	BasePath  string `mapstructure:"base_path"`
	LocalDir  string `mapstructure:"local_dir"`  // local provider 落盘目录
	LocalBase string `mapstructure:"local_base"` // local provider 对外 URL 前缀
}

// ShippingConfig 运费规则表（默认值即线上规则）
type ShippingConfig struct {
	DhakaCityFee    int64 `mapstructure:"dhaka_city_fee"`    // 达卡市区
	OutsideCityFee  int64 `mapstructure:"outside_city_fee"`  // 达卡区内市外
	OutsideDhakaFee int64 `mapstructure:"outside_dhaka_fee"` // 达卡以外
}

// SocialConfig 社交登录
type SocialConfig struct {
	GoogleTokenInfoURL string `mapstructure:"google_tokeninfo_url"`
	FacebookGraphURL   string `mapstructure:"facebook_graph_url"`
}

// ==================== 加载 ====================

// Load 读取配置：环境变量优先，其次 config.yaml，最后默认值
// 环境变量形如 BDSHOP_SERVER_PORT / BDSHOP_DATABASE_DSN
func Load() *Config {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.dsn", "host=localhost user=bdshop password=bdshop dbname=bdshop port=5432 sslmode=disable")
	v.SetDefault("jwt.secret", "bdshop-secret-key-change-in-production")
	v.SetDefault("jwt.access_ttl", 2*time.Hour)
	v.SetDefault("jwt.refresh_ttl", 7*24*time.Hour)
	v.SetDefault("jwt.issuer", "bdshop")
	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.base_path", "bdshop")
	v.SetDefault("storage.local_dir", "./uploads")
	v.SetDefault("storage.local_base", "http://localhost:8080/uploads")
	v.SetDefault("shipping.dhaka_city_fee", 70)
	v.SetDefault("shipping.outside_city_fee", 140)
	v.SetDefault("shipping.outside_dhaka_fee", 140)
	v.SetDefault("social.google_tokeninfo_url", "https://oauth2.googleapis.com/tokeninfo")
	v.SetDefault("social.facebook_graph_url", "https://graph.facebook.com/me")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("BDSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 没有配置文件不算错误，靠默认值 + 环境变量跑
		logger.L().Infof("未读取到配置文件，使用默认配置: %v", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.L().Fatalf("配置解析失败: %v", err)
	}
	return &cfg
}
