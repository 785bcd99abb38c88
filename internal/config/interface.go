package config

import (
	"github.com/ufwctl/ufwctl/internal/utils/logger"
)

// Configurable represents the interface for configuration management
// Configurable 表示配置管理的接口
type Configurable interface {
	LoadConfig() error
	SaveConfig() error
	GetConfig() *GlobalConfig
	UpdateConfig(*GlobalConfig)

	// Getters for specific configuration sections
	GetBaseConfig() *BaseConfig
	GetLoggingConfig() *logger.LoggingConfig
	GetMetricsConfig() *MetricsConfig

	// Setters for specific configuration sections
	SetBaseConfig(BaseConfig)
	SetLoggingConfig(logger.LoggingConfig)
	SetMetricsConfig(MetricsConfig)

	// Utility methods
	GetConfigPath() string
	Validate() error
}

// GetDefaultConfigPath returns the default configuration file path
// GetDefaultConfigPath 返回默认配置文件路径
func GetDefaultConfigPath() string {
	return DefaultConfigPath
}
