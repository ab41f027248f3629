// internal/services/config_service.go
package services

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Corphon/ScenarioBuilder/internal/config"
)

// ConfigService 提供配置管理功能
type ConfigService struct {
	// 缓存最近获取的配置，减少反复访问底层存储
	cachedConfig *config.AppConfig

	// 配置更新时间
	lastUpdated time.Time

	// 配置变更订阅者（LLM服务借此感知提供商切换）
	subscribers []ConfigChangeSubscriber

	mu sync.RWMutex
}

// ConfigChangeSubscriber 配置变更订阅者接口
type ConfigChangeSubscriber interface {
	OnConfigChanged(oldConfig, newConfig *config.AppConfig)
}

// NewConfigService 创建配置服务实例
func NewConfigService() *ConfigService {
	service := &ConfigService{
		lastUpdated: time.Now(),
		subscribers: make([]ConfigChangeSubscriber, 0),
	}

	service.cachedConfig = config.GetCurrentConfig()
	return service
}

// Subscribe 注册配置变更订阅者
func (s *ConfigService) Subscribe(subscriber ConfigChangeSubscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, subscriber)
}

// GetCurrentConfig 获取当前配置
func (s *ConfigService) GetCurrentConfig() *config.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cachedConfig == nil {
		return config.GetCurrentConfig()
	}
	return s.cachedConfig
}

// UpdateLLMConfig 更新LLM提供商和配置
func (s *ConfigService) UpdateLLMConfig(provider string, configMap map[string]string) error {
	if provider == "" {
		return errors.New("provider cannot be empty")
	}

	if _, ok := configMap["api_key"]; !ok {
		log.Println("Warning: LLM config missing api_key")
	}

	// 确保有默认模型
	if _, ok := configMap["default_model"]; !ok {
		switch provider {
		case "openai":
			configMap["default_model"] = "gpt-4o"
		case "anthropic":
			configMap["default_model"] = "claude-3.5-sonnet"
		default:
			configMap["default_model"] = ""
		}
	}

	s.mu.Lock()
	oldConfig := s.cachedConfig
	s.mu.Unlock()

	if err := config.UpdateLLMConfig(provider, configMap); err != nil {
		return err
	}

	newConfig := config.GetCurrentConfig()

	s.mu.Lock()
	s.cachedConfig = newConfig
	s.lastUpdated = time.Now()
	subscribers := append([]ConfigChangeSubscriber(nil), s.subscribers...)
	s.mu.Unlock()

	for _, sub := range subscribers {
		sub.OnConfigChanged(oldConfig, newConfig)
	}

	return nil
}
