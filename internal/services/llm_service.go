// internal/services/llm_service.go
package services

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Corphon/ScenarioBuilder/internal/config"
	"github.com/Corphon/ScenarioBuilder/internal/llm"
)

var ErrLLMNotReady = errors.New("llm service not ready")

// TextGenerator 文本生成能力：提示词 → 文本
// 情景生成服务只依赖这个接口，测试时注入确定性桩实现
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt, systemPrompt string) (string, error)
}

// LLMService 提供统一的大语言模型调用接口
type LLMService struct {
	providerMutex      sync.RWMutex
	provider           llm.Provider
	providerName       string
	cache              *llmCache
	isReady            bool
	readyState         string
	activeDefaultModel string
}

type llmCache struct {
	cache      map[string]*cacheEntry
	mutex      sync.RWMutex
	expiration time.Duration
}

type cacheEntry struct {
	text      string
	createdAt time.Time
}

// NewLLMService 根据当前配置创建LLM服务
// 配置缺失或初始化失败时返回未就绪服务而不是错误
func NewLLMService() (*LLMService, error) {
	service := createBaseLLMService()

	cfg := config.GetCurrentConfig()
	if cfg == nil {
		service.readyState = "Failed to retrieve configuration"
		return service, nil
	}

	if cfg.LLMProvider == "" || (cfg.LLMConfig != nil && cfg.LLMConfig["api_key"] == "") {
		service.readyState = "API key not configured"
		return service, nil
	}

	provider, err := llm.GetProvider(cfg.LLMProvider, cfg.LLMConfig)
	if err != nil {
		service.readyState = fmt.Sprintf("Initialization failed: %v", err)
		return service, nil
	}

	service.provider = provider
	service.providerName = cfg.LLMProvider
	service.activeDefaultModel = cfg.LLMConfig["default_model"]
	service.isReady = true
	service.readyState = "Ready"

	return service, nil
}

// NewEmptyLLMService 创建一个空的LLM服务实例作为后备方案
func NewEmptyLLMService() *LLMService {
	service := createBaseLLMService()
	service.providerName = "empty"
	service.readyState = "Standby Service Mode – Please configure the API key in settings"
	return service
}

func createBaseLLMService() *LLMService {
	return &LLMService{
		isReady:    false,
		readyState: "Uninitialized",
		cache: &llmCache{
			cache:      make(map[string]*cacheEntry),
			expiration: 30 * time.Minute,
		},
	}
}

// IsReady 返回服务是否已就绪
func (s *LLMService) IsReady() bool {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()

	return s.provider != nil && s.isReady
}

// GetReadyState 返回服务就绪状态描述
func (s *LLMService) GetReadyState() string {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()

	if s.provider != nil && s.isReady {
		return "Ready"
	}
	return s.readyState
}

// GetProviderStatus 返回服务是否就绪以及可读描述
func (s *LLMService) GetProviderStatus() (bool, string) {
	if s == nil {
		return false, "LLM服务实例未初始化"
	}
	if s.IsReady() {
		return true, "Ready"
	}
	return false, s.GetReadyState()
}

// GetProviderName 返回当前提供商名称
func (s *LLMService) GetProviderName() string {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()
	return s.providerName
}

// GetDefaultModel 返回当前默认模型
func (s *LLMService) GetDefaultModel() string {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()
	return s.activeDefaultModel
}

// UpdateProvider 更新LLM服务的提供商
func (s *LLMService) UpdateProvider(providerName string, providerConfig map[string]string) error {
	provider, err := llm.GetProvider(providerName, providerConfig)
	if err != nil {
		s.providerMutex.Lock()
		s.isReady = false
		s.readyState = fmt.Sprintf("Configuration failed: %v", err)
		s.providerMutex.Unlock()
		return err
	}

	s.providerMutex.Lock()
	defer s.providerMutex.Unlock()

	s.provider = provider
	s.providerName = providerName
	s.activeDefaultModel = providerConfig["default_model"]
	s.isReady = true
	s.readyState = "Ready"

	// 清理缓存
	s.cache = &llmCache{
		cache:      make(map[string]*cacheEntry),
		expiration: 30 * time.Minute,
	}

	return nil
}

// OnConfigChanged 实现ConfigChangeSubscriber：提供商配置变更时热切换
func (s *LLMService) OnConfigChanged(oldConfig, newConfig *config.AppConfig) {
	if newConfig == nil || newConfig.LLMProvider == "" {
		return
	}
	// 失败时 UpdateProvider 已把服务置为未就绪
	_ = s.UpdateProvider(newConfig.LLMProvider, newConfig.LLMConfig)
}

// GenerateText 实现TextGenerator：提示词 → 文本
func (s *LLMService) GenerateText(ctx context.Context, prompt, systemPrompt string) (string, error) {
	s.providerMutex.RLock()
	provider := s.provider
	ready := s.isReady
	model := s.activeDefaultModel
	s.providerMutex.RUnlock()

	if provider == nil || !ready {
		return "", ErrLLMNotReady
	}

	cacheKey := s.generateCacheKey(prompt, systemPrompt, model)
	if cached := s.checkCache(cacheKey); cached != "" {
		return cached, nil
	}

	resp, err := provider.CompleteText(ctx, llm.CompletionRequest{
		Prompt:       prompt,
		SystemPrompt: systemPrompt,
		Model:        model,
		MaxTokens:    2000,
		Temperature:  0.7,
	})
	if err != nil {
		return "", fmt.Errorf("文本生成失败: %w", err)
	}

	s.addToCache(cacheKey, resp.Text)
	return resp.Text, nil
}

func (s *LLMService) generateCacheKey(prompt, systemPrompt, model string) string {
	data := fmt.Sprintf("%s|%s|%s", prompt, systemPrompt, model)
	return fmt.Sprintf("%x", md5.Sum([]byte(data)))
}

func (s *LLMService) checkCache(key string) string {
	s.cache.mutex.RLock()
	defer s.cache.mutex.RUnlock()

	entry, exists := s.cache.cache[key]
	if !exists || time.Since(entry.createdAt) > s.cache.expiration {
		return ""
	}
	return entry.text
}

func (s *LLMService) addToCache(key, text string) {
	s.cache.mutex.Lock()
	defer s.cache.mutex.Unlock()

	s.cache.cache[key] = &cacheEntry{text: text, createdAt: time.Now()}
}
