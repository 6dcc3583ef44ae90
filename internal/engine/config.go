package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"mindstage-server/internal/domain"
	"mindstage-server/internal/llm"
)

// Config хранит параметры запуска движка.
// Конфигурация эндпоинтов читается один раз на старте; горячей
// перезагрузки нет.
type Config struct {
	// WorldsRoot - корень, под которым каждая пара {user, game}
	// имеет свой каталог с сейвом и архивами акторов.
	WorldsRoot string
	User       string
	Game       string

	// BootPath - JSON-зерно мира (кампания, сцены, акторы).
	BootPath string

	// ChatConfigPath - JSON со списком chat-эндпоинтов.
	ChatConfigPath string

	// ChatTimeout - бюджет одного LLM-вызова.
	ChatTimeout time.Duration
}

// NewConfig создает конфиг по умолчанию с оверрайдами из окружения.
func NewConfig() Config {
	cfg := Config{
		WorldsRoot:     "worlds",
		User:           "default",
		Game:           "game1",
		BootPath:       "boot.json",
		ChatConfigPath: "config.json",
		ChatTimeout:    llm.DefaultTimeout,
	}
	if v := os.Getenv("MS_WORLDS_ROOT"); v != "" {
		cfg.WorldsRoot = v
	}
	if v := os.Getenv("MS_CHAT_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.ChatTimeout = time.Duration(secs) * time.Second
		}
	}
	return cfg
}

// SaveDir - каталог сейва и архивов этой пары {user, game}.
func (c Config) SaveDir() string {
	return filepath.Join(c.WorldsRoot, c.User, c.Game)
}

// chatFile - формат config.json.
type chatFile struct {
	Endpoints []string `json:"endpoints"`
}

// LoadChatConfig читает пул эндпоинтов. Отсутствие файла или пустой
// список - фатальная ошибка конфигурации.
func LoadChatConfig(path string, timeout time.Duration) (llm.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return llm.Config{}, fmt.Errorf("read chat config: %w", err)
	}
	var f chatFile
	if err := json.Unmarshal(data, &f); err != nil {
		return llm.Config{}, fmt.Errorf("parse chat config %q: %w", path, err)
	}
	if len(f.Endpoints) == 0 {
		return llm.Config{}, fmt.Errorf("chat config %q lists no endpoints", path)
	}
	return llm.Config{Endpoints: f.Endpoints, Timeout: timeout}, nil
}

// LoadBoot читает и валидирует зерно мира.
func LoadBoot(path string) (domain.Boot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Boot{}, fmt.Errorf("read boot: %w", err)
	}
	var boot domain.Boot
	if err := json.Unmarshal(data, &boot); err != nil {
		return domain.Boot{}, fmt.Errorf("parse boot %q: %w", path, err)
	}
	if err := boot.Validate(); err != nil {
		return domain.Boot{}, err
	}
	return boot, nil
}
