package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mindstage-server/internal/domain"
	"mindstage-server/pkg/api"
	"mindstage-server/pkg/logger"
)

// DefaultTimeout - бюджет одного запроса к chat-эндпоинту.
const DefaultTimeout = 30 * time.Second

// Config - конфигурация оркестратора. Список эндпоинтов читается
// один раз на старте; горячей перезагрузки нет.
type Config struct {
	Endpoints []string      `json:"endpoints"`
	Timeout   time.Duration `json:"-"`
}

// Gateway - оркестратор LLM-запросов. Держит единственный на процесс
// http.Client: его внутренний пул переиспользует соединения.
// "Синглтон" - это просто экземпляр, который драйвер передает внутрь.
type Gateway struct {
	client    *http.Client
	endpoints []string
	timeout   time.Duration
}

// NewGateway создает оркестратор. Пустой список эндпоинтов -
// фатальная ошибка конфигурации.
func NewGateway(cfg Config) (*Gateway, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, errors.New("llm: no chat endpoints configured")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	endpoints := make([]string, len(cfg.Endpoints))
	for i, ep := range cfg.Endpoints {
		endpoints[i] = strings.TrimRight(ep, "/")
	}
	return &Gateway{
		// Таймаут на клиенте не ставим: per-request дедлайн задается
		// контекстом каждого хендлера.
		client:    &http.Client{},
		endpoints: endpoints,
		timeout:   timeout,
	}, nil
}

// Endpoints возвращает копию пула эндпоинтов.
func (g *Gateway) Endpoints() []string {
	return append([]string{}, g.endpoints...)
}

// Timeout - дефолтный бюджет одного вызова.
func (g *Gateway) Timeout() time.Duration { return g.timeout }

// Close закрывает пул соединений. Вызывается один раз на шатдауне.
func (g *Gateway) Close() {
	g.client.CloseIdleConnections()
}

// post выполняет один запрос к конкретному эндпоинту.
// Любая ошибка (не-200, таймаут, сеть, кривое тело) оставляет ответ
// пустым: вызывающая система трактует пустой ответ как no-op.
func (g *Gateway) post(ctx context.Context, h *Handler, endpoint string) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = g.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := api.ChatRequest{
		Input:       h.Prompt,
		ChatHistory: toWireHistory(h.History),
	}
	body, err := json.Marshal(req)
	if err != nil {
		h.fail("marshal", err)
		return
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+api.ChatPath, bytes.NewReader(body))
	if err != nil {
		h.fail("request", err)
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		h.fail("transport", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		h.fail("status", fmt.Errorf("unexpected status %d", resp.StatusCode))
		return
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		h.fail("read", err)
		return
	}
	var chatResp api.ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		h.fail("parse", err)
		return
	}
	h.Response = chatResp.Output
}

func toWireHistory(history []domain.Message) []api.ChatMessage {
	out := make([]api.ChatMessage, 0, len(history))
	for _, m := range history {
		out = append(out, api.ChatMessage{Kind: m.Kind.String(), Content: m.Content})
	}
	return out
}

// EndpointHealth - результат проверки одного эндпоинта.
type EndpointHealth struct {
	Endpoint string
	Err      error
}

// HealthCheck - легкий GET на каждый базовый URL.
// Используется терминальным драйвером перед сессией ( /hc ).
func (g *Gateway) HealthCheck(ctx context.Context) []EndpointHealth {
	out := make([]EndpointHealth, 0, len(g.endpoints))
	for _, ep := range g.endpoints {
		out = append(out, EndpointHealth{Endpoint: ep, Err: g.ping(ctx, ep)})
	}
	return out
}

func (g *Gateway) ping(ctx context.Context, endpoint string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func init() {
	// Пакет может использоваться до logger.Init (в тестах) - подстрахуемся.
	if logger.Log == nil {
		logger.Init()
	}
}
