package llm

import (
	"time"

	"mindstage-server/internal/domain"
	"mindstage-server/pkg/logger"
)

// Handler - один запрос одного агента. Хендлер идемпотентен
// относительно повтора: Response заполняется только при успехе,
// все ошибки оставляют его пустым.
type Handler struct {
	AgentName string
	Prompt    string
	History   []domain.Message
	Timeout   time.Duration

	Response string
	Err      error
}

// NewHandler собирает хендлер запроса для агента.
func NewHandler(agentName, prompt string, history []domain.Message, timeout time.Duration) *Handler {
	// Копия истории: независимые батчи не делят изменяемое состояние.
	h := &Handler{
		AgentName: agentName,
		Prompt:    prompt,
		History:   append([]domain.Message{}, history...),
		Timeout:   timeout,
	}
	if len(history) == 0 {
		logger.WithAgent(agentName).Warn("Chat request with empty history")
	}
	return h
}

// OK сообщает, получен ли непустой ответ.
func (h *Handler) OK() bool {
	return h.Err == nil && h.Response != ""
}

func (h *Handler) fail(kind string, err error) {
	h.Err = err
	h.Response = ""
	logger.WithAgent(h.AgentName).WithField("error_kind", kind).
		Warnf("Chat request failed: %v", err)
}
