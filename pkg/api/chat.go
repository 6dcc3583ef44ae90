package api

// Контракт chat-эндпоинта (потребляемый): POST {base}/chat/v1/.
// Эндпоинты считаются stateless и взаимозаменяемыми.

// ChatMessage - одно сообщение истории в wire-формате.
// kind: "system" | "human" | "ai".
type ChatMessage struct {
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// ChatRequest - тело запроса к chat-эндпоинту.
type ChatRequest struct {
	Input       string        `json:"input"`
	ChatHistory []ChatMessage `json:"chat_history"`
}

// ChatResponse - тело ответа при HTTP 200.
type ChatResponse struct {
	Output string `json:"output"`
}

// ChatPath - суффикс chat-эндпоинта относительно базового URL.
const ChatPath = "/chat/v1/"
