package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MessageKind - тип сообщения в контексте агента.
type MessageKind uint8

const (
	MessageUnknown MessageKind = iota
	MessageSystem              // системный промпт (лист персонажа), задается один раз
	MessageHuman               // восприятия мира и инструкции движка
	MessageAI                  // ответы самого агента
)

var kindToString = map[MessageKind]string{
	MessageSystem: "system",
	MessageHuman:  "human",
	MessageAI:     "ai",
}

var stringToKind = map[string]MessageKind{
	"system": MessageSystem,
	"human":  MessageHuman,
	"ai":     MessageAI,
}

// ParseMessageKind конвертирует строку из JSON в MessageKind.
func ParseMessageKind(s string) MessageKind {
	if val, ok := stringToKind[strings.ToLower(s)]; ok {
		return val
	}
	return MessageUnknown
}

func (k MessageKind) String() string {
	if val, ok := kindToString[k]; ok {
		return val
	}
	return "unknown"
}

// MarshalJSON пишет kind как строку ("system"|"human"|"ai") - это формат
// chat-эндпоинта и сейв-файла одновременно.
func (k MessageKind) MarshalJSON() ([]byte, error) {
	s, ok := kindToString[k]
	if !ok {
		return nil, fmt.Errorf("cannot marshal unknown message kind %d", k)
	}
	return json.Marshal(s)
}

func (k *MessageKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed := ParseMessageKind(s)
	if parsed == MessageUnknown {
		return fmt.Errorf("unknown message kind: %q", s)
	}
	*k = parsed
	return nil
}

// Message - одна запись в контексте агента.
type Message struct {
	Kind    MessageKind `json:"kind"`
	Content string      `json:"content"`
}

// AgentContext - вся память агента: упорядоченный список сообщений
// в порядке отправки. Другой памяти у агента нет.
type AgentContext struct {
	Name     string    `json:"name"`
	Messages []Message `json:"messages"`
}

func NewAgentContext(name string) *AgentContext {
	return &AgentContext{Name: name, Messages: make([]Message, 0)}
}

// SeedSystem задает системный промпт. Повторный вызов игнорируется:
// лист персонажа выдается агенту ровно один раз.
func (c *AgentContext) SeedSystem(content string) {
	for _, m := range c.Messages {
		if m.Kind == MessageSystem {
			return
		}
	}
	c.Messages = append(c.Messages, Message{Kind: MessageSystem, Content: content})
}

func (c *AgentContext) AddHuman(content string) {
	c.Messages = append(c.Messages, Message{Kind: MessageHuman, Content: content})
}

func (c *AgentContext) AddAI(content string) {
	c.Messages = append(c.Messages, Message{Kind: MessageAI, Content: content})
}

// Validate проверяет, что каждое сообщение - одного из трех видов.
// Вызывается при загрузке сейва.
func (c *AgentContext) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("agent context without a name")
	}
	for i, m := range c.Messages {
		if m.Kind != MessageSystem && m.Kind != MessageHuman && m.Kind != MessageAI {
			return fmt.Errorf("agent %q: message %d has unknown kind", c.Name, i)
		}
	}
	return nil
}
