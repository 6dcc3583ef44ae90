// Package handlers связывает терминальный протокол с операциями движка.
// Обертки разбирают и валидируют нагрузку до вызова обработчика,
// поэтому сами обработчики работают с уже типизированными данными.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"mindstage-server/pkg/api"
)

// Driver - операции сессии, которые обработчики дергают у движка.
type Driver interface {
	AdvanceHomeTurn(ctx context.Context) error
	QueuePlayerSpeak(target, content string) error
	QueuePlayerSwitchStage(stage string) error

	EnterDungeon(ctx context.Context) error
	DrawCards(ctx context.Context) error
	PlayCards(ctx context.Context) error
	CompleteCombat(ctx context.Context) error
	AdvanceDungeon(ctx context.Context) error
	ReturnHome(ctx context.Context) error
	Retreat(ctx context.Context) error

	ShowEnvironment() (string, error)
	DungeonDump() (string, error)
	HealthReport(ctx context.Context) (string, error)
	Save() error
}

// Context - окружение одного вызова обработчика.
type Context struct {
	Ctx    context.Context
	Driver Driver
}

// HandlerFunc - обработчик команды с уже разобранной нагрузкой.
type HandlerFunc func(ctx Context, payload json.RawMessage) (api.Reply, error)

// WithPayload оборачивает обработчик, ожидающий типизированную
// нагрузку: разбор JSON и Validate до вызова.
func WithPayload[T any, PT interface {
	*T
	api.Validator
}](h func(ctx Context, payload *T) (api.Reply, error)) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (api.Reply, error) {
		var payload T
		if err := json.Unmarshal(raw, &payload); err != nil {
			return api.Reply{}, fmt.Errorf("bad payload: %w", err)
		}
		if err := PT(&payload).Validate(); err != nil {
			return api.Reply{}, err
		}
		return h(ctx, &payload)
	}
}

// WithEmptyPayload оборачивает обработчик без нагрузки.
func WithEmptyPayload(h func(ctx Context) (api.Reply, error)) HandlerFunc {
	return func(ctx Context, _ json.RawMessage) (api.Reply, error) {
		return h(ctx)
	}
}
