package engine

import (
	"context"
	"fmt"

	"mindstage-server/internal/engine/handlers"
	"mindstage-server/pkg/api"
	"mindstage-server/pkg/logger"
)

// Service - реестр команд поверх движка. Им пользуются и терминал,
// и websocket-оболочка: единственная точка входа для команд сессии.
type Service struct {
	engine   *TurnEngine
	registry map[string]handlers.HandlerFunc
}

func NewService(engine *TurnEngine) *Service {
	s := &Service{
		engine:   engine,
		registry: make(map[string]handlers.HandlerFunc),
	}
	s.registerHandlers()
	return s
}

func (s *Service) registerHandlers() {
	s.registry[api.ActionAdvance] = handlers.WithEmptyPayload(handlers.HandleAdvance)
	s.registry[api.ActionSpeak] = handlers.WithPayload[api.SpeakPayload](handlers.HandleSpeak)
	s.registry[api.ActionSwitchStage] = handlers.WithPayload[api.SwitchStagePayload](handlers.HandleSwitchStage)
	s.registry[api.ActionEnterDungeon] = handlers.WithEmptyPayload(handlers.HandleEnterDungeon)
	s.registry[api.ActionDrawCards] = handlers.WithEmptyPayload(handlers.HandleDrawCards)
	s.registry[api.ActionPlayCards] = handlers.WithEmptyPayload(handlers.HandlePlayCards)
	s.registry[api.ActionShowStage] = handlers.WithEmptyPayload(handlers.HandleShowStage)
	s.registry[api.ActionComplete] = handlers.WithEmptyPayload(handlers.HandleCompleteCombat)
	s.registry[api.ActionAdvanceNext] = handlers.WithEmptyPayload(handlers.HandleAdvanceDungeon)
	s.registry[api.ActionToHome] = handlers.WithEmptyPayload(handlers.HandleReturnHome)
	s.registry[api.ActionRetreat] = handlers.WithEmptyPayload(handlers.HandleRetreat)
	s.registry[api.ActionViewDungeon] = handlers.WithEmptyPayload(handlers.HandleViewDungeon)
	s.registry[api.ActionHealthCheck] = handlers.WithEmptyPayload(handlers.HandleHealthCheck)
}

// Engine открывает движок (нужен оболочкам для Terminate/Close).
func (s *Service) Engine() *TurnEngine { return s.engine }

// Process исполняет одну команду. Ошибка обработчика превращается
// в error-ответ: протокол не падает из-за недопустимой команды.
func (s *Service) Process(ctx context.Context, cmd api.Command) api.Reply {
	if cmd.Action == api.ActionQuit {
		if err := s.engine.Save(); err != nil {
			logger.Log.WithError(err).Error("save on quit failed")
			return api.ErrorReply(fmt.Sprintf("save failed: %v", err))
		}
		return api.Reply{Kind: "quit", Text: "world saved"}
	}

	h, ok := s.registry[cmd.Action]
	if !ok {
		return api.ErrorReply(fmt.Sprintf("unknown action %q", cmd.Action))
	}

	reply, err := h(handlers.Context{Ctx: ctx, Driver: s.engine}, cmd.Payload)
	if err != nil {
		logger.Log.WithError(err).WithField("action", cmd.Action).Warn("command rejected")
		return api.ErrorReply(err.Error())
	}
	return reply
}
