package systems

import (
	"context"

	"mindstage-server/internal/domain"
	"mindstage-server/internal/ecs"
	"mindstage-server/internal/llm"
	"mindstage-server/pkg/logger"
)

// KickOff - фаза 2 (только первый прогон каждой сущности).
// Сущностям без KickOffComplete доставляется их KickOffMessage,
// батч уходит параллельно; успешный ответ помечает кик-офф завершенным.
// Транспортная ошибка НЕ помечает: попытка повторится следующим ходом.
func KickOff(ctx Context, llmCtx context.Context) {
	pending := ctx.Store.Group(ecs.AllOf(domain.CompKickOffMessage).NoneOf(domain.CompKickOffComplete, domain.CompDeath))
	if len(pending) == 0 {
		return
	}

	handlers := make([]*llm.Handler, 0, len(pending))
	for _, e := range pending {
		msg, _ := ecs.Get[*domain.KickOffMessageComponent](e, domain.CompKickOffMessage)
		agent := ctx.AgentContext(e.Name())
		handlers = append(handlers, llm.NewHandler(e.Name(), msg.Content, agent.Messages, ctx.Timeout))
	}

	ctx.Gateway.Gather(llmCtx, handlers)

	for i, h := range handlers {
		e := pending[i]
		if !h.OK() {
			// Пустой ответ - no-op для этой сущности в этой фазе.
			continue
		}
		agent := ctx.AgentContext(e.Name())
		agent.AddHuman(h.Prompt)
		agent.AddAI(h.Response)
		e.Add(&domain.KickOffCompleteComponent{})
		logger.WithAgent(e.Name()).Info("Kick-off complete")
	}
}
