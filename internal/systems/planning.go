package systems

import (
	"context"
	"fmt"
	"strings"

	"mindstage-server/internal/domain"
	"mindstage-server/internal/ecs"
	"mindstage-server/internal/llm"
	"mindstage-server/pkg/api"
	"mindstage-server/pkg/logger"
)

// PlanHome - фаза 3: параллельный опрос всех planning-eligible акторов
// и конвертация ответов в типизированные компоненты-действия.
func PlanHome(ctx Context, llmCtx context.Context) {
	eligible := ctx.Store.Group(ecs.AllOf(domain.CompCanStartPlanning))
	if len(eligible) == 0 {
		return
	}

	handlers := make([]*llm.Handler, 0, len(eligible))
	for _, e := range eligible {
		e.Add(&domain.PlanActionComponent{})
		agent := ctx.AgentContext(e.Name())
		handlers = append(handlers, llm.NewHandler(e.Name(), buildPlanPrompt(ctx, e), agent.Messages, ctx.Timeout))
	}

	ctx.Gateway.Gather(llmCtx, handlers)

	for i, h := range handlers {
		e := eligible[i]
		e.Remove(domain.CompCanStartPlanning)
		e.Remove(domain.CompPlanAction)

		if !h.OK() {
			// Транспортная ошибка: актор просто пропускает ход,
			// корректирующего сообщения не будет.
			continue
		}

		agent := ctx.AgentContext(e.Name())
		agent.AddHuman(h.Prompt)
		agent.AddAI(h.Response)

		envelope, err := domain.ParsePlanEnvelope(h.Response)
		if err != nil {
			nag(ctx, e.Name(), fmt.Sprintf(
				"your previous reply was not a valid plan; please emit a single JSON object matching this schema: %s",
				api.PlanSchemaJSON()))
			continue
		}
		applyPlan(ctx, e, envelope)
	}
}

// buildPlanPrompt собирает промпт планирования: инструкция фазы,
// знания из архива (свежее чтение с диска), обстановка сцены и схема ответа.
func buildPlanPrompt(ctx Context, e *ecs.Entity) string {
	var b strings.Builder
	stageName := StageOf(e)

	fmt.Fprintf(&b, "It is your turn to act. You are at %s.\n", stageName)

	if stage := FindStage(ctx.Store, stageName); stage != nil {
		if env, ok := ecs.Get[*domain.StageEnvironmentComponent](stage, domain.CompStageEnvironment); ok && env.Narrative != "" {
			fmt.Fprintf(&b, "Surroundings: %s\n", env.Narrative)
		}
	}

	var present []string
	for _, other := range ActorsOnStage(ctx.Store, stageName) {
		if other.Name() != e.Name() {
			present = append(present, fmt.Sprintf("%s (%s)", other.Name(), Appearance(other)))
		}
	}
	if len(present) > 0 {
		fmt.Fprintf(&b, "Present with you: %s.\n", strings.Join(present, "; "))
	}

	fmt.Fprintf(&b, "%s\n", ctx.Archive.KnowledgeSummary(e.Name()))
	fmt.Fprintf(&b, "Decide your plan. Reply with a single JSON object matching this schema: %s\n", api.PlanSchemaJSON())
	b.WriteString(`The "action" field must be exactly one of "/fight", "/stay", "/leave".` + "\n")
	b.WriteString(`"/stay" targets your own stage for a public line, or one actor present with you for an addressed line.` + "\n")
	b.WriteString(`Optional "tags": ["whisper"] delivers your say privately to the target; ["think"] keeps it an inner thought no one hears.`)
	return b.String()
}

// applyPlan выполняет семантическую валидацию конверта и вешает компоненты.
// Нарушение контракта - протокольная ошибка: действие отбрасывается,
// актор получает одно корректирующее сообщение.
func applyPlan(ctx Context, e *ecs.Entity, envelope *domain.PlanEnvelope) {
	switch envelope.PlanType() {
	case domain.PlanFight:
		var valid []string
		for _, target := range envelope.Targets {
			other := FindActor(ctx.Store, target)
			if other == nil || !IsAlive(other) || StageOf(other) != StageOf(e) || target == e.Name() {
				nag(ctx, e.Name(), fmt.Sprintf(
					"your plan named %q as a /fight target, but there is no such living actor on your stage; no action was taken", target))
				return
			}
			valid = append(valid, target)
		}
		e.Add(&domain.FightComponent{Targets: valid})

	case domain.PlanLeave:
		target := envelope.Targets[0]
		if !ctx.Archive.KnowsStage(e.Name(), target) && !isAdjacent(ctx, StageOf(e), target) {
			nag(ctx, e.Name(), fmt.Sprintf(
				"your plan named %q as a /leave destination, but you know no such stage; no action was taken", target))
			return
		}
		e.Add(&domain.TransStageComponent{TargetStage: target})

	case domain.PlanStay:
		// Цель /stay - своя сцена (публичная реплика) или живой
		// собеседник на ней (адресная реплика).
		target := envelope.Targets[0]
		if target != StageOf(e) {
			other := FindActor(ctx.Store, target)
			if other == nil || !IsAlive(other) || StageOf(other) != StageOf(e) || target == e.Name() {
				nag(ctx, e.Name(), fmt.Sprintf(
					"/stay must target your own stage %q or a living actor present with you; no action was taken", StageOf(e)))
				return
			}
		}
		// /stay сам по себе ничего не меняет; реплики ниже.
	}

	applySay(e, envelope)
}

// applySay конвертирует поле say в коммуникативный компонент.
// Реплики с целями - Speak; без целей - Announce на всю сцену.
// Тег "think" делает реплику внутренним голосом (слышит только автор),
// тег "whisper" при наличии собеседника - шепотом.
func applySay(e *ecs.Entity, envelope *domain.PlanEnvelope) {
	if len(envelope.Say) == 0 {
		return
	}
	content := strings.Join(envelope.Say, " ")

	if envelope.HasTag(domain.TagThink) {
		e.Add(&domain.MindVoiceComponent{Content: content})
		return
	}

	if envelope.PlanType() == domain.PlanFight || len(envelope.Targets) == 0 {
		e.Add(&domain.AnnounceComponent{Content: content})
		return
	}
	target := envelope.Targets[0]
	if envelope.PlanType() == domain.PlanStay && target == StageOf(e) {
		// Цель /stay - сцена, а не собеседник: реплика публичная.
		e.Add(&domain.AnnounceComponent{Content: content})
		return
	}
	if envelope.HasTag(domain.TagWhisper) {
		e.Add(&domain.WhisperComponent{Lines: []domain.TargetedLine{{Target: target, Content: content}}})
		return
	}
	e.Add(&domain.SpeakComponent{Lines: []domain.TargetedLine{{Target: target, Content: content}}})
}

func isAdjacent(ctx Context, from, to string) bool {
	for _, next := range ctx.Adjacency[from] {
		if next == to {
			return true
		}
	}
	return false
}

// nag доставляет корректирующее сообщение - не больше одного на актора за ход.
func nag(ctx Context, actor, text string) {
	if ctx.Nagged[actor] {
		return
	}
	ctx.Nagged[actor] = true
	ctx.AgentContext(actor).AddHuman(text)
	logger.WithAgent(actor).Debug("Protocol error, corrective message queued")
}
