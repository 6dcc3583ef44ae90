package systems

import (
	"context"
	"fmt"
	"strings"

	"mindstage-server/internal/domain"
	"mindstage-server/internal/ecs"
	"mindstage-server/internal/llm"
	"mindstage-server/pkg/logger"
)

// CombatParticipants возвращает живых участников боя на сцене:
// сначала герои/союзники, затем монстры, внутри групп - порядок создания.
func CombatParticipants(store *ecs.Store, stage string) []*ecs.Entity {
	var heroes, monsters []*ecs.Entity
	for _, e := range ActorsOnStage(store, stage) {
		switch {
		case e.Has(domain.CompMonster):
			monsters = append(monsters, e)
		case e.Has(domain.CompHero) || e.Has(domain.CompAlly):
			heroes = append(heroes, e)
		}
	}
	return append(heroes, monsters...)
}

// EmitCombatKickOff объявляет начало боя: тело перечисляет внешность
// всех присутствующих - это же дополнение уходит в кик-офф сцены.
func EmitCombatKickOff(ctx Context, stage string) {
	ctx.Events.Push(domain.Event{
		Type:   domain.EventCombatKickOff,
		Source: stage,
		Stage:  stage,
		Body:   CombatRollCall(ctx, stage),
	})
}

// CombatRollCall собирает перекличку присутствующих с внешностью.
func CombatRollCall(ctx Context, stage string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Combat begins at %s. Present:", stage)
	for _, e := range ActorsOnStage(ctx.Store, stage) {
		fmt.Fprintf(&b, "\n- %s: %s", e.Name(), Appearance(e))
	}
	return b.String()
}

// EmitCombatComplete объявляет завершение боя.
func EmitCombatComplete(ctx Context, stage, outcome string) {
	ctx.Events.Push(domain.Event{
		Type:   domain.EventCombatComplete,
		Source: stage,
		Stage:  stage,
		Body:   fmt.Sprintf("Combat at %s is over: %s", stage, outcome),
	})
}

// DrawCandidates - кандидатная фаза раунда: каждый участник предлагает
// руку из трех карт (attack/defense/support). Отложенная X-карта
// добавляется в руку и снимается с очереди.
func DrawCandidates(ctx Context, llmCtx context.Context, stage string, round int) {
	var participants []*ecs.Entity
	for _, e := range CombatParticipants(ctx.Store, stage) {
		// Оглушенный участник пропускает раунд.
		if IsStunned(e) {
			logger.WithAgent(e.Name()).Debug("Stunned, skipping the round")
			continue
		}
		participants = append(participants, e)
	}
	if len(participants) == 0 {
		return
	}

	handlers := make([]*llm.Handler, 0, len(participants))
	for _, e := range participants {
		agent := ctx.AgentContext(e.Name())
		handlers = append(handlers, llm.NewHandler(e.Name(), buildHandPrompt(e, round), agent.Messages, ctx.Timeout))
	}
	ctx.Gateway.Gather(llmCtx, handlers)

	order := make([]string, 0, len(participants))
	for i, h := range handlers {
		e := participants[i]
		order = append(order, e.Name())

		if !h.OK() {
			continue
		}
		agent := ctx.AgentContext(e.Name())
		agent.AddHuman(h.Prompt)
		agent.AddAI(h.Response)

		envelope, err := domain.ParseHandEnvelope(h.Response)
		if err != nil {
			nag(ctx, e.Name(), "your previous reply was not a valid hand; please emit a single JSON object"+
				` {"skills":[{"name","description","effect","class"} x3]} with classes attack, defense, support`)
			continue
		}

		hand := &domain.HandComponent{Skills: envelope.Skills}
		if x, ok := ecs.Get[*domain.XCardPlayerComponent](e, domain.CompXCardPlayer); ok {
			hand.Skills = append(hand.Skills, x.Skill)
			e.Remove(domain.CompXCardPlayer)
		}
		e.Add(hand)
	}

	stageEntity := FindStage(ctx.Store, stage)
	if stageEntity != nil {
		stageEntity.Add(&domain.TurnComponent{Round: round, Order: order})
	}
}

func buildHandPrompt(e *ecs.Entity, round int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Combat round %d. Propose your hand of three skill cards: one attack, one defense, one support.\n", round)
	if p := Profile(e); p != nil {
		fmt.Fprintf(&b, "Your status: HP %d/%d, level %d.\n", p.HP, p.MaxHP(), p.Level)
		for _, eff := range p.StatusEffects {
			fmt.Fprintf(&b, "Active effect: %s (%d rounds left).\n", eff.Name, eff.Rounds)
		}
	}
	b.WriteString(`Reply with a single JSON object: {"skills":[{"name":"...","description":"...","effect":"...","class":"attack|defense|support"}]} with exactly three entries.`)
	return b.String()
}

// ChooseCards - выбор карты на раунд. Каждый участник с рукой получает
// запрос на выбор. Транспортная ошибка - пропуск раунда без карты и без
// уведомления; невалидный ответ - карта отбрасывается, участник получает
// одно корректирующее сообщение.
func ChooseCards(ctx Context, llmCtx context.Context, stage string) {
	var withHand []*ecs.Entity
	for _, e := range CombatParticipants(ctx.Store, stage) {
		if e.Has(domain.CompHand) && !e.Has(domain.CompPlayCard) {
			withHand = append(withHand, e)
		}
	}
	if len(withHand) == 0 {
		return
	}

	handlers := make([]*llm.Handler, 0, len(withHand))
	for _, e := range withHand {
		agent := ctx.AgentContext(e.Name())
		handlers = append(handlers, llm.NewHandler(e.Name(), buildChoosePrompt(ctx, e, stage), agent.Messages, ctx.Timeout))
	}
	ctx.Gateway.Gather(llmCtx, handlers)

	for i, h := range handlers {
		e := withHand[i]

		if !h.OK() {
			// Транспортная ошибка: участник пропускает раунд без карты.
			continue
		}
		agent := ctx.AgentContext(e.Name())
		agent.AddHuman(h.Prompt)
		agent.AddAI(h.Response)

		envelope, err := domain.ParsePlayCardEnvelope(h.Response)
		if err != nil {
			nag(ctx, e.Name(), "your previous reply was not a valid card play; no card was played this round")
			continue
		}
		card := validatePlay(ctx, e, stage, envelope)
		if card == nil {
			nag(ctx, e.Name(), "your chosen card or targets were not valid for this combat; no card was played this round")
			continue
		}
		e.Add(card)
	}
}

func buildChoosePrompt(ctx Context, e *ecs.Entity, stage string) string {
	hand, _ := ecs.Get[*domain.HandComponent](e, domain.CompHand)
	var b strings.Builder
	b.WriteString("Choose one card from your hand and name your targets.\nYour hand:\n")
	for _, s := range hand.Skills {
		fmt.Fprintf(&b, "- %s (%s): %s | effect: %s\n", s.Name, s.Class, s.Description, s.Effect)
	}
	b.WriteString("Opponents: ")
	var names []string
	for _, other := range CombatParticipants(ctx.Store, stage) {
		if isOpponent(e, other) {
			names = append(names, other.Name())
		}
	}
	b.WriteString(strings.Join(names, ", "))
	b.WriteString("\n")
	b.WriteString(`Reply with a single JSON object: {"targets":["..."],"skill":{"name":"...","description":"...","effect":"...","class":"..."},"interaction":"how you perform it","reason":"why"}.`)
	return b.String()
}

func isOpponent(a, b *ecs.Entity) bool {
	return a.Has(domain.CompMonster) != b.Has(domain.CompMonster)
}

// validatePlay проверяет выбор: карта из руки, цели - живые участники боя.
func validatePlay(ctx Context, e *ecs.Entity, stage string, envelope *domain.PlayCardEnvelope) *domain.PlayCardComponent {
	hand, ok := ecs.Get[*domain.HandComponent](e, domain.CompHand)
	if !ok {
		return nil
	}
	inHand := false
	for _, s := range hand.Skills {
		if s.Name == envelope.Skill.Name {
			inHand = true
			break
		}
	}
	if !inHand {
		return nil
	}
	for _, target := range envelope.Targets {
		other := FindActor(ctx.Store, target)
		if other == nil || !IsAlive(other) || StageOf(other) != stage {
			return nil
		}
	}
	return &domain.PlayCardComponent{
		Targets:     envelope.Targets,
		Skill:       envelope.Skill,
		Interaction: envelope.Interaction,
		Reason:      envelope.Reason,
	}
}

