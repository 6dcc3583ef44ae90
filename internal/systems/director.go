package systems

import (
	"context"
	"fmt"
	"strings"

	"mindstage-server/internal/archive"
	"mindstage-server/internal/domain"
	"mindstage-server/internal/ecs"
	"mindstage-server/internal/llm"
	"mindstage-server/pkg/logger"
)

// DirectorResolve - фаза 6: агент сцены получает сыгранные карты
// и выносит вердикт: числовой расчет (calculation) и нарратив (performance).
// Расчет становится Feedback-компонентами на акторах, нарратив -
// телом восприятия для всех участников.
func DirectorResolve(ctx Context, llmCtx context.Context, stage string) {
	stageEntity := FindStage(ctx.Store, stage)
	if stageEntity == nil {
		return
	}

	var played []*ecs.Entity
	for _, e := range orderedPlayers(ctx, stageEntity, stage) {
		if e.Has(domain.CompPlayCard) {
			played = append(played, e)
		}
	}
	if len(played) == 0 {
		return
	}

	agent := ctx.AgentContext(stage)
	h := llm.NewHandler(stage, buildDirectorPrompt(ctx, stage, played), agent.Messages, ctx.Timeout)
	ctx.Gateway.GatherOne(llmCtx, h)

	if !h.OK() {
		// Режиссер промолчал: раунд остается неразрешенным, карты
		// снимет зачистка, следующий розыгрыш начнет раунд заново.
		logger.WithAgent(stage).Warn("Director gave no verdict, round unresolved")
		return
	}
	agent.AddHuman(h.Prompt)
	agent.AddAI(h.Response)

	envelope, err := domain.ParseDirectorEnvelope(h.Response)
	if err != nil {
		logger.WithAgent(stage).Warnf("Director verdict rejected: %v", err)
		return
	}

	stageEntity.Add(&domain.StageDirectorComponent{
		Calculation: envelope.Calculation,
		Performance: envelope.Performance,
	})

	for _, delta := range domain.ParseCalculation(envelope.Calculation) {
		applyDelta(ctx, stage, delta)
	}

	ctx.Events.Push(domain.Event{
		Type:   domain.EventAnnounce,
		Source: stage,
		Stage:  stage,
		Body:   envelope.Performance,
	})
}

// orderedPlayers возвращает участников в порядке Turn.Order
// (участники вне порядка - в конец, порядок создания).
func orderedPlayers(ctx Context, stageEntity *ecs.Entity, stage string) []*ecs.Entity {
	participants := CombatParticipants(ctx.Store, stage)
	turn, ok := ecs.Get[*domain.TurnComponent](stageEntity, domain.CompTurn)
	if !ok {
		return participants
	}
	byName := make(map[string]*ecs.Entity, len(participants))
	for _, e := range participants {
		byName[e.Name()] = e
	}
	var out []*ecs.Entity
	for _, name := range turn.Order {
		if e, ok := byName[name]; ok {
			out = append(out, e)
			delete(byName, name)
		}
	}
	for _, e := range participants {
		if _, left := byName[e.Name()]; left {
			out = append(out, e)
		}
	}
	return out
}

func buildDirectorPrompt(ctx Context, stage string, played []*ecs.Entity) string {
	var b strings.Builder
	b.WriteString("You are the stage. Resolve this combat round.\nCards played, in turn order:\n")
	for _, e := range played {
		card, _ := ecs.Get[*domain.PlayCardComponent](e, domain.CompPlayCard)
		fmt.Fprintf(&b, "- %s plays %q (%s) at %s: %s\n",
			e.Name(), card.Skill.Name, card.Skill.Effect, strings.Join(card.Targets, ", "), card.Interaction)
	}
	b.WriteString("Current profiles:\n")
	for _, e := range CombatParticipants(ctx.Store, stage) {
		if p := Profile(e); p != nil {
			fmt.Fprintf(&b, "- %s: HP %d/%d, phys %d/%d, magic %d/%d\n",
				e.Name(), p.HP, p.MaxHP(), p.PhysicalAttack(), p.PhysicalDefense(), p.MagicAttack(), p.MagicDefense())
		}
	}
	b.WriteString("Reply with a single JSON object {\"calculation\":\"...\",\"performance\":\"...\"}.\n")
	b.WriteString("calculation is a ledger, one line per affected actor:\n")
	b.WriteString("  <actor>: -<n> HP            damage\n")
	b.WriteString("  <actor>: +<n> HP            healing\n")
	b.WriteString("  <actor>: HP <cur>/<max>     absolute health\n")
	b.WriteString("  <actor>: +<effect>(<rounds>)  add status effect\n")
	b.WriteString("  <actor>: -<effect>          remove status effect\n")
	b.WriteString("performance is the narrative everyone will perceive.")
	return b.String()
}

// applyDelta применяет одну строку расчета к профилю актора
// и вешает Feedback. Неизвестный актор в расчете игнорируется.
func applyDelta(ctx Context, stage string, delta domain.FeedbackDelta) {
	e := FindActor(ctx.Store, delta.Actor)
	if e == nil || StageOf(e) != stage {
		logger.WithAgent(stage).Debugf("Director named unknown actor %q, skipping", delta.Actor)
		return
	}
	p := Profile(e)
	if p == nil {
		return
	}

	if delta.HP >= 0 {
		p.HP = delta.HP
	} else {
		p.HP -= delta.Damage
	}
	if p.HP > p.MaxHP() {
		p.HP = p.MaxHP()
	}
	if p.HP < 0 {
		p.HP = 0
	}

	for _, add := range delta.AddEffects {
		replaced := false
		for i := range p.StatusEffects {
			if p.StatusEffects[i].Name == add.Name {
				p.StatusEffects[i] = add
				replaced = true
				break
			}
		}
		if !replaced {
			p.StatusEffects = append(p.StatusEffects, add)
		}
	}
	for _, rm := range delta.RemoveEffects {
		for i := range p.StatusEffects {
			if p.StatusEffects[i].Name == rm {
				p.StatusEffects = append(p.StatusEffects[:i], p.StatusEffects[i+1:]...)
				break
			}
		}
	}

	e.Add(&domain.FeedbackComponent{
		Damage:      delta.Damage,
		Description: fmt.Sprintf("%s is affected by the round's resolution", e.Name()),
		HP:          p.HP,
		MaxHP:       p.MaxHP(),
		Effects:     append([]domain.StatusEffect{}, p.StatusEffects...),
	})

	if p.HP <= 0 && IsAlive(e) {
		e.Add(&domain.DeathComponent{})
		ctx.Events.Push(domain.Event{
			Type:   domain.EventAnnounce,
			Source: stage,
			Stage:  stage,
			Body:   fmt.Sprintf("%s falls and does not rise again", e.Name()),
		})
	}

	// Снапшот собственного статуса: актор увидит его при следующей сборке промпта.
	if err := ctx.Archive.WriteStatusProfile(e.Name(), archive.StatusProfileFile{
		HP:            p.HP,
		MaxHP:         p.MaxHP(),
		Level:         p.Level,
		StatusEffects: append([]domain.StatusEffect{}, p.StatusEffects...),
	}); err != nil {
		logger.WithAgent(e.Name()).Warnf("Status profile write failed: %v", err)
	}
}
