package systems

import (
	"mindstage-server/internal/domain"
	"mindstage-server/internal/ecs"
	"mindstage-server/pkg/logger"
)

// MarkPlanningEligible - фаза 1: отметить акторов, которым в этом ходу
// разрешено рассуждать. Критерии: жив, кик-офф завершен, сцена
// допускает планирование (Home). Игрок планов через LLM не строит -
// его действия приходят командами терминала.
func MarkPlanningEligible(ctx Context) {
	marked := 0
	for _, e := range ctx.Store.Group(ecs.AllOf(domain.CompActor, domain.CompKickOffComplete).NoneOf(domain.CompDeath, domain.CompPlayer)) {
		stage := FindStage(ctx.Store, StageOf(e))
		if stage == nil || !stage.Has(domain.CompHome) {
			continue
		}
		if IsStunned(e) {
			continue
		}
		e.Add(&domain.CanStartPlanningComponent{})
		marked++
	}
	logger.WithPhase("eligibility").Debugf("%d actors can plan this turn", marked)
}
