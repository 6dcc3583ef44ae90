package systems

import (
	"mindstage-server/internal/domain"
	"mindstage-server/internal/ecs"
	"mindstage-server/pkg/logger"
)

// Cleanup - фаза 7: снятие потребленных компонентов-действий,
// консолидация смертей и свип Destroy. Инвариант конвейера: после
// этой фазы ни на одной сущности нет ни одного транзиентного
// компонента-действия. Зачистка может выполняться несколько раз
// за раунд, поэтому счетчики эффектов она НЕ трогает - это делает
// TickStatusEffects строго один раз на раунд.
func Cleanup(ctx Context) {
	for _, e := range ctx.Store.Entities() {
		for _, name := range domain.ActionComponentNames {
			e.Remove(name)
		}
		e.Remove(domain.CompCanStartPlanning)
		e.Remove(domain.CompPlanAction)
	}

	// Консолидация смертей: у мертвого актора не остается руки и X-карты.
	for _, e := range ctx.Store.Group(ecs.AllOf(domain.CompDeath)) {
		e.Remove(domain.CompHand)
		e.Remove(domain.CompXCardPlayer)
	}

	// Свип: сущности с пометкой Destroy покидают хранилище.
	for _, e := range ctx.Store.Group(ecs.AllOf(domain.CompDestroy)) {
		logger.WithPhase("cleanup").Debugf("Destroying entity %s", e.Name())
		ctx.Store.Destroy(e.Name())
	}
}

// TickStatusEffects декрементирует счетчики раундов статус-эффектов
// и снимает истекшие. Вызывается ровно один раз на раунд: в конце
// домашнего хода и при розыгрыше карт боевого раунда.
func TickStatusEffects(ctx Context) {
	for _, e := range ctx.Store.Group(ecs.AllOf(domain.CompRPGProfile)) {
		p := Profile(e)
		kept := p.StatusEffects[:0]
		for _, eff := range p.StatusEffects {
			eff.Rounds--
			if eff.Rounds > 0 {
				kept = append(kept, eff)
			}
		}
		p.StatusEffects = kept
	}
}
