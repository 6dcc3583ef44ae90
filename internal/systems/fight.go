package systems

import (
	"fmt"
	"strings"

	"mindstage-server/internal/domain"
	"mindstage-server/internal/ecs"
	"mindstage-server/pkg/logger"
)

// ExecuteFight - фаза 4, третий раздел: заявки на агрессию.
// Вне подземелья драка не разворачивается в боевую механику:
// заявка становится публичным событием, которое увидит режиссер сцены.
func ExecuteFight(ctx Context) {
	for _, e := range ctx.Store.Group(ecs.AllOf(domain.CompFight)) {
		fight, _ := ecs.Get[*domain.FightComponent](e, domain.CompFight)
		e.Remove(domain.CompFight)

		var valid []string
		for _, target := range fight.Targets {
			other := FindActor(ctx.Store, target)
			// Перепроверка на момент исполнения: цель могла умереть
			// или уйти. Это world-state ошибка - только лог.
			if other == nil || !IsAlive(other) || StageOf(other) != StageOf(e) {
				logger.WithAgent(e.Name()).Debugf("Dropping fight target %q: gone from stage", target)
				continue
			}
			valid = append(valid, target)
		}
		if len(valid) == 0 {
			continue
		}

		ctx.Events.Push(domain.Event{
			Type:   domain.EventAnnounce,
			Source: e.Name(),
			Stage:  StageOf(e),
			Body:   fmt.Sprintf("%s turns hostile towards %s", e.Name(), strings.Join(valid, ", ")),
		})
	}
}
