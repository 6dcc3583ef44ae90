package systems

import (
	"strings"

	"mindstage-server/internal/domain"
	"mindstage-server/internal/ecs"
)

// StageOf возвращает имя сцены актора ("" - если сущность не актор).
func StageOf(e *ecs.Entity) string {
	c, ok := ecs.Get[*domain.ActorStageComponent](e, domain.CompActorStage)
	if !ok {
		return ""
	}
	return c.StageName
}

// IsAlive: актор жив, если на нем нет Death.
func IsAlive(e *ecs.Entity) bool {
	return !e.Has(domain.CompDeath)
}

// IsStunned: на профиле висит оглушение. Оглушенный актор
// пропускает планирование, пока эффект не истечет.
func IsStunned(e *ecs.Entity) bool {
	p := Profile(e)
	if p == nil {
		return false
	}
	for _, eff := range p.StatusEffects {
		switch strings.ToLower(eff.Name) {
		case "stun", "stunned":
			return true
		}
	}
	return false
}

// ActorsOnStage возвращает живых акторов на сцене в порядке создания.
func ActorsOnStage(store *ecs.Store, stage string) []*ecs.Entity {
	var out []*ecs.Entity
	for _, e := range store.Group(ecs.AllOf(domain.CompActor, domain.CompActorStage)) {
		if StageOf(e) == stage && IsAlive(e) {
			out = append(out, e)
		}
	}
	return out
}

// Profile возвращает боевой профиль актора или nil.
func Profile(e *ecs.Entity) *domain.RPGCharacterProfileComponent {
	p, ok := ecs.Get[*domain.RPGCharacterProfileComponent](e, domain.CompRPGProfile)
	if !ok {
		return nil
	}
	return p
}

// Appearance возвращает описание внешности или заглушку.
func Appearance(e *ecs.Entity) string {
	a, ok := ecs.Get[*domain.AppearanceComponent](e, domain.CompAppearance)
	if !ok || a.Description == "" {
		return "an unremarkable figure"
	}
	return a.Description
}

// FindActor возвращает живую сущность-актора по имени или nil.
func FindActor(store *ecs.Store, name string) *ecs.Entity {
	e := store.Get(name)
	if e == nil || !e.Has(domain.CompActor) {
		return nil
	}
	return e
}

// FindStage возвращает сущность-сцену по имени или nil.
func FindStage(store *ecs.Store, name string) *ecs.Entity {
	e := store.Get(name)
	if e == nil || !e.Has(domain.CompStage) {
		return nil
	}
	return e
}
