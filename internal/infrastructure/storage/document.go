package storage

import (
	"encoding/json"
	"fmt"
	"sort"

	"mindstage-server/internal/domain"
	"mindstage-server/internal/ecs"
)

const (
	// Version1 - текущая версия сейв-документа.
	Version1 = "1"

	// WorldFileName - имя сейв-документа в каталоге {user}/{game}.
	WorldFileName = "world.json"
)

// Document - единый сериализуемый документ мира.
// entities_serialization отсортирован по runtime-индексу сущностей,
// agents_context - по имени агента: повторная сериализация дает
// байт-идентичный документ.
type Document struct {
	Version       string                 `json:"version"`
	RuntimeIndex  int                    `json:"runtime_index"`
	Entities      []ecs.EntityRecord     `json:"entities_serialization"`
	AgentsContext []domain.AgentContext  `json:"agents_context"`
	Dungeon       *domain.DungeonState   `json:"dungeon"`
	Boot          domain.Boot            `json:"boot"`
}

// RestoreStore восстанавливает хранилище сущностей из документа
// и проверяет инварианты загрузки. Любая ошибка - отказ всей сессии:
// документ не применяется частично.
func (d *Document) RestoreStore() (*ecs.Store, error) {
	if d.Version != Version1 {
		return nil, fmt.Errorf("unsupported save version %q (expected %q)", d.Version, Version1)
	}

	// Порядок обхода после загрузки определяется порядком Create,
	// поэтому записи выравниваются по runtime-индексу, а не берутся
	// как лежат: переставленный вручную документ не меняет мир.
	sort.SliceStable(d.Entities, func(i, j int) bool {
		return runtimeIndexOf(d.Entities[i]) < runtimeIndexOf(d.Entities[j])
	})

	store, err := ecs.Restore(d.Entities)
	if err != nil {
		return nil, err
	}

	// Инвариант: каждая ActorStage указывает на существующую сцену.
	for _, e := range store.Entities() {
		if c, ok := ecs.Get[*domain.ActorStageComponent](e, domain.CompActorStage); ok {
			stage := store.Get(c.StageName)
			if stage == nil || !stage.Has(domain.CompStage) {
				return nil, fmt.Errorf("entity %q is on stage %q which does not resolve to a Stage entity", e.Name(), c.StageName)
			}
		}
	}

	// Инвариант: каждое сообщение контекста одного из трех видов.
	for i := range d.AgentsContext {
		if err := d.AgentsContext[i].Validate(); err != nil {
			return nil, err
		}
	}

	if d.Dungeon != nil {
		if err := d.Dungeon.Validate(); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// runtimeIndexOf извлекает runtime-индекс из сериализованной записи.
// Запись без Runtime-компонента сортируется в начало, стабильно.
func runtimeIndexOf(rec ecs.EntityRecord) int {
	for _, c := range rec.Components {
		if c.Name == domain.CompRuntime {
			var r domain.RuntimeComponent
			if err := json.Unmarshal(c.Data, &r); err == nil {
				return r.RuntimeIndex
			}
		}
	}
	return 0
}
