package engine

import (
	"fmt"
	"sort"

	"mindstage-server/internal/domain"
	"mindstage-server/internal/ecs"
	"mindstage-server/internal/infrastructure/storage"
)

// World - живое состояние одной сессии: хранилище сущностей,
// контексты агентов, состояние подземелья и зерно мира.
type World struct {
	RuntimeIndex int
	Store        *ecs.Store
	Contexts     map[string]*domain.AgentContext
	Dungeon      *domain.DungeonState
	Boot         domain.Boot
}

// NewEntity создает сущность и сразу вешает на нее runtime-индекс.
// Все сущности мира создаются только через этот метод.
func (w *World) NewEntity(name string) (*ecs.Entity, error) {
	e, err := w.Store.Create(name)
	if err != nil {
		return nil, err
	}
	w.RuntimeIndex++
	e.Add(&domain.RuntimeComponent{RuntimeIndex: w.RuntimeIndex})
	return e, nil
}

// AgentContext возвращает контекст агента, создавая его при первом
// обращении. Контекст только растет; история не переписывается.
func (w *World) AgentContext(name string) *domain.AgentContext {
	if c, ok := w.Contexts[name]; ok {
		return c
	}
	c := domain.NewAgentContext(name)
	w.Contexts[name] = c
	return c
}

// Document собирает сейв-документ. Контексты агентов сортируются по
// имени, чтобы повторная сериализация давала байт-идентичный вывод.
func (w *World) Document() (*storage.Document, error) {
	entities, err := w.Store.Snapshot()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(w.Contexts))
	for name := range w.Contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	agents := make([]domain.AgentContext, 0, len(names))
	for _, name := range names {
		agents = append(agents, *w.Contexts[name])
	}
	return &storage.Document{
		Version:       storage.Version1,
		RuntimeIndex:  w.RuntimeIndex,
		Entities:      entities,
		AgentsContext: agents,
		Dungeon:       w.Dungeon,
		Boot:          w.Boot,
	}, nil
}

// worldFromDocument восстанавливает мир из сейв-документа.
func worldFromDocument(doc *storage.Document) (*World, error) {
	store, err := doc.RestoreStore()
	if err != nil {
		return nil, err
	}
	contexts := make(map[string]*domain.AgentContext, len(doc.AgentsContext))
	for i := range doc.AgentsContext {
		c := doc.AgentsContext[i]
		if c.Name == "" {
			return nil, fmt.Errorf("agent context #%d has no name", i)
		}
		contexts[c.Name] = &c
	}
	dungeon := doc.Dungeon
	if dungeon == nil {
		dungeon = domain.NewDungeonState(doc.Boot.Dungeon)
	}
	return &World{
		RuntimeIndex: doc.RuntimeIndex,
		Store:        store,
		Contexts:     contexts,
		Dungeon:      dungeon,
		Boot:         doc.Boot,
	}, nil
}
