package systems

import (
	"time"

	"mindstage-server/internal/archive"
	"mindstage-server/internal/domain"
	"mindstage-server/internal/ecs"
	"mindstage-server/internal/llm"
)

// Context передает системе состояние мира на одну фазу.
// Системы - свободные функции: вся мутация идет через переданные ссылки,
// подвисание (LLM) остается в шлюзе, системы принимают готовый батч.
type Context struct {
	Store   *ecs.Store
	Archive *archive.Manager
	Gateway *llm.Gateway

	// AgentContext возвращает (создавая при необходимости) контекст агента.
	AgentContext func(name string) *domain.AgentContext

	// Events - очередь восприятий текущей фазы; осушается фан-аутом.
	Events *EventQueue

	// Nagged: кто уже получил корректирующее сообщение в этом ходу.
	// Не больше одного на актора за ход.
	Nagged map[string]bool

	// Adjacency - объявленная смежность сцен (ExitOfPortal).
	Adjacency map[string][]string

	// Timeout - бюджет одного LLM-вызова.
	Timeout time.Duration
}

// EventQueue накапливает события восприятия в порядке появления.
type EventQueue struct {
	events []domain.Event
}

func NewEventQueue() *EventQueue { return &EventQueue{} }

func (q *EventQueue) Push(e domain.Event) { q.events = append(q.events, e) }

func (q *EventQueue) Empty() bool { return len(q.events) == 0 }

// Drain возвращает события в порядке появления и очищает очередь.
func (q *EventQueue) Drain() []domain.Event {
	out := q.events
	q.events = nil
	return out
}
