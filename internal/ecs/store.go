package ecs

import (
	"fmt"
	"sort"
)

// Store - единственное хранилище всех сущностей мира.
// Вся мутация ECS происходит в одном контексте исполнения движка,
// поэтому внутренних блокировок здесь нет.
type Store struct {
	entities   map[string]*Entity
	retired    map[string]bool // имена уничтоженных: повторное использование запрещено
	collectors []*Collector
	serial     int
}

func NewStore() *Store {
	return &Store{
		entities: make(map[string]*Entity),
		retired:  make(map[string]bool),
	}
}

// Create создает сущность с уникальным именем.
func (s *Store) Create(name string) (*Entity, error) {
	if name == "" {
		return nil, fmt.Errorf("entity name cannot be empty")
	}
	if _, exists := s.entities[name]; exists {
		return nil, fmt.Errorf("entity %q already exists", name)
	}
	if s.retired[name] {
		return nil, fmt.Errorf("entity name %q was already used and destroyed", name)
	}
	e := &Entity{
		name:   name,
		serial: s.serial,
		comps:  make(map[string]Component),
		store:  s,
	}
	s.serial++
	s.entities[name] = e
	return e, nil
}

// Get возвращает сущность по имени или nil.
func (s *Store) Get(name string) *Entity {
	return s.entities[name]
}

// Destroy немедленно удаляет сущность из хранилища.
// Вызывается только фазой зачистки конвейера (после пометки Destroy).
func (s *Store) Destroy(name string) {
	if _, ok := s.entities[name]; !ok {
		return
	}
	delete(s.entities, name)
	s.retired[name] = true
	for _, c := range s.collectors {
		c.forget(name)
	}
}

// Entities возвращает КОПИЮ списка всех сущностей в порядке создания.
// Вызывающий может безопасно мутировать хранилище во время обхода.
func (s *Store) Entities() []*Entity {
	out := make([]*Entity, 0, len(s.entities))
	for _, e := range s.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].serial < out[j].serial })
	return out
}

// Group возвращает копию множества сущностей, подходящих под matcher,
// в порядке создания.
func (s *Store) Group(m Matcher) []*Entity {
	out := make([]*Entity, 0)
	for _, e := range s.Entities() {
		if m.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// First возвращает первую (по порядку создания) сущность под matcher или nil.
func (s *Store) First(m Matcher) *Entity {
	for _, e := range s.Entities() {
		if m.Match(e) {
			return e
		}
	}
	return nil
}

// Collector регистрирует реактивный сборщик: сущности, которым
// добавили релевантный компонент и которые подошли под matcher,
// попадают в его pending-набор.
func (s *Store) Collector(m Matcher) *Collector {
	c := &Collector{matcher: m, seen: make(map[string]bool)}
	s.collectors = append(s.collectors, c)
	return c
}

func (s *Store) notifyAdded(e *Entity, comp Component) {
	for _, c := range s.collectors {
		if c.matcher.relevant(comp.Name()) && c.matcher.Match(e) {
			c.record(e)
		}
	}
}
