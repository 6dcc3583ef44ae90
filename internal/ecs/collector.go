package ecs

import "sort"

// Collector накапливает сущности, на которые было навешано
// что-то, подходящее под его matcher (единственное событие - ADDED).
// Конвейер осушает коллекторы в объявленном порядке.
type Collector struct {
	matcher Matcher
	pending []*Entity
	seen    map[string]bool
}

func (c *Collector) record(e *Entity) {
	if c.seen[e.name] {
		return
	}
	c.seen[e.name] = true
	c.pending = append(c.pending, e)
}

func (c *Collector) forget(name string) {
	if !c.seen[name] {
		return
	}
	delete(c.seen, name)
	for i, e := range c.pending {
		if e.name == name {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			break
		}
	}
}

// Empty сообщает, есть ли накопленная работа.
func (c *Collector) Empty() bool { return len(c.pending) == 0 }

// Drain возвращает накопленные сущности в порядке создания и очищает набор.
func (c *Collector) Drain() []*Entity {
	out := c.pending
	c.pending = nil
	c.seen = make(map[string]bool)
	sort.Slice(out, func(i, j int) bool { return out[i].serial < out[j].serial })
	return out
}
