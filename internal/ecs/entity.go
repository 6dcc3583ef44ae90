package ecs

import "sort"

// Entity - именованная сущность, набор компонентов по типу.
// Имя стабильно на весь прогон: повторное использование имени
// после уничтожения запрещено хранилищем.
type Entity struct {
	name   string
	serial int // монотонный порядковый номер создания (детерминированная итерация)
	comps  map[string]Component
	store  *Store
}

func (e *Entity) Name() string { return e.name }

// Serial возвращает порядковый номер создания сущности.
func (e *Entity) Serial() int { return e.serial }

// Add прикрепляет компонент (или заменяет существующий того же типа).
// Каждое прикрепление - событие ADDED для реактивных коллекторов.
func (e *Entity) Add(c Component) {
	e.comps[c.Name()] = c
	if e.store != nil {
		e.store.notifyAdded(e, c)
	}
}

// Get возвращает компонент по имени типа.
func (e *Entity) Get(name string) (Component, bool) {
	c, ok := e.comps[name]
	return c, ok
}

// Has проверяет наличие ВСЕХ перечисленных типов.
func (e *Entity) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := e.comps[n]; !ok {
			return false
		}
	}
	return true
}

// Remove снимает компонент. Снятие несуществующего - no-op.
func (e *Entity) Remove(name string) {
	delete(e.comps, name)
}

// Components возвращает компоненты, отсортированные по имени типа.
// Сортировка нужна для детерминированной сериализации.
func (e *Entity) Components() []Component {
	out := make([]Component, 0, len(e.comps))
	for _, c := range e.comps {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Get - типизированный доступ к компоненту сущности.
// Возвращает нулевое значение и false, если компонента нет
// или он другого типа.
func Get[T Component](e *Entity, name string) (T, bool) {
	var zero T
	c, ok := e.comps[name]
	if !ok {
		return zero, false
	}
	typed, ok := c.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
