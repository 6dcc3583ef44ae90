package ecs

// Matcher описывает предикат выборки сущностей:
// конъюнкция allOf, дизъюнкция anyOf, исключение noneOf.
type Matcher struct {
	allOf  []string
	anyOf  []string
	noneOf []string
}

// AllOf - сущность должна иметь все перечисленные компоненты.
func AllOf(names ...string) Matcher {
	return Matcher{allOf: names}
}

// AnyOf добавляет требование "хотя бы один из".
func (m Matcher) AnyOf(names ...string) Matcher {
	m.anyOf = append([]string{}, names...)
	return m
}

// NoneOf добавляет требование "ни одного из".
func (m Matcher) NoneOf(names ...string) Matcher {
	m.noneOf = append([]string{}, names...)
	return m
}

// Match проверяет сущность против предиката.
func (m Matcher) Match(e *Entity) bool {
	for _, n := range m.allOf {
		if _, ok := e.comps[n]; !ok {
			return false
		}
	}
	if len(m.anyOf) > 0 {
		found := false
		for _, n := range m.anyOf {
			if _, ok := e.comps[n]; ok {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, n := range m.noneOf {
		if _, ok := e.comps[n]; ok {
			return false
		}
	}
	return true
}

// relevant сообщает, может ли добавление компонента type затронуть предикат.
// Используется коллекторами, чтобы не перепроверять каждую сущность.
func (m Matcher) relevant(compName string) bool {
	for _, n := range m.allOf {
		if n == compName {
			return true
		}
	}
	for _, n := range m.anyOf {
		if n == compName {
			return true
		}
	}
	return false
}
