package ecs

import (
	"encoding/json"
	"fmt"
)

// ComponentRecord - сериализованный компонент: имя типа + его собственный JSON.
type ComponentRecord struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

// EntityRecord - сериализованная сущность.
type EntityRecord struct {
	Name       string            `json:"name"`
	Components []ComponentRecord `json:"components"`
}

// Snapshot сериализует все сущности в порядке создания.
// Компоненты внутри сущности отсортированы по имени типа,
// поэтому повторная сериализация дает байт-в-байт тот же документ.
func (s *Store) Snapshot() ([]EntityRecord, error) {
	entities := s.Entities()
	out := make([]EntityRecord, 0, len(entities))
	for _, e := range entities {
		rec := EntityRecord{Name: e.name}
		for _, c := range e.Components() {
			data, err := json.Marshal(c)
			if err != nil {
				return nil, fmt.Errorf("marshal component %q of %q: %w", c.Name(), e.name, err)
			}
			rec.Components = append(rec.Components, ComponentRecord{Name: c.Name(), Data: data})
		}
		out = append(out, rec)
	}
	return out, nil
}

// Restore строит хранилище из снапшота. Записи должны идти в порядке
// возрастания runtime-индекса (Snapshot так их и пишет) - тогда
// порядок обхода после загрузки совпадает с порядком до сохранения.
// Неизвестный тип компонента, на который ссылается сущность, - ошибка.
func Restore(records []EntityRecord) (*Store, error) {
	s := NewStore()
	for _, rec := range records {
		e, err := s.Create(rec.Name)
		if err != nil {
			return nil, fmt.Errorf("restore entity: %w", err)
		}
		for _, cr := range rec.Components {
			c, err := Instantiate(cr.Name, cr.Data)
			if err != nil {
				return nil, fmt.Errorf("restore entity %q: %w", rec.Name, err)
			}
			// Прямое присваивание: restore не должен будить коллекторы.
			e.comps[c.Name()] = c
		}
	}
	return s, nil
}
