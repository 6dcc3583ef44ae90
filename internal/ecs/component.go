package ecs

import (
	"encoding/json"
	"fmt"
)

// Component - минимальный контракт компонента.
// Имя компонента должно быть стабильным: оно является ключом
// и в сущности, и в сериализованном снапшоте.
type Component interface {
	Name() string
}

// PostLoader реализуют компоненты, которым после десериализации
// нужна дорегидрация вложенных значений (enum'ы, value-объекты).
type PostLoader interface {
	PostLoad() error
}

type factoryFunc func(data json.RawMessage) (Component, error)

// registry - глобальный реестр фабрик компонентов по имени.
// Заполняется из init() доменного пакета, поэтому гонок нет.
var registry = map[string]factoryFunc{}

type ptrComponent[T any] interface {
	*T
	Component
}

// Register регистрирует тип компонента для десериализации.
// Имя берется из самого типа (метод Name на нулевом значении).
func Register[T any, PT ptrComponent[T]]() {
	var zero PT = new(T)
	name := zero.Name()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("ecs: component %q registered twice", name))
	}
	registry[name] = func(data json.RawMessage) (Component, error) {
		c := new(T)
		if len(data) > 0 {
			if err := json.Unmarshal(data, c); err != nil {
				return nil, fmt.Errorf("unmarshal component %q: %w", name, err)
			}
		}
		var pc PT = c
		if h, ok := any(pc).(PostLoader); ok {
			if err := h.PostLoad(); err != nil {
				return nil, fmt.Errorf("post-load component %q: %w", name, err)
			}
		}
		return pc, nil
	}
}

// Instantiate создает компонент по зарегистрированному имени.
func Instantiate(name string, data json.RawMessage) (Component, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown component type: %q", name)
	}
	return factory(data)
}

// Registered сообщает, известен ли реестру данный тип.
func Registered(name string) bool {
	_, ok := registry[name]
	return ok
}
