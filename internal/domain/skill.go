package domain

import (
	"errors"
	"fmt"
	"strings"
)

// SkillClass - роль карты в руке (кандидатная фаза просит по одной каждого класса).
type SkillClass uint8

const (
	SkillClassUnknown SkillClass = iota
	SkillClassAttack
	SkillClassDefense
	SkillClassSupport
)

var skillClassToString = map[SkillClass]string{
	SkillClassAttack:  "attack",
	SkillClassDefense: "defense",
	SkillClassSupport: "support",
}

var stringToSkillClass = map[string]SkillClass{
	"attack":  SkillClassAttack,
	"defense": SkillClassDefense,
	"support": SkillClassSupport,
}

func ParseSkillClass(s string) SkillClass {
	if val, ok := stringToSkillClass[strings.ToLower(s)]; ok {
		return val
	}
	return SkillClassUnknown
}

func (c SkillClass) String() string {
	if val, ok := skillClassToString[c]; ok {
		return val
	}
	return "unknown"
}

// Skill - навык-карта: что агент предлагает сыграть в бою.
type Skill struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Effect      string `json:"effect"`
	Class       string `json:"class,omitempty"` // attack | defense | support
}

// Validate проверяет минимальную корректность карты.
// Вызывается и при разборе ответа агента, и при загрузке сейва.
func (s Skill) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("skill name is required")
	}
	if strings.TrimSpace(s.Effect) == "" {
		return fmt.Errorf("skill %q has no effect", s.Name)
	}
	return nil
}

// StatusEffect - активный эффект на профиле персонажа.
// Rounds - оставшиеся раунды; снимается режиссером или по истечении.
type StatusEffect struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Rounds      int    `json:"rounds"`
}

func (e StatusEffect) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return errors.New("status effect name is required")
	}
	if e.Rounds < 0 {
		return fmt.Errorf("status effect %q has negative rounds", e.Name)
	}
	return nil
}
