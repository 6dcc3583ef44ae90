package domain

import "fmt"

// Boot - неизменяемое зерно мира: кампания, прототипы сцен и акторов,
// стартовые инвентари. Сохраняется в сейве как есть.

// PropSeed - стартовый предмет инвентаря.
type PropSeed struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// ProfileSeed - базовые характеристики боевого профиля.
type ProfileSeed struct {
	MaxHP           int `json:"max_hp"`
	PhysicalAttack  int `json:"physical_attack"`
	PhysicalDefense int `json:"physical_defense"`
	MagicAttack     int `json:"magic_attack"`
	MagicDefense    int `json:"magic_defense"`
	Level           int `json:"level"`
}

// Виды акторов в зерне мира.
const (
	ActorKindPlayer  = "player"
	ActorKindAlly    = "ally"
	ActorKindNPC     = "npc"
	ActorKindMonster = "monster"
)

// ActorSeed - прототип актора.
type ActorSeed struct {
	Name           string      `json:"name"`
	Kind           string      `json:"kind"` // player | ally | npc | monster
	CharacterSheet string      `json:"character_sheet"`
	Appearance     string      `json:"appearance"`
	KickOff        string      `json:"kick_off"`
	Stage          string      `json:"stage"`
	Props          []PropSeed  `json:"props,omitempty"`
	Profile        ProfileSeed `json:"profile"`
	XCard          *Skill      `json:"x_card,omitempty"` // отложенная особая карта
}

// StageSeed - прототип сцены.
type StageSeed struct {
	Name         string      `json:"name"`
	Narrative    string      `json:"narrative"`
	KickOff      string      `json:"kick_off"`
	ExitOfPortal []string    `json:"exit_of_portal,omitempty"` // объявленная смежность
	Monsters     []ActorSeed `json:"monsters,omitempty"`       // спавн при входе (сцены подземелья)
}

// DungeonSeed - прототип подземелья: упорядоченная последовательность сцен.
type DungeonSeed struct {
	Name   string      `json:"name"`
	Stages []StageSeed `json:"stages"`
}

// Boot - зерно мира целиком.
type Boot struct {
	Name     string      `json:"name"`
	Campaign string      `json:"campaign"`
	Player   string      `json:"player"` // имя актора-игрока
	Stages   []StageSeed `json:"stages"` // домашние сцены
	Actors   []ActorSeed `json:"actors"`
	Dungeon  DungeonSeed `json:"dungeon"`
}

// Validate - стартовая проверка зерна. Ошибки здесь фатальны.
func (b *Boot) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("boot has no world name")
	}
	if len(b.Stages) == 0 {
		return fmt.Errorf("boot %q has no stages", b.Name)
	}
	stageNames := make(map[string]bool)
	for _, s := range b.Stages {
		if s.Name == "" {
			return fmt.Errorf("boot %q has a stage without a name", b.Name)
		}
		if stageNames[s.Name] {
			return fmt.Errorf("boot %q: duplicate stage %q", b.Name, s.Name)
		}
		stageNames[s.Name] = true
	}
	playerFound := false
	for _, a := range b.Actors {
		if a.Name == "" {
			return fmt.Errorf("boot %q has an actor without a name", b.Name)
		}
		if !stageNames[a.Stage] {
			return fmt.Errorf("boot %q: actor %q starts on unknown stage %q", b.Name, a.Name, a.Stage)
		}
		if a.Name == b.Player {
			playerFound = true
		}
	}
	if b.Player != "" && !playerFound {
		return fmt.Errorf("boot %q: player %q is not among actors", b.Name, b.Player)
	}
	return nil
}

// Adjacency собирает карту объявленной смежности сцен.
func (b *Boot) Adjacency() map[string][]string {
	out := make(map[string][]string)
	for _, s := range b.Stages {
		out[s.Name] = append([]string{}, s.ExitOfPortal...)
	}
	for _, s := range b.Dungeon.Stages {
		out[s.Name] = append([]string{}, s.ExitOfPortal...)
	}
	return out
}
