package domain

import (
	"fmt"
	"strings"
)

// Машина состояний подземелья:
//
//	not_entered -> in_combat(i) -> post_combat(i, won|lost)
//	            -> in_combat(i+1) | returned_home
//
// Управляется явными командами движка, а не ходом времени.

// CombatState - состояние одного боя.
type CombatState uint8

const (
	CombatOngoing CombatState = iota
	CombatWon
	CombatLost
)

var combatStateToString = map[CombatState]string{
	CombatOngoing: "ongoing",
	CombatWon:     "won",
	CombatLost:    "lost",
}

var stringToCombatState = map[string]CombatState{
	"ongoing": CombatOngoing,
	"won":     CombatWon,
	"lost":    CombatLost,
}

func (s CombatState) String() string {
	if val, ok := combatStateToString[s]; ok {
		return val
	}
	return "unknown"
}

// MarshalJSON/UnmarshalJSON держат состояние в сейве строкой.
func (s CombatState) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *CombatState) UnmarshalJSON(data []byte) error {
	val, ok := stringToCombatState[strings.Trim(string(data), `"`)]
	if !ok {
		return fmt.Errorf("unknown combat state: %s", data)
	}
	*s = val
	return nil
}

// CombatRecord - запись одного боя в последовательности.
type CombatRecord struct {
	Stage  string      `json:"stage"`
	State  CombatState `json:"state"`
	Rounds int         `json:"rounds"`
}

// DungeonState - изменяемое состояние прохождения.
// Cursor == -1: подземелье не начато.
type DungeonState struct {
	Name    string         `json:"name"`
	Stages  []StageSeed    `json:"stages"`
	Cursor  int            `json:"cursor"`
	Combats []CombatRecord `json:"combats"`
}

func NewDungeonState(seed DungeonSeed) *DungeonState {
	return &DungeonState{
		Name:    seed.Name,
		Stages:  append([]StageSeed{}, seed.Stages...),
		Cursor:  -1,
		Combats: make([]CombatRecord, 0),
	}
}

// Entered сообщает, начато ли прохождение.
func (d *DungeonState) Entered() bool { return d.Cursor >= 0 }

// Current возвращает прототип текущей сцены или nil.
func (d *DungeonState) Current() *StageSeed {
	if d.Cursor < 0 || d.Cursor >= len(d.Stages) {
		return nil
	}
	return &d.Stages[d.Cursor]
}

// HasNext: есть ли сцена за курсором.
func (d *DungeonState) HasNext() bool {
	return d.Cursor >= 0 && d.Cursor+1 < len(d.Stages)
}

// CurrentCombat возвращает запись текущего (последнего) боя или nil.
func (d *DungeonState) CurrentCombat() *CombatRecord {
	if len(d.Combats) == 0 {
		return nil
	}
	return &d.Combats[len(d.Combats)-1]
}

// PushCombat открывает свежую запись боя на сцене.
func (d *DungeonState) PushCombat(stage string) {
	d.Combats = append(d.Combats, CombatRecord{Stage: stage, State: CombatOngoing})
}

// Ongoing: идет ли сейчас бой.
func (d *DungeonState) Ongoing() bool {
	c := d.CurrentCombat()
	return c != nil && c.State == CombatOngoing
}

// Validate проверяет согласованность состояния при загрузке.
func (d *DungeonState) Validate() error {
	if d.Cursor < -1 || d.Cursor > len(d.Stages) {
		return fmt.Errorf("dungeon %q: cursor %d out of range", d.Name, d.Cursor)
	}
	stageNames := make(map[string]bool)
	for _, s := range d.Stages {
		stageNames[s.Name] = true
	}
	for _, c := range d.Combats {
		if !stageNames[c.Stage] {
			return fmt.Errorf("dungeon %q: combat references unknown stage %q", d.Name, c.Stage)
		}
	}
	return nil
}
