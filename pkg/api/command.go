package api

import (
	"encoding/json"
	"fmt"
)

// Validator проверяет полезную нагрузку команды после разбора.
type Validator interface {
	Validate() error
}

// Действия терминального протокола.
const (
	ActionQuit         = "/q"
	ActionAdvance      = "/ad"
	ActionSpeak        = "/speak"
	ActionSwitchStage  = "/switch_stage"
	ActionEnterDungeon = "/ed"
	ActionDrawCards    = "/dc"
	ActionPlayCards    = "/pc"
	ActionShowStage    = "/se"
	ActionComplete     = "/cpp"
	ActionToHome       = "/th"
	ActionAdvanceNext  = "/and"
	ActionRetreat      = "/rt"
	ActionViewDungeon  = "/vd"
	ActionHealthCheck  = "/hc"
)

// Command - одна команда сессии: действие плюс нагрузка.
type Command struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Reply - ответ на команду.
type Reply struct {
	Kind string `json:"kind"` // ok | error
	Text string `json:"text,omitempty"`
}

func OkReply(text string) Reply    { return Reply{Kind: "ok", Text: text} }
func ErrorReply(text string) Reply { return Reply{Kind: "error", Text: text} }

// SpeakPayload - реплика игрока.
type SpeakPayload struct {
	Target  string `json:"target"`
	Content string `json:"content"`
}

func (p *SpeakPayload) Validate() error {
	if p.Target == "" {
		return fmt.Errorf("speak: target is required")
	}
	if p.Content == "" {
		return fmt.Errorf("speak: content is required")
	}
	return nil
}

// SwitchStagePayload - переход игрока на сцену.
type SwitchStagePayload struct {
	Stage string `json:"stage"`
}

func (p *SwitchStagePayload) Validate() error {
	if p.Stage == "" {
		return fmt.Errorf("switch_stage: stage is required")
	}
	return nil
}
