package domain

import "fmt"

// Компоненты-действия. Это интерфейс между рассуждением агента и
// мутацией мира: свежедобавленный компонент - триггер соответствующей
// системы. Все они транзиентны и снимаются фазой зачистки в том же ходу.
const (
	CompSpeak         = "Speak"
	CompWhisper       = "Whisper"
	CompAnnounce      = "Announce"
	CompMindVoice     = "MindVoice"
	CompFight         = "Fight"
	CompTransStage    = "TransStage"
	CompTurn          = "Turn"
	CompPlayCard      = "PlayCard"
	CompStageDirector = "StageDirector"
	CompFeedback      = "Feedback"
)

// TargetedLine - одна реплика: кому и что.
type TargetedLine struct {
	Target  string `json:"target"`
	Content string `json:"content"`
}

// SpeakComponent - адресованная реплика (подслушиваемая соседями по сцене).
type SpeakComponent struct {
	Lines []TargetedLine `json:"lines"`
}

func (*SpeakComponent) Name() string { return CompSpeak }

// WhisperComponent - адресованная реплика без подслушивания.
type WhisperComponent struct {
	Lines []TargetedLine `json:"lines"`
}

func (*WhisperComponent) Name() string { return CompWhisper }

// AnnounceComponent - публичное заявление в пределах сцены.
type AnnounceComponent struct {
	Content string `json:"content"`
}

func (*AnnounceComponent) Name() string { return CompAnnounce }

// MindVoiceComponent - внутренний монолог: видят только сам актор и сцена.
type MindVoiceComponent struct {
	Content string `json:"content"`
}

func (*MindVoiceComponent) Name() string { return CompMindVoice }

// FightComponent - заявка на агрессию против акторов той же сцены.
type FightComponent struct {
	Targets []string `json:"targets"`
}

func (*FightComponent) Name() string { return CompFight }

// TransStageComponent - заявка на переход на другую сцену.
type TransStageComponent struct {
	TargetStage string `json:"target_stage"`
}

func (*TransStageComponent) Name() string { return CompTransStage }

// TurnComponent - чей сейчас ход внутри раунда и порядок раунда.
// Вешается на сцену боя.
type TurnComponent struct {
	Round int      `json:"round"`
	Actor string   `json:"actor"`
	Order []string `json:"order"`
}

func (*TurnComponent) Name() string { return CompTurn }

// PlayCardComponent - выбранная карта: навык + цели + отыгрыш + обоснование.
type PlayCardComponent struct {
	Targets     []string `json:"targets"`
	Skill       Skill    `json:"skill"`
	Interaction string   `json:"interaction"`
	Reason      string   `json:"reason"`
}

func (*PlayCardComponent) Name() string { return CompPlayCard }

func (p *PlayCardComponent) PostLoad() error {
	if err := p.Skill.Validate(); err != nil {
		return fmt.Errorf("play card: %w", err)
	}
	return nil
}

// StageDirectorComponent - вердикт агента-сцены: числовой расчет + нарратив.
type StageDirectorComponent struct {
	Calculation string `json:"calculation"`
	Performance string `json:"performance"`
}

func (*StageDirectorComponent) Name() string { return CompStageDirector }

// FeedbackComponent - результат разрешения раунда для конкретного актора.
type FeedbackComponent struct {
	Damage      int            `json:"damage"`
	Description string         `json:"description"`
	HP          int            `json:"hp"`
	MaxHP       int            `json:"max_hp"`
	Effects     []StatusEffect `json:"effects"`
}

func (*FeedbackComponent) Name() string { return CompFeedback }

// ActionComponentNames - полный перечень транзиентных компонентов-действий.
// Фаза зачистки снимает ровно их; после седьмой фазы хода ни на одной
// сущности не должно оставаться ни одного из этого списка.
var ActionComponentNames = []string{
	CompSpeak,
	CompWhisper,
	CompAnnounce,
	CompMindVoice,
	CompFight,
	CompTransStage,
	CompTurn,
	CompPlayCard,
	CompStageDirector,
	CompFeedback,
}
