package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Агенты отвечают свободным текстом. Конвертом действия (action envelope)
// считается первый JSON-объект в ответе, который после снятия
// markdown-оберток разбирается по ожидаемой схеме фазы. Проза вокруг
// JSON игнорируется.

// StripFences убирает markdown-ограждения (```json ... ```).
func StripFences(s string) string {
	out := strings.ReplaceAll(s, "```json", "")
	out = strings.ReplaceAll(out, "```", "")
	return strings.TrimSpace(out)
}

// ExtractJSONObjects находит все сбалансированные {...} в тексте.
// Учитывает строки и экранирование, чтобы скобки внутри значений
// не ломали баланс.
func ExtractJSONObjects(s string) []string {
	var out []string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i, r := range s {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				if depth == 0 {
					start = i
				}
				depth++
			}
		case '}':
			if !inString && depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					out = append(out, s[start:i+1])
					start = -1
				}
			}
		}
	}
	return out
}

// ErrNoEnvelope: в ответе не нашлось ни одного подходящего JSON-объекта.
var ErrNoEnvelope = errors.New("reply contains no valid action envelope")

// decodeFirst разбирает первый JSON-объект, подходящий под схему T.
// strict-декодер: неизвестные ключи не отвергаем (агенты любят добавлять
// лишнее), но тип полей должен совпасть.
func decodeFirst[T any](reply string, accept func(*T) error) (*T, error) {
	candidates := ExtractJSONObjects(StripFences(reply))
	var lastErr error = ErrNoEnvelope
	for _, raw := range candidates {
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			lastErr = err
			continue
		}
		if err := accept(&v); err != nil {
			lastErr = err
			continue
		}
		return &v, nil
	}
	return nil, lastErr
}

// --- ПЛАНОВЫЙ КОНВЕРТ (домашняя/нарративная фаза) ---

// PlanEnvelope - ответ агента в фазе планирования.
// Все поля - массивы строк; это формат, который понимают старые промпты.
type PlanEnvelope struct {
	Action  []string `json:"action"`
	Targets []string `json:"targets"`
	Say     []string `json:"say"`
	Tags    []string `json:"tags"`
}

// Распознаваемые теги планового конверта. Теги управляют каналом
// доставки реплики; неизвестные теги игнорируются.
const (
	TagWhisper = "whisper"
	TagThink   = "think"
)

// HasTag проверяет наличие тега (без учета регистра).
func (p *PlanEnvelope) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// PlanType возвращает распознанное действие конверта.
func (p *PlanEnvelope) PlanType() PlanActionType {
	if len(p.Action) != 1 {
		return PlanUnknown
	}
	return ParsePlanAction(p.Action[0])
}

// validateShape - синтаксическая проверка (без знания мира).
// Семантику целей проверяет система планирования.
func (p *PlanEnvelope) validateShape() error {
	if len(p.Action) != 1 {
		return fmt.Errorf("plan must contain exactly one action, got %d", len(p.Action))
	}
	if p.PlanType() == PlanUnknown {
		return fmt.Errorf("unknown plan action: %q", p.Action[0])
	}
	if p.PlanType() != PlanFight && len(p.Targets) != 1 {
		return fmt.Errorf("%s requires exactly one target, got %d", p.PlanType(), len(p.Targets))
	}
	if p.PlanType() == PlanFight && len(p.Targets) == 0 {
		return errors.New("/fight requires at least one target")
	}
	return nil
}

// ParsePlanEnvelope извлекает плановый конверт из сырого ответа агента.
func ParsePlanEnvelope(reply string) (*PlanEnvelope, error) {
	return decodeFirst[PlanEnvelope](reply, (*PlanEnvelope).validateShape)
}

// --- БОЕВЫЕ КОНВЕРТЫ ---

// HandEnvelope - ответ кандидатной фазы: рука из трех карт
// (attack / defense / support).
type HandEnvelope struct {
	Skills []Skill `json:"skills"`
}

func (h *HandEnvelope) validateShape() error {
	if len(h.Skills) != 3 {
		return fmt.Errorf("hand must contain exactly 3 skills, got %d", len(h.Skills))
	}
	for _, s := range h.Skills {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func ParseHandEnvelope(reply string) (*HandEnvelope, error) {
	return decodeFirst[HandEnvelope](reply, (*HandEnvelope).validateShape)
}

// PlayCardEnvelope - выбор карты на раунд.
type PlayCardEnvelope struct {
	Targets     []string `json:"targets"`
	Skill       Skill    `json:"skill"`
	Interaction string   `json:"interaction"`
	Reason      string   `json:"reason"`
}

func (p *PlayCardEnvelope) validateShape() error {
	if len(p.Targets) == 0 {
		return errors.New("play card requires at least one target")
	}
	return p.Skill.Validate()
}

func ParsePlayCardEnvelope(reply string) (*PlayCardEnvelope, error) {
	return decodeFirst[PlayCardEnvelope](reply, (*PlayCardEnvelope).validateShape)
}

// --- РЕЖИССЕРСКИЙ КОНВЕРТ ---

// DirectorEnvelope - вердикт агента-сцены.
// Calculation - числовой реестр (разбирается ParseCalculation),
// Performance - нарратив, уходит получателям как тело восприятия.
type DirectorEnvelope struct {
	Calculation string `json:"calculation"`
	Performance string `json:"performance"`
}

func (d *DirectorEnvelope) validateShape() error {
	if strings.TrimSpace(d.Performance) == "" {
		return errors.New("director verdict has empty performance")
	}
	return nil
}

func ParseDirectorEnvelope(reply string) (*DirectorEnvelope, error) {
	return decodeFirst[DirectorEnvelope](reply, (*DirectorEnvelope).validateShape)
}
