package domain

import "strings"

// PlanActionType - внутренний числовой идентификатор планового действия.
// Строки "/fight|/stay|/leave" - это входной совместимый слой для промптов
// старых агентов; авторитетная таксономия - типизированные компоненты.
type PlanActionType uint8

const (
	PlanUnknown PlanActionType = iota
	PlanFight
	PlanStay
	PlanLeave
)

// Маппинг для конвертации JSON -> Domain
var planStringToCmd = map[string]PlanActionType{
	"/fight": PlanFight,
	"/stay":  PlanStay,
	"/leave": PlanLeave,
}

// Маппинг для логов Domain -> String
var planCmdToString = map[PlanActionType]string{
	PlanFight: "/fight",
	PlanStay:  "/stay",
	PlanLeave: "/leave",
}

// ParsePlanAction конвертирует строку из ответа агента в PlanActionType.
// Совпадение строгое: "/Fight" или "fight" - не валидный план.
func ParsePlanAction(s string) PlanActionType {
	if val, ok := planStringToCmd[strings.TrimSpace(s)]; ok {
		return val
	}
	return PlanUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a PlanActionType) String() string {
	if val, ok := planCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}
