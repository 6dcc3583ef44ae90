package domain

import "fmt"

// EventType - внутренний числовой идентификатор события восприятия.
type EventType uint8

const (
	EventUnknown EventType = iota
	EventSpeak
	EventWhisper
	EventAnnounce
	EventMindVoice
	EventCombatKickOff
	EventCombatComplete
)

var eventToString = map[EventType]string{
	EventSpeak:          "SPEAK",
	EventWhisper:        "WHISPER",
	EventAnnounce:       "ANNOUNCE",
	EventMindVoice:      "MIND_VOICE",
	EventCombatKickOff:  "COMBAT_KICK_OFF",
	EventCombatComplete: "COMBAT_COMPLETE",
}

func (t EventType) String() string {
	if val, ok := eventToString[t]; ok {
		return val
	}
	return "UNKNOWN"
}

// Event - одно событие восприятия. Body форматируется РОВНО один раз
// и разделяется всеми получателями байт-в-байт: движок не пересказывает.
type Event struct {
	Type   EventType
	Source string // имя актора-источника (или сцены для режиссерских событий)
	Target string // адресат (для Speak/Whisper), иначе пусто
	Stage  string // сцена, на которой произошло событие
	Body   string
}

// FormatSpeak собирает тело реплики. Используется и для доставки,
// и в тестах на байт-равенство.
func FormatSpeak(speaker, listener, content string) string {
	return fmt.Sprintf("%s says: %s (to %s)", speaker, content, listener)
}

func FormatWhisper(speaker, listener, content string) string {
	return fmt.Sprintf("%s whispers to %s: %s", speaker, listener, content)
}

func FormatAnnounce(speaker, stage, content string) string {
	return fmt.Sprintf("%s announces to everyone at %s: %s", speaker, stage, content)
}

func FormatMindVoice(speaker, content string) string {
	return fmt.Sprintf("%s thinks: %s", speaker, content)
}
