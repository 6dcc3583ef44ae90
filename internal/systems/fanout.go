package systems

import (
	"mindstage-server/internal/domain"
	"mindstage-server/pkg/logger"
)

// Fanout - фаза 5: доставка событий восприятия.
// Правила получателей по типу события:
//
//	Speak        источник, адресат, остальные живые акторы сцены, сама сцена
//	Whisper      источник, адресат
//	Announce     источник, все живые акторы сцены, сама сцена
//	MindVoice    источник, сама сцена
//	CombatKickOff/Complete  все участники боя плюс сцена
//
// Тело события отформатировано один раз и делится получателями
// байт-в-байт; порядок доставки - порядок появления событий.
func Fanout(ctx Context) {
	for _, ev := range ctx.Events.Drain() {
		for _, name := range recipients(ctx, ev) {
			ctx.AgentContext(name).AddHuman(ev.Body)
		}
		if ev.Stage != "" && ev.Type != domain.EventWhisper && ev.Type != domain.EventMindVoice {
			// Публичное событие: соседи по сцене воспринимают друг друга.
			RecordCoPresence(ctx, ev.Stage)
		}
		logger.WithPhase("fanout").Debugf("%s event delivered (stage=%s)", ev.Type, ev.Stage)
	}
}

func recipients(ctx Context, ev domain.Event) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}

	switch ev.Type {
	case domain.EventSpeak:
		add(ev.Source)
		add(ev.Target)
		for _, a := range ActorsOnStage(ctx.Store, ev.Stage) {
			add(a.Name())
		}
		add(ev.Stage)

	case domain.EventWhisper:
		add(ev.Source)
		add(ev.Target)

	case domain.EventAnnounce:
		add(ev.Source)
		for _, a := range ActorsOnStage(ctx.Store, ev.Stage) {
			add(a.Name())
		}
		add(ev.Stage)

	case domain.EventMindVoice:
		add(ev.Source)
		add(ev.Stage)

	case domain.EventCombatKickOff, domain.EventCombatComplete:
		for _, a := range ActorsOnStage(ctx.Store, ev.Stage) {
			add(a.Name())
		}
		add(ev.Stage)
	}
	return out
}
