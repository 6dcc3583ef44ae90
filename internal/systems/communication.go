package systems

import (
	"mindstage-server/internal/domain"
	"mindstage-server/internal/ecs"
	"mindstage-server/pkg/logger"
)

// ExecuteCommunications - фаза 4, первый раздел: коммуникация
// (до движения, движение до боя). Скан по свежедобавленным компонентам,
// выполнение, события в очередь. Компоненты снимает зачистка.
func ExecuteCommunications(ctx Context) {
	for _, e := range ctx.Store.Group(ecs.AllOf(domain.CompSpeak)) {
		speak, _ := ecs.Get[*domain.SpeakComponent](e, domain.CompSpeak)
		for _, line := range speak.Lines {
			if !validListener(ctx, e, line.Target, true) {
				continue
			}
			ctx.Events.Push(domain.Event{
				Type:   domain.EventSpeak,
				Source: e.Name(),
				Target: line.Target,
				Stage:  StageOf(e),
				Body:   domain.FormatSpeak(e.Name(), line.Target, line.Content),
			})
		}
		e.Remove(domain.CompSpeak)
	}

	for _, e := range ctx.Store.Group(ecs.AllOf(domain.CompWhisper)) {
		whisper, _ := ecs.Get[*domain.WhisperComponent](e, domain.CompWhisper)
		for _, line := range whisper.Lines {
			if !validListener(ctx, e, line.Target, false) {
				continue
			}
			ctx.Events.Push(domain.Event{
				Type:   domain.EventWhisper,
				Source: e.Name(),
				Target: line.Target,
				Stage:  StageOf(e),
				Body:   domain.FormatWhisper(e.Name(), line.Target, line.Content),
			})
		}
		e.Remove(domain.CompWhisper)
	}

	for _, e := range ctx.Store.Group(ecs.AllOf(domain.CompAnnounce)) {
		announce, _ := ecs.Get[*domain.AnnounceComponent](e, domain.CompAnnounce)
		ctx.Events.Push(domain.Event{
			Type:   domain.EventAnnounce,
			Source: e.Name(),
			Stage:  StageOf(e),
			Body:   domain.FormatAnnounce(e.Name(), StageOf(e), announce.Content),
		})
		e.Remove(domain.CompAnnounce)
	}

	for _, e := range ctx.Store.Group(ecs.AllOf(domain.CompMindVoice)) {
		mind, _ := ecs.Get[*domain.MindVoiceComponent](e, domain.CompMindVoice)
		ctx.Events.Push(domain.Event{
			Type:   domain.EventMindVoice,
			Source: e.Name(),
			Stage:  StageOf(e),
			Body:   domain.FormatMindVoice(e.Name(), mind.Content),
		})
		e.Remove(domain.CompMindVoice)
	}
}

// validListener - проверка состояния мира на момент исполнения.
// Несуществующая, мертвая или (для Speak) ушедшая со сцены цель -
// world-state ошибка: реплика отбрасывается с логом, автор НЕ уведомляется.
func validListener(ctx Context, speaker *ecs.Entity, target string, sameStage bool) bool {
	listener := FindActor(ctx.Store, target)
	if listener == nil || !IsAlive(listener) {
		logger.WithAgent(speaker.Name()).Debugf("Dropping line: listener %q gone", target)
		return false
	}
	if sameStage && StageOf(listener) != StageOf(speaker) {
		logger.WithAgent(speaker.Name()).Debugf("Dropping line: listener %q left the stage", target)
		return false
	}
	return true
}
