package systems

import (
	"fmt"

	"mindstage-server/internal/archive"
	"mindstage-server/internal/domain"
	"mindstage-server/internal/ecs"
	"mindstage-server/pkg/logger"
)

// ExecuteTransStage - фаза 4, второй раздел: перемещения между сценами.
func ExecuteTransStage(ctx Context) {
	for _, e := range ctx.Store.Group(ecs.AllOf(domain.CompTransStage)) {
		trans, _ := ecs.Get[*domain.TransStageComponent](e, domain.CompTransStage)
		e.Remove(domain.CompTransStage)
		MoveActor(ctx, e, trans.TargetStage)
	}
}

// MoveActor переводит актора на другую сцену с эмиссией событий
// ухода/прихода и ленивым обновлением архивов.
// Используется и системой перемещения, и входом в подземелье.
func MoveActor(ctx Context, e *ecs.Entity, targetStage string) {
	if FindStage(ctx.Store, targetStage) == nil {
		// Сцена исчезла между планированием и исполнением - ошибка
		// состояния мира: действие отброшено, агента не уведомляем.
		logger.WithAgent(e.Name()).Warnf("Cannot move: stage %q does not exist", targetStage)
		return
	}

	from := StageOf(e)
	if from == targetStage {
		return
	}

	ctx.Events.Push(domain.Event{
		Type:   domain.EventAnnounce,
		Source: e.Name(),
		Stage:  from,
		Body:   fmt.Sprintf("%s leaves %s", e.Name(), from),
	})

	e.Add(&domain.ActorStageComponent{StageName: targetStage})

	ctx.Events.Push(domain.Event{
		Type:   domain.EventAnnounce,
		Source: e.Name(),
		Stage:  targetStage,
		Body:   fmt.Sprintf("%s arrives at %s", e.Name(), targetStage),
	})

	if err := ctx.Archive.WriteStageArchive(e.Name(), archive.StageArchiveFile{StageName: targetStage}); err != nil {
		logger.WithAgent(e.Name()).Warnf("Stage archive write failed: %v", err)
	}
	RecordCoPresence(ctx, targetStage)
}

// RecordCoPresence поддерживает инвариант архива: каждый живой актор сцены
// получает (или обновляет) ActorArchiveFile на каждого соседа.
func RecordCoPresence(ctx Context, stage string) {
	actors := ActorsOnStage(ctx.Store, stage)
	for _, a := range actors {
		for _, b := range actors {
			if a.Name() == b.Name() {
				continue
			}
			rec := archive.ActorArchiveFile{ActorName: b.Name(), Appearance: Appearance(b)}
			if err := ctx.Archive.WriteActorArchive(a.Name(), rec); err != nil {
				logger.WithAgent(a.Name()).Warnf("Actor archive write failed: %v", err)
			}
		}
	}
}
