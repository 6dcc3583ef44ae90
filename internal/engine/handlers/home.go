package handlers

import "mindstage-server/pkg/api"

// HandleAdvance прогоняет один ход домашнего режима.
func HandleAdvance(ctx Context) (api.Reply, error) {
	if err := ctx.Driver.AdvanceHomeTurn(ctx.Ctx); err != nil {
		return api.Reply{}, err
	}
	return api.OkReply("turn complete"), nil
}

// HandleSpeak ставит реплику игрока в очередь следующего хода.
func HandleSpeak(ctx Context, payload *api.SpeakPayload) (api.Reply, error) {
	if err := ctx.Driver.QueuePlayerSpeak(payload.Target, payload.Content); err != nil {
		return api.Reply{}, err
	}
	return api.OkReply("queued; advance the turn to deliver"), nil
}

// HandleSwitchStage ставит переход игрока в очередь следующего хода.
func HandleSwitchStage(ctx Context, payload *api.SwitchStagePayload) (api.Reply, error) {
	if err := ctx.Driver.QueuePlayerSwitchStage(payload.Stage); err != nil {
		return api.Reply{}, err
	}
	return api.OkReply("queued; advance the turn to move"), nil
}

// HandleHealthCheck опрашивает chat-эндпоинты.
func HandleHealthCheck(ctx Context) (api.Reply, error) {
	report, err := ctx.Driver.HealthReport(ctx.Ctx)
	if err != nil {
		return api.Reply{}, err
	}
	return api.OkReply(report), nil
}
