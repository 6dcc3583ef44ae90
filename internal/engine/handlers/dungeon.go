package handlers

import "mindstage-server/pkg/api"

// HandleEnterDungeon начинает прохождение подземелья.
func HandleEnterDungeon(ctx Context) (api.Reply, error) {
	if err := ctx.Driver.EnterDungeon(ctx.Ctx); err != nil {
		return api.Reply{}, err
	}
	return api.OkReply("the party descends"), nil
}

// HandleDrawCards открывает раунд: руки и выбор карт.
func HandleDrawCards(ctx Context) (api.Reply, error) {
	if err := ctx.Driver.DrawCards(ctx.Ctx); err != nil {
		return api.Reply{}, err
	}
	return api.OkReply("cards drawn and chosen"), nil
}

// HandlePlayCards разыгрывает выбранные карты.
func HandlePlayCards(ctx Context) (api.Reply, error) {
	if err := ctx.Driver.PlayCards(ctx.Ctx); err != nil {
		return api.Reply{}, err
	}
	return api.OkReply("round resolved"), nil
}

// HandleShowStage описывает текущую сцену подземелья.
func HandleShowStage(ctx Context) (api.Reply, error) {
	text, err := ctx.Driver.ShowEnvironment()
	if err != nil {
		return api.Reply{}, err
	}
	return api.OkReply(text), nil
}

// HandleCompleteCombat фиксирует исход решенного боя.
func HandleCompleteCombat(ctx Context) (api.Reply, error) {
	if err := ctx.Driver.CompleteCombat(ctx.Ctx); err != nil {
		return api.Reply{}, err
	}
	return api.OkReply("combat completed"), nil
}

// HandleAdvanceDungeon ведет партию на следующую сцену.
func HandleAdvanceDungeon(ctx Context) (api.Reply, error) {
	if err := ctx.Driver.AdvanceDungeon(ctx.Ctx); err != nil {
		return api.Reply{}, err
	}
	return api.OkReply("the party presses on"), nil
}

// HandleReturnHome возвращает партию домой вне боя.
func HandleReturnHome(ctx Context) (api.Reply, error) {
	if err := ctx.Driver.ReturnHome(ctx.Ctx); err != nil {
		return api.Reply{}, err
	}
	return api.OkReply("the party heads home"), nil
}

// HandleRetreat - отход из идущего боя с поражением.
func HandleRetreat(ctx Context) (api.Reply, error) {
	if err := ctx.Driver.Retreat(ctx.Ctx); err != nil {
		return api.Reply{}, err
	}
	return api.OkReply("the party retreats"), nil
}

// HandleViewDungeon - отладочный слепок прохождения.
func HandleViewDungeon(ctx Context) (api.Reply, error) {
	dump, err := ctx.Driver.DungeonDump()
	if err != nil {
		return api.Reply{}, err
	}
	return api.OkReply(dump), nil
}
