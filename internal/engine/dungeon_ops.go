package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"mindstage-server/internal/domain"
	"mindstage-server/internal/ecs"
	"mindstage-server/internal/systems"
	"mindstage-server/pkg/logger"
)

// Операции подземелья. Каждая команда - явный переход конечного
// автомата прохождения; недопустимый переход возвращает ошибку,
// состояние не меняется.

// EnterDungeon начинает прохождение: курсор на первую сцену,
// партия перемещается, монстры спавнятся, бой открывается.
func (e *TurnEngine) EnterDungeon(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := e.world.Dungeon
	if len(d.Stages) == 0 {
		return fmt.Errorf("dungeon %q has no stages", d.Name)
	}
	if d.Entered() {
		return fmt.Errorf("dungeon %q already entered", d.Name)
	}

	d.Cursor = 0
	return e.enterCurrentStage(ctx)
}

// AdvanceDungeon продвигает партию на следующую сцену. Допустим только
// после выигранного боя на текущей сцене. Если сцен больше нет,
// подземелье пройдено и партия возвращается домой.
func (e *TurnEngine) AdvanceDungeon(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := e.world.Dungeon
	if !d.Entered() {
		return fmt.Errorf("dungeon %q not entered", d.Name)
	}
	combat := d.CurrentCombat()
	if combat == nil || combat.State != domain.CombatWon {
		return fmt.Errorf("cannot advance: current combat is not won")
	}

	if !d.HasNext() {
		d.Cursor = len(d.Stages) // пройдено
		logger.Log.WithField("dungeon", d.Name).Info("🏆 dungeon cleared")
		return e.returnHomeLocked()
	}

	d.Cursor++
	return e.enterCurrentStage(ctx)
}

// enterCurrentStage разворачивает текущую сцену подземелья:
// сущность сцены, монстры, перемещение партии, кик-офф с перекличкой,
// открытие записи боя.
func (e *TurnEngine) enterCurrentStage(ctx context.Context) error {
	d := e.world.Dungeon
	seed := d.Current()
	if seed == nil {
		return fmt.Errorf("dungeon %q: no current stage at cursor %d", d.Name, d.Cursor)
	}

	sctx := e.sysCtx()

	// --- Сцена ---
	stage := e.world.Store.Get(seed.Name)
	if stage == nil {
		var err error
		stage, err = e.world.NewEntity(seed.Name)
		if err != nil {
			return err
		}
		stage.Add(&domain.StageComponent{StageName: seed.Name})
		stage.Add(&domain.DungeonComponent{})
		stage.Add(&domain.StageEnvironmentComponent{Narrative: seed.Narrative})
		e.world.AgentContext(seed.Name).SeedSystem(stagePrompt(e.world.Boot, *seed))
	}

	// --- Монстры ---
	for _, ms := range seed.Monsters {
		if e.world.Store.Get(ms.Name) != nil {
			continue
		}
		ms.Kind = domain.ActorKindMonster
		ms.Stage = seed.Name
		monster, err := spawnActor(e.world, ms)
		if err != nil {
			return err
		}
		if err := e.archive.EnsureActor(monster.Name()); err != nil {
			return err
		}
	}

	// --- Партия ---
	for _, member := range e.partyMembers() {
		systems.MoveActor(sctx, member, seed.Name)
	}

	// Кик-офф сцены дополняется перекличкой присутствующих.
	rollCall := systems.CombatRollCall(sctx, seed.Name)
	stage.Add(&domain.KickOffMessageComponent{
		Content: strings.TrimSpace(seed.KickOff + "\n\n" + rollCall),
	})

	systems.EmitCombatKickOff(sctx, seed.Name)
	d.PushCombat(seed.Name)

	systems.KickOff(sctx, ctx)
	systems.Fanout(sctx)

	logger.Log.WithFields(map[string]interface{}{
		"dungeon": d.Name,
		"stage":   seed.Name,
	}).Info("⚔️ combat opened")
	return nil
}

// DrawCards открывает раунд боя: каждый участник предлагает руку,
// затем выбирает карту. Карты лежат на участниках до розыгрыша.
func (e *TurnEngine) DrawCards(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := e.world.Dungeon
	if !d.Ongoing() {
		return fmt.Errorf("no ongoing combat")
	}
	combat := d.CurrentCombat()
	combat.Rounds++

	sctx := e.sysCtx()
	systems.DrawCandidates(sctx, ctx, combat.Stage, combat.Rounds)
	systems.ChooseCards(sctx, ctx, combat.Stage)
	systems.Fanout(sctx)
	return nil
}

// PlayCards разыгрывает выбранные карты: режиссер сцены считает
// исход, расчет применяется к профилям, перформанс уходит всем.
func (e *TurnEngine) PlayCards(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := e.world.Dungeon
	if !d.Ongoing() {
		return fmt.Errorf("no ongoing combat")
	}
	combat := d.CurrentCombat()

	played := e.world.Store.Group(ecs.AllOf(domain.CompActor, domain.CompPlayCard))
	if len(played) == 0 {
		return fmt.Errorf("no cards chosen; draw first")
	}

	sctx := e.sysCtx()
	systems.DirectorResolve(sctx, ctx, combat.Stage)
	systems.Fanout(sctx)
	systems.Cleanup(sctx)
	// Единственный тик эффектов боевого раунда: завершение боя
	// зачищает повторно, но счетчики уже не трогает.
	systems.TickStatusEffects(sctx)

	switch {
	case e.allMonstersDown(combat.Stage):
		logger.Log.WithField("stage", combat.Stage).Info("🎉 all monsters down")
	case e.allHeroesDown(combat.Stage):
		logger.Log.WithField("stage", combat.Stage).Warn("💀 the party is down")
	}
	return nil
}

// CompleteCombat фиксирует исход решенного боя. Пока живы и монстры,
// и герои, завершать нечего.
func (e *TurnEngine) CompleteCombat(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := e.world.Dungeon
	if !d.Ongoing() {
		return fmt.Errorf("no ongoing combat")
	}
	combat := d.CurrentCombat()

	var outcome string
	switch {
	case e.allMonstersDown(combat.Stage):
		combat.State = domain.CombatWon
		outcome = "the party stands victorious"
	case e.allHeroesDown(combat.Stage):
		combat.State = domain.CombatLost
		outcome = "the party has fallen"
	default:
		return fmt.Errorf("combat at %q is not decided yet", combat.Stage)
	}

	sctx := e.sysCtx()
	systems.EmitCombatComplete(sctx, combat.Stage, outcome)
	systems.Fanout(sctx)
	systems.Cleanup(sctx)

	logger.Log.WithFields(map[string]interface{}{
		"stage": combat.Stage,
		"state": combat.State.String(),
	}).Info("🏁 combat complete")
	return nil
}

// Retreat - отход из идущего боя. Бой засчитывается проигранным,
// партия возвращается на домашние сцены.
func (e *TurnEngine) Retreat(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := e.world.Dungeon
	if !d.Ongoing() {
		return fmt.Errorf("no ongoing combat to retreat from")
	}
	combat := d.CurrentCombat()
	combat.State = domain.CombatLost

	sctx := e.sysCtx()
	systems.EmitCombatComplete(sctx, combat.Stage, "the party retreated")
	systems.Fanout(sctx)
	systems.Cleanup(sctx)

	return e.returnHomeLocked()
}

// ReturnHome возвращает партию на домашние сцены вне боя.
func (e *TurnEngine) ReturnHome(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.world.Dungeon.Ongoing() {
		return fmt.Errorf("combat is ongoing; retreat instead")
	}
	return e.returnHomeLocked()
}

func (e *TurnEngine) returnHomeLocked() error {
	sctx := e.sysCtx()
	for _, member := range e.partyMembers() {
		home := e.homeStageOf(member.Name())
		if home == "" {
			logger.Log.WithField("actor", member.Name()).Warn("no home stage recorded; actor stays put")
			continue
		}
		systems.MoveActor(sctx, member, home)
	}
	systems.Fanout(sctx)
	return nil
}

// ShowEnvironment описывает текущую сцену подземелья.
func (e *TurnEngine) ShowEnvironment() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := e.world.Dungeon
	seed := d.Current()
	if seed == nil {
		return "", fmt.Errorf("no current dungeon stage")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n%s\n\nPresent:", seed.Name, seed.Narrative)
	for _, a := range systems.ActorsOnStage(e.world.Store, seed.Name) {
		fmt.Fprintf(&b, "\n- %s: %s", a.Name(), systems.Appearance(a))
	}
	return b.String(), nil
}

// DungeonDump - отладочный слепок состояния прохождения.
func (e *TurnEngine) DungeonDump() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	data, err := json.MarshalIndent(e.world.Dungeon, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// partyMembers - живые герои и союзники в порядке создания.
func (e *TurnEngine) partyMembers() []*ecs.Entity {
	var out []*ecs.Entity
	for _, a := range e.world.Store.Group(ecs.AllOf(domain.CompActor).AnyOf(domain.CompHero, domain.CompAlly)) {
		if systems.IsAlive(a) {
			out = append(out, a)
		}
	}
	return out
}

func (e *TurnEngine) homeStageOf(actor string) string {
	for _, seed := range e.world.Boot.Actors {
		if seed.Name == actor {
			return seed.Stage
		}
	}
	return ""
}

func (e *TurnEngine) allMonstersDown(stage string) bool {
	return e.sideDown(stage, true)
}

func (e *TurnEngine) allHeroesDown(stage string) bool {
	return e.sideDown(stage, false)
}

// sideDown: не осталось живых участников стороны на сцене.
func (e *TurnEngine) sideDown(stage string, monsters bool) bool {
	any := false
	for _, p := range systems.CombatParticipants(e.world.Store, stage) {
		if p.Has(domain.CompMonster) != monsters {
			continue
		}
		any = true
	}
	if any {
		return false
	}
	// CombatParticipants отдает только живых; проверяем, что сторона
	// вообще была представлена на этой сцене.
	present := false
	for _, a := range e.world.Store.Group(ecs.AllOf(domain.CompActor, domain.CompActorStage)) {
		if systems.StageOf(a) != stage || a.Has(domain.CompMonster) != monsters {
			continue
		}
		present = true
		break
	}
	return present
}
