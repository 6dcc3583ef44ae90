package systems

import (
	"strings"
	"testing"

	"mindstage-server/internal/archive"
	"mindstage-server/internal/domain"
	"mindstage-server/internal/ecs"
)

// Несуществующая цель /fight: действие отброшено, актор получает
// ровно одно корректирующее сообщение за ход.
func TestApplyPlan_FightUnknownTargetNagsOnce(t *testing.T) {
	ctx, store := setupWorld(t)
	hero := store.Get("Hero")

	envelope := &domain.PlanEnvelope{
		Action:  []string{"/fight"},
		Targets: []string{"Dragon"},
	}
	applyPlan(ctx, hero, envelope)
	applyPlan(ctx, hero, envelope) // повторное нарушение в том же ходу

	if hero.Has(domain.CompFight) {
		t.Error("fight against unknown target must not attach a component")
	}

	nags := 0
	for _, m := range ctx.AgentContext("Hero").Messages {
		if m.Kind == domain.MessageHuman && strings.Contains(m.Content, "no action was taken") {
			nags++
		}
	}
	if nags != 1 {
		t.Errorf("expected exactly one corrective message, got %d", nags)
	}
}

func TestApplyPlan_FightValidTarget(t *testing.T) {
	ctx, store := setupWorld(t)
	hero := store.Get("Hero")

	applyPlan(ctx, hero, &domain.PlanEnvelope{
		Action:  []string{"/fight"},
		Targets: []string{"Wizard"},
	})

	if !hero.Has(domain.CompFight) {
		t.Fatal("fight component must be attached")
	}
	if len(ctx.AgentContext("Hero").Messages) != 0 {
		t.Error("valid plan must not produce corrective messages")
	}
}

// Самоцель не считается валидной целью боя.
func TestApplyPlan_FightSelfRejected(t *testing.T) {
	ctx, store := setupWorld(t)
	hero := store.Get("Hero")

	applyPlan(ctx, hero, &domain.PlanEnvelope{
		Action:  []string{"/fight"},
		Targets: []string{"Hero"},
	})
	if hero.Has(domain.CompFight) {
		t.Error("self-target must be rejected")
	}
}

// /leave допустим на известную из архива или объявленно смежную сцену.
func TestApplyPlan_LeaveRequiresKnownStage(t *testing.T) {
	ctx, store := setupWorld(t)
	hero := store.Get("Hero")

	applyPlan(ctx, hero, &domain.PlanEnvelope{
		Action:  []string{"/leave"},
		Targets: []string{"Void"},
	})
	if hero.Has(domain.CompTransStage) {
		t.Error("unknown destination must be rejected")
	}

	// Записанное знание о сцене открывает туда дорогу.
	if err := ctx.Archive.WriteStageArchive("Hero", archive.StageArchiveFile{StageName: "Forest"}); err != nil {
		t.Fatal(err)
	}
	applyPlan(ctx, hero, &domain.PlanEnvelope{
		Action:  []string{"/leave"},
		Targets: []string{"Forest"},
	})
	trans, ok := getTrans(hero)
	if !ok || trans != "Forest" {
		t.Errorf("leave to a known stage must attach TransStage, got %v %v", trans, ok)
	}
}

func TestApplyPlan_LeaveViaAdjacency(t *testing.T) {
	ctx, store := setupWorld(t)
	ctx.Adjacency["Camp"] = []string{"River"}
	hero := store.Get("Hero")

	applyPlan(ctx, hero, &domain.PlanEnvelope{
		Action:  []string{"/leave"},
		Targets: []string{"River"},
	})
	trans, ok := getTrans(hero)
	if !ok || trans != "River" {
		t.Errorf("adjacent stage must be reachable, got %v %v", trans, ok)
	}
}

// Реплики /stay без собеседника публичны.
func TestApplyPlan_StaySayBecomesAnnounce(t *testing.T) {
	ctx, store := setupWorld(t)
	hero := store.Get("Hero")

	applyPlan(ctx, hero, &domain.PlanEnvelope{
		Action:  []string{"/stay"},
		Targets: []string{"Camp"},
		Say:     []string{"A fine morning."},
	})
	if !hero.Has(domain.CompAnnounce) {
		t.Error("stay targeting own stage must announce the say line")
	}
}

// /stay с собеседником на сцене: адресная реплика.
func TestApplyPlan_StayAtActorBecomesSpeak(t *testing.T) {
	ctx, store := setupWorld(t)
	hero := store.Get("Hero")

	applyPlan(ctx, hero, &domain.PlanEnvelope{
		Action:  []string{"/stay"},
		Targets: []string{"Hunter"},
		Say:     []string{"Keep close."},
	})

	speak, ok := ecs.Get[*domain.SpeakComponent](hero, domain.CompSpeak)
	if !ok {
		t.Fatal("stay targeting a present actor must attach a speak component")
	}
	if len(speak.Lines) != 1 || speak.Lines[0].Target != "Hunter" {
		t.Errorf("speak lines mismatch: %+v", speak.Lines)
	}
	if len(ctx.AgentContext("Hero").Messages) != 0 {
		t.Error("valid plan must not produce corrective messages")
	}
}

// Тег whisper переводит адресную реплику в шепот.
func TestApplyPlan_WhisperTag(t *testing.T) {
	ctx, store := setupWorld(t)
	hero := store.Get("Hero")

	applyPlan(ctx, hero, &domain.PlanEnvelope{
		Action:  []string{"/stay"},
		Targets: []string{"Hunter"},
		Say:     []string{"Not a word to the wizard."},
		Tags:    []string{"whisper"},
	})

	whisper, ok := ecs.Get[*domain.WhisperComponent](hero, domain.CompWhisper)
	if !ok {
		t.Fatal("the whisper tag must attach a whisper component")
	}
	if len(whisper.Lines) != 1 || whisper.Lines[0].Target != "Hunter" {
		t.Errorf("whisper lines mismatch: %+v", whisper.Lines)
	}
	if hero.Has(domain.CompSpeak) {
		t.Error("a whispered line must not also be spoken aloud")
	}
}

// Тег think: внутренний голос, слышит только автор.
func TestApplyPlan_ThinkTag(t *testing.T) {
	ctx, store := setupWorld(t)
	hero := store.Get("Hero")

	applyPlan(ctx, hero, &domain.PlanEnvelope{
		Action:  []string{"/stay"},
		Targets: []string{"Camp"},
		Say:     []string{"Something is off about this camp."},
		Tags:    []string{"think"},
	})

	if !hero.Has(domain.CompMindVoice) {
		t.Fatal("the think tag must attach a mind voice component")
	}
	if hero.Has(domain.CompAnnounce) || hero.Has(domain.CompSpeak) {
		t.Error("an inner thought must not be voiced")
	}
}

// /stay с отсутствующим собеседником отбрасывается с уведомлением.
func TestApplyPlan_StayAtUnknownActorRejected(t *testing.T) {
	ctx, store := setupWorld(t)
	hero := store.Get("Hero")

	applyPlan(ctx, hero, &domain.PlanEnvelope{
		Action:  []string{"/stay"},
		Targets: []string{"Dragon"},
		Say:     []string{"Hello?"},
	})

	if hero.Has(domain.CompSpeak) || hero.Has(domain.CompAnnounce) {
		t.Error("a stay at an unknown actor must not produce a line")
	}
	if !ctx.Nagged["Hero"] {
		t.Error("the hero must receive a corrective message")
	}
}

func getTrans(e *ecs.Entity) (string, bool) {
	c, ok := ecs.Get[*domain.TransStageComponent](e, domain.CompTransStage)
	if !ok {
		return "", false
	}
	return c.TargetStage, true
}
