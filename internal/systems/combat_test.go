package systems

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mindstage-server/internal/archive"
	"mindstage-server/internal/domain"
	"mindstage-server/internal/ecs"
	"mindstage-server/internal/llm"
	"mindstage-server/pkg/api"
)

// setupCombat строит боевую сцену Gate: герой против гоблина.
// Ответы фейкового эндпоинта задаются на тест через replies.
func setupCombat(t *testing.T, reply string) (Context, *ecs.Store) {
	t.Helper()

	store := ecs.NewStore()
	gate, err := store.Create("Gate")
	if err != nil {
		t.Fatal(err)
	}
	gate.Add(&domain.StageComponent{StageName: "Gate"})
	gate.Add(&domain.DungeonComponent{})
	gate.Add(&domain.StageEnvironmentComponent{Narrative: "a rusty gate"})

	hero, _ := store.Create("Hero")
	hero.Add(&domain.ActorComponent{ActorName: "Hero"})
	hero.Add(&domain.HeroComponent{})
	hero.Add(&domain.ActorStageComponent{StageName: "Gate"})
	hero.Add(&domain.RPGCharacterProfileComponent{HP: 30, Level: 1, BaseMaxHP: 30})

	goblin, _ := store.Create("Goblin")
	goblin.Add(&domain.ActorComponent{ActorName: "Goblin"})
	goblin.Add(&domain.MonsterComponent{})
	goblin.Add(&domain.ActorStageComponent{StageName: "Gate"})
	goblin.Add(&domain.RPGCharacterProfileComponent{HP: 10, Level: 1, BaseMaxHP: 10})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.ChatResponse{Output: reply})
	}))
	t.Cleanup(srv.Close)

	gateway, err := llm.NewGateway(llm.Config{Endpoints: []string{srv.URL}, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(gateway.Close)

	mgr, err := archive.NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	contexts := make(map[string]*domain.AgentContext)
	ctx := Context{
		Store:   store,
		Archive: mgr,
		Gateway: gateway,
		AgentContext: func(name string) *domain.AgentContext {
			if c, ok := contexts[name]; ok {
				return c
			}
			c := domain.NewAgentContext(name)
			contexts[name] = c
			return c
		},
		Events:  NewEventQueue(),
		Nagged:  make(map[string]bool),
		Timeout: 5 * time.Second,
	}
	return ctx, store
}

func TestDrawCandidates_ValidHand(t *testing.T) {
	hand := `{"skills":[
		{"name":"Slash","description":"a cut","effect":"-5 HP","class":"attack"},
		{"name":"Guard","description":"a block","effect":"halve damage","class":"defense"},
		{"name":"Rally","description":"a shout","effect":"+2 HP","class":"support"}]}`
	ctx, store := setupCombat(t, hand)

	DrawCandidates(ctx, context.Background(), "Gate", 1)

	for _, name := range []string{"Hero", "Goblin"} {
		h, ok := ecs.Get[*domain.HandComponent](store.Get(name), domain.CompHand)
		if !ok || len(h.Skills) != 3 {
			t.Errorf("%s must hold a hand of three, got %v", name, ok)
		}
	}

	// Сцена получила порядок хода раунда.
	turn, ok := ecs.Get[*domain.TurnComponent](store.Get("Gate"), domain.CompTurn)
	if !ok || turn.Round != 1 || len(turn.Order) != 2 {
		t.Errorf("turn component mismatch: %+v", turn)
	}
}

// Отложенная X-карта входит в руку и снимается с очереди.
func TestDrawCandidates_XCardJoinsHand(t *testing.T) {
	hand := `{"skills":[
		{"name":"Slash","description":"a cut","effect":"-5 HP","class":"attack"},
		{"name":"Guard","description":"a block","effect":"halve damage","class":"defense"},
		{"name":"Rally","description":"a shout","effect":"+2 HP","class":"support"}]}`
	ctx, store := setupCombat(t, hand)

	store.Get("Hero").Add(&domain.XCardPlayerComponent{
		Skill: domain.Skill{Name: "Last Resort", Effect: "massive damage", Class: "attack"},
	})

	DrawCandidates(ctx, context.Background(), "Gate", 1)

	hero := store.Get("Hero")
	h, _ := ecs.Get[*domain.HandComponent](hero, domain.CompHand)
	if len(h.Skills) != 4 || h.Skills[3].Name != "Last Resort" {
		t.Errorf("the x-card must join the hand: %+v", h.Skills)
	}
	if hero.Has(domain.CompXCardPlayer) {
		t.Error("the x-card queue must be consumed")
	}
}

// Невалидный выбор карты отбрасывается: карты нет, участник получает
// одно корректирующее сообщение.
func TestChooseCards_InvalidReplyDropsCard(t *testing.T) {
	ctx, store := setupCombat(t, "I refuse to answer in JSON!")

	hero := store.Get("Hero")
	hero.Add(&domain.HandComponent{Skills: []domain.Skill{
		{Name: "Slash", Description: "a cut", Effect: "-5 HP", Class: "attack"},
		{Name: "Guard", Description: "a block", Effect: "halve", Class: "defense"},
		{Name: "Rally", Description: "a shout", Effect: "+2 HP", Class: "support"},
	}})

	ChooseCards(ctx, context.Background(), "Gate")

	if hero.Has(domain.CompPlayCard) {
		t.Fatal("an invalid reply must not produce a play")
	}
	if !ctx.Nagged["Hero"] {
		t.Error("the hero must receive a corrective message")
	}
}

// Недоступный эндпоинт: участник пропускает раунд. Карты нет,
// корректирующего сообщения тоже нет.
func TestChooseCards_TransportFailureIsNoOp(t *testing.T) {
	ctx, store := setupCombat(t, "unused")

	dead, err := llm.NewGateway(llm.Config{Endpoints: []string{"http://127.0.0.1:1"}, Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(dead.Close)
	ctx.Gateway = dead

	hero := store.Get("Hero")
	hero.Add(&domain.HandComponent{Skills: []domain.Skill{
		{Name: "Slash", Description: "a cut", Effect: "-5 HP", Class: "attack"},
		{Name: "Guard", Description: "a block", Effect: "halve", Class: "defense"},
		{Name: "Rally", Description: "a shout", Effect: "+2 HP", Class: "support"},
	}})

	ChooseCards(ctx, context.Background(), "Gate")

	if hero.Has(domain.CompPlayCard) {
		t.Fatal("a transport failure must not produce a play")
	}
	if ctx.Nagged["Hero"] {
		t.Error("a transport failure is not a protocol error, no corrective message")
	}
	if len(ctx.AgentContext("Hero").Messages) != 0 {
		t.Error("a failed exchange must not enter the agent context")
	}
}

// Вердикт режиссера: урон применяется, смерть фиксируется, нарратив
// уходит событием на сцену.
func TestDirectorResolve_AppliesVerdict(t *testing.T) {
	verdict := `{"calculation": "Goblin: -12 HP", "performance": "The blade ends it."}`
	ctx, store := setupCombat(t, verdict)

	hero := store.Get("Hero")
	hero.Add(&domain.PlayCardComponent{
		Targets: []string{"Goblin"},
		Skill:   domain.Skill{Name: "Slash", Effect: "-5 HP", Class: "attack"},
	})
	store.Get("Gate").Add(&domain.TurnComponent{Round: 1, Order: []string{"Hero", "Goblin"}})

	DirectorResolve(ctx, context.Background(), "Gate")

	goblin := store.Get("Goblin")
	p := Profile(goblin)
	if p.HP != 0 {
		t.Errorf("goblin HP mismatch: %d", p.HP)
	}
	if !goblin.Has(domain.CompDeath) {
		t.Error("goblin must be dead")
	}
	if !goblin.Has(domain.CompFeedback) {
		t.Error("goblin must carry feedback")
	}
	if !store.Get("Gate").Has(domain.CompStageDirector) {
		t.Error("the stage must carry the verdict")
	}

	Fanout(ctx)
	found := false
	for _, m := range ctx.AgentContext("Hero").Messages {
		if m.Kind == domain.MessageHuman && strings.Contains(m.Content, "The blade ends it.") {
			found = true
		}
	}
	if !found {
		t.Error("the performance must reach the hero")
	}
}

// Без сыгранных карт режиссер не вызывается и ничего не меняет.
func TestDirectorResolve_NoCardsNoVerdict(t *testing.T) {
	ctx, store := setupCombat(t, `{"calculation":"", "performance":"nothing"}`)

	DirectorResolve(ctx, context.Background(), "Gate")

	if store.Get("Gate").Has(domain.CompStageDirector) {
		t.Error("no cards means no verdict")
	}
	if !ctx.Events.Empty() {
		t.Error("no events expected")
	}
}
