package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindstage-server/internal/domain"
	"mindstage-server/internal/ecs"
	"mindstage-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func sampleDocument(t *testing.T) *Document {
	t.Helper()

	store := ecs.NewStore()
	stage, err := store.Create("Camp")
	require.NoError(t, err)
	stage.Add(&domain.StageComponent{StageName: "Camp"})
	stage.Add(&domain.HomeComponent{})

	hero, err := store.Create("Hero")
	require.NoError(t, err)
	hero.Add(&domain.ActorComponent{ActorName: "Hero"})
	hero.Add(&domain.ActorStageComponent{StageName: "Camp"})
	hero.Add(&domain.RPGCharacterProfileComponent{HP: 25, Level: 2, BaseMaxHP: 30})

	entities, err := store.Snapshot()
	require.NoError(t, err)

	heroCtx := domain.NewAgentContext("Hero")
	heroCtx.SeedSystem("you are the hero")
	heroCtx.AddHuman("the sun rises")
	heroCtx.AddAI(`{"action":["/stay"],"targets":["Camp"],"say":[],"tags":[]}`)

	boot := domain.Boot{
		Name:     "Testland",
		Campaign: "a short test",
		Player:   "Hero",
		Stages:   []domain.StageSeed{{Name: "Camp", Narrative: "camp", KickOff: "wake up"}},
		Actors: []domain.ActorSeed{{
			Name: "Hero", Kind: domain.ActorKindPlayer, Stage: "Camp",
			Profile: domain.ProfileSeed{MaxHP: 30, Level: 2},
		}},
		Dungeon: domain.DungeonSeed{Name: "Crypt", Stages: []domain.StageSeed{{Name: "Gate", Narrative: "gate"}}},
	}

	return &Document{
		Version:       Version1,
		RuntimeIndex:  2,
		Entities:      entities,
		AgentsContext: []domain.AgentContext{*heroCtx},
		Dungeon:       domain.NewDungeonState(boot.Dungeon),
		Boot:          boot,
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "user", "game")
	doc := sampleDocument(t)

	require.NoError(t, Save(dir, doc))
	require.True(t, Exists(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, doc.Version, loaded.Version)
	assert.Equal(t, doc.RuntimeIndex, loaded.RuntimeIndex)
	assert.Equal(t, doc.Boot.Name, loaded.Boot.Name)
	require.Len(t, loaded.AgentsContext, 1)
	assert.Len(t, loaded.AgentsContext[0].Messages, 3)

	store, err := loaded.RestoreStore()
	require.NoError(t, err)
	hero := store.Get("Hero")
	require.NotNil(t, hero)
	p, ok := ecs.Get[*domain.RPGCharacterProfileComponent](hero, domain.CompRPGProfile)
	require.True(t, ok)
	assert.Equal(t, 25, p.HP)
	assert.Equal(t, 2, p.Level)
}

// Сейв без изменений мира байт-в-байт повторяет предыдущий.
func TestSave_Deterministic(t *testing.T) {
	dir := t.TempDir()
	doc := sampleDocument(t)

	require.NoError(t, Save(dir, doc))
	first, err := os.ReadFile(filepath.Join(dir, WorldFileName))
	require.NoError(t, err)

	loaded, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, Save(dir, loaded))
	second, err := os.ReadFile(filepath.Join(dir, WorldFileName))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestLoad_RejectsBadVersion(t *testing.T) {
	dir := t.TempDir()
	doc := sampleDocument(t)
	doc.Version = "99"
	require.NoError(t, Save(dir, doc))

	loaded, err := Load(dir)
	require.NoError(t, err)
	_, err = loaded.RestoreStore()
	assert.Error(t, err)
}

// ActorStage, указывающая на несуществующую сцену, валит загрузку целиком.
func TestRestore_RejectsDanglingActorStage(t *testing.T) {
	doc := sampleDocument(t)
	for i := range doc.Entities {
		if doc.Entities[i].Name != "Hero" {
			continue
		}
		for j := range doc.Entities[i].Components {
			if doc.Entities[i].Components[j].Name == domain.CompActorStage {
				doc.Entities[i].Components[j].Data = []byte(`{"stage_name":"Nowhere"}`)
			}
		}
	}
	_, err := doc.RestoreStore()
	assert.Error(t, err)
}

// Переставленные вручную записи не меняют порядок обхода мира:
// восстановление выравнивает их по runtime-индексу.
func TestRestore_ReordersByRuntimeIndex(t *testing.T) {
	doc := &Document{
		Version:      Version1,
		RuntimeIndex: 2,
		Entities: []ecs.EntityRecord{
			{Name: "Second", Components: []ecs.ComponentRecord{
				{Name: domain.CompActor, Data: []byte(`{"name":"Second"}`)},
				{Name: domain.CompRuntime, Data: []byte(`{"runtime_index":2}`)},
			}},
			{Name: "First", Components: []ecs.ComponentRecord{
				{Name: domain.CompActor, Data: []byte(`{"name":"First"}`)},
				{Name: domain.CompRuntime, Data: []byte(`{"runtime_index":1}`)},
			}},
		},
	}

	store, err := doc.RestoreStore()
	require.NoError(t, err)

	entities := store.Entities()
	require.Len(t, entities, 2)
	assert.Equal(t, "First", entities[0].Name())
	assert.Equal(t, "Second", entities[1].Name())
}

func TestLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Exists(dir))
	_, err := Load(dir)
	assert.Error(t, err)
}
