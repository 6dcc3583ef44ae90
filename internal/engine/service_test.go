package engine

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindstage-server/internal/infrastructure/storage"
	"mindstage-server/pkg/api"
)

func TestService_UnknownActionRejected(t *testing.T) {
	svc := NewService(newTestEngine(t, testBoot()))

	reply := svc.Process(context.Background(), api.Command{Action: "/teleport"})
	assert.Equal(t, "error", reply.Kind)
}

func TestService_SpeakPayloadValidation(t *testing.T) {
	svc := NewService(newTestEngine(t, testBoot()))

	// Пустая нагрузка не проходит валидацию.
	bad, _ := json.Marshal(api.SpeakPayload{})
	reply := svc.Process(context.Background(), api.Command{Action: api.ActionSpeak, Payload: bad})
	assert.Equal(t, "error", reply.Kind)

	good, _ := json.Marshal(api.SpeakPayload{Target: "Hunter", Content: "Ready."})
	reply = svc.Process(context.Background(), api.Command{Action: api.ActionSpeak, Payload: good})
	assert.Equal(t, "ok", reply.Kind)
}

func TestService_QuitSavesWorld(t *testing.T) {
	eng := newTestEngine(t, testBoot())
	svc := NewService(eng)

	reply := svc.Process(context.Background(), api.Command{Action: api.ActionQuit})
	require.Equal(t, "quit", reply.Kind)
	assert.True(t, storage.Exists(eng.cfg.SaveDir()))
}

func TestService_DungeonCommandsGuarded(t *testing.T) {
	svc := NewService(newTestEngine(t, testBoot()))
	ctx := context.Background()

	// Вне боя боевые команды отклоняются, но протокол жив.
	for _, action := range []string{api.ActionDrawCards, api.ActionPlayCards, api.ActionComplete, api.ActionRetreat, api.ActionAdvanceNext} {
		reply := svc.Process(ctx, api.Command{Action: action})
		assert.Equal(t, "error", reply.Kind, action)
	}

	reply := svc.Process(ctx, api.Command{Action: api.ActionEnterDungeon})
	assert.Equal(t, "ok", reply.Kind)

	reply = svc.Process(ctx, api.Command{Action: api.ActionShowStage})
	assert.Equal(t, "ok", reply.Kind)
	assert.Contains(t, reply.Text, "Gate")

	reply = svc.Process(ctx, api.Command{Action: api.ActionViewDungeon})
	assert.Equal(t, "ok", reply.Kind)
}
