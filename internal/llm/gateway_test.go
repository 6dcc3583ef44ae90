package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindstage-server/internal/domain"
	"mindstage-server/pkg/api"
)

// chatStub поднимает фейковый chat-эндпоинт, отвечающий echo.
func chatStub(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, api.ChatPath) {
			w.WriteHeader(http.StatusOK) // health ping
			return
		}
		if hits != nil {
			hits.Add(1)
		}
		var req api.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		resp := api.ChatResponse{Output: "echo: " + req.Input}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestNewGateway_RequiresEndpoints(t *testing.T) {
	_, err := NewGateway(Config{})
	assert.Error(t, err)
}

func TestGather_BatchAcrossEndpoints(t *testing.T) {
	var hitsA, hitsB atomic.Int64
	srvA := chatStub(t, &hitsA)
	defer srvA.Close()
	srvB := chatStub(t, &hitsB)
	defer srvB.Close()

	g, err := NewGateway(Config{Endpoints: []string{srvA.URL, srvB.URL}, Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer g.Close()

	history := []domain.Message{{Kind: domain.MessageSystem, Content: "sheet"}}
	handlers := []*Handler{
		NewHandler("Hero", "plan your turn", history, 0),
		NewHandler("Wizard", "plan your turn", history, 0),
		NewHandler("Goblin", "plan your turn", history, 0),
		NewHandler("Stage", "narrate", history, 0),
	}
	g.Gather(context.Background(), handlers)

	for _, h := range handlers {
		assert.True(t, h.OK(), "handler %s", h.AgentName)
		assert.Equal(t, "echo: "+h.Prompt, h.Response)
	}
	// Раскладка i mod M: по два запроса на эндпоинт.
	assert.EqualValues(t, 2, hitsA.Load())
	assert.EqualValues(t, 2, hitsB.Load())
}

// Падение одного эндпоинта не прерывает остальных: упавший хендлер
// остается с пустым ответом, остальные довозят свои.
func TestGather_ToleratesEndpointFailure(t *testing.T) {
	healthy := chatStub(t, nil)
	defer healthy.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	g, err := NewGateway(Config{Endpoints: []string{healthy.URL, broken.URL}, Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer g.Close()

	handlers := []*Handler{
		NewHandler("Hero", "hello", nil, 0),   // healthy
		NewHandler("Goblin", "hello", nil, 0), // broken
	}
	g.Gather(context.Background(), handlers)

	assert.True(t, handlers[0].OK())
	assert.False(t, handlers[1].OK())
	assert.Empty(t, handlers[1].Response)
	assert.Error(t, handlers[1].Err)
}

func TestGatherOne_Timeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer slow.Close()

	g, err := NewGateway(Config{Endpoints: []string{slow.URL}, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)
	defer g.Close()

	h := NewHandler("Hero", "hello", nil, 0)
	g.GatherOne(context.Background(), h)

	assert.False(t, h.OK())
	assert.Error(t, h.Err)
}

func TestHealthCheck(t *testing.T) {
	up := chatStub(t, nil)
	defer up.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()

	g, err := NewGateway(Config{Endpoints: []string{up.URL, down.URL}, Timeout: time.Second})
	require.NoError(t, err)
	defer g.Close()

	report := g.HealthCheck(context.Background())
	require.Len(t, report, 2)
	assert.NoError(t, report[0].Err)
	assert.Error(t, report[1].Err)
}
