package llm

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"mindstage-server/pkg/logger"
)

// Gather выполняет батч хендлеров параллельно. Для батча из N запросов
// и пула из M эндпоинтов запрос i уходит на эндпоинт i mod M.
// Падение одного хендлера никогда не прерывает соседей; порядок
// завершения не специфицирован, результаты лежат в самих хендлерах.
func (g *Gateway) Gather(ctx context.Context, handlers []*Handler) {
	if len(handlers) == 0 {
		return
	}

	start := time.Now()
	var wg sync.WaitGroup
	for i, h := range handlers {
		endpoint := g.endpoints[i%len(g.endpoints)]
		wg.Add(1)
		go func(h *Handler, endpoint string) {
			defer wg.Done()
			g.post(ctx, h, endpoint)
		}(h, endpoint)
	}
	wg.Wait()

	succeeded := 0
	for _, h := range handlers {
		if h.OK() {
			succeeded++
		}
	}
	logger.Log.WithFields(logrus.Fields{
		"batch":     len(handlers),
		"succeeded": succeeded,
		"elapsed":   time.Since(start).String(),
	}).Info("LLM batch complete")
}

// GatherOne - удобная обертка для единичного запроса.
func (g *Gateway) GatherOne(ctx context.Context, h *Handler) {
	g.Gather(ctx, []*Handler{h})
}
