package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"mindstage-server/internal/archive"
	"mindstage-server/internal/domain"
	"mindstage-server/internal/ecs"
	"mindstage-server/internal/infrastructure/storage"
	"mindstage-server/internal/llm"
	"mindstage-server/internal/systems"
	"mindstage-server/pkg/logger"
)

// maxActionPasses ограничивает внутренний цикл исполнения действий:
// реакции на реакции не раскручиваются бесконечно.
const maxActionPasses = 3

// TurnEngine - оркестратор хода. Все команды сессии проходят через
// него; конкурентные вызовы сериализуются мьютексом.
type TurnEngine struct {
	mu sync.Mutex

	cfg     Config
	world   *World
	gateway *llm.Gateway
	archive *archive.Manager

	// actionsAdded реагирует на появление компонентов-действий:
	// непустой коллектор после фазы исполнения запускает еще один проход.
	actionsAdded *ecs.Collector

	terminated atomic.Bool
}

// NewGame строит движок поверх свежего мира из зерна.
func NewGame(cfg Config, chatCfg llm.Config, boot domain.Boot) (*TurnEngine, error) {
	world, err := BuildWorld(boot)
	if err != nil {
		return nil, err
	}
	e, err := newEngine(cfg, chatCfg, world)
	if err != nil {
		return nil, err
	}
	if err := seedArchives(world, e.archive); err != nil {
		e.Close()
		return nil, fmt.Errorf("seed archives: %w", err)
	}
	return e, nil
}

// LoadGame строит движок поверх мира из сейв-документа.
// Любая ошибка валидации - отказ всей сессии.
func LoadGame(cfg Config, chatCfg llm.Config) (*TurnEngine, error) {
	doc, err := storage.Load(cfg.SaveDir())
	if err != nil {
		return nil, err
	}
	world, err := worldFromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("restore world: %w", err)
	}
	logger.Log.WithFields(map[string]interface{}{
		"world":    world.Boot.Name,
		"entities": len(doc.Entities),
	}).Info("💾 world restored from save")
	return newEngine(cfg, chatCfg, world)
}

func newEngine(cfg Config, chatCfg llm.Config, world *World) (*TurnEngine, error) {
	gateway, err := llm.NewGateway(chatCfg)
	if err != nil {
		return nil, err
	}
	mgr, err := archive.NewManager(cfg.SaveDir())
	if err != nil {
		gateway.Close()
		return nil, err
	}
	e := &TurnEngine{
		cfg:     cfg,
		world:   world,
		gateway: gateway,
		archive: mgr,
	}
	e.actionsAdded = world.Store.Collector(ecs.AllOf().AnyOf(domain.ActionComponentNames...))
	return e, nil
}

// World открывает состояние для чтения (отладочные команды, тесты).
func (e *TurnEngine) World() *World { return e.world }

// Terminate просит движок остановиться между фазами текущего хода.
// Безопасен из другой горутины.
func (e *TurnEngine) Terminate() { e.terminated.Store(true) }

func (e *TurnEngine) halted() bool { return e.terminated.Load() }

// Save атомарно пишет сейв-документ в каталог сессии.
func (e *TurnEngine) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saveLocked()
}

func (e *TurnEngine) saveLocked() error {
	doc, err := e.world.Document()
	if err != nil {
		return err
	}
	return storage.Save(e.cfg.SaveDir(), doc)
}

// Close освобождает ресурсы шлюза. Сейв не пишется.
func (e *TurnEngine) Close() {
	e.gateway.Close()
}

// sysCtx собирает межсистемный контекст для одного хода.
// Nagged создается заново: не больше одного корректирующего
// сообщения на актора за ход.
func (e *TurnEngine) sysCtx() systems.Context {
	return systems.Context{
		Store:        e.world.Store,
		Archive:      e.archive,
		Gateway:      e.gateway,
		AgentContext: e.world.AgentContext,
		Events:       systems.NewEventQueue(),
		Nagged:       make(map[string]bool),
		Adjacency:    e.world.Boot.Adjacency(),
		Timeout:      e.cfg.ChatTimeout,
	}
}

// AdvanceHomeTurn прогоняет один полный ход домашнего режима:
// допуск, кик-офф, планирование, исполнение действий с фан-аутом,
// очистка. Боевые фазы в домашнем ходу не участвуют.
func (e *TurnEngine) AdvanceHomeTurn(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	started := time.Now()
	sctx := e.sysCtx()

	// --- ШАГ 1: допуск к планированию ---
	systems.MarkPlanningEligible(sctx)
	if e.halted() {
		return nil
	}

	// --- ШАГ 2: кик-офф новых сущностей ---
	systems.KickOff(sctx, ctx)
	if e.halted() {
		return nil
	}

	// --- ШАГ 3: планирование ---
	e.actionsAdded.Drain()
	systems.PlanHome(sctx, ctx)
	if e.halted() {
		return nil
	}

	// --- ШАГИ 4-5: исполнение действий и фан-аут ---
	e.runActionPasses(sctx)

	// --- ШАГ 7: очистка и тик эффектов (один на ход) ---
	systems.Cleanup(sctx)
	systems.TickStatusEffects(sctx)

	logger.Log.WithField("elapsed", time.Since(started).String()).Info("⏱️ home turn complete")
	return nil
}

// runActionPasses исполняет накопленные действия. Действия, добавленные
// во время исполнения (например, реплика при переходе), подбираются
// следующим проходом, но не дальше maxActionPasses.
func (e *TurnEngine) runActionPasses(sctx systems.Context) {
	for pass := 0; pass < maxActionPasses; pass++ {
		if e.halted() {
			return
		}
		e.actionsAdded.Drain()

		systems.ExecuteCommunications(sctx)
		systems.ExecuteTransStage(sctx)
		systems.ExecuteFight(sctx)
		systems.Fanout(sctx)

		if e.actionsAdded.Empty() {
			return
		}
	}
	logger.Log.Warn("action passes exhausted; leftover actions wait for cleanup")
}

// QueuePlayerSpeak вешает на актора-игрока реплику. Она исполняется
// на следующем ходу вместе с действиями остальных акторов.
func (e *TurnEngine) QueuePlayerSpeak(target, content string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	player := e.playerEntity()
	if player == nil {
		return fmt.Errorf("no active player in world")
	}
	lines := []domain.TargetedLine{{Target: target, Content: content}}
	if c, ok := ecs.Get[*domain.SpeakComponent](player, domain.CompSpeak); ok {
		c.Lines = append(c.Lines, lines[0])
		return nil
	}
	player.Add(&domain.SpeakComponent{Lines: lines})
	return nil
}

// QueuePlayerSwitchStage вешает на актора-игрока переход на сцену.
func (e *TurnEngine) QueuePlayerSwitchStage(stage string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	player := e.playerEntity()
	if player == nil {
		return fmt.Errorf("no active player in world")
	}
	if e.world.Store.Get(stage) == nil {
		return fmt.Errorf("unknown stage %q", stage)
	}
	player.Add(&domain.TransStageComponent{TargetStage: stage})
	return nil
}

func (e *TurnEngine) playerEntity() *ecs.Entity {
	return e.world.Store.First(ecs.AllOf(domain.CompActor, domain.CompPlayerActive))
}

// HealthReport опрашивает все эндпоинты шлюза.
func (e *TurnEngine) HealthReport(ctx context.Context) (string, error) {
	report := e.gateway.HealthCheck(ctx)
	out := ""
	for _, h := range report {
		status := "ok"
		if h.Err != nil {
			status = "unreachable: " + h.Err.Error()
		}
		out += fmt.Sprintf("%s: %s\n", h.Endpoint, status)
	}
	return out, nil
}
