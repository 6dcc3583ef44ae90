package domain

import "fmt"

// Имена типов компонентов. Они же - ключи в сериализованном снапшоте,
// поэтому менять их без миграции сейвов нельзя.
const (
	CompWorld            = "World"
	CompStage            = "Stage"
	CompActor            = "Actor"
	CompPlayer           = "Player"
	CompHome             = "Home"
	CompDungeon          = "Dungeon"
	CompAlly             = "Ally"
	CompHero             = "Hero"
	CompMonster          = "Monster"
	CompRuntime          = "Runtime"
	CompKickOffMessage   = "KickOffMessage"
	CompKickOffComplete  = "KickOffComplete"
	CompDestroy          = "Destroy"
	CompDeath            = "Death"
	CompActorStage       = "ActorStage"
	CompStageEnvironment = "StageEnvironment"
	CompAppearance       = "Appearance"
	CompRPGProfile       = "RPGCharacterProfile"
	CompCanStartPlanning = "CanStartPlanning"
	CompPlanAction       = "PlanAction"
	CompPlayerActive     = "PlayerActive"
	CompHand             = "Hand"
	CompXCardPlayer      = "XCardPlayer"
)

// --- ИДЕНТИЧНОСТЬ И РОЛЬ ---

// WorldComponent помечает корневую сущность мира.
type WorldComponent struct {
	WorldName string `json:"name"`
}

func (*WorldComponent) Name() string { return CompWorld }

// StageComponent помечает сущность-локацию.
type StageComponent struct {
	StageName string `json:"name"`
}

func (*StageComponent) Name() string { return CompStage }

// ActorComponent помечает ин-мирового резонера (NPC или игрока).
type ActorComponent struct {
	ActorName string `json:"name"`
}

func (*ActorComponent) Name() string { return CompActor }

// PlayerComponent: актор, управляемый человеком. Игроки - подмножество акторов.
type PlayerComponent struct {
	PlayerName string `json:"name"`
}

func (*PlayerComponent) Name() string { return CompPlayer }

// Флаворы сцен и акторов (маркеры без данных).

type HomeComponent struct{}

func (*HomeComponent) Name() string { return CompHome }

type DungeonComponent struct{}

func (*DungeonComponent) Name() string { return CompDungeon }

type AllyComponent struct{}

func (*AllyComponent) Name() string { return CompAlly }

type HeroComponent struct{}

func (*HeroComponent) Name() string { return CompHero }

type MonsterComponent struct{}

func (*MonsterComponent) Name() string { return CompMonster }

// --- ЖИЗНЕННЫЙ ЦИКЛ ---

// RuntimeComponent - монотонный индекс создания сущности.
// Ключ сортировки при сохранении/восстановлении.
type RuntimeComponent struct {
	RuntimeIndex int `json:"runtime_index"`
}

func (*RuntimeComponent) Name() string { return CompRuntime }

// KickOffMessageComponent - стартовая инструкция агента (выдается один раз).
type KickOffMessageComponent struct {
	Content string `json:"content"`
}

func (*KickOffMessageComponent) Name() string { return CompKickOffMessage }

type KickOffCompleteComponent struct{}

func (*KickOffCompleteComponent) Name() string { return CompKickOffComplete }

// DestroyComponent - пометка на уничтожение; сущность убирает фаза зачистки.
type DestroyComponent struct {
	Reason string `json:"reason,omitempty"`
}

func (*DestroyComponent) Name() string { return CompDestroy }

type DeathComponent struct{}

func (*DeathComponent) Name() string { return CompDeath }

// --- ПРОСТРАНСТВО ---

// ActorStageComponent - единственный источник истины "где находится X".
// Хранит только имя сцены: никаких указателей, циклы разрешаются через store.
type ActorStageComponent struct {
	StageName string `json:"stage_name"`
}

func (*ActorStageComponent) Name() string { return CompActorStage }

// StageEnvironmentComponent - нарративное состояние сцены.
type StageEnvironmentComponent struct {
	Narrative string `json:"narrative"`
}

func (*StageEnvironmentComponent) Name() string { return CompStageEnvironment }

// --- ВНЕШНОСТЬ И ХАРАКТЕРИСТИКИ ---

type AppearanceComponent struct {
	Description string `json:"description"`
}

func (*AppearanceComponent) Name() string { return CompAppearance }

// RPGCharacterProfileComponent - боевой профиль.
// Производные значения (MaxHP, атаки, защиты) растут с уровнем
// от базовых значений; сериализуются только база и текущие HP.
type RPGCharacterProfileComponent struct {
	HP                  int            `json:"hp"`
	Level               int            `json:"level"`
	BaseMaxHP           int            `json:"base_max_hp"`
	BasePhysicalAttack  int            `json:"base_physical_attack"`
	BasePhysicalDefense int            `json:"base_physical_defense"`
	BaseMagicAttack     int            `json:"base_magic_attack"`
	BaseMagicDefense    int            `json:"base_magic_defense"`
	StatusEffects       []StatusEffect `json:"status_effects"`
}

func (*RPGCharacterProfileComponent) Name() string { return CompRPGProfile }

// PostLoad нормализует профиль после десериализации.
func (p *RPGCharacterProfileComponent) PostLoad() error {
	if p.Level < 1 {
		p.Level = 1
	}
	if p.StatusEffects == nil {
		p.StatusEffects = make([]StatusEffect, 0)
	}
	for _, e := range p.StatusEffects {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("profile status effect: %w", err)
		}
	}
	return nil
}

// grown считает рост характеристики: +10% базы за каждый уровень после первого.
func (p *RPGCharacterProfileComponent) grown(base int) int {
	return base + (p.Level-1)*base/10
}

func (p *RPGCharacterProfileComponent) MaxHP() int           { return p.grown(p.BaseMaxHP) }
func (p *RPGCharacterProfileComponent) PhysicalAttack() int  { return p.grown(p.BasePhysicalAttack) }
func (p *RPGCharacterProfileComponent) PhysicalDefense() int { return p.grown(p.BasePhysicalDefense) }
func (p *RPGCharacterProfileComponent) MagicAttack() int     { return p.grown(p.BaseMagicAttack) }
func (p *RPGCharacterProfileComponent) MagicDefense() int    { return p.grown(p.BaseMagicDefense) }

// --- ПЛАНИРОВАНИЕ ---

// CanStartPlanningComponent: актор допущен к рассуждению в этом ходу.
type CanStartPlanningComponent struct{}

func (*CanStartPlanningComponent) Name() string { return CompCanStartPlanning }

// PlanActionComponent: промпт планирования отправлен, ждем ответ.
type PlanActionComponent struct{}

func (*PlanActionComponent) Name() string { return CompPlanAction }

// PlayerActiveComponent: у игрока есть очередь на ввод команды.
type PlayerActiveComponent struct{}

func (*PlayerActiveComponent) Name() string { return CompPlayerActive }

// HandComponent - кандидатные карты навыков на раунд боя.
type HandComponent struct {
	Skills []Skill `json:"skills"`
}

func (*HandComponent) Name() string { return CompHand }

func (h *HandComponent) PostLoad() error {
	for _, s := range h.Skills {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("hand: %w", err)
		}
	}
	return nil
}

// XCardPlayerComponent - отложенная особая карта.
type XCardPlayerComponent struct {
	Skill Skill `json:"skill"`
}

func (*XCardPlayerComponent) Name() string { return CompXCardPlayer }

func (x *XCardPlayerComponent) PostLoad() error {
	if err := x.Skill.Validate(); err != nil {
		return fmt.Errorf("x-card: %w", err)
	}
	return nil
}
