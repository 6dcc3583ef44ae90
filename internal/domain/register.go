package domain

import "mindstage-server/internal/ecs"

// Регистрация закрытого набора компонентов в реестре ECS.
// Десериализация сейва инстанцирует компоненты именно по этим именам.
func init() {
	ecs.Register[WorldComponent]()
	ecs.Register[StageComponent]()
	ecs.Register[ActorComponent]()
	ecs.Register[PlayerComponent]()
	ecs.Register[HomeComponent]()
	ecs.Register[DungeonComponent]()
	ecs.Register[AllyComponent]()
	ecs.Register[HeroComponent]()
	ecs.Register[MonsterComponent]()
	ecs.Register[RuntimeComponent]()
	ecs.Register[KickOffMessageComponent]()
	ecs.Register[KickOffCompleteComponent]()
	ecs.Register[DestroyComponent]()
	ecs.Register[DeathComponent]()
	ecs.Register[ActorStageComponent]()
	ecs.Register[StageEnvironmentComponent]()
	ecs.Register[AppearanceComponent]()
	ecs.Register[RPGCharacterProfileComponent]()
	ecs.Register[CanStartPlanningComponent]()
	ecs.Register[PlanActionComponent]()
	ecs.Register[PlayerActiveComponent]()
	ecs.Register[HandComponent]()
	ecs.Register[XCardPlayerComponent]()
	ecs.Register[SpeakComponent]()
	ecs.Register[WhisperComponent]()
	ecs.Register[AnnounceComponent]()
	ecs.Register[MindVoiceComponent]()
	ecs.Register[FightComponent]()
	ecs.Register[TransStageComponent]()
	ecs.Register[TurnComponent]()
	ecs.Register[PlayCardComponent]()
	ecs.Register[StageDirectorComponent]()
	ecs.Register[FeedbackComponent]()
}
