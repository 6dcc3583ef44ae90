package engine

import (
	"fmt"

	"mindstage-server/internal/archive"
	"mindstage-server/internal/domain"
	"mindstage-server/internal/ecs"
	"mindstage-server/pkg/logger"
)

// BuildWorld разворачивает зерно мира в живое состояние новой игры.
// Порядок создания фиксирован (мир, сцены, акторы): runtime-индексы
// новой игры детерминированы.
func BuildWorld(boot domain.Boot) (*World, error) {
	if err := boot.Validate(); err != nil {
		return nil, err
	}

	w := &World{
		Store:    ecs.NewStore(),
		Contexts: make(map[string]*domain.AgentContext),
		Dungeon:  domain.NewDungeonState(boot.Dungeon),
		Boot:     boot,
	}

	// --- Сущность мира ---
	worldEntity, err := w.NewEntity(boot.Name)
	if err != nil {
		return nil, err
	}
	worldEntity.Add(&domain.WorldComponent{WorldName: boot.Name})

	// --- Домашние сцены ---
	for _, seed := range boot.Stages {
		stage, err := w.NewEntity(seed.Name)
		if err != nil {
			return nil, err
		}
		stage.Add(&domain.StageComponent{StageName: seed.Name})
		stage.Add(&domain.HomeComponent{})
		stage.Add(&domain.StageEnvironmentComponent{Narrative: seed.Narrative})
		stage.Add(&domain.KickOffMessageComponent{Content: seed.KickOff})

		ctx := w.AgentContext(seed.Name)
		ctx.SeedSystem(stagePrompt(boot, seed))
	}

	// --- Акторы ---
	for _, seed := range boot.Actors {
		if _, err := spawnActor(w, seed); err != nil {
			return nil, err
		}
	}

	logger.Log.WithField("world", boot.Name).Info("🌍 world built from boot")
	return w, nil
}

// spawnActor создает актора из прототипа: компоненты по виду актора
// плюс системный промпт агента. Используется и при старте игры, и при
// спавне монстров на сценах подземелья.
func spawnActor(w *World, seed domain.ActorSeed) (*ecs.Entity, error) {
	e, err := w.NewEntity(seed.Name)
	if err != nil {
		return nil, err
	}
	e.Add(&domain.ActorComponent{ActorName: seed.Name})
	e.Add(&domain.ActorStageComponent{StageName: seed.Stage})
	e.Add(&domain.AppearanceComponent{Description: seed.Appearance})
	e.Add(&domain.KickOffMessageComponent{Content: seed.KickOff})
	e.Add(profileFromSeed(seed.Profile))

	if seed.XCard != nil {
		if err := seed.XCard.Validate(); err != nil {
			return nil, fmt.Errorf("actor %q x-card: %w", seed.Name, err)
		}
		e.Add(&domain.XCardPlayerComponent{Skill: *seed.XCard})
	}

	switch seed.Kind {
	case domain.ActorKindPlayer:
		e.Add(&domain.PlayerComponent{PlayerName: seed.Name})
		e.Add(&domain.PlayerActiveComponent{})
		e.Add(&domain.HeroComponent{})
	case domain.ActorKindAlly:
		e.Add(&domain.AllyComponent{})
		e.Add(&domain.HeroComponent{})
	case domain.ActorKindMonster:
		e.Add(&domain.MonsterComponent{})
	case domain.ActorKindNPC:
		// только базовый набор
	default:
		return nil, fmt.Errorf("actor %q has unknown kind %q", seed.Name, seed.Kind)
	}

	ctx := w.AgentContext(seed.Name)
	ctx.SeedSystem(actorPrompt(w.Boot, seed))
	return e, nil
}

func profileFromSeed(p domain.ProfileSeed) *domain.RPGCharacterProfileComponent {
	level := p.Level
	if level < 1 {
		level = 1
	}
	return &domain.RPGCharacterProfileComponent{
		HP:                  p.MaxHP,
		Level:               level,
		BaseMaxHP:           p.MaxHP,
		BasePhysicalAttack:  p.PhysicalAttack,
		BasePhysicalDefense: p.PhysicalDefense,
		BaseMagicAttack:     p.MagicAttack,
		BaseMagicDefense:    p.MagicDefense,
	}
}

func stagePrompt(boot domain.Boot, seed domain.StageSeed) string {
	return fmt.Sprintf(
		"You narrate the stage %q in the campaign %q.\n\n%s\n\nStage description:\n%s",
		seed.Name, boot.Campaign, boot.Name, seed.Narrative)
}

func actorPrompt(boot domain.Boot, seed domain.ActorSeed) string {
	return fmt.Sprintf(
		"You play %q in the campaign %q.\n\nCharacter sheet:\n%s\n\nYour appearance:\n%s",
		seed.Name, boot.Campaign, seed.CharacterSheet, seed.Appearance)
}

// seedArchives заполняет стартовое знание акторов: свои предметы и
// своя домашняя сцена. Выполняется один раз при создании новой игры.
func seedArchives(w *World, mgr *archive.Manager) error {
	for _, seed := range w.Boot.Actors {
		if err := mgr.EnsureActor(seed.Name); err != nil {
			return err
		}
		for _, p := range seed.Props {
			err := mgr.WriteProp(seed.Name, archive.PropFile{
				Name:        p.Name,
				Description: p.Description,
				Count:       p.Count,
			})
			if err != nil {
				return err
			}
		}
		if err := mgr.WriteStageArchive(seed.Name, archive.StageArchiveFile{StageName: seed.Stage}); err != nil {
			return err
		}
		err := mgr.WriteStatusProfile(seed.Name, archive.StatusProfileFile{
			HP:    seed.Profile.MaxHP,
			MaxHP: seed.Profile.MaxHP,
			Level: seed.Profile.Level,
		})
		if err != nil {
			return err
		}
	}

	// Акторы одной стартовой сцены знают друг друга с первого хода.
	byStage := make(map[string][]domain.ActorSeed)
	for _, seed := range w.Boot.Actors {
		byStage[seed.Stage] = append(byStage[seed.Stage], seed)
	}
	for _, group := range byStage {
		for _, a := range group {
			for _, b := range group {
				if a.Name == b.Name {
					continue
				}
				err := mgr.WriteActorArchive(a.Name, archive.ActorArchiveFile{
					ActorName:  b.Name,
					Appearance: b.Appearance,
				})
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}
