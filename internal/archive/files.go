package archive

import "mindstage-server/internal/domain"

// Архивные файлы - производная проекция событий восприятия.
// Их можно перестроить из снапшота сущностей плюс пофазовых восприятий,
// но они кэшируются на диске для сборки промптов.

// PropFile - один предмет инвентаря актора.
type PropFile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// ActorArchiveFile - известный актор: имя + внешность на момент
// последнего восприятия. Инвариант: если A когда-либо делил сцену с B,
// у A есть этот файл про B.
type ActorArchiveFile struct {
	ActorName  string `json:"actor_name"`
	Appearance string `json:"appearance"`
}

// StageArchiveFile - известная сцена.
type StageArchiveFile struct {
	StageName string `json:"stage_name"`
}

// StatusProfileFile - снапшот собственного статуса (для самого актора).
type StatusProfileFile struct {
	HP            int                   `json:"hp"`
	MaxHP         int                   `json:"max_hp"`
	Level         int                   `json:"level"`
	StatusEffects []domain.StatusEffect `json:"status_effects"`
}
