package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	propsDir  = "props"
	actorsDir = "actors"
	stagesDir = "stages"
	statusFln = "status.json"
)

// NoKnowledge - текст для промпта актора без единого архивного файла.
const NoKnowledge = "you know no-one; you know no-where"

// Manager - единственный владелец записи архивных файлов.
// Корень - каталог конкретной пары {user, game} под worlds/.
// Чтение всегда идет с диска заново: сборка промпта не должна
// видеть устаревший кэш.
type Manager struct {
	root string
}

func NewManager(root string) (*Manager, error) {
	if root == "" {
		return nil, fmt.Errorf("archive root cannot be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create archive root: %w", err)
	}
	return &Manager{root: root}, nil
}

// Root возвращает корень архива.
func (m *Manager) Root() string { return m.root }

// sanitize превращает имя сущности в безопасное имя файла.
func sanitize(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_", " ", "_")
	return replacer.Replace(name)
}

func (m *Manager) actorDir(actor string) string {
	return filepath.Join(m.root, sanitize(actor))
}

// EnsureActor создает каталоги архива актора.
func (m *Manager) EnsureActor(actor string) error {
	base := m.actorDir(actor)
	for _, sub := range []string{propsDir, actorsDir, stagesDir} {
		if err := os.MkdirAll(filepath.Join(base, sub), 0o755); err != nil {
			return fmt.Errorf("ensure archive for %q: %w", actor, err)
		}
	}
	return nil
}

func (m *Manager) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteProp записывает (или перезаписывает) файл предмета.
func (m *Manager) WriteProp(actor string, p PropFile) error {
	path := filepath.Join(m.actorDir(actor), propsDir, sanitize(p.Name)+".json")
	return m.writeJSON(path, p)
}

// WriteActorArchive лениво обновляет знание о другом акторе.
func (m *Manager) WriteActorArchive(actor string, a ActorArchiveFile) error {
	path := filepath.Join(m.actorDir(actor), actorsDir, sanitize(a.ActorName)+".json")
	return m.writeJSON(path, a)
}

// WriteStageArchive фиксирует знание о сцене.
func (m *Manager) WriteStageArchive(actor string, s StageArchiveFile) error {
	path := filepath.Join(m.actorDir(actor), stagesDir, sanitize(s.StageName)+".json")
	return m.writeJSON(path, s)
}

// WriteStatusProfile пишет снапшот собственного статуса актора.
func (m *Manager) WriteStatusProfile(actor string, s StatusProfileFile) error {
	path := filepath.Join(m.actorDir(actor), statusFln)
	return m.writeJSON(path, s)
}

func readDirJSON[T any](dir string) ([]T, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	// Детерминированный порядок для сборки промптов.
	sort.Strings(names)

	out := make([]T, 0, len(names))
	for _, n := range names {
		data, err := os.ReadFile(filepath.Join(dir, n))
		if err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("archive file %q: %w", n, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Props возвращает инвентарь актора (свежее чтение с диска).
func (m *Manager) Props(actor string) ([]PropFile, error) {
	return readDirJSON[PropFile](filepath.Join(m.actorDir(actor), propsDir))
}

// KnownActors возвращает известных актору персонажей.
func (m *Manager) KnownActors(actor string) ([]ActorArchiveFile, error) {
	return readDirJSON[ActorArchiveFile](filepath.Join(m.actorDir(actor), actorsDir))
}

// KnownStages возвращает известные актору сцены.
func (m *Manager) KnownStages(actor string) ([]StageArchiveFile, error) {
	return readDirJSON[StageArchiveFile](filepath.Join(m.actorDir(actor), stagesDir))
}

// KnowsStage сообщает, знает ли актор сцену по имени.
func (m *Manager) KnowsStage(actor, stage string) bool {
	stages, err := m.KnownStages(actor)
	if err != nil {
		return false
	}
	for _, s := range stages {
		if s.StageName == stage {
			return true
		}
	}
	return false
}

// KnowledgeSummary собирает блок знаний для промпта.
// Актор без единого архивного файла получает фиксированный текст,
// а не пустой список.
func (m *Manager) KnowledgeSummary(actor string) string {
	actors, _ := m.KnownActors(actor)
	stages, _ := m.KnownStages(actor)
	props, _ := m.Props(actor)

	if len(actors) == 0 && len(stages) == 0 && len(props) == 0 {
		return NoKnowledge
	}

	var b strings.Builder
	if len(actors) > 0 {
		b.WriteString("Known actors:\n")
		for _, a := range actors {
			fmt.Fprintf(&b, "- %s: %s\n", a.ActorName, a.Appearance)
		}
	}
	if len(stages) > 0 {
		b.WriteString("Known stages:\n")
		for _, s := range stages {
			fmt.Fprintf(&b, "- %s\n", s.StageName)
		}
	}
	if len(props) > 0 {
		b.WriteString("Inventory:\n")
		for _, p := range props {
			fmt.Fprintf(&b, "- %s x%d: %s\n", p.Name, p.Count, p.Description)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
