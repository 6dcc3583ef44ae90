package ecs

import (
	"errors"
	"testing"
)

// Тестовые компоненты.
type posComp struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (*posComp) Name() string { return "Pos" }

type tagComp struct{}

func (*tagComp) Name() string { return "Tag" }

type brokenComp struct {
	Value int `json:"value"`
}

func (*brokenComp) Name() string { return "Broken" }

// PostLoad для brokenComp всегда падает: проверяем отказ загрузки.
func (b *brokenComp) PostLoad() error {
	return errTestBroken
}

var errTestBroken = errors.New("broken component")

func init() {
	Register[posComp]()
	Register[tagComp]()
	Register[brokenComp]()
}

func TestStore_CreateAndGet(t *testing.T) {
	s := NewStore()

	e, err := s.Create("Hero")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.Name() != "Hero" {
		t.Errorf("Name mismatch. Got %q, want %q", e.Name(), "Hero")
	}
	if s.Get("Hero") != e {
		t.Error("Get should return the created entity")
	}
	if s.Get("Nobody") != nil {
		t.Error("Get of unknown name should return nil")
	}
}

func TestStore_DuplicateNameRejected(t *testing.T) {
	s := NewStore()
	if _, err := s.Create("Hero"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Create("Hero"); err == nil {
		t.Error("duplicate name must be rejected")
	}
	if _, err := s.Create(""); err == nil {
		t.Error("empty name must be rejected")
	}
}

// Имя уничтоженной сущности не переиспользуется в той же сессии.
func TestStore_RetiredNameNotReused(t *testing.T) {
	s := NewStore()
	if _, err := s.Create("Ghost"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	s.Destroy("Ghost")
	if s.Get("Ghost") != nil {
		t.Error("destroyed entity must not resolve")
	}
	if _, err := s.Create("Ghost"); err == nil {
		t.Error("retired name must not be reused")
	}
}

func TestStore_GroupAndFirst(t *testing.T) {
	s := NewStore()
	a, _ := s.Create("A")
	b, _ := s.Create("B")
	_, _ = s.Create("C")

	a.Add(&posComp{X: 1})
	b.Add(&posComp{X: 2})
	b.Add(&tagComp{})

	group := s.Group(AllOf("Pos"))
	if len(group) != 2 {
		t.Fatalf("Group size mismatch. Got %d, want 2", len(group))
	}
	// Порядок создания стабилен.
	if group[0].Name() != "A" || group[1].Name() != "B" {
		t.Errorf("Group order mismatch: %s, %s", group[0].Name(), group[1].Name())
	}

	first := s.First(AllOf("Pos", "Tag"))
	if first == nil || first.Name() != "B" {
		t.Error("First(Pos+Tag) should find B")
	}
	if s.First(AllOf("Pos").NoneOf("Tag")) != a {
		t.Error("First(Pos-Tag) should find A")
	}
}

func TestMatcher_AnyOfNoneOf(t *testing.T) {
	s := NewStore()
	e, _ := s.Create("X")
	e.Add(&tagComp{})

	if !AllOf().AnyOf("Pos", "Tag").Match(e) {
		t.Error("AnyOf should match on Tag")
	}
	if AllOf().AnyOf("Pos").Match(e) {
		t.Error("AnyOf(Pos) should not match Tag-only entity")
	}
	if AllOf("Tag").NoneOf("Pos").Match(e) != true {
		t.Error("NoneOf(Pos) should not veto Tag-only entity")
	}
	e.Add(&posComp{})
	if AllOf("Tag").NoneOf("Pos").Match(e) {
		t.Error("NoneOf(Pos) must veto after Pos added")
	}
}

func TestCollector_ReactsToAdds(t *testing.T) {
	s := NewStore()
	c := s.Collector(AllOf("Pos"))

	e, _ := s.Create("A")
	if !c.Empty() {
		t.Error("collector must be empty before any add")
	}

	e.Add(&posComp{})
	if c.Empty() {
		t.Error("collector must see the added component")
	}

	got := c.Drain()
	if len(got) != 1 || got[0].Name() != "A" {
		t.Fatalf("Drain mismatch: %v", got)
	}
	if !c.Empty() {
		t.Error("Drain must clear the collector")
	}

	// Повторное добавление того же компонента снова будит коллектор.
	e.Add(&posComp{X: 5})
	if c.Empty() {
		t.Error("re-add must wake the collector")
	}

	// Уничтоженная сущность исчезает из ожидания.
	s.Destroy("A")
	if !c.Empty() {
		t.Error("destroy must drop pending entity")
	}
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	s := NewStore()
	a, _ := s.Create("A")
	a.Add(&posComp{X: 3, Y: 4})
	a.Add(&tagComp{})
	b, _ := s.Create("B")
	b.Add(&posComp{X: 7})

	records, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	restored, err := Restore(records)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	ra := restored.Get("A")
	if ra == nil {
		t.Fatal("A missing after restore")
	}
	pos, ok := Get[*posComp](ra, "Pos")
	if !ok || pos.X != 3 || pos.Y != 4 {
		t.Errorf("Pos mismatch after restore: %+v", pos)
	}
	if !ra.Has("Tag") {
		t.Error("Tag missing after restore")
	}

	// Снапшот восстановленного мира байт-в-байт повторяет исходный.
	again, err := restored.Snapshot()
	if err != nil {
		t.Fatalf("second Snapshot: %v", err)
	}
	if len(again) != len(records) {
		t.Fatalf("record count mismatch: %d vs %d", len(again), len(records))
	}
	for i := range records {
		if records[i].Name != again[i].Name {
			t.Errorf("entity order changed: %q vs %q", records[i].Name, again[i].Name)
		}
	}
}

func TestRestore_UnknownComponentFails(t *testing.T) {
	records := []EntityRecord{{
		Name: "A",
		Components: []ComponentRecord{
			{Name: "NoSuchComponent", Data: []byte(`{}`)},
		},
	}}
	if _, err := Restore(records); err == nil {
		t.Error("unknown component must fail the whole restore")
	}
}

func TestRestore_PostLoadFailureFails(t *testing.T) {
	records := []EntityRecord{{
		Name: "A",
		Components: []ComponentRecord{
			{Name: "Broken", Data: []byte(`{"value":1}`)},
		},
	}}
	if _, err := Restore(records); err == nil {
		t.Error("PostLoad failure must fail the whole restore")
	}
}
