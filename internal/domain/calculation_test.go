package domain

import "testing"

func TestParseCalculation_DamageAndHeal(t *testing.T) {
	deltas := ParseCalculation("Goblin: -7 HP\nHero: +3 HP")
	if len(deltas) != 2 {
		t.Fatalf("delta count mismatch: %d", len(deltas))
	}
	if deltas[0].Actor != "Goblin" || deltas[0].Damage != 7 {
		t.Errorf("goblin delta mismatch: %+v", deltas[0])
	}
	// Лечение - отрицательный урон.
	if deltas[1].Actor != "Hero" || deltas[1].Damage != -3 {
		t.Errorf("hero delta mismatch: %+v", deltas[1])
	}
}

func TestParseCalculation_AbsoluteHP(t *testing.T) {
	deltas := ParseCalculation("Hero: HP 12/40")
	if len(deltas) != 1 {
		t.Fatalf("delta count mismatch: %d", len(deltas))
	}
	if deltas[0].HP != 12 || deltas[0].MaxHP != 40 {
		t.Errorf("absolute HP mismatch: %+v", deltas[0])
	}
}

func TestParseCalculation_Effects(t *testing.T) {
	deltas := ParseCalculation("Goblin: -5 HP; +Poison(3); -Shield")
	if len(deltas) != 1 {
		t.Fatalf("delta count mismatch: %d", len(deltas))
	}
	d := deltas[0]
	if d.Damage != 5 {
		t.Errorf("damage mismatch: %d", d.Damage)
	}
	if len(d.AddEffects) != 1 || d.AddEffects[0].Name != "Poison" || d.AddEffects[0].Rounds != 3 {
		t.Errorf("add effects mismatch: %+v", d.AddEffects)
	}
	if len(d.RemoveEffects) != 1 || d.RemoveEffects[0] != "Shield" {
		t.Errorf("remove effects mismatch: %+v", d.RemoveEffects)
	}
}

// Режиссер - LLM: мусорные строки молча пропускаются.
func TestParseCalculation_TolerantToGarbage(t *testing.T) {
	deltas := ParseCalculation("The dice are cast!\nGoblin: screams loudly\nHero: -2 HP\n: -1 HP")
	if len(deltas) != 1 {
		t.Fatalf("delta count mismatch: %d (%+v)", len(deltas), deltas)
	}
	if deltas[0].Actor != "Hero" || deltas[0].Damage != 2 {
		t.Errorf("hero delta mismatch: %+v", deltas[0])
	}
}

func TestParseCalculation_Empty(t *testing.T) {
	if deltas := ParseCalculation(""); len(deltas) != 0 {
		t.Errorf("empty calculation must yield no deltas: %+v", deltas)
	}
}
