package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// FeedbackDelta - разобранная строка режиссерского расчета для одного актора.
// HP/MaxHP равны -1, если режиссер не назвал итоговое здоровье явно.
type FeedbackDelta struct {
	Actor         string
	Damage        int
	HP            int
	MaxHP         int
	AddEffects    []StatusEffect
	RemoveEffects []string
}

var (
	reDamage    = regexp.MustCompile(`^([+-])\s*(\d+)\s*HP$`)
	reAbsolute  = regexp.MustCompile(`^HP\s*(\d+)\s*/\s*(\d+)$`)
	reAddEffect = regexp.MustCompile(`^\+\s*([^()]+?)\s*\(\s*(\d+)\s*\)$`)
	reDelEffect = regexp.MustCompile(`^-\s*([^()0-9][^()]*)$`)
)

// ParseCalculation разбирает числовой реестр режиссера в список дельт.
//
// Грамматика одной строки (разделители строк - переводы строк):
//
//	<actor> ":" <op> {";" <op>}
//	<op> = ("-"|"+") <int> "HP"        урон или лечение
//	     | "HP" <int> "/" <int>        абсолютное здоровье (тек/макс)
//	     | "+" <name> "(" <int> ")"    наложить эффект на N раундов
//	     | "-" <name>                  снять эффект
//
// Разбор толерантный: нераспознанные операции и строки пропускаются,
// режиссер - LLM и его вывод не является доверенным.
func ParseCalculation(s string) []FeedbackDelta {
	var out []FeedbackDelta
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		colon := strings.Index(line, ":")
		if colon <= 0 {
			continue
		}
		delta := FeedbackDelta{
			Actor: strings.TrimSpace(line[:colon]),
			HP:    -1,
			MaxHP: -1,
		}
		if delta.Actor == "" {
			continue
		}
		touched := false
		for _, rawOp := range strings.Split(line[colon+1:], ";") {
			op := strings.TrimSpace(rawOp)
			if op == "" {
				continue
			}
			if m := reDamage.FindStringSubmatch(op); m != nil {
				n, _ := strconv.Atoi(m[2])
				if m[1] == "-" {
					delta.Damage += n
				} else {
					delta.Damage -= n // лечение - отрицательный урон
				}
				touched = true
				continue
			}
			if m := reAbsolute.FindStringSubmatch(op); m != nil {
				delta.HP, _ = strconv.Atoi(m[1])
				delta.MaxHP, _ = strconv.Atoi(m[2])
				touched = true
				continue
			}
			if m := reAddEffect.FindStringSubmatch(op); m != nil {
				rounds, _ := strconv.Atoi(m[2])
				delta.AddEffects = append(delta.AddEffects, StatusEffect{
					Name:   strings.TrimSpace(m[1]),
					Rounds: rounds,
				})
				touched = true
				continue
			}
			if m := reDelEffect.FindStringSubmatch(op); m != nil {
				delta.RemoveEffects = append(delta.RemoveEffects, strings.TrimSpace(m[1]))
				touched = true
			}
		}
		if touched {
			out = append(out, delta)
		}
	}
	return out
}
