package answerkey

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParseKeyJSON decodes a stored answers document (the answers_json column
// of a content record) into a key table. Entries may carry explicit
// points or just a difficulty label; the label wins only when points are
// absent, since the difficulty mapping is the authoritative weight rule.
func ParseKeyJSON(data []byte) (Table, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode answer key: %w", err)
	}
	t := make(Table, len(entries))
	for _, e := range entries {
		if e.Mode == "" {
			e.Mode = MatchExact
		}
		if e.Points == 0 {
			e.Points = e.Tier.Points()
		}
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if _, dup := t[e.Number]; dup {
			return nil, fmt.Errorf("duplicate question number %d", e.Number)
		}
		t[e.Number] = e
	}
	return t, nil
}

// Authoring-doc line forms:
//
//	## Topic Name             section header; applies to following entries
//	12. [hard] B              exact-match entry
//	13. [expert] * kw1, kw2   fuzzy entry; keywords after the asterisk
//
// Topic is inherited from the nearest preceding section header. Points
// come from the bracketed difficulty alone.
var answerLine = regexp.MustCompile(`^(\d+)\.\s*\[(\w+)\]\s*(.+)$`)

// ParseAuthoringDoc builds a key table from an authored markdown answer
// document. Lines that are neither section headers nor answer lines are
// ignored so prose can live alongside the key.
func ParseAuthoringDoc(data []byte) (Table, error) {
	t := Table{}
	topic := "General"
	for ln, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "## ") {
			topic = strings.TrimSpace(strings.TrimPrefix(line, "## "))
			continue
		}
		m := answerLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		num, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad question number %q", ln+1, m[1])
		}
		tier := Difficulty(strings.ToLower(m[2]))
		switch tier {
		case Easy, Medium, Hard, Expert:
		default:
			return nil, fmt.Errorf("line %d: unknown difficulty %q", ln+1, m[2])
		}
		body := strings.TrimSpace(m[3])
		e := Entry{
			Number: num,
			Points: tier.Points(),
			Topic:  topic,
			Tier:   tier,
			Mode:   MatchExact,
		}
		if rest, ok := strings.CutPrefix(body, "*"); ok {
			kws := splitKeywords(rest)
			if len(kws) == 0 {
				return nil, fmt.Errorf("line %d: fuzzy entry without keywords", ln+1)
			}
			e.Mode = MatchFuzzyKeywords
			e.Keywords = kws
			e.Expected = strings.Join(kws, ", ")
		} else {
			e.Expected = body
		}
		if _, dup := t[num]; dup {
			return nil, fmt.Errorf("line %d: duplicate question number %d", ln+1, num)
		}
		t[num] = e
	}
	return t, nil
}

func splitKeywords(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if kw := strings.TrimSpace(p); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
