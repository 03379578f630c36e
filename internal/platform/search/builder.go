package search

import (
	"strconv"
	"strings"
	"time"

	"github.com/hartawan/keymart-backend/internal/platform/logger"
)

// overridable in tests
var timeNow = time.Now

// Build evaluates the term against every field spec and ORs together the
// conditions the fields produced. An empty or whitespace-only term, or a
// term no field could interpret, yields the match-everything predicate so
// the search degrades to a no-op rather than matching nothing.
func Build(term string, fields []FieldSpec, enums EnumRegistry) Predicate {
	term = strings.TrimSpace(term)
	if term == "" {
		return matchAll{}
	}

	preds := buildFields(term, fields, enums)
	if len(preds) == 0 {
		return matchAll{}
	}
	if len(preds) == 1 {
		return preds[0]
	}
	return anyOf{preds: preds}
}

func buildFields(term string, fields []FieldSpec, enums EnumRegistry) []Predicate {
	var preds []Predicate
	for _, f := range fields {
		if f.Nested != nil {
			children := buildFields(term, f.Nested.Fields, enums)
			if len(children) == 0 {
				continue
			}
			var child Predicate = anyOf{preds: children}
			if len(children) == 1 {
				child = children[0]
			}
			preds = append(preds, exists{table: f.Nested.Table, join: f.Nested.Join, pred: child})
			continue
		}
		if p, ok := buildField(term, f, enums); ok {
			preds = append(preds, p)
		}
	}
	return preds
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func buildField(term string, f FieldSpec, enums EnumRegistry) (Predicate, bool) {
	switch f.Type {
	case String:
		if f.Exact {
			return comparison{column: f.Name, op: "=", value: term}, true
		}
		return comparison{column: f.Name, op: "ILIKE", value: "%" + likeEscaper.Replace(term) + "%"}, true

	case Number:
		n, err := strconv.ParseFloat(term, 64)
		if err != nil {
			return nil, false
		}
		return comparison{column: f.Name, op: "=", value: n}, true

	case Boolean:
		switch strings.ToLower(term) {
		case "true":
			return comparison{column: f.Name, op: "=", value: true}, true
		case "false":
			return comparison{column: f.Name, op: "=", value: false}, true
		}
		return nil, false

	case Date:
		from, to, ok := dateWindow(term)
		if !ok {
			logger.Warn("search: unrecognized date term %q for field %s, skipping", term, f.Name)
			return nil, false
		}
		return between{column: f.Name, from: from, to: to}, true

	case Enum:
		if enums == nil {
			return nil, false
		}
		for _, v := range enums.Values(f.EnumType) {
			if strings.EqualFold(v, term) {
				return comparison{column: f.Name, op: "=", value: v}, true
			}
		}
		return nil, false
	}
	return nil, false
}

var dateLayouts = []string{"2006-01-02", "2006/01/02", "01/02/2006", time.RFC3339}

// dateWindow resolves a term to an inclusive [from, to] time range. A
// literal date covers that whole calendar day; keywords cover the obvious
// span relative to now (weeks start on Sunday).
func dateWindow(term string) (time.Time, time.Time, bool) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, term); err == nil {
			from, to := dayBounds(d)
			return from, to, true
		}
	}

	now := timeNow()
	switch strings.ToLower(strings.Join(strings.Fields(term), " ")) {
	case "today":
		from, to := dayBounds(now)
		return from, to, true
	case "yesterday":
		from, to := dayBounds(now.AddDate(0, 0, -1))
		return from, to, true
	case "this week", "thisweek":
		start := startOfDay(now).AddDate(0, 0, -int(now.Weekday()))
		return start, start.AddDate(0, 0, 7).Add(-time.Millisecond), true
	case "this month", "thismonth":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0).Add(-time.Millisecond), true
	}
	return time.Time{}, time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayBounds(t time.Time) (time.Time, time.Time) {
	from := startOfDay(t)
	return from, from.AddDate(0, 0, 1).Add(-time.Millisecond)
}
