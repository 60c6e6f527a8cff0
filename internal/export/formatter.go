// Package export flattens nested entity records into a fixed wide table and
// renders it as a single-sheet spreadsheet for download.
package export

import (
	"fmt"
	"time"
)

// timeLayout is the rendering format for timestamp columns, always UTC.
const timeLayout = "2006-01-02 15:04:05"

// subFields are the per-contact columns every group expands to, in order.
var subFields = []struct{ key, header string }{
	{"name", "Name"},
	{"phone", "Phone"},
	{"mail", "Mail"},
	{"linkedin", "LinkedIn"},
}

// Column maps part of a record onto one or more spreadsheet columns.
type Column interface {
	Headers() []string
	Values(rec map[string]any) []string
}

// Mapping is the ordered column set for one entity type.
type Mapping []Column

// Field renders a single top-level string field.
type Field struct {
	Header string
	Key    string
}

func (f Field) Headers() []string { return []string{f.Header} }

func (f Field) Values(rec map[string]any) []string {
	return []string{stringValue(rec[f.Key])}
}

// Timestamp renders a time field as "YYYY-MM-DD HH:MM:SS" in UTC, or an
// empty string when the field is absent or zero.
type Timestamp struct {
	Header string
	Key    string
}

func (t Timestamp) Headers() []string { return []string{t.Header} }

func (t Timestamp) Values(rec map[string]any) []string {
	ts, ok := rec[t.Key].(time.Time)
	if !ok || ts.IsZero() {
		return []string{""}
	}
	return []string{ts.UTC().Format(timeLayout)}
}

// RoleGroup flattens a role-tagged contact array. Each named role expands to
// four columns (Name, Phone, Mail, LinkedIn); roles with no matching entry
// stay empty. When several entries carry the same role the first one wins.
type RoleGroup struct {
	Key   string
	Roles []string
}

func (g RoleGroup) Headers() []string {
	headers := make([]string, 0, len(g.Roles)*len(subFields))
	for _, role := range g.Roles {
		for _, sf := range subFields {
			headers = append(headers, role+" "+sf.header)
		}
	}
	return headers
}

func (g RoleGroup) Values(rec map[string]any) []string {
	byRole := make(map[string]map[string]any, len(g.Roles))
	for _, entry := range entries(rec[g.Key]) {
		role := stringValue(entry["role"])
		if _, seen := byRole[role]; !seen {
			byRole[role] = entry
		}
	}

	values := make([]string, 0, len(g.Roles)*len(subFields))
	for _, role := range g.Roles {
		entry := byRole[role]
		for _, sf := range subFields {
			if entry == nil {
				values = append(values, "")
				continue
			}
			values = append(values, stringValue(entry[sf.key]))
		}
	}
	return values
}

// IndexedGroup flattens a bounded list of uniform contact entries into
// numbered column groups ("<Label> 1 Name" … "<Label> N LinkedIn"). Entries
// beyond Max are dropped silently.
type IndexedGroup struct {
	Key   string
	Label string
	Max   int
}

func (g IndexedGroup) Headers() []string {
	headers := make([]string, 0, g.Max*len(subFields))
	for i := 1; i <= g.Max; i++ {
		for _, sf := range subFields {
			headers = append(headers, fmt.Sprintf("%s %d %s", g.Label, i, sf.header))
		}
	}
	return headers
}

func (g IndexedGroup) Values(rec map[string]any) []string {
	list := entries(rec[g.Key])
	values := make([]string, 0, g.Max*len(subFields))
	for i := 0; i < g.Max; i++ {
		for _, sf := range subFields {
			if i >= len(list) {
				values = append(values, "")
				continue
			}
			values = append(values, stringValue(list[i][sf.key]))
		}
	}
	return values
}

// BuildTable flattens records into a header row plus one row per record.
func BuildTable(m Mapping, recs []map[string]any) (headers []string, rows [][]string) {
	for _, col := range m {
		headers = append(headers, col.Headers()...)
	}
	rows = make([][]string, 0, len(recs))
	for _, rec := range recs {
		row := make([]string, 0, len(headers))
		for _, col := range m {
			row = append(row, col.Values(rec)...)
		}
		rows = append(rows, row)
	}
	return headers, rows
}

func entries(v any) []map[string]any {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	list := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			list = append(list, m)
		}
	}
	return list
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
