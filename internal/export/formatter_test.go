package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestField(t *testing.T) {
	col := Field{Header: "Company Name", Key: "company_name"}
	if got := col.Headers(); len(got) != 1 || got[0] != "Company Name" {
		t.Fatalf("headers = %v", got)
	}
	if got := col.Values(map[string]any{"company_name": "Acme"}); got[0] != "Acme" {
		t.Fatalf("values = %v", got)
	}
	if got := col.Values(map[string]any{}); got[0] != "" {
		t.Fatalf("absent field should render empty, got %v", got)
	}
	if got := col.Values(map[string]any{"company_name": 42}); got[0] != "" {
		t.Fatalf("non-string field should render empty, got %v", got)
	}
}

func TestTimestamp(t *testing.T) {
	col := Timestamp{Header: "Created At", Key: "created_at"}
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	if got := col.Values(map[string]any{"created_at": ts})[0]; got != "2026-03-14 09:26:53" {
		t.Fatalf("formatted = %q", got)
	}
	// Non-UTC inputs render in UTC.
	est := time.FixedZone("EST", -5*3600)
	if got := col.Values(map[string]any{"created_at": ts.In(est)})[0]; got != "2026-03-14 09:26:53" {
		t.Fatalf("zoned input rendered as %q", got)
	}
	if got := col.Values(map[string]any{})[0]; got != "" {
		t.Fatalf("absent timestamp rendered as %q", got)
	}
	if got := col.Values(map[string]any{"created_at": time.Time{}})[0]; got != "" {
		t.Fatalf("zero timestamp rendered as %q", got)
	}
}

func TestRoleGroup(t *testing.T) {
	col := RoleGroup{Key: "contacts", Roles: []string{"CEO", "CTO", "HR"}}

	headers := col.Headers()
	if len(headers) != 12 {
		t.Fatalf("expected 12 headers, got %d: %v", len(headers), headers)
	}
	if headers[0] != "CEO Name" || headers[4] != "CTO Name" || headers[11] != "HR LinkedIn" {
		t.Fatalf("unexpected header layout: %v", headers)
	}

	rec := map[string]any{
		"contacts": []any{
			map[string]any{"role": "HR", "name": "Pat", "mail": "pat@acme.example"},
			map[string]any{"role": "CEO", "name": "Jo", "phone": "555-0100"},
			map[string]any{"role": "CEO", "name": "Impostor"}, // first CEO wins
		},
	}
	values := col.Values(rec)
	if len(values) != 12 {
		t.Fatalf("expected 12 values, got %d", len(values))
	}
	if values[0] != "Jo" || values[1] != "555-0100" {
		t.Fatalf("CEO columns = %v", values[0:4])
	}
	// CTO had no entry.
	for i := 4; i < 8; i++ {
		if values[i] != "" {
			t.Fatalf("CTO columns should be empty, got %v", values[4:8])
		}
	}
	if values[8] != "Pat" || values[10] != "pat@acme.example" {
		t.Fatalf("HR columns = %v", values[8:12])
	}
}

func TestRoleGroup_NoContacts(t *testing.T) {
	col := RoleGroup{Key: "contacts", Roles: []string{"CEO"}}
	for _, rec := range []map[string]any{
		{},
		{"contacts": "not a list"},
		{"contacts": []any{"junk"}},
	} {
		values := col.Values(rec)
		if len(values) != 4 {
			t.Fatalf("expected 4 values, got %d", len(values))
		}
		for _, v := range values {
			if v != "" {
				t.Fatalf("expected empty columns for %v, got %v", rec, values)
			}
		}
	}
}

func TestIndexedGroup(t *testing.T) {
	col := IndexedGroup{Key: "ruetians", Label: "Ruetian", Max: 3}

	headers := col.Headers()
	if len(headers) != 12 {
		t.Fatalf("expected 12 headers, got %d", len(headers))
	}
	if headers[0] != "Ruetian 1 Name" || headers[11] != "Ruetian 3 LinkedIn" {
		t.Fatalf("unexpected header layout: %v", headers)
	}

	rec := map[string]any{
		"ruetians": []any{
			map[string]any{"name": "A", "mail": "a@example.com"},
			map[string]any{"name": "B"},
			map[string]any{"name": "C"},
			map[string]any{"name": "overflow"}, // beyond Max, dropped
		},
	}
	values := col.Values(rec)
	if values[0] != "A" || values[2] != "a@example.com" {
		t.Fatalf("first group = %v", values[0:4])
	}
	if values[4] != "B" || values[8] != "C" {
		t.Fatalf("later groups = %v", values[4:12])
	}
}

func TestBuildTable(t *testing.T) {
	m := Mapping{
		Field{Header: "Company Name", Key: "company_name"},
		RoleGroup{Key: "contacts", Roles: []string{"CEO"}},
		Timestamp{Header: "Created At", Key: "created_at"},
	}
	recs := []map[string]any{
		{
			"company_name": "Acme",
			"contacts":     []any{map[string]any{"role": "CEO", "name": "Jo"}},
			"created_at":   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		{"company_name": "Beta"},
	}

	headers, rows := BuildTable(m, recs)
	want := []string{"Company Name", "CEO Name", "CEO Phone", "CEO Mail", "CEO LinkedIn", "Created At"}
	if len(headers) != len(want) {
		t.Fatalf("headers = %v", headers)
	}
	for i := range want {
		if headers[i] != want[i] {
			t.Fatalf("header[%d] = %q, want %q", i, headers[i], want[i])
		}
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if len(row) != len(headers) {
			t.Fatalf("row %d has %d cells, headers %d", i, len(row), len(headers))
		}
	}
	if rows[0][0] != "Acme" || rows[0][1] != "Jo" || rows[0][5] != "2026-01-02 03:04:05" {
		t.Fatalf("row 0 = %v", rows[0])
	}
	if rows[1][0] != "Beta" || rows[1][1] != "" {
		t.Fatalf("row 1 = %v", rows[1])
	}
}

func TestWriteXLSX(t *testing.T) {
	b, err := WriteXLSX("Sponsors", []string{"Company Name", "Website"}, [][]string{
		{"Acme", "https://acme.example"},
		{"Beta", ""},
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	if f.GetSheetName(0) != "Sponsors" {
		t.Fatalf("sheet name = %q", f.GetSheetName(0))
	}
	cell := func(ref string) string {
		v, err := f.GetCellValue("Sponsors", ref)
		if err != nil {
			t.Fatalf("cell %s: %v", ref, err)
		}
		return v
	}
	if cell("A1") != "Company Name" || cell("B1") != "Website" {
		t.Fatalf("header row = %q %q", cell("A1"), cell("B1"))
	}
	if cell("A2") != "Acme" || cell("B2") != "https://acme.example" {
		t.Fatalf("data row = %q %q", cell("A2"), cell("B2"))
	}
	if cell("A3") != "Beta" || cell("B3") != "" {
		t.Fatalf("second row = %q %q", cell("A3"), cell("B3"))
	}
}
