package output

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"
)

type stamp struct{ time.Time }

func (s stamp) String() string { return "stamped" }

type homeworkRow struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Points   float64 `json:"points"`
	Overdue  bool    `json:"overdue"`
	Deadline stamp   `json:"deadline"`
	Prompt   string  `json:"prompt" table:"wide"`
	Secret   string  `json:"secret" table:"-"`
	internal string
}

func sampleRows() []homeworkRow {
	return []homeworkRow{
		{ID: 1, Title: "Loops", Points: 100, Prompt: "check loops", Secret: "x"},
		{ID: 2, Title: "Recursion", Points: 87.5, Overdue: true},
	}
}

func TestTableFormatter_Format_Table(t *testing.T) {
	table := NewTable("NAME", "VALUE")
	table.AddRow("key1", "value1")

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "NAME") || !strings.Contains(buf.String(), "key1") {
		t.Errorf("Format() = %q", buf.String())
	}

	buf.Reset()
	if err := (&TableFormatter{NoHeaders: true}).Format(&buf, *table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.Contains(buf.String(), "NAME") {
		t.Error("NoHeaders should drop the header row")
	}
}

func TestTableFormatter_Format_Nil(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, nil); err != nil {
		t.Fatalf("Format(nil) error = %v", err)
	}
	if buf.Len() != 0 {
		t.Error("Format(nil) should produce empty output")
	}
}

func TestTableFormatter_Format_Slice(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, sampleRows()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	header := strings.Fields(lines[0])
	want := []string{"ID", "TITLE", "POINTS", "OVERDUE", "DEADLINE"}
	if !reflect.DeepEqual(header, want) {
		t.Errorf("header = %v, want %v", header, want)
	}
	if !strings.Contains(lines[1], "100") || strings.Contains(lines[1], "100.00") {
		t.Errorf("whole floats should print without decimals: %q", lines[1])
	}
	if !strings.Contains(lines[2], "87.50") || !strings.Contains(lines[2], "yes") {
		t.Errorf("row 2 = %q", lines[2])
	}
	if !strings.Contains(lines[1], "stamped") {
		t.Errorf("Stringer fields should use String(): %q", lines[1])
	}
	if strings.Contains(buf.String(), "SECRET") || strings.Contains(buf.String(), "PROMPT") {
		t.Error("hidden and wide columns should not appear")
	}
}

func TestTableFormatter_Format_SliceWide(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{Wide: true}).Format(&buf, sampleRows()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "PROMPT") || !strings.Contains(buf.String(), "check loops") {
		t.Errorf("wide output missing wide column:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "SECRET") {
		t.Error("table:\"-\" must stay hidden in wide mode")
	}
}

func TestTableFormatter_Format_PointerSlice(t *testing.T) {
	rows := sampleRows()
	data := []*homeworkRow{&rows[0], nil, &rows[1]}

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got := len(strings.Split(strings.TrimSpace(buf.String()), "\n")); got != 3 {
		t.Errorf("nil elements should be skipped, got %d lines", got)
	}
}

func TestTableFormatter_Format_EmptySlice(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, []homeworkRow{}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "TITLE") {
		t.Errorf("empty slice should still print headers, got %q", buf.String())
	}
}

func TestTableFormatter_Format_MapSorted(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]any{"zeta": 1, "alpha": "a", "mid": true}
	if err := (&TableFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "alpha") || !strings.HasPrefix(lines[3], "zeta") {
		t.Errorf("map rows should be sorted by key:\n%s", buf.String())
	}
}

func TestTableFormatter_Format_SingleStruct(t *testing.T) {
	var buf bytes.Buffer
	row := sampleRows()[0]
	if err := (&TableFormatter{}).Format(&buf, &row); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "FIELD") || !strings.Contains(out, "title") || !strings.Contains(out, "Loops") {
		t.Errorf("struct output = %q", out)
	}
	if strings.Contains(out, "internal") {
		t.Error("unexported fields should not appear")
	}
}

func TestTableFormatter_Format_FallbackToJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, 42); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "42" {
		t.Errorf("scalar fallback = %q", buf.String())
	}
}

func TestFormatValue(t *testing.T) {
	testCases := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", "hello"},
		{"empty string", "", "-"},
		{"multiline", "first\nsecond", "first ..."},
		{"long", strings.Repeat("x", 80), strings.Repeat("x", 57) + "..."},
		{"int", 42, "42"},
		{"uint", uint(99), "99"},
		{"float", 3.14159, "3.14"},
		{"whole float", 90.0, "90"},
		{"bool true", true, "yes"},
		{"bool false", false, "no"},
		{"empty slice", []int{}, "-"},
		{"slice", []int{1, 2, 3}, "[3 items]"},
		{"map", map[string]int{"a": 1}, "{1 keys}"},
		{"stringer", stamp{}, "stamped"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatValue(reflect.ValueOf(tc.input)); got != tc.expected {
				t.Errorf("formatValue(%v) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestFormatValue_Time(t *testing.T) {
	tm := time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)
	if got := formatValue(reflect.ValueOf(tm)); got != "2024-06-15 14:30" {
		t.Errorf("formatValue(time) = %q", got)
	}
	if got := formatValue(reflect.ValueOf(time.Time{})); got != "-" {
		t.Errorf("formatValue(zero time) = %q, want -", got)
	}
}

func TestFormatValue_NilAndInvalid(t *testing.T) {
	var nilPtr *string
	if got := formatValue(reflect.ValueOf(nilPtr)); got != "" {
		t.Errorf("formatValue(nil ptr) = %q, want empty", got)
	}
	var iface any = "inside"
	if got := formatValue(reflect.ValueOf(&iface).Elem()); got != "inside" {
		t.Errorf("formatValue(interface) = %q", got)
	}
	if got := formatValue(reflect.Value{}); got != "" {
		t.Errorf("formatValue(invalid) = %q, want empty", got)
	}
}

func TestToSnakeCase(t *testing.T) {
	testCases := map[string]string{
		"Name":          "Name",
		"UserName":      "User_Name",
		"already_snake": "already_snake",
	}
	for in, want := range testCases {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
