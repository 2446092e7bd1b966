package output

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"
	"time"
	"unicode"
)

// TableFormatter formats data as aligned columns.
type TableFormatter struct {
	Wide      bool
	NoHeaders bool
}

// Format formats data as a table. It accepts *Table, slices of structs,
// maps and single structs; anything else falls back to JSON.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}

	switch t := data.(type) {
	case *Table:
		return t.render(w, !f.NoHeaders)
	case Table:
		return t.render(w, !f.NoHeaders)
	}

	table, err := toTable(data, f.Wide)
	if err != nil {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	return table.render(w, !f.NoHeaders)
}

func toTable(data any, wide bool) (*Table, error) {
	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return &Table{}, nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return sliceToTable(v, wide)
	case reflect.Map:
		return mapToTable(v)
	case reflect.Struct:
		return structToTable(v, wide)
	default:
		return nil, fmt.Errorf("unsupported type: %s", v.Kind())
	}
}

// column is a struct field rendered as a table column.
type column struct {
	index  int
	header string
}

// columns selects the visible fields of a struct type. table:"-" hides
// a field, table:"wide" shows it only in wide mode. Headers come from
// the JSON name.
func columns(t reflect.Type, wide bool) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("table")
		if tag == "-" || (strings.Contains(tag, "wide") && !wide) {
			continue
		}
		cols = append(cols, column{index: i, header: headerName(field)})
	}
	return cols
}

func headerName(field reflect.StructField) string {
	name := field.Name
	if jsonTag := field.Tag.Get("json"); jsonTag != "" {
		if n, _, _ := strings.Cut(jsonTag, ","); n != "" && n != "-" {
			return strings.ToUpper(n)
		}
	}
	return strings.ToUpper(toSnakeCase(name))
}

func sliceToTable(v reflect.Value, wide bool) (*Table, error) {
	elemType := v.Type().Elem()
	for elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}

	table := &Table{}
	var cols []column
	switch elemType.Kind() {
	case reflect.Struct:
		if isScalarStruct(elemType) {
			table.Headers = []string{"VALUE"}
			break
		}
		cols = columns(elemType, wide)
		for _, c := range cols {
			table.Headers = append(table.Headers, c.header)
		}
	case reflect.Map:
		table.Headers = []string{"KEY", "VALUE"}
	default:
		table.Headers = []string{"VALUE"}
	}

	for i := 0; i < v.Len(); i++ {
		elem := indirect(v.Index(i))
		if !elem.IsValid() {
			continue
		}

		switch {
		case elem.Kind() == reflect.Struct && cols != nil:
			row := make([]string, 0, len(cols))
			for _, c := range cols {
				row = append(row, formatValue(elem.Field(c.index)))
			}
			table.Rows = append(table.Rows, row)
		case elem.Kind() == reflect.Map:
			sub, _ := mapToTable(elem)
			table.Rows = append(table.Rows, sub.Rows...)
		default:
			table.Rows = append(table.Rows, []string{formatValue(elem)})
		}
	}

	return table, nil
}

// mapToTable renders a map as key/value rows sorted by key.
func mapToTable(v reflect.Value) (*Table, error) {
	table := &Table{Headers: []string{"KEY", "VALUE"}}

	iter := v.MapRange()
	for iter.Next() {
		table.Rows = append(table.Rows, []string{formatValue(iter.Key()), formatValue(iter.Value())})
	}
	sort.Slice(table.Rows, func(i, j int) bool { return table.Rows[i][0] < table.Rows[j][0] })

	return table, nil
}

// structToTable renders a single struct as field/value rows.
func structToTable(v reflect.Value, wide bool) (*Table, error) {
	table := &Table{Headers: []string{"FIELD", "VALUE"}}
	for _, c := range columns(v.Type(), wide) {
		table.Rows = append(table.Rows, []string{strings.ToLower(c.header), formatValue(v.Field(c.index))})
	}
	return table, nil
}

var (
	stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	timeType     = reflect.TypeOf(time.Time{})
)

// isScalarStruct reports struct types that print as one value, such as
// time.Time or a Stringer wrapping one.
func isScalarStruct(t reflect.Type) bool {
	return t == timeType || t.Implements(stringerType)
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// formatValue formats a single cell.
func formatValue(v reflect.Value) string {
	v = indirect(v)
	if !v.IsValid() {
		return ""
	}

	if v.Type() == timeType {
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04")
	}
	if v.Kind() != reflect.String && v.Type().Implements(stringerType) && v.CanInterface() {
		return v.Interface().(fmt.Stringer).String()
	}

	switch v.Kind() {
	case reflect.String:
		s := v.String()
		if s == "" {
			return "-"
		}
		return truncate(firstLine(s), 60)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%d", v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%d", v.Uint())
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if f == float64(int64(f)) {
			return fmt.Sprintf("%d", int64(f))
		}
		return fmt.Sprintf("%.2f", f)
	case reflect.Bool:
		if v.Bool() {
			return "yes"
		}
		return "no"
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return "-"
		}
		return fmt.Sprintf("[%d items]", v.Len())
	case reflect.Map:
		if v.Len() == 0 {
			return "-"
		}
		return fmt.Sprintf("{%d keys}", v.Len())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// toSnakeCase turns LastActivity into Last_Activity.
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Table is a grid of preformatted cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

func NewTable(headers ...string) *Table {
	return &Table{Headers: headers}
}

func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render writes the table with its header row.
func (t *Table) Render(w io.Writer) error {
	return t.render(w, true)
}

// render pads columns two spaces apart. A row shorter than the header
// leaves its trailing columns empty.
func (t *Table) render(w io.Writer, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers && len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
