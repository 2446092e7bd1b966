package repl

import (
	"errors"
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"whoami", []string{"whoami"}},
		{"  homework   list  ", []string{"homework", "list"}},
		{`group create --name "CS 101" --teacher 3`, []string{"group", "create", "--name", "CS 101", "--teacher", "3"}},
		{`grade set 5 --feedback 'it\'s'`, nil},
		{`echo 'a "b" c'`, []string{"echo", `a "b" c`}},
		{`echo "say \"hi\""`, []string{"echo", `say "hi"`}},
		{`path\ with\ spaces`, []string{"path with spaces"}},
		{`empty ""`, []string{"empty", ""}},
		{"", nil},
	}

	for _, tt := range tests {
		got, err := Split(tt.line)
		if tt.want == nil && tt.line != "" {
			if !errors.Is(err, ErrUnterminatedQuote) {
				t.Errorf("Split(%q) error = %v, want ErrUnterminatedQuote", tt.line, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Split(%q) error = %v", tt.line, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Split(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}
