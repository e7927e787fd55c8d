package console

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"plain", "ls -a /tmp", []string{"ls", "-a", "/tmp"}},
		{"single_quotes", "cat 'my file.txt'", []string{"cat", "my file.txt"}},
		{"double_quotes", `mv "a b" c`, []string{"mv", "a b", "c"}},
		{"escaped_space", `cat my\ file`, []string{"cat", "my file"}},
		{"escaped_quote_in_double", `echo "say \"hi\""`, []string{"echo", `say "hi"`}},
		{"adjacent_quoted", `cat a'b c'd`, []string{"cat", "ab cd"}},
		{"empty_quoted_token", `mv '' x`, []string{"mv", "", "x"}},
		{"extra_whitespace", "  ls   -l  ", []string{"ls", "-l"}},
		{"empty_line", "", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Tokenize(tc.in)
			if err != nil {
				t.Fatalf("Tokenize(%q): %v", tc.in, err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	for _, in := range []string{"cat 'unterminated", `cat "unterminated`, `cat trailing\`} {
		if _, err := Tokenize(in); err == nil {
			t.Errorf("Tokenize(%q): expected error", in)
		}
	}
}
