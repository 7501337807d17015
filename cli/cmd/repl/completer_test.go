package repl

import (
	"context"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWordBounds_PipelineSyntax(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"method", "x.tri", 5, "tri", 2, 5},
		{"after_arrow", "x => fo", 7, "fo", 5, 7},
		{"after_marker", "x =>@ fo", 8, "fo", 6, 8},
		{"marker_joined", "x =>?fo", 7, "fo", 5, 7},
		{"after_path", "x => std::mem::ta", 17, "ta", 15, 17},
		{"after_paren", "x => f(a, fo", 12, "fo", 10, 12},
		{"in_conversion", "x => (into Str", 14, "Str", 11, 14},
		{"underscore", "x => to_str", 11, "to_str", 5, 11},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"empty_at_boundary", "x => ", 5, "", 5, 5},
		{"empty_after_dot", "x.", 2, "", 2, 2},
		{"cursor_past_end", "ab", 9, "ab", 0, 2},
		{"unicode", "x => größe", 12, "größe", 5, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestAfterDot(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      bool
	}{
		{"start", "fo", 0, false},
		{"method", "x.tr", 2, true},
		{"after_arrow", "x => f", 5, false},
		{"chained", "x => a.b.c", 9, true},
		{"path", "x => a::b", 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := afterDot(tt.input, tt.wordStart); got != tt.want {
				t.Errorf("afterDot(%q, %d) = %v, want %v",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestVocabulary_Learn(t *testing.T) {
	v := newVocabulary()
	v.learn(`input => parse_number => .checked_mul(2) => |n| n as u16 => (into Celsius)`)

	names := v.candidates(false)
	for _, want := range []string{"input", "parse_number", "n", "Celsius"} {
		if !slices.Contains(names, want) {
			t.Errorf("names missing %q: %v", want, names)
		}
	}

	if slices.Contains(names, "as") {
		t.Errorf("names contains keyword %q", "as")
	}

	methods := v.candidates(true)
	if !slices.Contains(methods, "checked_mul") {
		t.Errorf("methods missing %q: %v", "checked_mul", methods)
	}

	if slices.Contains(names, "checked_mul") {
		t.Errorf("method %q learned as a name", "checked_mul")
	}

	if !slices.IsSorted(names) || !slices.IsSorted(methods) {
		t.Error("candidates are not sorted")
	}
}

func TestVocabulary_LearnInvalid(t *testing.T) {
	v := newVocabulary()
	before := v.candidates(false)

	v.learn(`x => "unterminated`)

	if diff := cmp.Diff(before, v.candidates(false)); diff != "" {
		t.Errorf("learn changed names on lex error (-before +after):\n%s", diff)
	}
}

func TestByteOffset(t *testing.T) {
	tests := []struct {
		input  string
		cursor int
		want   int
	}{
		{"x => f", 3, 3},
		{"日本 => f", 1, 3},
		{"日本 => f", 2, 6},
		{"é => f", 6, 7},
		{"x", -1, 0},
		{"x", 5, 1},
	}

	for _, tt := range tests {
		got := byteOffset(tt.input, tt.cursor)
		if got != tt.want {
			t.Errorf("byteOffset(%q, %d) = %d, want %d", tt.input, tt.cursor, got, tt.want)
		}

		if back := runeIndex(tt.input, got); back != min(max(tt.cursor, 0), len([]rune(tt.input))) {
			t.Errorf("runeIndex(%q, %d) = %d", tt.input, got, back)
		}
	}
}

func TestReplaceCurrentWord_Multibyte(t *testing.T) {
	m := newModel(context.Background(), Config{}, NewHistory(""))
	m.input.SetValue(`"日本語" => Stri => g`)
	m.input.SetCursor(len([]rune(`"日本語" => Stri`)))

	refreshMatches(&m, false)

	if got := m.input.Value()[m.wordStart:m.wordEnd]; got != "Stri" {
		t.Fatalf("current word = %q, want %q", got, "Stri")
	}

	replaceCurrentWord(&m, "String")

	if want := `"日本語" => String => g`; m.input.Value() != want {
		t.Errorf("input = %q, want %q", m.input.Value(), want)
	}

	if want := len([]rune(`"日本語" => String`)); m.input.Position() != want {
		t.Errorf("cursor = %d, want %d", m.input.Position(), want)
	}
}

func TestComputeMatches(t *testing.T) {
	tests := []struct {
		name    string
		mode    inputMode
		input   string
		want    string // expected best match, "" for none
		wantAll bool   // every candidate offered
	}{
		{"name", modeEval, "x => Stri", "String", false},
		{"method", modeEval, "x.unwrap_or_d", "unwrap_or_default", false},
		{"after_dot_lists_methods", modeEval, "x.", "", true},
		{"empty_no_matches", modeEval, "x => ", "", false},
		{"ctrl_command", modeCtrl, "ste", "steps", false},
		{"ctrl_second_word", modeCtrl, "lint ste", "", false},
		{"multibyte_prefix", modeEval, `"日本語" => Stri`, "String", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(context.Background(), Config{}, NewHistory(""))
			m.mode = tt.mode
			m.input.SetValue(tt.input)
			m.input.CursorEnd()

			matches, candidates, _, _ := m.computeMatches()

			if tt.wantAll {
				if len(matches) == 0 || len(matches) != len(candidates) {
					t.Errorf("got %d matches of %d candidates, want all",
						len(matches), len(candidates))
				}

				return
			}

			if tt.want == "" {
				if len(matches) != 0 {
					t.Errorf("got %d matches, want none", len(matches))
				}

				return
			}

			if len(matches) == 0 || matches[0].Str != tt.want {
				t.Errorf("best match = %v, want %q", matches, tt.want)
			}
		})
	}
}
