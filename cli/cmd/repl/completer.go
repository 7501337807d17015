package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/spipe/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "steps", "fmt", "lint", "words", "edit", "clear", "quit"}

// commonMethods seed method completion after ".".
var commonMethods = []string{
	"as_ref", "as_str", "bytes", "chars", "clone", "collect", "count",
	"expect", "filter", "into", "into_iter", "is_empty", "iter", "len",
	"lines", "map", "ok", "ok_or", "parse", "push", "push_str", "rev",
	"split", "sum", "to_lowercase", "to_owned", "to_string", "to_uppercase",
	"trim", "unwrap", "unwrap_or", "unwrap_or_default",
}

// commonNames seed completion of functions and types.
var commonNames = []string{
	"Box", "Err", "None", "Ok", "Option", "Result", "Some", "String", "Vec",
	"f32", "f64", "i32", "i64", "u8", "u32", "u64", "usize",
}

// isWordBoundary returns true if the rune cannot be part of an identifier.
// Path separators, step markers and all other punctuation end a word.
func isWordBoundary(r rune) bool {
	return r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// byteOffset converts a rune index within input, such as the cursor of a
// text input, to a byte offset.
func byteOffset(input string, cursor int) int {
	runes := []rune(input)
	cursor = min(max(cursor, 0), len(runes))

	return len(string(runes[:cursor]))
}

// runeIndex converts a byte offset within input to a rune index.
func runeIndex(input string, offset int) int {
	return utf8.RuneCountInString(input[:min(max(offset, 0), len(input))])
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor sits on a
// boundary (after a space, after "=>", start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// afterDot reports whether the word starting at wordStart follows a ".",
// making it a method or field name.
func afterDot(input string, wordStart int) bool {
	r, _ := utf8.DecodeLastRuneInString(input[:wordStart])

	return r == '.'
}

// vocabulary holds the words offered as completions: a fixed seed plus the
// identifiers of every pipeline entered so far.
type vocabulary struct {
	methods map[string]struct{}
	names   map[string]struct{}
}

func newVocabulary() *vocabulary {
	v := &vocabulary{
		methods: make(map[string]struct{}),
		names:   make(map[string]struct{}),
	}

	for _, m := range commonMethods {
		v.methods[m] = struct{}{}
	}

	for _, n := range commonNames {
		v.names[n] = struct{}{}
	}

	return v
}

// learn adds the identifiers of source. An identifier directly after "." is a
// method; any other non-keyword identifier is a name. Source that does not
// lex is ignored.
func (v *vocabulary) learn(source string) {
	toks, err := lang.Lex(source)
	if err != nil {
		return
	}

	for i, tok := range toks {
		if tok.Kind != lang.TokenIdent || lang.IsKeyword(tok.Text) || tok.Text == "_" {
			continue
		}

		if i > 0 && toks[i-1].IsPunct('.') {
			v.methods[tok.Text] = struct{}{}
		} else {
			v.names[tok.Text] = struct{}{}
		}
	}
}

// candidates returns the sorted words to complete after a "." (methods) or
// elsewhere (names).
func (v *vocabulary) candidates(method bool) []string {
	if method {
		return slices.Sorted(maps.Keys(v.methods))
	}

	return slices.Sorted(maps.Keys(v.names))
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. An empty word has no matches, except directly after "." where
// every method is offered.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, byteOffset(input, m.input.Position()))

	if m.mode == modeCtrl {
		if word == "" || wordStart > 0 {
			return nil, nil, wordStart, wordEnd
		}

		return fuzzy.Find(word, ctrlCommands), ctrlCommands, wordStart, wordEnd
	}

	method := afterDot(input, wordStart)
	candidates = m.words.candidates(method)

	if word == "" {
		if !method || len(candidates) == 0 {
			return nil, nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		// Reserve room for the ellipsis unless this is the last candidate.
		reserve := ellipsisWidth
		if i == len(matches)-1 {
			reserve = 0
		}

		if i > 0 && used+entryWidth+reserve > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := matchStyle

	if selected {
		baseStyle = selectedStyle
		highlightStyle = selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}
