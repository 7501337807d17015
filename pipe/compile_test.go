package pipe

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/spipe/lang"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no steps",
			input: "input",
			want:  "input",
		},
		{
			name:  "combinators",
			input: "input => parse_number =>& Ok =>@ double =>? (as f64)",
			want:  "parse_number(input).and_then(|__map_var| Ok(__map_var)).map(|__map_var| double(__map_var))? as f64",
		},
		{
			name:  "apply closure",
			input: `input => parse_number =>& Ok =>@ double =>? (as f64) =># |s| println!("{}", s)`,
			want: `{ let __var_1 = parse_number(input).and_then(|__map_var| Ok(__map_var))` +
				`.map(|__map_var| double(__map_var))? as f64; (|s| println!("{}", s))(&__var_1); __var_1 }`,
		},
		{
			name:  "apply noop then call then closure",
			input: "4 =># ... => square => |x| x + 10",
			want:  "(|x| x + 10)(square({ let __var_1 = 4; &__var_1; __var_1 }))",
		},
		{
			name:  "apply mut method",
			input: "result => .to_uppercase() =>$ .push('!')",
			want:  "{ let mut __var_1 = result.to_uppercase(); (&mut __var_1).push('!'); __var_1 }",
		},
		{
			name:  "method chain into placeholder",
			input: `raw => .to_string => .to_uppercase => .as_str => wrap_with_brackets("[", (), "]")`,
			want:  `wrap_with_brackets("[", raw.to_string().to_uppercase().as_str(), "]")`,
		},
		{
			name:  "distinct temporaries",
			input: "x =># f =># g",
			want:  "{ let __var_2 = { let __var_1 = x; f(&__var_1); __var_1 }; g(&__var_2); __var_2 }",
		},
		{
			name:  "placeholder in middle",
			input: "x => f(a, (), b)",
			want:  "f(a, x, b)",
		},
		{
			name:  "input prepended",
			input: "x => f(a, b)",
			want:  "f(x, a, b)",
		},
		{
			name:  "only first placeholder replaced",
			input: "x => f((), ())",
			want:  "f(x, ())",
		},
		{
			name:  "bare function",
			input: "x => f",
			want:  "f(x)",
		},
		{
			name:  "empty argument list",
			input: "x => f()",
			want:  "f(x)",
		},
		{
			name:  "qualified function",
			input: "x => a::b::c(1)",
			want:  "a::b::c(x, 1)",
		},
		{
			name:  "try",
			input: "x =>? f",
			want:  "f(x?)",
		},
		{
			name:  "unwrap",
			input: "x =>* f",
			want:  "f(x.unwrap())",
		},
		{
			name:  "clone",
			input: "x =>+ f",
			want:  "f(x.clone())",
		},
		{
			name:  "noop",
			input: "x => ...",
			want:  "x",
		},
		{
			name:  "map noop",
			input: "x =>@ ...",
			want:  "x.map(|__map_var| __map_var)",
		},
		{
			name:  "from",
			input: "x => (String)",
			want:  "String::from(x)",
		},
		{
			name:  "try from",
			input: "x => (u8?)",
			want:  "u8::try_from(x)",
		},
		{
			name:  "generic from",
			input: "x => (Vec<u8>)",
			want:  "Vec::<u8>::from(x)",
		},
		{
			name:  "cast needs parens",
			input: "a + b => (as f64)",
			want:  "(a + b) as f64",
		},
		{
			name:  "receiver needs parens",
			input: "a + b => .abs()",
			want:  "(a + b).abs()",
		},
		{
			name:  "turbofish method",
			input: "x => .collect::<Vec<_>>()",
			want:  "x.collect::<Vec<_>>()",
		},
		{
			name:  "closure",
			input: "x => |v| v * 2",
			want:  "(|v| v * 2)(x)",
		},
		{
			name:  "closure mid pipeline",
			input: "x => |v| v * 2 => f",
			want:  "f((|v| v * 2)(x))",
		},
		{
			name:  "joint markers",
			input: "x=>&f=>?...=>*g",
			want:  "g(x.and_then(|__map_var| f(__map_var))?.unwrap())",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Expand(%q) error: %v", tt.input, err)
			}

			if got != tt.want {
				t.Errorf("Expand(%q)\n got: %s\nwant: %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		generate bool
	}{
		{"trailing separator", "x =>", "expected operation after `=>`, found end of input", false},
		{"empty", "", "expected expression, found end of input", false},
		{"qualified method", "x => .a::b", "expected ident, found `a::b`", true},
		{"global method", "x => .::a", "expected ident, found `::a`", true},
		{"literal in conversion", "x => (1)", "expected `as` or a type path, found `1`", false},
		{"leftover in conversion", "x => (u8 y)", "expected `)`, found `y`", false},
		{"two parameters", "x => |a, b| a", "closure must take exactly one parameter, found 2", false},
		{"no parameters", "x => || 1", "closure must take exactly one parameter, found 0", false},
		{"literal operation", "x => 5", "expected operation, found `5`", false},
		{"unknown marker", "x =>% f", "expected operation, found `%`", false},
		{"leftover tokens", "x => f g", "expected `=>` or end of input, found `g`", false},
		{"unsupported initial", "if a { b } => f", "unsupported expression `if`", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Expand(context.Background(), tt.input)
			if err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}

			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}

			sentinel, other := lang.ErrSyntax, lang.ErrGenerate
			if tt.generate {
				sentinel, other = other, sentinel
			}

			if !errors.Is(err, sentinel) || errors.Is(err, other) {
				t.Errorf("error %v has the wrong phase", err)
			}

			var diag *lang.Diagnostic
			if !errors.As(err, &diag) {
				t.Fatalf("expected *lang.Diagnostic, got %T", err)
			}

			if diag.Source != tt.input {
				t.Errorf("diagnostic source = %q, want %q", diag.Source, tt.input)
			}
		})
	}
}

func TestCompile_Identity(t *testing.T) {
	pl, err := Parse(context.Background(), "foo.bar(1)")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	got, err := pl.Compile(context.Background())
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	if got != pl.Initial {
		t.Errorf("pipeline without steps should compile to its initial expression")
	}
}

func TestCompile_StopsAtFirstError(t *testing.T) {
	pl, err := Parse(context.Background(), "x =># f => .a::b =># g")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	_, err = pl.Compile(context.Background())
	if !errors.Is(err, lang.ErrGenerate) {
		t.Fatalf("expected generator error, got %v", err)
	}

	var diag *lang.Diagnostic
	if errors.As(err, &diag) && diag.Pos.Column != 12 {
		t.Errorf("error column = %d, want 12", diag.Pos.Column)
	}
}

func TestExpand_Options(t *testing.T) {
	ctx := context.Background()

	got, err := Expand(ctx, "x =>& f =># g",
		WithNames(Names{AndThen: "then", Temp: "tmp"}))
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}

	want := "{ let tmp1 = x.then(|__map_var| f(__map_var)); g(&tmp1); tmp1 }"
	if got != want {
		t.Errorf("custom names\n got: %s\nwant: %s", got, want)
	}

	got, err = Expand(ctx, "x =># f", WithIndent(4))
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}

	want = "{\n    let __var_1 = x;\n    f(&__var_1);\n    __var_1\n}"
	if got != want {
		t.Errorf("indented\n got: %s\nwant: %s", got, want)
	}

	_, err = Expand(ctx, "((((x))))", WithMaxDepth(3))
	if !errors.Is(err, lang.ErrSyntax) {
		t.Errorf("expected depth error, got %v", err)
	}
}
