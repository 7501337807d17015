package pipe_test

import (
	"context"
	"fmt"

	"github.com/ardnew/spipe/pipe"
)

func ExampleExpand() {
	out, err := pipe.Expand(context.Background(),
		`raw => .trim() => (String) =># |s| println!("{}", s)`)
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(out)
	// Output:
	// { let __var_1 = String::from(raw.trim()); (|s| println!("{}", s))(&__var_1); __var_1 }
}

func ExampleExpand_placeholder() {
	out, _ := pipe.Expand(context.Background(), `name => .to_string() => greet("hello", ())`)

	fmt.Println(out)
	// Output:
	// greet("hello", name.to_string())
}

func ExampleLint() {
	pl, err := pipe.Parse(context.Background(), "opt =>* f => ...")
	if err != nil {
		fmt.Println(err)

		return
	}

	findings, _ := pipe.Lint(context.Background(), pl)
	for _, f := range findings {
		fmt.Printf("step %d: %s: %s\n", f.Step, f.Severity, f.Message)
	}
	// Output:
	// step 1: warning: unwrap panics on None or Err; consider =>? instead
	// step 2: info: step has no effect
}
