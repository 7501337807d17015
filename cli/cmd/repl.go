package cmd

import (
	"context"

	"github.com/ardnew/spipe/cli/cmd/repl"
	"github.com/ardnew/spipe/log"
)

// Repl starts an interactive session that expands each entered pipeline.
type Repl struct {
	Indent  int  `default:"0"    help:"Spaces per block level of printed expansions." short:"i"`
	History bool `default:"true" help:"Load and save input history."                 negatable:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var historyDir string

	if r.History {
		if ktx := kongContextFrom(ctx); ktx != nil {
			historyDir = ktx.Model.Vars()[CacheIdentifier]
		}
	}

	return repl.Run(ctx, repl.Config{
		HistoryDir: historyDir,
		Indent:     r.Indent,
		Logger:     log.Default(),
		Options:    optionsFrom(ctx),
	})
}
