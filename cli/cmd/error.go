package cmd

import "github.com/ardnew/spipe/lang"

// Sentinel errors returned by commands. Each is a [lang.Error], so it can be
// wrapped and annotated while still matching with errors.Is.
var (
	ErrOpenSource   = lang.NewError("open source")
	ErrExpandFailed = lang.NewError("expansion failed")
	ErrFormat       = lang.NewError("format pipeline")
	ErrLintParse    = lang.NewError("lint pipeline")
	ErrLintFailed   = lang.NewError("lint found errors")
	ErrWriteConfig  = lang.NewError("write configuration file")
	ErrFileExists   = lang.NewError("file exists (use --force to overwrite)")
	ErrLoadRules    = lang.NewError("load lint rules")
)
