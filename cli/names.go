package cli

import (
	"github.com/alecthomas/kong"

	"github.com/ardnew/spipe/pipe"
)

// namesConfig holds the identifiers written into generated code.
type namesConfig struct {
	AndThen  string `default:"${nameAndThen}"  help:"Combinator written for =>& steps."`
	Map      string `default:"${nameMap}"      help:"Combinator written for =>@ steps."`
	Clone    string `default:"${nameClone}"    help:"Method written for =>+ steps."`
	Unwrap   string `default:"${nameUnwrap}"   help:"Method written for =>* steps."`
	From     string `default:"${nameFrom}"     help:"Function written for (T) conversions."`
	TryFrom  string `default:"${nameTryFrom}"  help:"Function written for (T?) conversions."`
	Temp     string `default:"${nameTemp}"     help:"Prefix of temporaries bound by =># and =>$ steps."`
	MapParam string `default:"${nameMapParam}" help:"Closure parameter of =>& and =>@ steps."`
}

func (namesConfig) vars() kong.Vars {
	names := pipe.DefaultNames()

	return kong.Vars{
		"nameAndThen":  names.AndThen,
		"nameMap":      names.Map,
		"nameClone":    names.Clone,
		"nameUnwrap":   names.Unwrap,
		"nameFrom":     names.From,
		"nameTryFrom":  names.TryFrom,
		"nameTemp":     names.Temp,
		"nameMapParam": names.MapParam,
	}
}

func (namesConfig) group() kong.Group {
	var group kong.Group

	group.Key = "names"
	group.Title = "Generated names"

	return group
}

// option returns the pipe option selected by the flags.
func (f namesConfig) option() pipe.Option {
	names := pipe.Names{
		AndThen:  f.AndThen,
		Map:      f.Map,
		Clone:    f.Clone,
		Unwrap:   f.Unwrap,
		From:     f.From,
		TryFrom:  f.TryFrom,
		Temp:     f.Temp,
		MapParam: f.MapParam,
	}

	return pipe.WithNames(names)
}
