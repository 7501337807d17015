package pipe

import (
	"iter"
	"strconv"

	"github.com/ardnew/spipe/lang"
)

// StepKind selects how a step threads the pipe value into its operation.
type StepKind int

const (
	Basic    StepKind = iota // basic
	AndThen                  // and_then
	Map                      // map
	Try                      // try
	Unwrap                   // unwrap
	Clone                    // clone
	Apply                    // apply
	ApplyMut                 // apply_mut
)

var stepKindName = [...]string{
	Basic:    "basic",
	AndThen:  "and_then",
	Map:      "map",
	Try:      "try",
	Unwrap:   "unwrap",
	Clone:    "clone",
	Apply:    "apply",
	ApplyMut: "apply_mut",
}

// markers maps each marker character following "=>" to its kind.
var markers = map[byte]StepKind{
	'&': AndThen,
	'@': Map,
	'?': Try,
	'*': Unwrap,
	'+': Clone,
	'#': Apply,
	'$': ApplyMut,
}

func (k StepKind) String() string {
	if k < 0 || int(k) >= len(stepKindName) {
		return "StepKind(" + strconv.Itoa(int(k)) + ")"
	}

	return stepKindName[k]
}

// Marker returns the character written after "=>" to select k, or the empty
// string for [Basic].
func (k StepKind) Marker() string {
	for ch, kind := range markers {
		if kind == k {
			return string(ch)
		}
	}

	return ""
}

// StepKinds returns an iterator over all step kinds in declaration order.
func StepKinds() iter.Seq[StepKind] {
	return func(yield func(StepKind) bool) {
		for k := Basic; k <= ApplyMut; k++ {
			if !yield(k) {
				return
			}
		}
	}
}

// ParseStepKind returns the kind named by s, which may be either a kind name
// ("and_then") or a marker ("&").
func ParseStepKind(s string) (StepKind, bool) {
	if len(s) == 1 {
		if k, ok := markers[s[0]]; ok {
			return k, true
		}
	}

	for k := range StepKinds() {
		if k.String() == s {
			return k, true
		}
	}

	return Basic, false
}

// Step is one "=>" stage of a pipeline.
type Step struct {
	Op   Operation
	Pos  lang.Position
	Kind StepKind
}
