package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/spipe/pkg"
)

// baseConfig is the base name of the configuration files.
const baseConfig = "config"

// pathEnv names the environment variable holding the default source search
// path.
func pathEnv() string { return strings.ToUpper(pkg.Prefix()) + "_PATH" }

// searchPath returns the directories searched for relative source and rule
// file names: dirs first, then the entries of list. Empty and duplicate
// entries are removed.
func searchPath(list string, dirs ...string) []string {
	sep := string(os.PathListSeparator)

	joined := mung.Make(
		mung.WithSubjectItems(filepath.SplitList(list)...),
		mung.WithDelim(sep),
		mung.WithPrefixItems(dirs...),
	).String()

	var (
		path []string
		seen = make(map[string]bool)
	)

	for _, dir := range strings.Split(joined, sep) {
		if dir == "" || seen[dir] {
			continue
		}

		seen[dir] = true
		path = append(path, dir)
	}

	return path
}
