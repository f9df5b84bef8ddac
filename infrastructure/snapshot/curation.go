package snapshot

import (
	"encoding/json"
	"strings"

	"github.com/tsbench/corpusctl/domain"
)

// testSignals are dev dependencies whose presence marks a repository as
// carrying a test suite.
var testSignals = []string{
	"jest", "vitest", "mocha", "ava", "tap", "uvu", "playwright", "cypress",
}

// frameworkSignals classify a repository as a framework when they appear
// in its name, keywords, or dependencies.
var frameworkSignals = []string{
	"next", "nuxt", "sveltekit", "nestjs", "angular", "remix", "astro",
}

// packageManifest is the subset of package.json the curation heuristics
// inspect.
type packageManifest struct {
	Name            string            `json:"name"`
	Private         bool              `json:"private"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Keywords        []string          `json:"keywords"`
	Workspaces      json.RawMessage   `json:"workspaces"`
}

// Classify derives a coarse curation record from raw package.json bytes.
// A nil or unparsable manifest yields the unknown kind: the corpus keeps
// the repository, it is just not classified.
func Classify(raw []byte) domain.Curation {
	cur := domain.Curation{Kind: domain.KindUnknown, Notes: []string{}}
	if len(raw) == 0 {
		return cur
	}

	var pkg packageManifest
	if err := json.Unmarshal(raw, &pkg); err != nil {
		return cur
	}

	deps := make(map[string]struct{}, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for name := range pkg.Dependencies {
		deps[name] = struct{}{}
	}
	for name := range pkg.DevDependencies {
		deps[name] = struct{}{}
	}

	keywords := make(map[string]struct{}, len(pkg.Keywords))
	for _, kw := range pkg.Keywords {
		keywords[kw] = struct{}{}
	}

	_, hasTestScript := pkg.Scripts["test"]
	cur.Tests = hasTestScript || anyInSet(testSignals, deps)
	cur.Monorepo = len(pkg.Workspaces) > 0

	name := strings.ToLower(pkg.Name)
	switch {
	case anyInName(frameworkSignals, name) ||
		anyInSet(frameworkSignals, deps) ||
		anyInSet(frameworkSignals, keywords):
		cur.Kind = domain.KindFramework
	case pkg.Private && anyScript(pkg.Scripts, "start", "dev", "build"):
		cur.Kind = domain.KindApp
	default:
		cur.Kind = domain.KindLibrary
	}

	if cur.Tests {
		cur.Notes = append(cur.Notes, "tests")
	}
	if cur.Monorepo {
		cur.Notes = append(cur.Notes, "monorepo")
	}
	return cur
}

func anyInSet(signals []string, set map[string]struct{}) bool {
	for _, s := range signals {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}

func anyInName(signals []string, name string) bool {
	for _, s := range signals {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}

func anyScript(scripts map[string]string, names ...string) bool {
	for _, n := range names {
		if _, ok := scripts[n]; ok {
			return true
		}
	}
	return false
}
