package diff

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Differ wraps the diff-match-patch algorithm behind the two-pass contract
// the engine relies on: a semantic cleanup pass over the raw edit sequence,
// and a markup rendering pass for human display.
type Differ struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// New creates a Differ with default diff-match-patch settings.
func New() *Differ {
	return &Differ{dmp: diffmatchpatch.New()}
}

// Compare computes the edit sequence between two strings and applies
// semantic cleanup, on the assumption that both contain human-readable
// content.
func (d *Differ) Compare(original, current string) []diffmatchpatch.Diff {
	diffs := d.dmp.DiffMain(original, current, true)
	return d.dmp.DiffCleanupSemantic(diffs)
}

// Render returns the cleaned edit sequence between two strings as HTML
// markup, with insertions and deletions wrapped in ins/del tags.
func (d *Differ) Render(original, current string) string {
	return d.dmp.DiffPrettyHtml(d.Compare(original, current))
}

// Changed reports whether two strings differ at all.
func (d *Differ) Changed(original, current string) bool {
	for _, df := range d.Compare(original, current) {
		if df.Type != diffmatchpatch.DiffEqual {
			return true
		}
	}
	return false
}
