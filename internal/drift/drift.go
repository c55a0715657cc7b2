// Package drift compares a committed index document with freshly generated
// output.
package drift

import (
	"bytes"

	"github.com/inful/mdfp"
	"github.com/pmezard/go-difflib/difflib"
)

// Result describes the outcome of one comparison.
type Result struct {
	Drifted bool
	// Diff is a unified diff from committed to generated; empty when equal.
	Diff                 string
	CommittedFingerprint string
	GeneratedFingerprint string
}

// Check reports whether generated differs from committed. It has no side effects.
func Check(committed, generated []byte, name string) (Result, error) {
	res := Result{
		Drifted:              !bytes.Equal(committed, generated),
		CommittedFingerprint: Fingerprint(committed),
		GeneratedFingerprint: Fingerprint(generated),
	}
	if !res.Drifted {
		return res, nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(committed)),
		B:        difflib.SplitLines(string(generated)),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
	if err != nil {
		return res, err
	}
	res.Diff = diff
	return res, nil
}

// Fingerprint returns a stable content hash for a whole document.
func Fingerprint(doc []byte) string {
	return mdfp.CalculateFingerprintFromParts("", string(doc))
}
