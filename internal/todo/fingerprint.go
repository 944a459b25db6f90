package todo

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Fingerprint is the canonical identity of one tracked marker, embedded in
// an issue body so identity does not depend on fuzzy text search.
type Fingerprint struct {
	Title string `json:"title"`
	File  string `json:"file"`
}

// FingerprintSet maps match ids to their fingerprints. One issue body hosts
// at most one block holding the whole set.
type FingerprintSet map[string]Fingerprint

var fingerprintBlockRe = regexp.MustCompile(`(?s)\n*<!--\s*todo-tracker\s*=\s*(\{.*?\})\s*-->`)

// MatchID derives the stable id for a marker occurrence. The same
// (commit, keyword, ordinal) triple always produces the same id, which is
// what makes repeated webhook deliveries idempotent.
func MatchID(commitSHA, keyword string, ordinal int) string {
	sum := sha256.Sum256([]byte(commitSHA + "\x00" + keyword + "\x00" + fmt.Sprint(ordinal)))
	return hex.EncodeToString(sum[:6])
}

// EncodeFingerprints serializes a set into the hidden comment block appended
// to issue bodies. The block is invisible in rendered markdown.
func EncodeFingerprints(set FingerprintSet) string {
	b, err := json.Marshal(set)
	if err != nil {
		// A map of plain structs cannot fail to marshal.
		return ""
	}
	return fmt.Sprintf("<!-- todo-tracker = %s -->", b)
}

// DecodeFingerprints extracts the block from an arbitrary issue body.
// Foreign or malformed bodies yield an empty set, never an error: issues not
// created by this bot must be safe to inspect.
func DecodeFingerprints(body string) FingerprintSet {
	m := fingerprintBlockRe.FindStringSubmatch(body)
	if m == nil {
		return FingerprintSet{}
	}
	var set FingerprintSet
	if err := json.Unmarshal([]byte(m[1]), &set); err != nil {
		return FingerprintSet{}
	}
	if set == nil {
		return FingerprintSet{}
	}
	return set
}

// MergeFingerprint adds one entry to the body's block, preserving any prior
// entries and all human-authored text outside the block.
func MergeFingerprint(body, id string, fp Fingerprint) string {
	set := DecodeFingerprints(body)
	set[id] = fp
	stripped := strings.TrimRight(fingerprintBlockRe.ReplaceAllString(body, ""), "\n")
	if stripped == "" {
		return EncodeFingerprints(set)
	}
	return stripped + "\n\n" + EncodeFingerprints(set)
}
