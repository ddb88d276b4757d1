package ports

// PatternMatcher finds literal keywords in content using multi-pattern
// matching (Aho-Corasick). A single pass over the content finds all matching
// keywords simultaneously, regardless of how many keywords are in the set.
//
// Transcript search uses it as a line prefilter: a line without any keyword
// hit cannot satisfy a literal-only query and is skipped before the regular
// expressions run.
type PatternMatcher interface {
	// Match returns each distinct keyword found in content, lower-cased, in
	// order of first appearance. Returns nil if no keywords match. Matching
	// is case-insensitive with the simple case folding of a (?i) regexp.
	Match(content string) []string

	// Contains reports whether any keyword occurs in content, folding case
	// like Match. Transcript search relies on it never rejecting a line the
	// case-insensitive regexp would match.
	Contains(content string) bool
}
