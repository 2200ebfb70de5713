package jr

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Stem modes select what part of the truncated name is split on the delimiter.
const (
	// ModeFirstChar splits only the first character of the truncated name.
	// This matches the behaviour of the script the tool replaces, where the
	// character was indexed before the split ran.
	ModeFirstChar = "first-char"
	// ModeFull splits the whole truncated name.
	ModeFull = "full"
)

// Short name policies.
const (
	ShortNameFail = "fail"
	ShortNameSkip = "skip"
)

// ErrNameTooShort is returned when a name has no characters left after truncation.
var ErrNameTooShort = errors.New("name too short")

// NameRules controls how a candidate name is derived from an existing one.
type NameRules struct {
	TrimLength int    // characters removed from the end of the name
	Delimiter  string // the stem is cut at its first occurrence
	Extension  string // appended to the result
	Mode       string // ModeFirstChar or ModeFull
	ShortNames string // ShortNameFail or ShortNameSkip
}

// DefaultNameRules returns the rules of the original journal image script.
func DefaultNameRules() NameRules {
	return NameRules{
		TrimLength: 4,
		Delimiter:  " - ",
		Extension:  ".png",
		Mode:       ModeFirstChar,
		ShortNames: ShortNameFail,
	}
}

// Validate checks that the rules can be applied.
func (r NameRules) Validate() error {
	if r.TrimLength < 0 {
		return fmt.Errorf("trim_length must not be negative, got %d", r.TrimLength)
	}
	if r.Delimiter == "" {
		return fmt.Errorf("delimiter must not be empty")
	}
	switch r.Mode {
	case ModeFirstChar, ModeFull:
	default:
		return fmt.Errorf("unknown mode: %q", r.Mode)
	}
	switch r.ShortNames {
	case ShortNameFail, ShortNameSkip:
	default:
		return fmt.Errorf("unknown short_names policy: %q", r.ShortNames)
	}
	return nil
}

// Candidate derives the new name for name.
//
// The last TrimLength characters are dropped, the stem is chosen per Mode,
// everything from the first Delimiter on is cut, spaces become underscores
// and Extension is appended. Lengths count characters, not bytes. A byte
// that is not valid UTF-8 counts as one character and is kept as is.
func (r NameRules) Candidate(name string) (string, error) {
	truncated, starts, ok := r.truncate(name)
	if !ok {
		return "", fmt.Errorf("%w: %q has %d characters, need more than %d", ErrNameTooShort, name, len(starts), r.TrimLength)
	}

	stem := truncated
	if r.Mode == ModeFirstChar && len(starts) > 1 {
		stem = truncated[:starts[1]]
	}

	part, _, _ := strings.Cut(stem, r.Delimiter)
	return strings.ReplaceAll(part, " ", "_") + r.Extension, nil
}

// SplitIsInert reports whether name contains the delimiter in its truncated
// form but the first-char mode discards it before the split can see it.
func (r NameRules) SplitIsInert(name string) bool {
	if r.Mode != ModeFirstChar {
		return false
	}
	truncated, starts, ok := r.truncate(name)
	if !ok {
		return false
	}
	return len(starts) > 1 && strings.Contains(truncated, r.Delimiter)
}

// truncate drops the last TrimLength characters of name. It returns the
// byte offset of each remaining character and false when none remain.
func (r NameRules) truncate(name string) (string, []int, bool) {
	starts := charStarts(name)
	if len(starts) <= r.TrimLength {
		return "", starts, false
	}
	keep := len(starts) - r.TrimLength
	end := len(name)
	if keep < len(starts) {
		end = starts[keep]
	}
	return name[:end], starts[:keep], true
}

// charStarts returns the byte offset where each character of s begins.
func charStarts(s string) []int {
	starts := make([]int, 0, len(s))
	for i := 0; i < len(s); {
		starts = append(starts, i)
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return starts
}
