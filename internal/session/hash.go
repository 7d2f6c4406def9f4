package session

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ErrEmptySession is returned when a snapshot has nothing worth hashing.
// The calculator refuses rather than producing a digest over no gameplay.
var ErrEmptySession = errors.New("session: refusing to hash an empty session")

// canonicalSession is the deterministic subset of a snapshot used for
// hashing. Cosmetic fields (wall-clock times, screen coordinates) are
// deliberately excluded so the digest is stable across non-essential
// variation.
//
// Field order matters: the remote validator serializes with lexically
// sorted keys, and Go's encoding/json emits struct fields in declaration
// order, so these declarations are kept sorted.
type canonicalSession struct {
	Keystrokes []canonicalKeystroke `json:"keystrokes"`
	Seed       int64                `json:"seed"`
	Stage      int                  `json:"stage"`
	Words      []string             `json:"words"`
}

type canonicalKeystroke struct {
	Key       string `json:"key"`
	Timestamp int64  `json:"timestamp"`
	WordIndex int    `json:"wordIndex"`
}

// Canonicalize reduces a snapshot to its deterministic subset: seed, stage,
// word texts in sorted order, and keystrokes as {key, timestamp, wordIndex}
// in original order.
func Canonicalize(snap *Snapshot) (*canonicalSession, error) {
	if snap == nil {
		return nil, ErrEmptySession
	}
	if len(snap.Words) == 0 && len(snap.Keystrokes) == 0 {
		return nil, ErrEmptySession
	}

	words := make([]string, 0, len(snap.Words))
	for _, w := range snap.Words {
		if w.Text != "" {
			words = append(words, w.Text)
		}
	}
	sort.Strings(words)

	keystrokes := make([]canonicalKeystroke, 0, len(snap.Keystrokes))
	for _, k := range snap.Keystrokes {
		keystrokes = append(keystrokes, canonicalKeystroke{
			Key:       k.Key,
			Timestamp: k.Offset,
			WordIndex: k.WordIndex,
		})
	}

	return &canonicalSession{
		Keystrokes: keystrokes,
		Seed:       snap.Seed,
		Stage:      snap.Stage,
		Words:      words,
	}, nil
}

// CanonicalJSON serializes the canonical subset to the single deterministic
// string the digest is computed over: compact JSON, sorted keys, no HTML
// escaping, non-ASCII escaped to \uXXXX. The remote validator serializes
// with ensure_ascii semantics, so a raw UTF-8 keystroke here would hash to
// a different digest than the server recomputes.
func CanonicalJSON(snap *Snapshot) ([]byte, error) {
	canon, err := Canonicalize(snap)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(canon); err != nil {
		return nil, fmt.Errorf("session: canonical encoding failed: %w", err)
	}
	// Encoder appends a newline; the canonical string has none.
	return escapeNonASCII(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// escapeNonASCII rewrites every rune above 0x7F as a lowercase \uXXXX
// escape, using a UTF-16 surrogate pair beyond the BMP. Non-ASCII bytes
// only occur inside JSON string values, so the rewrite cannot touch
// structure.
func escapeNonASCII(in []byte) []byte {
	if isASCII(in) {
		return in
	}
	var buf bytes.Buffer
	buf.Grow(len(in))
	for _, r := range string(in) {
		switch {
		case r < utf8.RuneSelf:
			buf.WriteByte(byte(r))
		case r > 0xFFFF:
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&buf, `\u%04x\u%04x`, hi, lo)
		default:
			fmt.Fprintf(&buf, `\u%04x`, r)
		}
	}
	return buf.Bytes()
}

func isASCII(in []byte) bool {
	for _, b := range in {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Hash computes the SHA-256 digest of the canonical session as lowercase
// hex. It is a pure function: identical canonical input always yields the
// identical output, which is what lets the server trust a recomputation
// instead of the client's claim.
func Hash(snap *Snapshot) (string, error) {
	canonical, err := CanonicalJSON(snap)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Verify recomputes the digest and compares it, case-insensitively, to a
// claimed hash.
func Verify(snap *Snapshot, claimed string) bool {
	if claimed == "" {
		return false
	}
	computed, err := Hash(snap)
	if err != nil {
		return false
	}
	return strings.EqualFold(computed, claimed)
}
