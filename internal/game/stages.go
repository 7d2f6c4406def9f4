package game

import "strings"

// Tier classifies a stage's corpus: single letters ramp more gently than
// full words.
type Tier int

const (
	TierLetters Tier = iota
	TierWords
)

// String returns a human-readable name for the tier.
func (t Tier) String() string {
	if t == TierLetters {
		return "letters"
	}
	return "words"
}

// StageSpec describes one entry in the static difficulty progression.
// The table is ordered and immutable; the stage index is only ever read
// forward.
type StageSpec struct {
	Index          int
	CorpusKey      string
	Tier           Tier
	WordsToAdvance int
	Description    string
}

var stageTable = []StageSpec{
	{Index: 0, CorpusKey: "home_row", Tier: TierLetters, WordsToAdvance: 40, Description: "Home row letters"},
	{Index: 1, CorpusKey: "all_letters", Tier: TierLetters, WordsToAdvance: 40, Description: "Full alphabet"},
	{Index: 2, CorpusKey: "words_short", Tier: TierWords, WordsToAdvance: 30, Description: "Short words"},
	{Index: 3, CorpusKey: "words_medium", Tier: TierWords, WordsToAdvance: 25, Description: "Medium words"},
	{Index: 4, CorpusKey: "words_long", Tier: TierWords, WordsToAdvance: 20, Description: "Long words"},
	{Index: 5, CorpusKey: "mixed", Tier: TierWords, WordsToAdvance: 30, Description: "Everything at once"},
}

var corpora = map[string][]string{
	"home_row":    splitLetters("asdfjkl;"),
	"all_letters": splitLetters("abcdefghijklmnopqrstuvwxyz"),
	"words_short": {
		"and", "the", "for", "not", "you", "are", "but", "his", "her", "can",
		"had", "was", "one", "our", "out", "day", "get", "has", "him", "how",
		"man", "new", "now", "old", "see", "two", "way", "who", "did", "its",
	},
	"words_medium": {
		"about", "after", "again", "could", "every", "first", "found", "great",
		"house", "large", "learn", "never", "other", "place", "right", "small",
		"sound", "spell", "still", "study", "their", "there", "these", "thing",
		"think", "three", "water", "where", "which", "world", "would", "write",
	},
	"words_long": {
		"another", "because", "between", "country", "example", "follow",
		"important", "mountain", "picture", "question", "sentence", "thought",
		"through", "together", "different", "children", "building", "remember",
	},
}

func init() {
	// Mixed corpus pools every word stage
	var mixed []string
	mixed = append(mixed, corpora["words_short"]...)
	mixed = append(mixed, corpora["words_medium"]...)
	mixed = append(mixed, corpora["words_long"]...)
	corpora["mixed"] = mixed
}

func splitLetters(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// Stages returns a copy of the stage table.
func Stages() []StageSpec {
	out := make([]StageSpec, len(stageTable))
	copy(out, stageTable)
	return out
}

// StageCount returns the number of stages in the table.
func StageCount() int {
	return len(stageTable)
}

// StageAt returns the spec for the given index. Indexes past the end repeat
// the final stage, so long runs never run out of targets.
func StageAt(index int) StageSpec {
	if index < 0 {
		index = 0
	}
	if index >= len(stageTable) {
		index = len(stageTable) - 1
	}
	return stageTable[index]
}

// CorpusFor returns the word list for a corpus key.
// Unknown keys fall back to the mixed corpus.
func CorpusFor(key string) []string {
	if words, ok := corpora[key]; ok {
		return words
	}
	return corpora["mixed"]
}

// DescribeStages renders the table for the CLI.
func DescribeStages() string {
	var b strings.Builder
	for _, s := range stageTable {
		b.WriteString(s.Description)
		b.WriteString("\n")
	}
	return b.String()
}
