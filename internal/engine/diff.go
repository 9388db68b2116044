package engine

// ChangeKind classifies how the input buffer changed between two signals.
type ChangeKind uint8

// Buffer change kinds.
const (
	ChangeNone ChangeKind = iota
	ChangeAppend
	ChangeTruncate
	ChangeReplace
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeNone:
		return "none"
	case ChangeAppend:
		return "append"
	case ChangeTruncate:
		return "truncate"
	case ChangeReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Change describes a buffer edit. Keep is the length of the prefix shared by
// both buffers; Added holds the runes after Keep in the current buffer for
// append and replace edits.
type Change struct {
	Kind  ChangeKind
	Keep  int
	Added []rune
}

// Diff compares the previous and current buffer contents.
func Diff(prev, cur []rune) Change {
	common := commonPrefix(prev, cur)
	switch {
	case common == len(prev) && common == len(cur):
		return Change{Kind: ChangeNone, Keep: common}
	case len(cur) < len(prev):
		return Change{Kind: ChangeTruncate, Keep: common}
	case common == len(prev):
		return Change{Kind: ChangeAppend, Keep: common, Added: cur[common:]}
	default:
		return Change{Kind: ChangeReplace, Keep: common, Added: cur[common:]}
	}
}

func commonPrefix(a, b []rune) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
