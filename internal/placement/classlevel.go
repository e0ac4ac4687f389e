package placement

import "strings"

// ClassLevel derives the coarse grade from a class label. Labels starting
// with "10", "11" or "12" yield that two-digit level, any other label
// starting with a digit yields that single digit. ok is false when the
// label carries no level.
func ClassLevel(label string) (level int, ok bool) {
	label = strings.TrimSpace(label)
	if len(label) >= 2 && label[0] == '1' && label[1] >= '0' && label[1] <= '2' {
		return 10 + int(label[1]-'0'), true
	}
	if len(label) >= 1 && label[0] >= '0' && label[0] <= '9' {
		return int(label[0] - '0'), true
	}
	return 0, false
}

func sameLevel(a, b Student) bool {
	la, okA := ClassLevel(a.ClassLabel)
	lb, okB := ClassLevel(b.ClassLabel)
	return okA && okB && la == lb
}
