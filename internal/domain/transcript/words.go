package transcript

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_']`)

// WordAt returns the word at index in text, lower-cased and stripped of
// punctuation other than apostrophes. Negative indexes count from the end
// (-1 is the last word). It returns "" when the index is out of range or the
// word is nothing but punctuation.
func WordAt(text string, index int) string {
	words := strings.Fields(text)
	if index < 0 {
		index += len(words)
	}
	if index < 0 || index >= len(words) {
		return ""
	}
	return strings.ToLower(nonWord.ReplaceAllString(words[index], ""))
}

// WordAtFile is WordAt over a transcript file. Unreadable files have no words.
func WordAtFile(path string, index int) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return WordAt(string(data), index)
}

// PositionLabel names a word index for display: 0 is "1st", -1 is "last".
func PositionLabel(index int) string {
	switch index {
	case 0:
		return "1st"
	case 1:
		return "2nd"
	case 2:
		return "3rd"
	case -1:
		return "last"
	case -2:
		return "2nd to last"
	case -3:
		return "3rd to last"
	}
	if index > 0 {
		return fmt.Sprintf("%dth", index+1)
	}
	return fmt.Sprintf("%dth from end", -index)
}
