package diagnostic

import "regexp"

var numberedQuestion = regexp.MustCompile(`^(\d+)[^\w]*(.*)$`)

// SplitQuestion separates a leading ordinal from the question text.
// "3) Do analytics skills exist?" gives ("3", "Do analytics skills exist?");
// a question without leading digits is returned whole with an empty ordinal.
func SplitQuestion(q string) (ordinal, text string) {
	m := numberedQuestion.FindStringSubmatch(q)
	if m == nil {
		return "", q
	}
	return m[1], m[2]
}
