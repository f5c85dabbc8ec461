package bot

import (
	"errors"
	"strings"
)

// ParseWordArg extracts the word argument of /add_word and /remove_word.
// Only the first whitespace-separated token is used.
func ParseWordArg(args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", errors.New("word is required")
	}
	return fields[0], nil
}
