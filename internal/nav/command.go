// Package nav maps drill-down commands onto report views. Every command
// carries its complete addressing information, so navigation needs no
// server-held history: "back" and paging are recomputed from the command
// itself.
package nav

import (
	"errors"
	"strconv"
	"strings"
)

// ErrBadCommand indicates a command string that doesn't fit the grammar.
var ErrBadCommand = errors.New("malformed command")

// Command is one parsed drill-down step: verb:arg1:...:argN. Paginated
// commands carry the page index as their last argument.
type Command struct {
	Verb string
	Args []string
}

// Parse splits a colon-delimited command string.
func Parse(data string) (Command, error) {
	parts := strings.Split(strings.TrimSpace(data), ":")
	if parts[0] == "" {
		return Command{}, ErrBadCommand
	}
	return Command{Verb: parts[0], Args: parts[1:]}, nil
}

// Format encodes a command string from a verb and arguments. Arguments are
// sanitized so embedded values cannot break the colon grammar.
func Format(verb string, args ...string) string {
	if len(args) == 0 {
		return verb
	}
	clean := make([]string, len(args))
	for i, a := range args {
		clean[i] = sanitizeArg(a)
	}
	return verb + ":" + strings.Join(clean, ":")
}

// Arg returns the i-th argument or "" when absent.
func (c Command) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// Page parses the last argument as a page index. Missing or invalid
// values mean page zero.
func (c Command) Page() int {
	if len(c.Args) == 0 {
		return 0
	}
	page, err := strconv.Atoi(c.Args[len(c.Args)-1])
	if err != nil || page < 0 {
		return 0
	}
	return page
}

// sanitizeArg keeps an embedded value from breaking the colon grammar.
func sanitizeArg(s string) string {
	return strings.NewReplacer(":", "_", ";", "_").Replace(s)
}
