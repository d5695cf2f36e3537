package command

import (
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"
)

// go-shellwords rejects bare parentheses and treats backticks as command
// substitution. Both are ordinary token characters here, so they are
// swapped for private-use runes while parsing and restored afterwards.
var (
	shieldGroups  = strings.NewReplacer("(", "\ue000", ")", "\ue001", "`", "\ue002")
	restoreGroups = strings.NewReplacer("\ue000", "(", "\ue001", ")", "\ue002", "`")
)

// Tokenize splits a command line on whitespace, keeping single- and
// double-quoted substrings together. No variables or globs are expanded.
// Tokenizing stops at the first unquoted shell operator. Only unbalanced
// quotes and a trailing escape are errors.
func Tokenize(line string) ([]string, error) {
	parser := shellwords.NewParser()
	parser.ParseEnv = false
	parser.ParseBacktick = false

	args, err := parser.Parse(shieldGroups.Replace(line))
	if err != nil {
		return nil, fmt.Errorf("failed to parse command: %w", err)
	}
	for i, arg := range args {
		args[i] = restoreGroups.Replace(arg)
	}
	return args, nil
}
