package command

import "fmt"

// Result is the response triple for one command. Output and Error are
// always present, possibly empty; Translation is only set for ai commands.
type Result struct {
	Output      string  `json:"output"`
	Error       string  `json:"error"`
	Translation *string `json:"ai_translation,omitempty"`
}

// Failed reports whether the command produced an error message
func (r Result) Failed() bool {
	return r.Error != ""
}

func unexpected(r Result, err error) Result {
	r.Error = fmt.Sprintf("An unexpected error occurred: %s", err)
	return r
}

func label(s string) *string {
	return &s
}
