package intent

import "fmt"

// Action identifies the filesystem operation a phrase asks for
type Action int

const (
	// None means no rule matched
	None Action = iota
	CreateFolder
	Delete
	Move
)

func (a Action) String() string {
	switch a {
	case CreateFolder:
		return "create_folder"
	case Delete:
		return "delete"
	case Move:
		return "move"
	default:
		return "none"
	}
}

// Intent is the result of translating one phrase. Args are ordered:
// CreateFolder and Delete carry one name, Move carries source then
// destination.
type Intent struct {
	Action Action
	Args   []string
	Label  string
}

// Matched reports whether any rule recognised the phrase
func (i Intent) Matched() bool {
	return i.Action != None
}

// Arg returns the n-th argument or an error if the intent carries fewer
func (i Intent) Arg(n int) (string, error) {
	if n < 0 || n >= len(i.Args) {
		return "", fmt.Errorf("%s intent has %d args, wanted index %d", i.Action, len(i.Args), n)
	}
	return i.Args[n], nil
}
