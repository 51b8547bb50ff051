package lineedit

import "fmt"

// Operation is a named editing action a key can be bound to.
type Operation int

const (
	NoOperation Operation = iota
	InsertChar
	AcceptLine
	EndOfFile
	ForwardChar
	BackwardChar
	ForwardWord
	BackwardWord
	BeginningOfLine
	EndOfLine
	DeleteChar
	BackwardDeleteChar
	KillLine
	UnixLineDiscard
	BackwardKillWord
	KillWord
	Yank
	PreviousHistory
	NextHistory
	BeginningOfHistory
	EndOfHistory
	CompleteTokenNext
	CompleteTokenPrevious
	ToggleInsertMode
	ClearScreen
	RevertLine
	Abort
)

var operationNames = [...]string{
	NoOperation:           "NoOperation",
	InsertChar:            "InsertChar",
	AcceptLine:            "AcceptLine",
	EndOfFile:             "EndOfFile",
	ForwardChar:           "ForwardChar",
	BackwardChar:          "BackwardChar",
	ForwardWord:           "ForwardWord",
	BackwardWord:          "BackwardWord",
	BeginningOfLine:       "BeginningOfLine",
	EndOfLine:             "EndOfLine",
	DeleteChar:            "DeleteChar",
	BackwardDeleteChar:    "BackwardDeleteChar",
	KillLine:              "KillLine",
	UnixLineDiscard:       "UnixLineDiscard",
	BackwardKillWord:      "BackwardKillWord",
	KillWord:              "KillWord",
	Yank:                  "Yank",
	PreviousHistory:       "PreviousHistory",
	NextHistory:           "NextHistory",
	BeginningOfHistory:    "BeginningOfHistory",
	EndOfHistory:          "EndOfHistory",
	CompleteTokenNext:     "CompleteTokenNext",
	CompleteTokenPrevious: "CompleteTokenPrevious",
	ToggleInsertMode:      "ToggleInsertMode",
	ClearScreen:           "ClearScreen",
	RevertLine:            "RevertLine",
	Abort:                 "Abort",
}

func (o Operation) String() string {
	if o >= 0 && int(o) < len(operationNames) {
		return operationNames[o]
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}

func (o Operation) isCompletion() bool {
	return o == CompleteTokenNext || o == CompleteTokenPrevious
}

// Result is the editor state after processing one operation.
type Result int

const (
	// Normal means the line is still being edited.
	Normal Result = iota
	// EndOfInputLine means the line was accepted.
	EndOfInputLine
	// EndOfInputStream means the user ended input.
	EndOfInputStream
)

func (r Result) String() string {
	switch r {
	case Normal:
		return "Normal"
	case EndOfInputLine:
		return "EndOfInputLine"
	case EndOfInputStream:
		return "EndOfInputStream"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}
