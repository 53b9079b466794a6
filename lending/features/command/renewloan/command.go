package renewloan

import (
	"time"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

const commandType = "RenewLoan"

// Command represents the intent to extend a loan's due date.
type Command struct {
	LoanID core.LoanIDString
	At     time.Time
}

// BuildCommand creates a new Command.
func BuildCommand(loanID core.LoanIDString, at time.Time) Command {
	return Command{
		LoanID: loanID,
		At:     at,
	}
}

// CommandType returns the command type identifier.
func (c Command) CommandType() string {
	return commandType
}
