package cancelloan

import (
	"time"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

const commandType = "CancelLoan"

// Command represents the intent to void an open loan.
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
