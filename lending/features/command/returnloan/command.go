package returnloan

import (
	"time"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

const commandType = "ReturnLoan"

// Command represents the intent to bring a lent copy back.
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
