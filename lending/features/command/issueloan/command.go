package issueloan

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

const commandType = "IssueLoan"

// Command represents the intent to lend a copy of an item to a borrower.
type Command struct {
	LoanID     core.LoanIDString
	BorrowerID core.BorrowerIDString
	ItemID     core.ItemIDString
	PolicyName string
	Note       string
	At         time.Time
}

// BuildCommand creates a new Command. An empty policyName selects the standard policy.
func BuildCommand(
	loanID uuid.UUID,
	borrowerID core.BorrowerIDString,
	itemID core.ItemIDString,
	policyName string,
	note string,
	at time.Time,
) Command {

	return Command{
		LoanID:     loanID.String(),
		BorrowerID: borrowerID,
		ItemID:     itemID,
		PolicyName: policyName,
		Note:       note,
		At:         at,
	}
}

// CommandType returns the command type identifier.
func (c Command) CommandType() string {
	return commandType
}
