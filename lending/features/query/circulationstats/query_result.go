package circulationstats

import (
	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

// Statistics counts loans. Open counts every ACTIVE or RENEWED loan, Overdue is the subset past its due date.
type Statistics struct {
	Total      int
	Open       int
	Renewed    int
	Overdue    int
	Returned   int
	Cancelled  int
	FinesTotal core.MonetaryAmount
}
