package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

// ErrInvalidSeed is returned when the seed file can not be decoded or contains invalid entries.
var ErrInvalidSeed = errors.New("invalid seed file")

type seedFile struct {
	Items     []seedItem     `json:"items" validate:"dive"`
	Borrowers []seedBorrower `json:"borrowers" validate:"dive"`
}

type seedItem struct {
	ItemID    string `json:"itemId" validate:"required"`
	Title     string `json:"title"`
	Copies    int    `json:"copies" validate:"min=1"`
	Available *int   `json:"available,omitempty" validate:"omitempty,min=0,ltefield=Copies"`
}

type seedBorrower struct {
	BorrowerID     string `json:"borrowerId" validate:"required"`
	Name           string `json:"name"`
	Email          string `json:"email" validate:"omitempty,email"`
	Active         *bool  `json:"active,omitempty"`
	MaxActiveLoans int    `json:"maxActiveLoans" validate:"min=0"`
}

// seedTarget receives catalog items and borrowers before the service starts.
type seedTarget interface {
	AddItem(ctx context.Context, item core.Item) error
	AddBorrower(ctx context.Context, borrower core.Borrower) error
}

func readSeedFile(path string) (seedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return seedFile{}, err
	}

	return parseSeed(raw)
}

func parseSeed(raw []byte) (seedFile, error) {
	var seed seedFile
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &seed); err != nil {
		return seedFile{}, errors.Join(ErrInvalidSeed, err)
	}

	if err := validator.New().Struct(seed); err != nil {
		return seedFile{}, errors.Join(ErrInvalidSeed, err)
	}

	return seed, nil
}

func (s seedFile) items() []core.Item {
	items := make([]core.Item, 0, len(s.Items))
	for _, item := range s.Items {
		available := item.Copies
		if item.Available != nil {
			available = *item.Available
		}

		items = append(items, core.Item{
			ItemID:          item.ItemID,
			Title:           item.Title,
			TotalCopies:     item.Copies,
			AvailableCopies: available,
		})
	}

	return items
}

func (s seedFile) borrowers() []core.Borrower {
	borrowers := make([]core.Borrower, 0, len(s.Borrowers))
	for _, borrower := range s.Borrowers {
		active := true
		if borrower.Active != nil {
			active = *borrower.Active
		}

		borrowers = append(borrowers, core.Borrower{
			BorrowerID:     borrower.BorrowerID,
			Name:           borrower.Name,
			Email:          borrower.Email,
			Active:         active,
			MaxActiveLoans: borrower.MaxActiveLoans,
		})
	}

	return borrowers
}

// apply writes all items and borrowers to target and stops at the first failure.
func (s seedFile) apply(ctx context.Context, target seedTarget) error {
	for _, item := range s.items() {
		if err := target.AddItem(ctx, item); err != nil {
			return fmt.Errorf("seeding item %s: %w", item.ItemID, err)
		}
	}

	for _, borrower := range s.borrowers() {
		if err := target.AddBorrower(ctx, borrower); err != nil {
			return fmt.Errorf("seeding borrower %s: %w", borrower.BorrowerID, err)
		}
	}

	return nil
}
