package domain

import "time"

// BankAccount is a manual-payment target shown during checkout.
type BankAccount struct {
	ID            int64      `json:"id"`
	BankName      string     `json:"bank_name"`
	AccountNumber string     `json:"account_number"`
	AccountName   string     `json:"account_name"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

type BankAccountInput struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	IsActive      *bool  `json:"is_active,omitempty"`
}

// FindBank returns the account with the given id, or nil.
func FindBank(banks []BankAccount, id int64) *BankAccount {
	for i := range banks {
		if banks[i].ID == id {
			return &banks[i]
		}
	}
	return nil
}
