package accounts

// CreateAccountInput groups fields accepted when creating an account.
type CreateAccountInput struct {
	Code               string      `json:"code" validate:"required"`
	Name               string      `json:"name" validate:"required"`
	Type               AccountType `json:"type" validate:"required"`
	Description        string      `json:"description"`
	ParentID           *int64      `json:"parentId"`
	OpeningBalance     float64     `json:"openingBalance"`
	CanDebitOnPayment  bool        `json:"canDebitOnPayment"`
	CanCreditOnReceipt bool        `json:"canCreditOnReceipt"`
}

// UpdateAccountInput is a partial patch; nil fields are left untouched.
// ClearParent moves the account to the root level.
type UpdateAccountInput struct {
	Code               *string      `json:"code"`
	Name               *string      `json:"name"`
	Type               *AccountType `json:"type"`
	Description        *string      `json:"description"`
	ParentID           *int64       `json:"parentId"`
	ClearParent        bool         `json:"clearParent"`
	IsActive           *bool        `json:"isActive"`
	OpeningBalance     *float64     `json:"openingBalance"`
	CanDebitOnPayment  *bool        `json:"canDebitOnPayment"`
	CanCreditOnReceipt *bool        `json:"canCreditOnReceipt"`
}
