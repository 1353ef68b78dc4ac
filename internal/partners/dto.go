package partners

// PartnerInput carries the editable fields of a supplier or customer.
// Balances are never set through the API, only by postings.
type PartnerInput struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// ListFilters narrows and pages partner listings.
type ListFilters struct {
	Search string
	Page   int
	Limit  int
}
