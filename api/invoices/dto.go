package invoices

type CreateInvoiceBody struct {
	DueInDays int    `json:"dueInDays" validate:"gte=0,lte=90"`
	Notes     string `json:"notes" validate:"max=1000"`
}

type StatusBody struct {
	Status string `json:"status" validate:"required,oneof=unpaid paid void"`
}
