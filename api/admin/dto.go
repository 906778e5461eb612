package admin

import "time"

type LoginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type StatusBody struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes"`
}

type PaymentStatusBody struct {
	PaymentStatus string `json:"paymentStatus" validate:"required"`
}

type CriteriaBody struct {
	CriteriaResponden string `json:"criteriaResponden" validate:"required"`
}

// StatusMail is the data of the status_update template.
type StatusMail struct {
	FullName string
	Title    string
	Status   string
	Notes    string
}
