package request

import "strings"

type PaymentApprovedRequest struct {
	HolderName  string `json:"holder_name" binding:"required"`
	HolderEmail string `json:"holder_email" binding:"required,email"`
	Category    string `json:"category" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

func (r PaymentApprovedRequest) GetHolderName() string {
	return strings.TrimSpace(r.HolderName)
}

func (r PaymentApprovedRequest) GetHolderEmail() string {
	return strings.ToLower(strings.TrimSpace(r.HolderEmail))
}
