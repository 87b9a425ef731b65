package request

import "strings"

type DispatchRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (r DispatchRequest) GetEmail() string {
	return strings.ToLower(strings.TrimSpace(r.Email))
}
