package request

import "strings"

type VerifyPinRequest struct {
	Pin string `json:"pin" binding:"required"`
}

type RedeemRequest struct {
	Code string `json:"code" binding:"required"`
}

func (r RedeemRequest) GetCode() string {
	return strings.TrimSpace(r.Code)
}
