package models

import "time"

// CreatePropRequest is the body of POST /api/props
type CreatePropRequest struct {
	Name       string    `json:"name" binding:"required,max=500"`
	ExpiryDate time.Time `json:"expiry_date" binding:"required"`
}

// PlaceWagerRequest is the body of POST /api/props/:id/wagers
type PlaceWagerRequest struct {
	Prediction *bool `json:"prediction" binding:"required"`
	Bananas    int64 `json:"bananas" binding:"required,gt=0,max=1000000000"`
}

// SetResultRequest is the body of POST /api/props/:id/result
type SetResultRequest struct {
	Result *bool `json:"result" binding:"required"`
}

// PhoneRequest starts SMS verification
type PhoneRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// VerifyPhoneRequest completes sign-up or sign-in with an SMS code
type VerifyPhoneRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required,numeric,min=4,max=10"`
	From  string `json:"from"`
}

// WagerDraft is a bet the user started before being sent to sign in
type WagerDraft struct {
	PropID     string `json:"prop_id" binding:"required"`
	Prediction *bool  `json:"prediction"`
	Bananas    int64  `json:"bananas" binding:"omitempty,gt=0,max=1000000000"`
}
