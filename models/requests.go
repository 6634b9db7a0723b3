package models

import "time"

const DefaultAlertMessage = "Test alert from Smart Krishi"

type RegisterRequest struct {
	Name     string   `json:"name"`
	Phone    string   `json:"phone"`
	Village  *string  `json:"village"`
	District *string  `json:"district"`
	Crops    []string `json:"crops"`
	// OTP is accepted for client compatibility; verification happens
	// elsewhere once a provider exists.
	OTP *string `json:"otp"`
}

// NewUser builds the record persisted for a registration.
func (r RegisterRequest) NewUser(now time.Time) *User {
	crops := r.Crops
	if crops == nil {
		crops = []string{}
	}
	return &User{
		Name:      r.Name,
		Phone:     r.Phone,
		Village:   r.Village,
		District:  r.District,
		Crops:     crops,
		CreatedAt: now,
	}
}

type FertilizerRequest struct {
	Crop string `json:"crop" validate:"required"`
	Soil string `json:"soil" validate:"required"`
}

type AlertRequest struct {
	UserID  string  `json:"userId" validate:"required"`
	Type    string  `json:"type" validate:"required"`
	Message *string `json:"message"`
}

// NewNotification fills the default message when none was given.
func (r AlertRequest) NewNotification(now time.Time) *Notification {
	msg := DefaultAlertMessage
	if r.Message != nil && *r.Message != "" {
		msg = *r.Message
	}
	return &Notification{
		UserID:    r.UserID,
		Type:      r.Type,
		Message:   msg,
		Timestamp: now,
	}
}

type UpdateMandiRequest struct {
	District string   `json:"district" validate:"required"`
	Crop     string   `json:"crop" validate:"required"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
}

func (r UpdateMandiRequest) NewMandiPrice(now time.Time) *MandiPrice {
	return &MandiPrice{
		District:  r.District,
		Crop:      r.Crop,
		Price:     *r.Price,
		UpdatedAt: now,
	}
}
