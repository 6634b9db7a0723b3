package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names. Each record kind lives in its own flat collection.
const (
	UserCollection          = "user"
	CropDiagnosisCollection = "cropdiagnosis"
	MandiPriceCollection    = "mandiprice"
	NotificationCollection  = "notification"
	WeatherAlertCollection  = "weatheralert"
	OTPCollection           = "otpverification"
)

// Notification types known to the schema. The alert endpoint stores whatever
// type the caller sends; these are the values clients are expected to use.
const (
	NotificationWeather    = "weather"
	NotificationMandi      = "mandi"
	NotificationFertilizer = "fertilizer"
)

// Stamper is a record that echoes its own store id in a named field.
type Stamper interface {
	Stamp(id primitive.ObjectID)
}

type User struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string             `json:"userId" bson:"userId"`
	Name      string             `json:"name" bson:"name" validate:"required"`
	Phone     string             `json:"phone" bson:"phone" validate:"required"`
	Village   *string            `json:"village" bson:"village"`
	District  *string            `json:"district" bson:"district"`
	Crops     []string           `json:"crops" bson:"crops"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

func (u *User) Stamp(id primitive.ObjectID) {
	u.ID = id
	u.UserID = id.Hex()
}

type CropDiagnosis struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	DiagnosisID    string             `json:"diagnosisId" bson:"diagnosisId"`
	UserID         string             `json:"userId" bson:"userId" validate:"required"`
	Crop           string             `json:"crop" bson:"crop" validate:"required"`
	ImageURL       string             `json:"imageURL" bson:"imageURL"`
	DiseaseName    string             `json:"diseaseName" bson:"diseaseName" validate:"required"`
	Probability    float64            `json:"probability" bson:"probability" validate:"gte=0,lte=1"`
	Recommendation string             `json:"recommendation" bson:"recommendation" validate:"required"`
	Pesticide      *string            `json:"pesticide" bson:"pesticide"`
	Date           time.Time          `json:"date" bson:"date"`
}

func (d *CropDiagnosis) Stamp(id primitive.ObjectID) {
	d.ID = id
	d.DiagnosisID = id.Hex()
}

// WeatherAlert tracks when a user was last alerted for a location. No
// endpoint writes it yet.
type WeatherAlert struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        string             `json:"userId" bson:"userId" validate:"required"`
	Location      string             `json:"location" bson:"location" validate:"required"`
	LastAlertSent *time.Time         `json:"lastAlertSent" bson:"lastAlertSent"`
}

// MandiPrice is one observation of a crop price in a district. Updates append
// a new record; history is never rewritten.
type MandiPrice struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	MandiID   string             `json:"mandiId" bson:"mandiId"`
	District  string             `json:"district" bson:"district" validate:"required"`
	Crop      string             `json:"crop" bson:"crop" validate:"required"`
	Price     float64            `json:"price" bson:"price" validate:"gte=0"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (m *MandiPrice) Stamp(id primitive.ObjectID) {
	m.ID = id
	m.MandiID = id.Hex()
}

type Notification struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string             `json:"userId" bson:"userId" validate:"required"`
	Type      string             `json:"type" bson:"type" validate:"required"`
	Message   string             `json:"message" bson:"message" validate:"required"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
}

// OTPVerification is reserved for a phone-verification provider. Nothing
// issues or checks codes in this service.
type OTPVerification struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Phone     string             `json:"phone" bson:"phone" validate:"required"`
	Code      string             `json:"code" bson:"code" validate:"required"`
	ExpiresAt time.Time          `json:"expiresAt" bson:"expiresAt"`
	Verified  bool               `json:"verified" bson:"verified"`
}
