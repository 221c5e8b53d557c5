package donation

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Donation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChurchID  primitive.ObjectID `bson:"church_id" json:"church_id"`
	MemberID  string             `bson:"member_id,omitempty" json:"member_id,omitempty"`
	DonorName string             `bson:"donor_name,omitempty" json:"donor_name,omitempty"`
	Fund      string             `bson:"fund,omitempty" json:"fund,omitempty"`
	Method    string             `bson:"method,omitempty" json:"method,omitempty"`
	Amount    float64            `bson:"amount" json:"amount"`
	Currency  string             `bson:"currency,omitempty" json:"currency,omitempty"`
	Note      string             `bson:"note,omitempty" json:"note,omitempty"`
	Synced    bool               `bson:"synced" json:"synced"`
	GivenAt   time.Time          `bson:"given_at" json:"given_at"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type DonationSummary struct {
	TotalAmount float64            `json:"total_amount"`
	Count       int                `json:"count"`
	ByFund      map[string]float64 `json:"by_fund"`
}

func (d *Donation) payload() map[string]interface{} {
	return map[string]interface{}{
		"donation_id": d.ID.Hex(),
		"member_id":   d.MemberID,
		"donor_name":  d.DonorName,
		"fund":        d.Fund,
		"method":      d.Method,
		"amount":      d.Amount,
		"currency":    d.Currency,
	}
}
