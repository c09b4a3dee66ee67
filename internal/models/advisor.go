package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role string

const (
	RoleAdvisor Role = "advisor"
	RoleManager Role = "manager"
)

func (r Role) IsManager() bool {
	return r == RoleManager
}

// Advisor is used for both advisors and managers. Only advisors collect feedback.
type Advisor struct {
	ID              bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name            string          `bson:"name" json:"name"`
	Email           string          `bson:"email" json:"email"`
	Password        string          `bson:"password" json:"-"`
	Role            Role            `bson:"role" json:"role"`
	QRCode          string          `bson:"qrCode,omitempty" json:"qrCode,omitempty"`
	PerformanceData []FeedbackEntry `bson:"performanceData" json:"performanceData"`
}

// AdvisorDetails is the public profile returned by the details endpoint.
type AdvisorDetails struct {
	ID    bson.ObjectID `json:"_id"`
	Name  string        `json:"name"`
	Email string        `json:"email"`
	Role  Role          `json:"role"`
}

func (a *Advisor) Details() AdvisorDetails {
	return AdvisorDetails{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
}
