package domain

import (
	"time"

	"github.com/storedesk/storedesk-backend/internal/records"
)

type Customer struct {
	ID             string       `json:"id"`
	FirstName      string       `json:"firstName"`
	LastName       string       `json:"lastName"`
	Email          string       `json:"email,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	DateOfBirth    *time.Time   `json:"dateOfBirth,omitempty"`
	Address        string       `json:"address,omitempty"`
	CustomerType   CustomerType `json:"customerType"`
	LoyaltyPoints  int          `json:"loyaltyPoints"`
	TotalPurchases float64      `json:"totalPurchases"`
	LastVisitDate  *time.Time   `json:"lastVisitDate,omitempty"`
	LocationID     string       `json:"locationId,omitempty"`
	CreatedAt      *time.Time   `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time   `json:"updatedAt,omitempty"`
}

func (c Customer) FullName() string {
	return joinName(c.FirstName, c.LastName)
}

func CustomerFromDocument(d records.Document) Customer {
	f := fields(d.Data)
	return Customer{
		ID:             d.ID,
		FirstName:      f.str("firstName"),
		LastName:       f.str("lastName"),
		Email:          f.str("email"),
		Phone:          f.str("phone"),
		DateOfBirth:    f.time("dateOfBirth"),
		Address:        f.str("address"),
		CustomerType:   CustomerType(f.str("customerType")),
		LoyaltyPoints:  f.integer("loyaltyPoints"),
		TotalPurchases: f.number("totalPurchases"),
		LastVisitDate:  f.time("lastVisitDate"),
		LocationID:     f.str("locationId"),
		CreatedAt:      f.time("createdAt"),
		UpdatedAt:      f.time("updatedAt"),
	}
}

// CreateCustomerRequest is the customer form. Loyalty points, purchase totals
// and the last visit are maintained by the system and start empty.
type CreateCustomerRequest struct {
	FirstName    string       `json:"firstName" validate:"notblank"`
	LastName     string       `json:"lastName" validate:"notblank"`
	Email        string       `json:"email" validate:"omitempty,email"`
	Phone        string       `json:"phone" validate:"omitempty,phone"`
	DateOfBirth  *time.Time   `json:"dateOfBirth"`
	Address      string       `json:"address"`
	CustomerType CustomerType `json:"customerType" validate:"omitempty,oneof=new existing loyalty"`
}

func (r CreateCustomerRequest) Fields() map[string]interface{} {
	ct := r.CustomerType
	if ct == "" {
		ct = CustomerNew
	}
	return map[string]interface{}{
		"firstName":      r.FirstName,
		"lastName":       r.LastName,
		"email":          r.Email,
		"phone":          r.Phone,
		"dateOfBirth":    timeValue(r.DateOfBirth),
		"address":        r.Address,
		"customerType":   string(ct),
		"loyaltyPoints":  0,
		"totalPurchases": 0,
		"lastVisitDate":  nil,
	}
}

type UpdateCustomerRequest struct {
	FirstName      *string       `json:"firstName" validate:"omitnil,notblank"`
	LastName       *string       `json:"lastName" validate:"omitnil,notblank"`
	Email          *string       `json:"email" validate:"omitnil,eq=|email"`
	Phone          *string       `json:"phone" validate:"omitnil,eq=|phone"`
	DateOfBirth    *time.Time    `json:"dateOfBirth"`
	Address        *string       `json:"address"`
	CustomerType   *CustomerType `json:"customerType" validate:"omitnil,oneof=new existing loyalty"`
	LoyaltyPoints  *int          `json:"loyaltyPoints" validate:"omitnil,gte=0"`
	TotalPurchases *float64      `json:"totalPurchases" validate:"omitnil,gte=0"`
	LastVisitDate  *time.Time    `json:"lastVisitDate"`
}

func (r UpdateCustomerRequest) Fields() map[string]interface{} {
	out := make(map[string]interface{})
	setString(out, "firstName", r.FirstName)
	setString(out, "lastName", r.LastName)
	setString(out, "email", r.Email)
	setString(out, "phone", r.Phone)
	setTime(out, "dateOfBirth", r.DateOfBirth)
	setString(out, "address", r.Address)
	if r.CustomerType != nil {
		out["customerType"] = string(*r.CustomerType)
	}
	if r.LoyaltyPoints != nil {
		out["loyaltyPoints"] = *r.LoyaltyPoints
	}
	if r.TotalPurchases != nil {
		out["totalPurchases"] = *r.TotalPurchases
	}
	setTime(out, "lastVisitDate", r.LastVisitDate)
	return out
}
