package domain

import (
	"time"

	"github.com/storedesk/storedesk-backend/internal/records"
)

// SchedulingEmployee is a roster entry that shifts are planned against. It is
// independent of AppUser accounts.
type SchedulingEmployee struct {
	ID         string     `json:"id"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Position   string     `json:"position"`
	Department string     `json:"department"`
	LocationID string     `json:"locationId,omitempty"`
	IsActive   bool       `json:"isActive"`
	HireDate   *time.Time `json:"hireDate,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

func (e SchedulingEmployee) FullName() string {
	return joinName(e.FirstName, e.LastName)
}

func EmployeeFromDocument(d records.Document) SchedulingEmployee {
	f := fields(d.Data)
	return SchedulingEmployee{
		ID:         d.ID,
		FirstName:  f.str("firstName"),
		LastName:   f.str("lastName"),
		Email:      f.str("email"),
		Phone:      f.str("phone"),
		Position:   f.str("position"),
		Department: f.str("department"),
		LocationID: f.str("locationId"),
		IsActive:   f.boolean("isActive", true),
		HireDate:   f.time("hireDate"),
		CreatedAt:  f.time("createdAt"),
		UpdatedAt:  f.time("updatedAt"),
	}
}

type CreateEmployeeRequest struct {
	FirstName  string     `json:"firstName" validate:"notblank"`
	LastName   string     `json:"lastName" validate:"notblank"`
	Email      string     `json:"email" validate:"omitempty,email"`
	Phone      string     `json:"phone" validate:"omitempty,phone"`
	Position   string     `json:"position" validate:"notblank"`
	Department string     `json:"department" validate:"notblank"`
	IsActive   *bool      `json:"isActive"`
	HireDate   *time.Time `json:"hireDate"`
}

func (r CreateEmployeeRequest) Fields() map[string]interface{} {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return map[string]interface{}{
		"firstName":  r.FirstName,
		"lastName":   r.LastName,
		"email":      r.Email,
		"phone":      r.Phone,
		"position":   r.Position,
		"department": r.Department,
		"isActive":   active,
		"hireDate":   timeValue(r.HireDate),
	}
}

type UpdateEmployeeRequest struct {
	FirstName  *string    `json:"firstName" validate:"omitnil,notblank"`
	LastName   *string    `json:"lastName" validate:"omitnil,notblank"`
	Email      *string    `json:"email" validate:"omitnil,eq=|email"`
	Phone      *string    `json:"phone" validate:"omitnil,eq=|phone"`
	Position   *string    `json:"position" validate:"omitnil,notblank"`
	Department *string    `json:"department" validate:"omitnil,notblank"`
	IsActive   *bool      `json:"isActive"`
	HireDate   *time.Time `json:"hireDate"`
}

func (r UpdateEmployeeRequest) Fields() map[string]interface{} {
	out := make(map[string]interface{})
	setString(out, "firstName", r.FirstName)
	setString(out, "lastName", r.LastName)
	setString(out, "email", r.Email)
	setString(out, "phone", r.Phone)
	setString(out, "position", r.Position)
	setString(out, "department", r.Department)
	setBool(out, "isActive", r.IsActive)
	setTime(out, "hireDate", r.HireDate)
	return out
}
