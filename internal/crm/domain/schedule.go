package domain

import (
	"time"

	"github.com/storedesk/storedesk-backend/internal/records"
)

// UnknownEmployee is shown when a shift's employee cannot be resolved and no
// name was ever stored on the entry.
const UnknownEmployee = "Unknown Employee"

// ScheduleEntry is one shift. EmployeeName is a copy of the employee's name
// taken when the entry was written.
type ScheduleEntry struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	EmployeeName string     `json:"employeeName"`
	Date         *time.Time `json:"date,omitempty"`
	StartTime    string     `json:"startTime"`
	EndTime      string     `json:"endTime"`
	ShiftType    ShiftType  `json:"shiftType"`
	LocationID   string     `json:"locationId,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

func ScheduleEntryFromDocument(d records.Document) ScheduleEntry {
	f := fields(d.Data)
	return ScheduleEntry{
		ID:           d.ID,
		EmployeeID:   f.str("employeeId"),
		EmployeeName: f.str("employeeName"),
		Date:         f.time("date"),
		StartTime:    f.str("startTime"),
		EndTime:      f.str("endTime"),
		ShiftType:    ShiftType(f.str("shiftType")),
		LocationID:   f.str("locationId"),
		Notes:        f.str("notes"),
		IsActive:     f.boolean("isActive", true),
		CreatedAt:    f.time("createdAt"),
		UpdatedAt:    f.time("updatedAt"),
	}
}

type CreateScheduleEntryRequest struct {
	EmployeeID string    `json:"employeeId" validate:"notblank"`
	Date       time.Time `json:"date" validate:"required"`
	StartTime  string    `json:"startTime" validate:"hhmm"`
	EndTime    string    `json:"endTime" validate:"hhmm"`
	ShiftType  ShiftType `json:"shiftType" validate:"omitempty,oneof=morning afternoon evening night custom"`
	Notes      string    `json:"notes"`
	IsActive   *bool     `json:"isActive"`
}

func (r CreateScheduleEntryRequest) Fields() map[string]interface{} {
	shift := r.ShiftType
	if shift == "" {
		shift = ShiftCustom
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return map[string]interface{}{
		"employeeId": r.EmployeeID,
		"date":       r.Date,
		"startTime":  r.StartTime,
		"endTime":    r.EndTime,
		"shiftType":  string(shift),
		"notes":      r.Notes,
		"isActive":   active,
	}
}

type UpdateScheduleEntryRequest struct {
	EmployeeID *string    `json:"employeeId" validate:"omitnil,notblank"`
	Date       *time.Time `json:"date"`
	StartTime  *string    `json:"startTime" validate:"omitnil,hhmm"`
	EndTime    *string    `json:"endTime" validate:"omitnil,hhmm"`
	ShiftType  *ShiftType `json:"shiftType" validate:"omitnil,oneof=morning afternoon evening night custom"`
	Notes      *string    `json:"notes"`
	IsActive   *bool      `json:"isActive"`
}

func (r UpdateScheduleEntryRequest) Fields() map[string]interface{} {
	out := make(map[string]interface{})
	setString(out, "employeeId", r.EmployeeID)
	setTime(out, "date", r.Date)
	setString(out, "startTime", r.StartTime)
	setString(out, "endTime", r.EndTime)
	if r.ShiftType != nil {
		out["shiftType"] = string(*r.ShiftType)
	}
	setString(out, "notes", r.Notes)
	setBool(out, "isActive", r.IsActive)
	return out
}
