package domain

import (
	"time"

	"github.com/storedesk/storedesk-backend/internal/records"
)

type Appointment struct {
	ID              string            `json:"id"`
	CustomerID      string            `json:"customerId,omitempty"`
	LeadID          string            `json:"leadId,omitempty"`
	AssignedTo      string            `json:"assignedTo"`
	Title           string            `json:"title"`
	Description     string            `json:"description,omitempty"`
	ScheduledDate   *time.Time        `json:"scheduledDate,omitempty"`
	DurationMinutes int               `json:"durationMinutes"`
	Status          AppointmentStatus `json:"status"`
	Location        string            `json:"location,omitempty"`
	CreatedBy       string            `json:"createdBy,omitempty"`
	LocationID      string            `json:"locationId,omitempty"`
	CreatedAt       *time.Time        `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time        `json:"updatedAt,omitempty"`
}

// Pending reports whether the appointment still needs to happen.
func (a Appointment) Pending() bool {
	return a.Status == AppointmentScheduled || a.Status == AppointmentConfirmed
}

func AppointmentFromDocument(d records.Document) Appointment {
	f := fields(d.Data)
	return Appointment{
		ID:              d.ID,
		CustomerID:      f.str("customerId"),
		LeadID:          f.str("leadId"),
		AssignedTo:      f.str("assignedTo"),
		Title:           f.str("title"),
		Description:     f.str("description"),
		ScheduledDate:   f.time("scheduledDate"),
		DurationMinutes: f.integer("durationMinutes"),
		Status:          AppointmentStatus(f.str("status")),
		Location:        f.str("location"),
		CreatedBy:       f.str("createdBy"),
		LocationID:      f.str("locationId"),
		CreatedAt:       f.time("createdAt"),
		UpdatedAt:       f.time("updatedAt"),
	}
}

type CreateAppointmentRequest struct {
	CustomerID      string            `json:"customerId"`
	LeadID          string            `json:"leadId"`
	AssignedTo      string            `json:"assignedTo"`
	Title           string            `json:"title" validate:"notblank"`
	Description     string            `json:"description"`
	ScheduledDate   time.Time         `json:"scheduledDate" validate:"required"`
	DurationMinutes int               `json:"durationMinutes" validate:"gt=0"`
	Status          AppointmentStatus `json:"status" validate:"omitempty,oneof=scheduled confirmed completed cancelled"`
	Location        string            `json:"location"`
}

func (r CreateAppointmentRequest) Fields() map[string]interface{} {
	status := r.Status
	if status == "" {
		status = AppointmentScheduled
	}
	return map[string]interface{}{
		"customerId":      r.CustomerID,
		"leadId":          r.LeadID,
		"assignedTo":      r.AssignedTo,
		"title":           r.Title,
		"description":     r.Description,
		"scheduledDate":   r.ScheduledDate,
		"durationMinutes": r.DurationMinutes,
		"status":          string(status),
		"location":        r.Location,
	}
}

type UpdateAppointmentRequest struct {
	CustomerID      *string            `json:"customerId"`
	LeadID          *string            `json:"leadId"`
	AssignedTo      *string            `json:"assignedTo" validate:"omitnil,notblank"`
	Title           *string            `json:"title" validate:"omitnil,notblank"`
	Description     *string            `json:"description"`
	ScheduledDate   *time.Time         `json:"scheduledDate"`
	DurationMinutes *int               `json:"durationMinutes" validate:"omitnil,gt=0"`
	Status          *AppointmentStatus `json:"status" validate:"omitnil,oneof=scheduled confirmed completed cancelled"`
	Location        *string            `json:"location"`
}

func (r UpdateAppointmentRequest) Fields() map[string]interface{} {
	out := make(map[string]interface{})
	setString(out, "customerId", r.CustomerID)
	setString(out, "leadId", r.LeadID)
	setString(out, "assignedTo", r.AssignedTo)
	setString(out, "title", r.Title)
	setString(out, "description", r.Description)
	setTime(out, "scheduledDate", r.ScheduledDate)
	if r.DurationMinutes != nil {
		out["durationMinutes"] = *r.DurationMinutes
	}
	if r.Status != nil {
		out["status"] = string(*r.Status)
	}
	setString(out, "location", r.Location)
	return out
}
