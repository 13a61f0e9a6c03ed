package domain

import (
	"time"

	"github.com/storedesk/storedesk-backend/internal/records"
)

// Lead is a sales opportunity for a customer.
type Lead struct {
	ID             string     `json:"id"`
	CustomerID     string     `json:"customerId"`
	AssignedTo     string     `json:"assignedTo"`
	Status         LeadStatus `json:"status"`
	Source         LeadSource `json:"source"`
	Priority       Priority   `json:"priority"`
	EstimatedValue float64    `json:"estimatedValue"`
	Notes          string     `json:"notes,omitempty"`
	NextFollowUp   *time.Time `json:"nextFollowUp,omitempty"`
	CreatedBy      string     `json:"createdBy,omitempty"`
	LocationID     string     `json:"locationId,omitempty"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

// Interaction is kept as its own entity and collection even though it shares
// the Lead shape; callers address the two independently.
type Interaction Lead

func LeadFromDocument(d records.Document) Lead {
	f := fields(d.Data)
	return Lead{
		ID:             d.ID,
		CustomerID:     f.str("customerId"),
		AssignedTo:     f.str("assignedTo"),
		Status:         LeadStatus(f.str("status")),
		Source:         LeadSource(f.str("source")),
		Priority:       Priority(f.str("priority")),
		EstimatedValue: f.number("estimatedValue"),
		Notes:          f.str("notes"),
		NextFollowUp:   f.time("nextFollowUp"),
		CreatedBy:      f.str("createdBy"),
		LocationID:     f.str("locationId"),
		CreatedAt:      f.time("createdAt"),
		UpdatedAt:      f.time("updatedAt"),
	}
}

func InteractionFromDocument(d records.Document) Interaction {
	return Interaction(LeadFromDocument(d))
}

// CreateLeadRequest leaves AssignedTo empty to assign the lead to its creator.
type CreateLeadRequest struct {
	CustomerID     string     `json:"customerId" validate:"notblank"`
	AssignedTo     string     `json:"assignedTo"`
	Status         LeadStatus `json:"status" validate:"omitempty,oneof=new contacted qualified converted lost"`
	Source         LeadSource `json:"source" validate:"omitempty,oneof=walk-in phone website referral"`
	Priority       Priority   `json:"priority" validate:"omitempty,oneof=low medium high"`
	EstimatedValue float64    `json:"estimatedValue" validate:"gte=0"`
	Notes          string     `json:"notes"`
	NextFollowUp   *time.Time `json:"nextFollowUp"`
}

func (r CreateLeadRequest) Fields() map[string]interface{} {
	status, source, priority := r.Status, r.Source, r.Priority
	if status == "" {
		status = LeadNew
	}
	if source == "" {
		source = SourceWalkIn
	}
	if priority == "" {
		priority = PriorityMedium
	}
	return map[string]interface{}{
		"customerId":     r.CustomerID,
		"assignedTo":     r.AssignedTo,
		"status":         string(status),
		"source":         string(source),
		"priority":       string(priority),
		"estimatedValue": r.EstimatedValue,
		"notes":          r.Notes,
		"nextFollowUp":   timeValue(r.NextFollowUp),
	}
}

type UpdateLeadRequest struct {
	CustomerID     *string     `json:"customerId" validate:"omitnil,notblank"`
	AssignedTo     *string     `json:"assignedTo" validate:"omitnil,notblank"`
	Status         *LeadStatus `json:"status" validate:"omitnil,oneof=new contacted qualified converted lost"`
	Source         *LeadSource `json:"source" validate:"omitnil,oneof=walk-in phone website referral"`
	Priority       *Priority   `json:"priority" validate:"omitnil,oneof=low medium high"`
	EstimatedValue *float64    `json:"estimatedValue" validate:"omitnil,gte=0"`
	Notes          *string     `json:"notes"`
	NextFollowUp   *time.Time  `json:"nextFollowUp"`
}

func (r UpdateLeadRequest) Fields() map[string]interface{} {
	out := make(map[string]interface{})
	setString(out, "customerId", r.CustomerID)
	setString(out, "assignedTo", r.AssignedTo)
	if r.Status != nil {
		out["status"] = string(*r.Status)
	}
	if r.Source != nil {
		out["source"] = string(*r.Source)
	}
	if r.Priority != nil {
		out["priority"] = string(*r.Priority)
	}
	if r.EstimatedValue != nil {
		out["estimatedValue"] = *r.EstimatedValue
	}
	setString(out, "notes", r.Notes)
	setTime(out, "nextFollowUp", r.NextFollowUp)
	return out
}

type CreateInteractionRequest CreateLeadRequest

func (r CreateInteractionRequest) Fields() map[string]interface{} {
	return CreateLeadRequest(r).Fields()
}

type UpdateInteractionRequest UpdateLeadRequest

func (r UpdateInteractionRequest) Fields() map[string]interface{} {
	return UpdateLeadRequest(r).Fields()
}
