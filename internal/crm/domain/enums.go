package domain

type CustomerType string

const (
	CustomerNew      CustomerType = "new"
	CustomerExisting CustomerType = "existing"
	CustomerLoyalty  CustomerType = "loyalty"
)

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadConverted LeadStatus = "converted"
	LeadLost      LeadStatus = "lost"
)

// Open reports whether the lead is still being worked.
func (s LeadStatus) Open() bool {
	return s == LeadNew || s == LeadContacted || s == LeadQualified
}

type LeadSource string

const (
	SourceWalkIn   LeadSource = "walk-in"
	SourcePhone    LeadSource = "phone"
	SourceWebsite  LeadSource = "website"
	SourceReferral LeadSource = "referral"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

type ShiftType string

const (
	ShiftMorning   ShiftType = "morning"
	ShiftAfternoon ShiftType = "afternoon"
	ShiftEvening   ShiftType = "evening"
	ShiftNight     ShiftType = "night"
	ShiftCustom    ShiftType = "custom"
)
