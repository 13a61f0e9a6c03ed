package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/records"
)

func TestFromDocumentToleratesMissingTimestamps(t *testing.T) {
	doc := records.Document{ID: "x", Data: map[string]interface{}{
		"createdAt":     nil,
		"updatedAt":     "garbage",
		"lastVisitDate": map[string]interface{}{"unexpected": true},
	}}

	assert.NotPanics(t, func() {
		c := CustomerFromDocument(doc)
		assert.Nil(t, c.CreatedAt)
		assert.Nil(t, c.UpdatedAt)
		assert.Nil(t, c.LastVisitDate)

		_ = LeadFromDocument(doc)
		_ = AppointmentFromDocument(doc)
		_ = EmployeeFromDocument(doc)
		_ = ScheduleEntryFromDocument(doc)
		_ = PerformanceFromDocument(doc)
		_ = UserFromDocument(doc)
	})

	assert.NotPanics(t, func() { CustomerFromDocument(records.Document{ID: "y"}) })
}

func TestCustomerCreateDefaults(t *testing.T) {
	f := CreateCustomerRequest{FirstName: "Ada", LastName: "Lovelace"}.Fields()

	assert.Equal(t, 0, f["loyaltyPoints"])
	assert.Equal(t, 0, f["totalPurchases"])
	assert.Contains(t, f, "lastVisitDate")
	assert.Nil(t, f["lastVisitDate"])
	assert.Equal(t, "new", f["customerType"])
}

func TestUpdateFieldsOnlyCarryPresentValues(t *testing.T) {
	when := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	f := UpdateAppointmentRequest{ScheduledDate: &when}.Fields()
	assert.Equal(t, map[string]interface{}{"scheduledDate": when}, f)

	assert.Empty(t, UpdateLeadRequest{}.Fields())
}

func TestScheduleEntryFromDocument(t *testing.T) {
	e := ScheduleEntryFromDocument(records.Document{ID: "s1", Data: map[string]interface{}{
		"employeeId":   "e1",
		"employeeName": "Grace Hopper",
		"date":         "2026-06-02T00:00:00Z",
		"startTime":    "09:00",
		"endTime":      "17:00",
		"shiftType":    "morning",
	}})

	assert.Equal(t, "Grace Hopper", e.EmployeeName)
	assert.True(t, e.IsActive, "entries without the flag are active")
	assert.Equal(t, ShiftMorning, e.ShiftType)
	if assert.NotNil(t, e.Date) {
		assert.Equal(t, 2, e.Date.Day())
	}
}

func TestPerformanceAccDecoding(t *testing.T) {
	for _, raw := range []interface{}{129.99, "129.99"} {
		p := PerformanceFromDocument(records.Document{Data: map[string]interface{}{"acc": raw}})
		assert.True(t, decimal.RequireFromString("129.99").Equal(p.Acc), "%v", raw)
	}
}

func TestUserProfile(t *testing.T) {
	u := AppUser{UID: "u1", Email: " Ada@Example.COM ", DisplayName: "Ada", IsActive: true}
	f := u.Fields()
	assert.Equal(t, "ada@example.com", f["email"])
	assert.Equal(t, "rep", f["role"])
	assert.NotContains(t, f, "locationId")

	back := UserFromDocument(records.Document{ID: "u1", Data: map[string]interface{}{"role": "manager", "locationId": "loc-1"}})
	s := back.Session()
	assert.Equal(t, "u1", s.UID)
	assert.Equal(t, auth.RoleManager, s.Role)
	assert.True(t, s.Active)
}
