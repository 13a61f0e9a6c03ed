package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/crm/domain"
	"github.com/storedesk/storedesk-backend/internal/records"
	"github.com/storedesk/storedesk-backend/internal/records/redisstore"
)

var (
	rep     = auth.Session{UID: "rep-1", Role: auth.RoleRep, LocationID: "loc-a", Active: true}
	manager = auth.Session{UID: "mgr-1", Role: auth.RoleManager, LocationID: "loc-a", Active: true}
	admin   = auth.Session{UID: "adm-1", Role: auth.RoleAdmin, LocationID: "loc-a", Active: true}
	other   = auth.Session{UID: "rep-2", Role: auth.RoleRep, LocationID: "loc-b", Active: true}
	newbie  = auth.Session{UID: "new-1", Active: true}
)

// Wednesday 14 October 2026
var fixedNow = time.Date(2026, 10, 14, 10, 0, 0, 0, time.Local)

func setupStore(t *testing.T) records.Store {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store, err := redisstore.New(context.Background(), client)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
		_ = client.Close()
		mr.Close()
	})
	return store
}

// setupRouter authenticates every request as the session named by the
// X-Test-User header.
func setupRouter(t *testing.T, store records.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	sessions := map[string]auth.Session{
		"rep": rep, "manager": manager, "admin": admin, "other": other, "newbie": newbie,
	}

	r := gin.New()
	api := r.Group("/api/v1", func(c *gin.Context) {
		s := sessions[c.GetHeader("X-Test-User")]
		c.Set(auth.CtxSession, s)
		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), s))
		c.Next()
	})
	New(store, WithClock(func() time.Time { return fixedNow }), WithKeepAlive(50*time.Millisecond)).Register(api)
	return r
}

func do(t *testing.T, r http.Handler, user, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

func TestCustomerCRUD(t *testing.T) {
	r := setupRouter(t, setupStore(t))

	w, body := do(t, r, "rep", http.MethodPost, "/api/v1/customers", gin.H{
		"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := body["id"].(string)
	customer := body["customer"].(map[string]interface{})
	assert.Equal(t, "new", customer["customerType"])
	assert.Equal(t, "loc-a", customer["locationId"])

	w, body = do(t, r, "rep", http.MethodPut, "/api/v1/customers/"+id, gin.H{"loyaltyPoints": 10})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(10), body["customer"].(map[string]interface{})["loyaltyPoints"])

	w, body = do(t, r, "rep", http.MethodGet, "/api/v1/customers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["customers"], 1)

	w, _ = do(t, r, "rep", http.MethodDelete, "/api/v1/customers/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, "rep", http.MethodGet, "/api/v1/customers/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestErrorMapping(t *testing.T) {
	r := setupRouter(t, setupStore(t))

	w, body := do(t, r, "rep", http.MethodPost, "/api/v1/customers", gin.H{"firstName": "", "lastName": "X", "email": "nope"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := body["fields"].([]interface{})
	assert.Len(t, fields, 2)

	w, _ = do(t, r, "rep", http.MethodPost, "/api/v1/customers", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = do(t, r, "newbie", http.MethodPost, "/api/v1/customers", gin.H{"firstName": "A", "lastName": "B"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, domain.ErrNoLocation.Error(), body["error"])

	w, body = do(t, r, "newbie", http.MethodGet, "/api/v1/customers", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["customers"])

	w, body = do(t, r, "rep", http.MethodPost, "/api/v1/customers", gin.H{"firstName": "A", "lastName": "B"})
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = do(t, r, "other", http.MethodGet, "/api/v1/customers/"+body["id"].(string), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, "rep", http.MethodGet, "/api/v1/appointments?from=2026-10-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListFilters(t *testing.T) {
	r := setupRouter(t, setupStore(t))

	for _, c := range []gin.H{
		{"firstName": "Ada", "lastName": "Lovelace", "customerType": "loyalty"},
		{"firstName": "Grace", "lastName": "Hopper"},
		{"firstName": "Alan", "lastName": "Turing", "email": "alan@example.com"},
	} {
		w, _ := do(t, r, "rep", http.MethodPost, "/api/v1/customers", c)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	_, body := do(t, r, "rep", http.MethodGet, "/api/v1/customers?search=LOVE", nil)
	assert.Len(t, body["customers"], 1)
	_, body = do(t, r, "rep", http.MethodGet, "/api/v1/customers?customerType=new", nil)
	assert.Len(t, body["customers"], 2)
	_, body = do(t, r, "rep", http.MethodGet, "/api/v1/customers?search=example.com&customerType=new", nil)
	assert.Len(t, body["customers"], 1)
}

func TestLeadReadHelpers(t *testing.T) {
	r := setupRouter(t, setupStore(t))

	do(t, r, "rep", http.MethodPost, "/api/v1/leads", gin.H{"customerId": "c1"})
	do(t, r, "rep", http.MethodPost, "/api/v1/leads", gin.H{"customerId": "c2", "assignedTo": "someone"})

	_, body := do(t, r, "rep", http.MethodGet, "/api/v1/leads?customerId=c2", nil)
	require.Len(t, body["leads"], 1)
	_, body = do(t, r, "rep", http.MethodGet, "/api/v1/leads?assignedTo=rep-1", nil)
	require.Len(t, body["leads"], 1)
	lead := body["leads"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "c1", lead["customerId"])
}

func TestRoleGates(t *testing.T) {
	r := setupRouter(t, setupStore(t))

	w, _ := do(t, r, "rep", http.MethodGet, "/api/v1/employees", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = do(t, r, "rep", http.MethodGet, "/api/v1/schedule/week", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = do(t, r, "manager", http.MethodGet, "/api/v1/employees", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, "manager", http.MethodGet, "/api/v1/users", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = do(t, r, "admin", http.MethodGet, "/api/v1/users", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, "newbie", http.MethodGet, "/api/v1/dashboard", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestScheduleViews(t *testing.T) {
	r := setupRouter(t, setupStore(t))

	w, body := do(t, r, "manager", http.MethodPost, "/api/v1/employees", gin.H{
		"firstName": "Ada", "lastName": "Lovelace", "position": "Sales", "department": "Floor",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	empID := body["id"].(string)

	w, body = do(t, r, "manager", http.MethodPost, "/api/v1/schedule", gin.H{
		"employeeId": empID,
		"date":       time.Date(2026, 10, 14, 0, 0, 0, 0, time.Local).Format(time.RFC3339),
		"startTime":  "09:00",
		"endTime":    "17:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Ada Lovelace", body["entry"].(map[string]interface{})["employeeName"])

	w, _ = do(t, r, "manager", http.MethodPost, "/api/v1/schedule", gin.H{
		"employeeId": empID,
		"date":       time.Date(2026, 10, 14, 0, 0, 0, 0, time.Local).Format(time.RFC3339),
		"startTime":  "17:00",
		"endTime":    "09:00",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, body = do(t, r, "manager", http.MethodGet, "/api/v1/schedule/today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	today := body["today"].(map[string]interface{})
	assert.Equal(t, float64(1), today["activeShifts"])

	w, body = do(t, r, "manager", http.MethodGet, "/api/v1/schedule/week", nil)
	require.Equal(t, http.StatusOK, w.Code)
	days := body["week"].(map[string]interface{})["dailySchedules"].([]interface{})
	require.Len(t, days, 7)
	assert.Equal(t, float64(1), days[3].(map[string]interface{})["activeShifts"])

	_, body = do(t, r, "manager", http.MethodGet, "/api/v1/schedule?employeeId="+empID, nil)
	assert.Len(t, body["schedule"], 1)
	_, body = do(t, r, "manager", http.MethodGet, "/api/v1/schedule?from=2026-10-15&to=2026-10-20", nil)
	assert.Empty(t, body["schedule"])
}

func TestPerformanceTotals(t *testing.T) {
	r := setupRouter(t, setupStore(t))

	for d := 1; d <= 3; d++ {
		w, _ := do(t, r, "manager", http.MethodPost, "/api/v1/performance", gin.H{
			"date":       time.Date(2026, 9, d, 12, 0, 0, 0, time.Local).Format(time.RFC3339),
			"voiceLines": d,
			"acc":        "12.25",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w, body := do(t, r, "manager", http.MethodGet, "/api/v1/performance/totals?from=2026-09-02&to=2026-09-03", nil)
	require.Equal(t, http.StatusOK, w.Code)
	totals := body["totals"].(map[string]interface{})
	assert.Equal(t, float64(5), totals["voiceLines"])
	assert.Equal(t, "24.5", totals["acc"])

	w, _ = do(t, r, "manager", http.MethodGet, "/api/v1/performance/totals?from=09/02/2026&to=2026-09-03", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = do(t, r, "manager", http.MethodGet, "/api/v1/performance/totals?from=2026-09-04&to=2026-09-03", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboard(t *testing.T) {
	r := setupRouter(t, setupStore(t))

	do(t, r, "rep", http.MethodPost, "/api/v1/customers", gin.H{"firstName": "Ada", "lastName": "Lovelace"})
	do(t, r, "rep", http.MethodPost, "/api/v1/interactions", gin.H{"customerId": "c1", "status": "converted"})
	do(t, r, "rep", http.MethodPost, "/api/v1/interactions", gin.H{"customerId": "c1"})
	do(t, r, "rep", http.MethodPost, "/api/v1/interactions", gin.H{"customerId": "c1", "status": "lost"})
	do(t, r, "rep", http.MethodPost, "/api/v1/appointments", gin.H{
		"title": "Fitting", "durationMinutes": 30,
		"scheduledDate": fixedNow.Add(48 * time.Hour).Format(time.RFC3339),
	})

	w, body := do(t, r, "rep", http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["totalCustomers"])
	assert.Equal(t, float64(1), stats["activeLeads"])
	assert.Equal(t, float64(1), stats["upcomingAppointments"])
	assert.Equal(t, float64(33), stats["conversionRate"])
}

func TestUserAdministration(t *testing.T) {
	store := setupStore(t)
	r := setupRouter(t, store)
	ctx := context.Background()
	require.NoError(t, store.CreateWithID(ctx, "users", "new-1", map[string]interface{}{
		"uid": "new-1", "email": "n@example.com", "role": "rep", "isActive": true, "createdAt": fixedNow,
	}))

	w, body := do(t, r, "admin", http.MethodPut, "/api/v1/users/new-1", gin.H{"locationId": "loc-a", "role": "manager"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "loc-a", user["locationId"])
	assert.Equal(t, "manager", user["role"])

	w, _ = do(t, r, "admin", http.MethodPut, "/api/v1/users/new-1", gin.H{"locationId": "loc-b"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	_, body = do(t, r, "admin", http.MethodGet, "/api/v1/users?role=manager", nil)
	assert.Len(t, body["users"], 1)
}

func readEvent(t *testing.T, r *bufio.Reader) string {
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "data: "))
		}
	}
}

func TestCustomerStream(t *testing.T) {
	router := setupRouter(t, setupStore(t))
	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/customers/stream", nil)
	require.NoError(t, err)
	req.Header.Set("X-Test-User", "rep")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	var state struct {
		Items   []domain.Customer `json:"items"`
		Loading bool              `json:"loading"`
	}
	require.NoError(t, json.Unmarshal([]byte(readEvent(t, reader)), &state))

	w, _ := do(t, router, "rep", http.MethodPost, "/api/v1/customers", gin.H{"firstName": "Ada", "lastName": "Lovelace"})
	require.Equal(t, http.StatusCreated, w.Code)

	for len(state.Items) == 0 {
		require.NoError(t, json.Unmarshal([]byte(readEvent(t, reader)), &state))
	}
	assert.Equal(t, "Ada", state.Items[0].FirstName)
}
