package main

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/crm/domain"
	"github.com/storedesk/storedesk-backend/internal/crm/repository"
	"github.com/storedesk/storedesk-backend/internal/records/redisstore"
)

const sample = `
location: loc-main
employees:
  - firstName: Ada
    lastName: Lovelace
    position: Sales
    department: Floor
  - firstName: Grace
    lastName: Hopper
    position: Lead
    department: Floor
    active: false
customers:
  - firstName: Alan
    lastName: Turing
    email: alan@example.com
    type: loyalty
`

func TestParseFixtures(t *testing.T) {
	f, err := ParseFixtures([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, "loc-main", f.Location)
	require.Len(t, f.Employees, 2)
	require.NotNil(t, f.Employees[1].Active)
	assert.False(t, *f.Employees[1].Active)
	assert.Equal(t, "loyalty", f.Customers[0].Type)

	_, err = ParseFixtures([]byte("employees: []"))
	assert.Error(t, err)
	_, err = ParseFixtures([]byte("location: [unclosed"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store, err := redisstore.New(context.Background(), client)
	require.NoError(t, err)
	defer store.Close()

	f, err := ParseFixtures([]byte(sample))
	require.NoError(t, err)

	ctx := context.Background()
	sum, err := Apply(ctx, store, f)
	require.NoError(t, err)
	assert.Equal(t, Summary{Employees: 2, Customers: 1}, sum)

	session := auth.Session{UID: "u", Role: auth.RoleManager, LocationID: "loc-main", Active: true}
	active, err := repository.NewEmployees(store, session).Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Ada", active[0].FirstName)

	customers, err := repository.NewCustomers(store, session).List(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, domain.CustomerLoyalty, customers[0].CustomerType)

	f.Customers = append(f.Customers, CustomerFixture{FirstName: "", LastName: "Nobody"})
	_, err = Apply(ctx, store, f)
	var verrs domain.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}
