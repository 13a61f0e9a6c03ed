package main

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/crm/domain"
	"github.com/storedesk/storedesk-backend/internal/crm/repository"
	"github.com/storedesk/storedesk-backend/internal/records"
)

type Fixtures struct {
	Location  string            `yaml:"location"`
	Employees []EmployeeFixture `yaml:"employees"`
	Customers []CustomerFixture `yaml:"customers"`
}

type EmployeeFixture struct {
	FirstName  string `yaml:"firstName"`
	LastName   string `yaml:"lastName"`
	Email      string `yaml:"email"`
	Phone      string `yaml:"phone"`
	Position   string `yaml:"position"`
	Department string `yaml:"department"`
	Active     *bool  `yaml:"active"`
}

type CustomerFixture struct {
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone"`
	Address   string `yaml:"address"`
	Type      string `yaml:"type"`
}

func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if f.Location == "" {
		return nil, fmt.Errorf("fixtures: location is required")
	}
	return &f, nil
}

type Summary struct {
	Employees int
	Customers int
}

// Apply writes the fixtures through the repositories as an admin of the
// fixture location, so the usual defaults and validation apply. It stops
// at the first invalid record.
func Apply(ctx context.Context, store records.Store, f *Fixtures) (Summary, error) {
	session := auth.Session{UID: "seed", Role: auth.RoleAdmin, LocationID: f.Location, Active: true}
	employees := repository.NewEmployees(store, session)
	customers := repository.NewCustomers(store, session)

	var sum Summary
	for i, e := range f.Employees {
		_, err := employees.Create(ctx, domain.CreateEmployeeRequest{
			FirstName:  e.FirstName,
			LastName:   e.LastName,
			Email:      e.Email,
			Phone:      e.Phone,
			Position:   e.Position,
			Department: e.Department,
			IsActive:   e.Active,
		})
		if err != nil {
			return sum, fmt.Errorf("employee %d: %w", i, err)
		}
		sum.Employees++
	}

	for i, c := range f.Customers {
		_, err := customers.Create(ctx, domain.CreateCustomerRequest{
			FirstName:    c.FirstName,
			LastName:     c.LastName,
			Email:        c.Email,
			Phone:        c.Phone,
			Address:      c.Address,
			CustomerType: domain.CustomerType(c.Type),
		})
		if err != nil {
			return sum, fmt.Errorf("customer %d: %w", i, err)
		}
		sum.Customers++
	}
	return sum, nil
}
