package model_test

import (
	"testing"

	"github.com/GersebO/commerce-microservices/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestParseProductStatus(t *testing.T) {
	s, err := model.ParseProductStatus("ACTIVE")
	assert.NoError(t, err)
	assert.Equal(t, model.ProductActive, s)

	_, err = model.ParseProductStatus("DISCONTINUED")
	assert.Error(t, err)

	// parsing is strict; handlers upper-case before calling
	_, err = model.ParseProductStatus("active")
	assert.Error(t, err)
}

func TestParseUserRole(t *testing.T) {
	r, err := model.ParseUserRole("SELLER")
	assert.NoError(t, err)
	assert.Equal(t, model.RoleSeller, r)

	_, err = model.ParseUserRole("SUPERUSER")
	assert.Error(t, err)
}

func TestCustomerStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to model.CustomerStatus
		allowed  bool
	}{
		{model.CustomerActive, model.CustomerInactive, true},
		{model.CustomerActive, model.CustomerBlocked, true},
		{model.CustomerInactive, model.CustomerActive, true},
		{model.CustomerInactive, model.CustomerBlocked, true},
		{model.CustomerBlocked, model.CustomerInactive, true},
		{model.CustomerBlocked, model.CustomerActive, false},
		// same-state transitions are no-ops
		{model.CustomerBlocked, model.CustomerBlocked, true},
		{model.CustomerActive, model.CustomerActive, true},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.allowed, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestProductStockCritical(t *testing.T) {
	threshold := 5
	p := model.Product{Stock: 5, CriticalStock: &threshold}
	assert.True(t, p.StockCritical())

	p.Stock = 6
	assert.False(t, p.StockCritical())

	p.CriticalStock = nil
	p.Stock = 0
	assert.False(t, p.StockCritical())
}
