package model

import "fmt"

// Status values are stored as strings but parsed through the closed sets
// below — handlers never write a raw request string into an entity.

type ProductStatus string

const (
	ProductActive   ProductStatus = "ACTIVE"
	ProductInactive ProductStatus = "INACTIVE"
)

type UserStatus string

const (
	UserActive   UserStatus = "ACTIVE"
	UserInactive UserStatus = "INACTIVE"
)

type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "ACTIVE"
	CustomerInactive CustomerStatus = "INACTIVE"
	CustomerBlocked  CustomerStatus = "BLOCKED"
)

func ParseProductStatus(s string) (ProductStatus, error) {
	switch ProductStatus(s) {
	case ProductActive, ProductInactive:
		return ProductStatus(s), nil
	}
	return "", fmt.Errorf("unknown product status %q", s)
}

func ParseUserStatus(s string) (UserStatus, error) {
	switch UserStatus(s) {
	case UserActive, UserInactive:
		return UserStatus(s), nil
	}
	return "", fmt.Errorf("unknown user status %q", s)
}

func ParseCustomerStatus(s string) (CustomerStatus, error) {
	switch CustomerStatus(s) {
	case CustomerActive, CustomerInactive, CustomerBlocked:
		return CustomerStatus(s), nil
	}
	return "", fmt.Errorf("unknown customer status %q", s)
}

// CanTransition reports whether a customer status change is permitted.
// A BLOCKED account must pass through INACTIVE before it can become
// ACTIVE again; every other pair of distinct states is allowed, and a
// transition to the current state is a no-op.
func (s CustomerStatus) CanTransition(to CustomerStatus) bool {
	if s == to {
		return true
	}
	if s == CustomerBlocked && to == CustomerActive {
		return false
	}
	return true
}

type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"
	RoleSeller UserRole = "SELLER"
)

func ParseUserRole(s string) (UserRole, error) {
	switch UserRole(s) {
	case RoleAdmin, RoleSeller:
		return UserRole(s), nil
	}
	return "", fmt.Errorf("unknown user role %q", s)
}
