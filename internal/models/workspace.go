package models

import "time"

// Workspace represents the domain model for a client workspace.
// A workspace is the tenant boundary owning zero or more build requests.
type Workspace struct {
	Id          string
	CompanyName string
	ClientName  string
	ClientEmail string
	AccessCode  string // credential substitute handed to the client
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
