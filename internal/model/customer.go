package model

import "time"

// Customer is the person booking a party.  Customers are created or
// reused at finalization time, keyed by email within a tenant.
//
// Fields:
//  ID        – primary key identifier.
//  TenantID  – owning tenant.
//  Name      – full name.
//  Email     – contact email; unique per tenant.
//  Phone     – contact phone number.
//  CreatedAt – creation timestamp.
type Customer struct {
	ID        uint64    // customers.id
	TenantID  uint64    // customers.tenant_id
	Name      string    // customers.name
	Email     string    // customers.email
	Phone     string    // customers.phone
	CreatedAt time.Time // customers.created_at
}
