package model

import "time"

// Provider represents a row in the `providers` table: the business account
// that authenticates against this API. Every owned resource (service,
// appointment, review, payment) carries a provider_id foreign key back to
// this table, and the auth layer only ever reads it.
//
// Fields:
//  ID           – primary key identifier of the provider.
//  BusinessName – display name shown to customers.
//  Email        – unique login email.
//  PasswordHash – bcrypt hashed password.
//  Phone        – contact phone number.
//  Address      – street address.
//  City         – city.
//  State        – state or region.
//  ZipCode      – postal code.
//  Description  – free-text business description.
//  Website      – public website URL.
//  LogoURL      – uploaded logo location (nullable).
//  CreatedAt    – timestamp of registration.
//  UpdatedAt    – timestamp of last profile update (nullable).
type Provider struct {
	ID           uint64     // providers.id
	BusinessName string     // providers.business_name
	Email        string     // providers.email
	PasswordHash string     // providers.password
	Phone        string     // providers.phone
	Address      string     // providers.address
	City         string     // providers.city
	State        string     // providers.state
	ZipCode      string     // providers.zip_code
	Description  string     // providers.description
	Website      string     // providers.website
	LogoURL      *string    // providers.logo_url (nullable)
	CreatedAt    time.Time  // providers.created_at
	UpdatedAt    *time.Time // providers.updated_at (nullable)
}
