package model

import "time"

// User represents an application user record as stored in the `users`
// table. Accounts are provisioned by seeding or admin flows and are never
// hard-deleted; IsActive=false disables login while preserving references
// from cases and audit history.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique, case-sensitive login name.
//  FullName     – display name.
//  Email        – contact email address.
//  PasswordHash – bcrypt hashed password (never serialized).
//  Role         – one of the closed Role constants.
//  EmployeeID   – internal employee code.
//  Designation  – job title.
//  Department   – organizational unit.
//  PhotoURL     – optional profile photo location.
//  IsActive     – whether the account may authenticate.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	EmployeeID   string    `json:"employeeId,omitempty"`
	Designation  string    `json:"designation,omitempty"`
	Department   string    `json:"department,omitempty"`
	PhotoURL     string    `json:"photoUrl,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
