/*
Transaction layer (lock manager and recovery log) is external to this module.
This module only sees an opaque transaction id (see /transaction/txid) and the permission
the transaction requests when it fetches a page from the buffer manager.
Conflicting permissions across transactions are arbitrated by the lock manager before the page is fetched.
*/
package transaction

import (
	"github.com/pkg/errors"
)

// Permission is page access permission
// the order matters: the stronger permission is the bigger value
type Permission uint8

const (
	// PermReadOnly is for scan
	PermReadOnly Permission = iota
	// PermReadWrite is for insert and delete
	PermReadWrite
)

func (p Permission) String() string {
	switch p {
	case PermReadOnly:
		return "READ_ONLY"
	case PermReadWrite:
		return "READ_WRITE"
	}
	return "UNKNOWN"
}

// IsValid checks whether the permission is one of the defined permissions
func (p Permission) IsValid() bool {
	return p == PermReadOnly || p == PermReadWrite
}

// Upgrade returns the stronger of p and requested
// the permission granted to a transaction is never downgraded by a later weaker request
func (p Permission) Upgrade(requested Permission) Permission {
	if requested > p {
		return requested
	}
	return p
}

// ParsePermission parses String() output
func ParsePermission(s string) (Permission, error) {
	switch s {
	case "READ_ONLY":
		return PermReadOnly, nil
	case "READ_WRITE":
		return PermReadWrite, nil
	}
	return PermReadOnly, errors.Errorf("unknown permission: %q", s)
}
