// Package validation provides input validation shared by the config
// layer and the HTTP surfaces.
package validation

import (
	"fmt"
	"regexp"

	"cirrus/internal/constants"
	cerrors "cirrus/internal/errors"
)

var (
	// nameRegex restricts service, bucket and object names to safe
	// path segments: no separators, no leading dot.
	nameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

	// managerRegex validates backend manager identifiers
	managerRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)
)

// ServiceName validates a service name from the configuration
func ServiceName(name string) error {
	if name == "" {
		return cerrors.New(cerrors.ErrValidationFailed, "service name cannot be empty")
	}
	if len(name) > 64 {
		return cerrors.NewWithDetails(cerrors.ErrValidationFailed, "service name too long (max 64 characters)", name)
	}
	if !nameRegex.MatchString(name) {
		return cerrors.NewWithDetails(cerrors.ErrValidationFailed, "invalid service name", name)
	}
	return nil
}

// ManagerName validates a backend manager identifier
func ManagerName(name string) error {
	if name == "" {
		return nil // empty means the stock manager
	}
	if !managerRegex.MatchString(name) {
		return cerrors.NewWithDetails(cerrors.ErrValidationFailed, "invalid manager name", name)
	}
	return nil
}

// BucketName validates an object-store bucket name
func BucketName(name string) error {
	if !nameRegex.MatchString(name) {
		return cerrors.NewWithDetails(cerrors.ErrInvalidInput, "invalid bucket name", name)
	}
	return nil
}

// ObjectName validates an object name inside a bucket
func ObjectName(name string) error {
	if !nameRegex.MatchString(name) {
		return cerrors.NewWithDetails(cerrors.ErrInvalidInput, "invalid object name", name)
	}
	return nil
}

// Port validates a TCP listen port
func Port(port int) error {
	if port < constants.MinPortNumber || port > constants.MaxPortNumber {
		return cerrors.NewWithDetails(cerrors.ErrInvalidPort, "port out of range",
			fmt.Sprintf("%d", port))
	}
	return nil
}
