// Package workflow holds the per-tenant catalog of shipment and request statuses.
package workflow

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Kind identifies which workflow a status belongs to
type Kind string

const (
	KindShipment Kind = "shipment"
	KindRequest  Kind = "request"
)

// ErrDefaultStatusDelete is returned when deleting the current default of a kind
var ErrDefaultStatusDelete = shared.NewDomainError(shared.CodeValidationConflict, "Cannot delete the default status; set another default first")

// IsValid reports whether k is a known workflow kind
func (k Kind) IsValid() bool {
	return k == KindShipment || k == KindRequest
}

// ParseKind validates a kind supplied from outside
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Workflow kind must be shipment or request")
	}
	return k, nil
}

var codeRegex = regexp.MustCompile(`^[a-z0-9_]{1,50}$`)

// Status is a named, ordered state a shipment or request can occupy
type Status struct {
	shared.TenantEntity
	Kind      Kind
	Code      string
	Name      string
	IsDefault bool
	IsFinal   bool
	Order     int
}

// NewStatus creates a non-default status
func NewStatus(tenantID uuid.UUID, kind Kind, code, name string, order int, isFinal bool) (*Status, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Workflow kind must be shipment or request")
	}
	s := &Status{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Kind:         kind,
		IsFinal:      isFinal,
		Order:        order,
	}
	if err := s.Rename(code, name); err != nil {
		return nil, err
	}
	return s, nil
}

// Rename changes code and name after validating both
func (s *Status) Rename(code, name string) error {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if !codeRegex.MatchString(code) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Status code must be 1-50 lowercase letters, digits or underscores")
	}
	if name == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Status name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 100 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Status name cannot exceed 100 characters")
	}
	s.Code = code
	s.Name = name
	s.Touch()
	return nil
}

// NameKey is the comparison key for name uniqueness within a tenant and kind
func (s *Status) NameKey() string {
	return NameKey(s.Name)
}

// NameKey folds case and unicode normalization so "Done" and "DONE" collide
func NameKey(name string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}

// Conflicts reports whether other would violate code or name uniqueness with s
func (s *Status) Conflicts(other *Status) bool {
	if s.ID == other.ID || s.TenantID != other.TenantID || s.Kind != other.Kind {
		return false
	}
	return s.Code == other.Code || s.NameKey() == other.NameKey()
}
