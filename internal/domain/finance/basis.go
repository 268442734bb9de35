package finance

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/shared"
)

// DefaultMaxBasisDepth bounds how far a basis chain may reach
const DefaultMaxBasisDepth = 16

// BasisLink is one hop of a basis chain
type BasisLink struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	BasisID  *uuid.UUID
}

// BasisLookup resolves a ledger entry by id regardless of tenant
type BasisLookup interface {
	FindBasisLink(ctx context.Context, id uuid.UUID) (*BasisLink, error)
}

var errBasisUnavailable = shared.NewDomainError(shared.CodeValidationConflict, "Basis entry is not available in this company")

// CheckBasisChain walks the chain starting at entry's basis. It rejects a
// chain that leaves the entry's tenant, revisits the entry or any hop, or is
// longer than maxDepth.
func CheckBasisChain(ctx context.Context, lookup BasisLookup, entry *LedgerEntry, maxDepth int) error {
	if entry.BasisID == nil {
		return nil
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxBasisDepth
	}

	visited := map[uuid.UUID]struct{}{entry.ID: {}}
	next := entry.BasisID
	for depth := 1; next != nil; depth++ {
		if _, seen := visited[*next]; seen {
			return shared.NewDomainError(shared.CodeValidationConflict, "Basis chain forms a cycle")
		}
		if depth > maxDepth {
			return shared.NewDomainError(shared.CodeValidationConflict, "Basis chain is too deep")
		}
		visited[*next] = struct{}{}

		link, err := lookup.FindBasisLink(ctx, *next)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return errBasisUnavailable
			}
			return err
		}
		if link.TenantID != entry.TenantID {
			return errBasisUnavailable
		}
		next = link.BasisID
	}
	return nil
}
