package ledger

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
)

// Registry maps ledger ids to their proposal ledgers
type Registry struct {
	ledgers map[string]*ProposalLedger
	order   []string
}

// NewRegistry creates one ledger per configured vault
func NewRegistry(vaults []models.Vault, log *slog.Logger) (*Registry, error) {
	r := &Registry{ledgers: make(map[string]*ProposalLedger, len(vaults))}
	for _, v := range vaults {
		if v.ID == "" {
			return nil, fmt.Errorf("vault %q has no id", v.Name)
		}
		if v.Threshold < 1 {
			return nil, fmt.Errorf("vault %s: threshold must be at least 1", v.ID)
		}
		if _, exists := r.ledgers[v.ID]; exists {
			return nil, fmt.Errorf("vault %s is configured twice", v.ID)
		}
		r.ledgers[v.ID] = New(v, log)
		r.order = append(r.order, v.ID)
	}
	sort.Strings(r.order)
	return r, nil
}

// Ledger returns the ledger for a vault id or, failing that, a vault name
func (r *Registry) Ledger(id string) (*ProposalLedger, error) {
	if l, ok := r.ledgers[id]; ok {
		return l, nil
	}
	for _, key := range r.order {
		l := r.ledgers[key]
		if domain.SameIdentity(key, id) || (l.vault.Name != "" && l.vault.Name == id) {
			return l, nil
		}
	}
	return nil, domain.UnknownLedgerErr{LedgerID: id}
}

// Vaults returns the configured vaults ordered by id
func (r *Registry) Vaults() []models.Vault {
	vaults := make([]models.Vault, 0, len(r.order))
	for _, id := range r.order {
		vaults = append(vaults, r.ledgers[id].Vault())
	}
	return vaults
}
