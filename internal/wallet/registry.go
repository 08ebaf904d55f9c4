// Package wallet holds the in-memory wallet list and its invariants: names
// are unique ignoring case, and exactly one wallet is primary whenever the
// list is not empty.
package wallet

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/quantumauth-io/cli-wallet/internal/errs"
	"github.com/quantumauth-io/cli-wallet/internal/ethaddr"
	"github.com/quantumauth-io/cli-wallet/internal/keys"
	"github.com/quantumauth-io/cli-wallet/internal/networks"
)

type Registry struct {
	builtin networks.Builtin
	records []Record
}

// NewRegistry adopts records in their persisted order and repairs the
// primary flag if the input breaks the single-primary rule.
func NewRegistry(builtin networks.Builtin, records []Record) *Registry {
	r := &Registry{builtin: builtin}
	for _, rec := range records {
		rec = rec.clone()
		rec.NetworkManager(builtin) // fills defaults
		r.records = append(r.records, rec)
	}
	r.normalizePrimary()
	return r
}

func (r *Registry) normalizePrimary() {
	if len(r.records) == 0 {
		return
	}
	idx := -1
	for i := range r.records {
		if r.records[i].Primary && idx == -1 {
			idx = i
		}
	}
	if idx == -1 {
		idx = 0
	}
	r.markPrimary(idx)
}

func (r *Registry) markPrimary(idx int) {
	for i := range r.records {
		r.records[i].Primary = i == idx
	}
}

func (r *Registry) Len() int { return len(r.records) }

// List returns copies of all records in stable order.
func (r *Registry) List() []Record {
	out := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.clone())
	}
	return out
}

// Create adds a wallet and makes it the only primary.
func (r *Registry) Create(name string, m *keys.Material) (Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Record{}, errs.ErrEmptyName
	}
	if err := r.CheckName(name); err != nil {
		return Record{}, err
	}
	if m == nil {
		return Record{}, errors.Wrap(errs.ErrInvalidKey, "missing key material")
	}
	addr := m.Address.Hex()
	if _, ok := r.indexOf(addr); ok {
		return Record{}, errors.Wrapf(errs.ErrDuplicateAddress, "%s", addr)
	}

	rec := Record{
		Name:       name,
		Address:    addr,
		PrivateKey: m.PrivateKey,
		Mnemonic:   m.Mnemonic,
	}
	rec.NetworkManager(r.builtin)

	r.records = append(r.records, rec)
	r.markPrimary(len(r.records) - 1)
	return r.records[len(r.records)-1].clone(), nil
}

// CheckName reports whether name could be used for a new wallet.
func (r *Registry) CheckName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.ErrEmptyName
	}
	for _, rec := range r.records {
		if strings.EqualFold(rec.Name, name) {
			return errors.Wrapf(errs.ErrDuplicateName, "%q", name)
		}
	}
	return nil
}

func (r *Registry) SetPrimary(address string) error {
	idx, ok := r.indexOf(address)
	if !ok {
		return errors.Wrapf(errs.ErrWalletNotFound, "%s", address)
	}
	r.markPrimary(idx)
	return nil
}

// Remove deletes the wallet at address. When the removed wallet was primary
// the first remaining wallet takes over. empty reports that no wallets remain.
func (r *Registry) Remove(address string) (removed Record, empty bool, err error) {
	idx, ok := r.indexOf(address)
	if !ok {
		return Record{}, false, errors.Wrapf(errs.ErrWalletNotFound, "%s", address)
	}
	removed = r.records[idx]
	r.records = append(r.records[:idx:idx], r.records[idx+1:]...)

	if len(r.records) == 0 {
		return removed, true, nil
	}
	if removed.Primary {
		r.markPrimary(0)
	}
	return removed, false, nil
}

func (r *Registry) Primary() (Record, bool) {
	for _, rec := range r.records {
		if rec.Primary {
			return rec.clone(), true
		}
	}
	return Record{}, false
}

// Find matches an address (any case) or a name (any case).
func (r *Registry) Find(nameOrAddress string) (Record, error) {
	q := strings.TrimSpace(nameOrAddress)
	if idx, ok := r.indexOf(q); ok {
		return r.records[idx].clone(), nil
	}
	for _, rec := range r.records {
		if strings.EqualFold(rec.Name, q) {
			return rec.clone(), nil
		}
	}
	return Record{}, errors.Wrapf(errs.ErrWalletNotFound, "%q", q)
}

// Update replaces the network settings of the record with the same address.
// Identity fields and the primary flag are owned by the registry.
func (r *Registry) Update(rec Record) error {
	idx, ok := r.indexOf(rec.Address)
	if !ok {
		return errors.Wrapf(errs.ErrWalletNotFound, "%s", rec.Address)
	}
	r.records[idx].Settings = rec.clone().Settings
	return nil
}

func (r *Registry) indexOf(address string) (int, bool) {
	if !ethaddr.Valid(strings.TrimSpace(address)) {
		return -1, false
	}
	for i, rec := range r.records {
		if ethaddr.Equal(rec.Address, address) {
			return i, true
		}
	}
	return -1, false
}
