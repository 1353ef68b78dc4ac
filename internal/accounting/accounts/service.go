package accounts

import (
	"context"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
)

// Refresher is notified after account mutations so derived caches can rebuild.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Service implements chart-of-accounts rules on top of a Repository.
type Service struct {
	repo      Repository
	refresher Refresher
}

// NewService builds an account Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SetRefresher wires the system-account resolver cache.
func (s *Service) SetRefresher(r Refresher) {
	s.refresher = r
}

func (s *Service) notify(ctx context.Context) {
	if s.refresher != nil {
		_ = s.refresher.Refresh(ctx)
	}
}

// List returns all accounts ordered by code.
func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

// Get returns one account by id.
func (s *Service) Get(ctx context.Context, id int64) (Account, error) {
	return s.repo.Get(ctx, id)
}

// Create validates and persists a new account.
func (s *Service) Create(ctx context.Context, in CreateAccountInput) (Account, error) {
	if !in.Type.Valid() {
		return Account{}, shared.NewValidationError("type", "unknown account type")
	}
	if in.ParentID != nil {
		parent, err := s.repo.Get(ctx, *in.ParentID)
		if err != nil {
			return Account{}, err
		}
		if parent.Type != in.Type {
			return Account{}, shared.ErrTypeMismatch
		}
	}
	created, err := s.repo.Create(ctx, Account{
		Code:               in.Code,
		Name:               in.Name,
		Type:               in.Type,
		Description:        in.Description,
		ParentID:           in.ParentID,
		IsActive:           true,
		OpeningBalance:     in.OpeningBalance,
		CanDebitOnPayment:  in.CanDebitOnPayment,
		CanCreditOnReceipt: in.CanCreditOnReceipt,
	})
	if err != nil {
		return Account{}, err
	}
	s.notify(ctx)
	return created, nil
}

// Update applies a partial patch, enforcing seeded immutability, type
// compatibility, and acyclicity of the parent graph.
func (s *Service) Update(ctx context.Context, id int64, patch UpdateAccountInput) (Account, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Account{}, err
	}
	if current.IsSeeded {
		return Account{}, shared.ErrSeededAccount
	}

	next := current
	if patch.Code != nil {
		next.Code = *patch.Code
	}
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.IsActive != nil {
		next.IsActive = *patch.IsActive
	}
	if patch.OpeningBalance != nil {
		next.OpeningBalance = *patch.OpeningBalance
	}
	if patch.CanDebitOnPayment != nil {
		next.CanDebitOnPayment = *patch.CanDebitOnPayment
	}
	if patch.CanCreditOnReceipt != nil {
		next.CanCreditOnReceipt = *patch.CanCreditOnReceipt
	}

	if patch.Type != nil && *patch.Type != current.Type {
		if !patch.Type.Valid() {
			return Account{}, shared.NewValidationError("type", "unknown account type")
		}
		hasEntries, err := s.repo.HasEntries(ctx, id)
		if err != nil {
			return Account{}, err
		}
		if hasEntries {
			return Account{}, shared.ErrAccountHasEntries
		}
		children, err := s.repo.Children(ctx, id)
		if err != nil {
			return Account{}, err
		}
		for _, child := range children {
			if child.Type != *patch.Type {
				return Account{}, shared.ErrTypeMismatch
			}
		}
		next.Type = *patch.Type
	}

	switch {
	case patch.ClearParent:
		next.ParentID = nil
	case patch.ParentID != nil:
		newParent := *patch.ParentID
		if newParent == id {
			return Account{}, shared.ErrCircularParent
		}
		descendant, err := s.IsDescendant(ctx, id, newParent)
		if err != nil {
			return Account{}, err
		}
		if descendant {
			return Account{}, shared.ErrCircularParent
		}
		parent, err := s.repo.Get(ctx, newParent)
		if err != nil {
			return Account{}, err
		}
		if parent.Type != next.Type {
			return Account{}, shared.ErrTypeMismatch
		}
		next.ParentID = &newParent
	}

	if err := s.repo.Update(ctx, next); err != nil {
		return Account{}, err
	}
	s.notify(ctx)
	return next, nil
}

// Delete removes an account. Without force it refuses accounts with
// children; with force children are re-parented to the root. Accounts
// holding ledger entries are never deleted.
func (s *Service) Delete(ctx context.Context, id int64, force bool) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.IsSeeded {
		return shared.ErrSeededAccount
	}
	hasEntries, err := s.repo.HasEntries(ctx, id)
	if err != nil {
		return err
	}
	if hasEntries {
		return shared.ErrAccountHasEntries
	}
	children, err := s.repo.Children(ctx, id)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		if !force {
			return shared.ErrAccountHasChildren
		}
		if err := s.repo.ReparentChildrenToRoot(ctx, id); err != nil {
			return err
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify(ctx)
	return nil
}

// IsDescendant walks parent links upward from candidateID and reports
// whether ancestorID is encountered.
func (s *Service) IsDescendant(ctx context.Context, ancestorID, candidateID int64) (bool, error) {
	const maxDepth = 512
	cursor := candidateID
	for depth := 0; depth < maxDepth; depth++ {
		node, err := s.repo.Get(ctx, cursor)
		if err != nil {
			return false, err
		}
		if node.ParentID == nil {
			return false, nil
		}
		if *node.ParentID == ancestorID {
			return true, nil
		}
		cursor = *node.ParentID
	}
	return false, shared.ErrCircularParent
}

// Chart returns root accounts with children recursively nested,
// code-ascending at every level.
func (s *Service) Chart(ctx context.Context) ([]ChartNode, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return buildChart(all), nil
}

// buildChart assembles the tree from the flat, code-ordered list using
// an id-indexed arena rather than embedded pointers. Children inherit
// the input order, so every level stays code-ascending.
func buildChart(all []Account) []ChartNode {
	byID := make(map[int64]Account, len(all))
	childIDs := make(map[int64][]int64, len(all))
	var rootIDs []int64
	for _, a := range all {
		byID[a.ID] = a
	}
	for _, a := range all {
		if a.ParentID == nil {
			rootIDs = append(rootIDs, a.ID)
			continue
		}
		if _, ok := byID[*a.ParentID]; !ok {
			rootIDs = append(rootIDs, a.ID)
			continue
		}
		childIDs[*a.ParentID] = append(childIDs[*a.ParentID], a.ID)
	}
	var attach func(id int64) ChartNode
	attach = func(id int64) ChartNode {
		node := ChartNode{Account: byID[id]}
		for _, cid := range childIDs[id] {
			node.Children = append(node.Children, attach(cid))
		}
		return node
	}
	out := make([]ChartNode, 0, len(rootIDs))
	for _, id := range rootIDs {
		out = append(out, attach(id))
	}
	return out
}
