package tracker

import (
	"context"
	"fmt"
)

// Category actions accepted by ManageCategory.
const (
	ActionAdd    = "add"
	ActionDelete = "delete"
)

// ManageCategory adds or deletes a category. It reports whether the record
// changed: adding a known name is a no-op without a notification, deleting
// an unknown name returns ErrCategoryNotFound.
func (s *Service) ManageCategory(ctx context.Context, action, name string) (bool, error) {
	switch action {
	case ActionAdd:
		return s.AddCategory(ctx, name)
	case ActionDelete:
		if err := s.DeleteCategory(ctx, name); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

// AddCategory inserts name if absent.
func (s *Service) AddCategory(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, ErrEmptyCategoryName
	}
	if s.record.HasCategory(name) {
		return false, nil
	}
	s.record.Categories[name] = []string{}
	s.notify(fmt.Sprintf("Category '%s' added.", name))
	return true, s.persist(ctx)
}

// DeleteCategory removes name. Transactions filed under it keep their category.
func (s *Service) DeleteCategory(ctx context.Context, name string) error {
	if !s.record.HasCategory(name) {
		return fmt.Errorf("%w: '%s'", ErrCategoryNotFound, name)
	}
	delete(s.record.Categories, name)
	s.notify(fmt.Sprintf("Category '%s' removed.", name))
	return s.persist(ctx)
}

// Categories returns the known category names, sorted.
func (s *Service) Categories() []string {
	return s.record.CategoryNames()
}
