package tracker

import (
	"context"
	"fmt"
)

// AddPaymentMethod appends name. Duplicates are kept.
func (s *Service) AddPaymentMethod(ctx context.Context, name string) error {
	s.record.PaymentMethods = append(s.record.PaymentMethods, name)
	s.notify(fmt.Sprintf("Payment method '%s' added.", name))
	return s.persist(ctx)
}

// RemovePaymentMethod removes the first entry equal to name.
func (s *Service) RemovePaymentMethod(ctx context.Context, name string) error {
	for i, m := range s.record.PaymentMethods {
		if m == name {
			s.record.PaymentMethods = append(s.record.PaymentMethods[:i], s.record.PaymentMethods[i+1:]...)
			s.notify(fmt.Sprintf("Payment method '%s' removed.", name))
			return s.persist(ctx)
		}
	}
	return fmt.Errorf("%w: '%s'", ErrPaymentMethodNotFound, name)
}

// PaymentMethods returns the payment methods in insertion order.
func (s *Service) PaymentMethods() []string {
	return append([]string{}, s.record.PaymentMethods...)
}
