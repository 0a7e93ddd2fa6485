package schema

import "fmt"

// ValidationError reports caller-controlled input that was rejected before any I/O.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

// MalformedOfferError reports a provider offer missing an expected field.
type MalformedOfferError struct {
	OfferID string
	Field   string
	Err     error
}

func (e *MalformedOfferError) Error() string {
	msg := fmt.Sprintf("malformed offer %q: %s", e.OfferID, e.Field)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedOfferError) Unwrap() error { return e.Err }

// ProviderCallError reports a failed provider call. Only the category is
// meant for logs; Err may carry request detail.
type ProviderCallError struct {
	Category   ProviderErrorCategory
	StatusCode int
	Err        error
}

func (e *ProviderCallError) Error() string {
	return fmt.Sprintf("provider call failed: %s", e.Category)
}

func (e *ProviderCallError) Unwrap() error { return e.Err }

// StoreError reports a failed history read or write.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("history %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NotificationError reports a failed webhook delivery.
type NotificationError struct {
	StatusCode int
	Err        error
}

func (e *NotificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("notification failed: %v", e.Err)
	}
	return fmt.Sprintf("notification failed with status %d", e.StatusCode)
}

func (e *NotificationError) Unwrap() error { return e.Err }
