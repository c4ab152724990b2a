package enums

import "fmt"

// PromotionStatus tracks the lifecycle of a promotion configuration.
type PromotionStatus string

const (
	PromotionStatusDraft    PromotionStatus = "draft"
	PromotionStatusActive   PromotionStatus = "active"
	PromotionStatusArchived PromotionStatus = "archived"
)

var validPromotionStatuses = []PromotionStatus{
	PromotionStatusDraft,
	PromotionStatusActive,
	PromotionStatusArchived,
}

// String implements fmt.Stringer.
func (p PromotionStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PromotionStatus.
func (p PromotionStatus) IsValid() bool {
	for _, candidate := range validPromotionStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePromotionStatus converts raw input into a PromotionStatus.
func ParsePromotionStatus(value string) (PromotionStatus, error) {
	for _, candidate := range validPromotionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promotion status %q", value)
}
