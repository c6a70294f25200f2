package edm

import (
	"fmt"
	"strings"
)

// Facets contains metadata attributes that constrain EDM type values
type Facets struct {
	Precision *int  // For Decimal: total number of digits
	Scale     *int  // For Decimal: digits after decimal point
	MaxLength *int  // For String, Binary: maximum length
	Unicode   *bool // For String: whether Unicode is supported
	SRID      *int  // For Geography/Geometry: spatial reference ID
	Nullable  bool  // Whether null values are allowed
}

// ValidateDecimalFacets validates that a decimal value conforms to precision and scale facets
func ValidateDecimalFacets(valueStr string, facets Facets) error {
	if facets.Precision == nil && facets.Scale == nil {
		return nil // No constraints
	}

	// Remove sign if present
	absValue := strings.TrimPrefix(valueStr, "-")
	absValue = strings.TrimPrefix(absValue, "+")

	// Split into integer and fractional parts
	parts := strings.Split(absValue, ".")
	fractionalPart := ""
	if len(parts) > 1 {
		fractionalPart = parts[1]
	}

	// Count total digits (excluding decimal point)
	totalDigits := len(strings.ReplaceAll(absValue, ".", ""))

	// Validate precision (total digits)
	if facets.Precision != nil {
		if totalDigits > *facets.Precision {
			return fmt.Errorf("value exceeds precision: %d digits (max %d)", totalDigits, *facets.Precision)
		}
	}

	// Validate scale (fractional digits)
	if facets.Scale != nil {
		if len(fractionalPart) > *facets.Scale {
			return fmt.Errorf("value exceeds scale: %d fractional digits (max %d)", len(fractionalPart), *facets.Scale)
		}
	}

	return nil
}

// ValidateLengthFacet validates that a value conforms to maxLength facet
func ValidateLengthFacet(length int, facets Facets) error {
	if facets.MaxLength != nil && length > *facets.MaxLength {
		return fmt.Errorf("value exceeds maxLength: %d (max %d)", length, *facets.MaxLength)
	}
	return nil
}
