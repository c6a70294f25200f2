package edm

import (
	"testing"
)

func TestValidateDecimalFacets(t *testing.T) {
	t.Run("No facets", func(t *testing.T) {
		err := ValidateDecimalFacets("123.456", Facets{})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Precision validation passes", func(t *testing.T) {
		precision := 6
		err := ValidateDecimalFacets("123.45", Facets{Precision: &precision})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Precision validation fails", func(t *testing.T) {
		precision := 5
		err := ValidateDecimalFacets("123.456", Facets{Precision: &precision})
		if err == nil {
			t.Error("expected error for exceeding precision")
		}
	})

	t.Run("Scale validation passes", func(t *testing.T) {
		scale := 3
		err := ValidateDecimalFacets("123.456", Facets{Scale: &scale})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Scale validation fails", func(t *testing.T) {
		scale := 2
		err := ValidateDecimalFacets("123.456", Facets{Scale: &scale})
		if err == nil {
			t.Error("expected error for exceeding scale")
		}
	})

	t.Run("Negative number", func(t *testing.T) {
		precision := 6
		err := ValidateDecimalFacets("-123.45", Facets{Precision: &precision})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Integer with no fractional part", func(t *testing.T) {
		precision := 5
		scale := 2
		err := ValidateDecimalFacets("12345", Facets{Precision: &precision, Scale: &scale})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestValidateLengthFacet(t *testing.T) {
	t.Run("No maxLength", func(t *testing.T) {
		err := ValidateLengthFacet(1000, Facets{})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Within maxLength", func(t *testing.T) {
		maxLen := 10
		err := ValidateLengthFacet(5, Facets{MaxLength: &maxLen})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Exceeds maxLength", func(t *testing.T) {
		maxLen := 5
		err := ValidateLengthFacet(10, Facets{MaxLength: &maxLen})
		if err == nil {
			t.Error("expected error for exceeding maxLength")
		}
	})

	t.Run("Exactly at maxLength", func(t *testing.T) {
		maxLen := 10
		err := ValidateLengthFacet(10, Facets{MaxLength: &maxLen})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestTypeRegistry(t *testing.T) {
	t.Run("IsValidType for registered types", func(t *testing.T) {
		if !IsValidType("Edm.String") {
			t.Error("expected Edm.String to be valid")
		}
		if !IsValidType("Edm.Int32") {
			t.Error("expected Edm.Int32 to be valid")
		}
		if !IsValidType("Edm.Decimal") {
			t.Error("expected Edm.Decimal to be valid")
		}
		if !IsValidType("Edm.Boolean") {
			t.Error("expected Edm.Boolean to be valid")
		}
	})

	t.Run("IsValidType for unregistered type", func(t *testing.T) {
		if IsValidType("Edm.Unknown") {
			t.Error("expected Edm.Unknown to be invalid")
		}
	})

	t.Run("ParseType with valid type", func(t *testing.T) {
		typ, err := ParseType("Edm.Int32", 42, Facets{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if typ.TypeName() != "Edm.Int32" {
			t.Errorf("expected Edm.Int32, got %s", typ.TypeName())
		}
		if typ.Value() != int32(42) {
			t.Errorf("expected value 42, got %v", typ.Value())
		}
	})

	t.Run("ParseType with unknown type", func(t *testing.T) {
		_, err := ParseType("Edm.Unknown", "value", Facets{})
		if err == nil {
			t.Error("expected error for unknown type")
		}
	})
}
