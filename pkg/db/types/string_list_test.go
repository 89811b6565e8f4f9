package types

import (
	"testing"
)

func TestStringListRoundTrip(t *testing.T) {
	original := StringList{"500g pasta", "2 tomatoes", "1 onion"}

	value, err := original.Value()
	if err != nil {
		t.Fatalf("Value returned error: %v", err)
	}

	var decoded StringList
	if err := decoded.Scan(value); err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	if len(decoded) != len(original) {
		t.Fatalf("expected %d items, got %d", len(original), len(decoded))
	}
	for i := range original {
		if decoded[i] != original[i] {
			t.Fatalf("item %d: expected %q got %q", i, original[i], decoded[i])
		}
	}
}

func TestStringListScanWrapsBareJSONString(t *testing.T) {
	var decoded StringList
	if err := decoded.Scan(`"just one step"`); err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(decoded) != 1 || decoded[0] != "just one step" {
		t.Fatalf("expected one-element wrap, got %v", decoded)
	}
}

func TestStringListScanWrapsPlainText(t *testing.T) {
	var decoded StringList
	if err := decoded.Scan([]byte("boil water")); err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(decoded) != 1 || decoded[0] != "boil water" {
		t.Fatalf("expected one-element wrap, got %v", decoded)
	}
}

func TestStringListScanNil(t *testing.T) {
	var decoded StringList
	if err := decoded.Scan(nil); err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(decoded) != 0 {
		t.Fatalf("expected empty list, got %v", decoded)
	}
}

func TestStringListValueNil(t *testing.T) {
	var list StringList
	value, err := list.Value()
	if err != nil {
		t.Fatalf("Value returned error: %v", err)
	}
	if value != "[]" {
		t.Fatalf("expected empty array literal, got %v", value)
	}
}
