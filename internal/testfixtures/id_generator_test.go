package testfixtures

import (
	"reflect"
	"testing"
)

func TestIDGeneratorProducesSequentialIDs(t *testing.T) {
	gen := NewIDGenerator("booking")

	first := gen.Next()
	second := gen.Next()

	if first != "booking-1" || second != "booking-2" {
		t.Fatalf("unexpected identifiers: %q, %q", first, second)
	}
	if got := gen.Issued(); !reflect.DeepEqual(got, []string{"booking-1", "booking-2"}) {
		t.Fatalf("unexpected issued list: %v", got)
	}
}

func TestIDGeneratorDefaultPrefix(t *testing.T) {
	if next := NewIDGenerator("").NextFunc()(); next != "id-1" {
		t.Fatalf("expected id-1, got %q", next)
	}
}
