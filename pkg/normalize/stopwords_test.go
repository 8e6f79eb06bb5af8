package normalize

import (
	"reflect"
	"testing"
)

func TestStopwordFilter(t *testing.T) {
	f := NewStopwordFilter([]string{"the", "and", "", "The"}, false)

	if f.Len() != 3 {
		t.Errorf("Expected 3 stopwords, got %d", f.Len())
	}

	tokens := []string{"the", "cat", "and", "the", "dog", "THE"}
	got := f.Filter(tokens)
	expected := []string{"cat", "dog", "THE"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Filter() = %v, expected %v", got, expected)
	}

	if tokens[0] != "the" {
		t.Error("Filter modified its input")
	}
}

func TestStopwordFilterBuiltin(t *testing.T) {
	f := NewStopwordFilter(nil, true)

	if !f.IsStopword("because") {
		t.Error("Expected builtin stopword 'because' to match")
	}
	if f.IsStopword("prize") {
		t.Error("'prize' should not be a stopword")
	}
}

func TestNilStopwordFilter(t *testing.T) {
	var f *StopwordFilter
	if f.IsStopword("the") {
		t.Error("nil filter should not match anything")
	}
	if f.Len() != 0 {
		t.Error("nil filter should be empty")
	}
}
