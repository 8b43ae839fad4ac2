package bank

import (
	"strings"
	"testing"
)

func TestValidateContent_DefaultBankPasses(t *testing.T) {
	if _, err := Default(); err != nil {
		t.Fatalf("embedded bank validation failed: %v", err)
	}
}

func TestValidateQuestion_DuplicateOption(t *testing.T) {
	errs := validateQuestion("t", 1, 0, Question{Prompt: "q", Options: []string{"a", "a"}, Answer: "a"})
	if len(errs) != 1 {
		t.Fatalf("got %d problems, want 1: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0], "duplicate option") {
		t.Errorf("problem should mention duplicate option, got: %s", errs[0])
	}
}

func TestValidateQuestion_CaseSensitiveAnswer(t *testing.T) {
	errs := validateQuestion("t", 1, 0, Question{Prompt: "q", Options: []string{"Paris", "Rome"}, Answer: "paris"})
	if len(errs) == 0 {
		t.Fatal("expected answer with different case to be rejected")
	}
}

func TestValidateTopics_DuplicateID(t *testing.T) {
	errs := validateTopics([]Topic{{ID: "a", Title: "A"}, {ID: "a", Title: "B"}})
	if len(errs) != 1 {
		t.Fatalf("got %d problems, want 1", len(errs))
	}
}
