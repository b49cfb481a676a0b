// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// Tests for the redact package

package redact

import (
	"strings"
	"testing"
)

func TestRedactEmails(t *testing.T) {
	r := New()
	got := r.Redact("Contact: John Doe, john.doe@acme.example for details.")
	if strings.Contains(got, "john.doe@acme.example") {
		t.Errorf("email survived redaction: %q", got)
	}
	if !strings.Contains(got, EmailPlaceholder) {
		t.Errorf("placeholder missing: %q", got)
	}
}

func TestRedactPhoneFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"parenthesized", "Phone: (415) 555-0100"},
		{"parenthesized no dash", "Phone: (415) 555 0100"},
		{"dashed", "Phone: 415-555-0100"},
		{"dotted", "Phone: 415.555.0100"},
		{"bare digits", "Phone: 4155550100"},
	}
	r := New()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Redact(tc.input)
			if !strings.Contains(got, PhonePlaceholder) {
				t.Errorf("Redact(%q) = %q, phone not redacted", tc.input, got)
			}
		})
	}
}

func TestRedactPreservesNumericIdentifiers(t *testing.T) {
	// DUNS (9 digits) and NAICS (6 digits) must survive; the bare
	// 10-digit phone pattern is word-bounded so it cannot eat them.
	r := New()
	input := "DUNS: 123456789\nNAICS: 541511\nUEI: ABC123456789"
	got := r.Redact(input)
	if got != input {
		t.Errorf("identifiers were modified:\n in: %q\nout: %q", input, got)
	}
}

func TestFindPIIDeduplicates(t *testing.T) {
	r := New()
	findings := r.FindPII("a@b.example then again a@b.example and (415) 555-0100")
	if len(findings.Emails) != 1 {
		t.Errorf("expected 1 distinct email, got %d", len(findings.Emails))
	}
	if len(findings.Phones) != 1 {
		t.Errorf("expected 1 distinct phone, got %d", len(findings.Phones))
	}
	if findings.Count() != 2 {
		t.Errorf("Count() = %d, want 2", findings.Count())
	}
}

func TestIsCleanAfterRedaction(t *testing.T) {
	r := New()
	dirty := "Reach me at jane@corp.example or 415-555-0100."
	if r.IsClean(dirty) {
		t.Fatal("IsClean reported dirty text as clean")
	}
	clean := r.Redact(dirty)
	if !r.IsClean(clean) {
		t.Errorf("redacted text still flagged as dirty: %q", clean)
	}
}

func TestRedactionStats(t *testing.T) {
	r := New()
	original := "jane@corp.example, bob@corp.example, 415-555-0100"
	redacted := r.Redact(original)
	stats := r.RedactionStats(original, redacted)
	if stats.EmailsRedacted != 2 {
		t.Errorf("EmailsRedacted = %d, want 2", stats.EmailsRedacted)
	}
	if stats.PhonesRedacted != 1 {
		t.Errorf("PhonesRedacted = %d, want 1", stats.PhonesRedacted)
	}
	if stats.TotalRedacted != 3 {
		t.Errorf("TotalRedacted = %d, want 3", stats.TotalRedacted)
	}
}

func TestRedactEmptyText(t *testing.T) {
	r := New()
	if got := r.Redact(""); got != "" {
		t.Errorf("Redact(\"\") = %q", got)
	}
	if !r.IsClean("") {
		t.Error("empty text reported as dirty")
	}
}
