package validation

import (
	"math"
	"strings"
	"testing"
)

func TestValidateKind(t *testing.T) {
	cases := []struct {
		name  string
		value any
		kind  Kind
		want  bool
	}{
		{"nil string", nil, KindString, false},
		{"string ok", "Sunny PG Room", KindString, true},
		{"number as string", "5000", KindNumber, false},
		{"int ok", 5000, KindNumber, true},
		{"float ok", 4999.5, KindNumber, true},
		{"nan rejected", math.NaN(), KindNumber, false},
		{"inf rejected", math.Inf(1), KindNumber, false},
		{"url ok", "https://img.example.com/a.jpg", KindURL, true},
		{"url no scheme", "img.example.com/a.jpg", KindURL, false},
		{"url bad scheme", "javascript:alert(1)", KindURL, false},
		{"url not a string", 42, KindURL, false},
		{"unknown kind", "x", Kind("blob"), false},
	}

	for _, tc := range cases {
		if got := ValidateKind(tc.value, tc.kind); got != tc.want {
			t.Errorf("%s: ValidateKind(%v, %q) = %v, want %v", tc.name, tc.value, tc.kind, got, tc.want)
		}
	}
}

func TestRequiredTextBounds(t *testing.T) {
	if RequiredText("", TitleMinLen, TitleMaxLen) {
		t.Error("empty string accepted for required field")
	}
	if RequiredText("ab", TitleMinLen, TitleMaxLen) {
		t.Error("below-minimum title accepted")
	}
	if !RequiredText("abc", TitleMinLen, TitleMaxLen) {
		t.Error("minimum-length title rejected")
	}
	if RequiredText(strings.Repeat("x", TitleMaxLen+1), TitleMinLen, TitleMaxLen) {
		t.Error("over-length title accepted instead of hard reject")
	}
	// Whitespace padding does not rescue an empty value.
	if RequiredText("   ", TitleMinLen, TitleMaxLen) {
		t.Error("whitespace-only string accepted")
	}
}

func TestOptionalTextBounds(t *testing.T) {
	if !OptionalText("", DescriptionMaxLen) {
		t.Error("empty optional field rejected")
	}
	if OptionalText(strings.Repeat("d", DescriptionMaxLen+1), DescriptionMaxLen) {
		t.Error("over-length description accepted")
	}
}

func TestSanitizeStripsInjection(t *testing.T) {
	payloads := []string{
		"<script>alert('x')</script>",
		"title\x00with\x07controls",
		"<img src=x onerror=alert(1)>",
		"normal title <script>evil</script> tail",
	}
	for _, p := range payloads {
		got := Sanitize(p)
		if strings.Contains(got, "<script>") {
			t.Errorf("Sanitize(%q) = %q, still contains <script>", p, got)
		}
		if strings.ContainsRune(got, '\x00') || strings.ContainsRune(got, '\x07') {
			t.Errorf("Sanitize(%q) = %q, control characters survived", p, got)
		}
	}
}

func TestSanitizeKeepsPlainText(t *testing.T) {
	in := "2BHK flat near Station Road, Mandsaur"
	if got := Sanitize(in); got != in {
		t.Errorf("Sanitize(%q) = %q, want unchanged", in, got)
	}
}

func TestValidPhone(t *testing.T) {
	ok := []string{"+919876543210", "9876543210"}
	bad := []string{"", "12345", "98765abc10", "+"}
	for _, s := range ok {
		if !ValidPhone(s) {
			t.Errorf("ValidPhone(%q) = false, want true", s)
		}
	}
	for _, s := range bad {
		if ValidPhone(s) {
			t.Errorf("ValidPhone(%q) = true, want false", s)
		}
	}
}

func TestValidHandleOrID(t *testing.T) {
	if !ValidHandleOrID("sunny-pg-room") {
		t.Error("valid handle rejected")
	}
	if ValidHandleOrID("") {
		t.Error("empty handle accepted")
	}
	if ValidHandleOrID(strings.Repeat("h", HandleMaxLen+1)) {
		t.Error("over-length handle accepted")
	}
	if ValidHandleOrID("a/b?c") {
		t.Error("handle with URL metacharacters accepted")
	}
}
