package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNewRegisteredCode(t *testing.T) {
	err := New("T001")
	if err.Category != CategoryRouting {
		t.Errorf("category = %q", err.Category)
	}
	if !strings.Contains(err.Error(), "T001") {
		t.Errorf("Error() = %q, want code prefix", err.Error())
	}
	if err.Suggestion == "" {
		t.Error("registered suggestion missing")
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("T999")
	if err.Message != "Unknown error" {
		t.Errorf("message = %q", err.Message)
	}
	if err.Code != "T999" {
		t.Errorf("code = %q", err.Code)
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "bad flag %q", "--nope")
	if err.Code != "" {
		t.Errorf("code = %q, want empty", err.Code)
	}
	if err.Error() != `bad flag "--nope"` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("underlying")
	err := New("T061").Wrap(cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is did not find wrapped cause")
	}

	var te *TraverseError
	if !stderrors.As(err, &te) || te.Code != "T061" {
		t.Error("errors.As did not recover the structured error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "T020") != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New("T020")
	if got := FromError(orig, "T021"); got != orig {
		t.Error("FromError should pass structured errors through")
	}

	wrapped := FromError(stderrors.New("boom"), "T020")
	if wrapped.Code != "T020" || wrapped.Wrapped == nil {
		t.Errorf("wrapped = %+v", wrapped)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("T060").Wrap(stderrors.New("stat failed")).Format()

	for _, want := range []string{"T060", "traverse.json", "Hint:", "Caused by: stat failed", "Learn more:"} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("colors leaked into output with colors disabled")
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("T040").Wrap(stderrors.New("no such key"))
	got := err.FormatCompact()
	want := "T040: Shell document not found: no such key"
	if got != want {
		t.Errorf("compact = %q, want %q", got, want)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five", 9)
	for _, line := range lines {
		if len(line) > 9 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if got := strings.Join(lines, " "); got != "one two three four five" {
		t.Errorf("words lost: %q", got)
	}
}
