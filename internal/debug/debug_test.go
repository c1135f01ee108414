package debug

import (
	"bytes"
	"testing"
)

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	oldOut, oldErr := stdout, stderr
	SetOutput(&out, &errOut)
	t.Cleanup(func() { SetOutput(oldOut, oldErr) })
	return &out, &errOut
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		name    string
		env     bool
		verbose bool
		want    bool
	}{
		{"env only", true, false, true},
		{"verbose only", false, true, true},
		{"neither", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldEnabled, oldVerbose := enabled, verboseMode
			defer func() { enabled, verboseMode = oldEnabled, oldVerbose }()

			enabled = tt.env
			SetVerbose(tt.verbose)

			if got := Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogf(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		wantOutput string
	}{
		{"outputs when enabled", true, "test message: hello\n"},
		{"no output when disabled", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldEnabled, oldVerbose := enabled, verboseMode
			defer func() { enabled, verboseMode = oldEnabled, oldVerbose }()
			enabled, verboseMode = tt.enabled, false

			_, errOut := captureOutput(t)
			Logf("test message: %s\n", "hello")

			if got := errOut.String(); got != tt.wantOutput {
				t.Errorf("Logf() output = %q, want %q", got, tt.wantOutput)
			}
		})
	}
}

func TestPrintNormalRespectsQuiet(t *testing.T) {
	oldQuiet := quietMode
	defer SetQuiet(oldQuiet)

	out, _ := captureOutput(t)

	SetQuiet(false)
	PrintNormal("visible %d\n", 1)
	PrintlnNormal("also visible")

	SetQuiet(true)
	PrintNormal("hidden\n")
	PrintlnNormal("hidden")

	if got, want := out.String(), "visible 1\nalso visible\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if !IsQuiet() {
		t.Error("IsQuiet() = false after SetQuiet(true)")
	}
}

func TestWarnfIgnoresQuiet(t *testing.T) {
	oldQuiet := quietMode
	defer SetQuiet(oldQuiet)
	SetQuiet(true)

	_, errOut := captureOutput(t)
	Warnf("careful: %s\n", "x")

	if got := errOut.String(); got != "careful: x\n" {
		t.Errorf("Warnf() output = %q", got)
	}
}
