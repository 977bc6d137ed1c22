package hostlock

import "testing"

func TestNameForCanonicalizesSeparators(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`C:\x\ternserver.exe`, `C:/x/ternserver.exe`},
		{"/usr/lib/tern/ternserver", "-usr-lib-tern-ternserver"},
	}
	for _, tt := range tests {
		if got := NameFor(tt.in); got != tt.want {
			t.Errorf("NameFor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
