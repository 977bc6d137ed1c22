package cli

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tern-lang/ternc/internal/catalog"
)

func TestExtractDirectivesKeepAlive(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		wantResidual  []string
		wantKeepAlive string
	}{
		{
			name:          "colon separator",
			args:          []string{"foo.tn", "/keepalive:10", "/out:foo"},
			wantResidual:  []string{"foo.tn", "/out:foo"},
			wantKeepAlive: "10",
		},
		{
			name:          "equals separator",
			args:          []string{"/keepalive=-1", "foo.tn"},
			wantResidual:  []string{"foo.tn"},
			wantKeepAlive: "-1",
		},
		{
			name:          "last wins",
			args:          []string{"/keepalive:1", "/keepalive:2"},
			wantResidual:  []string{},
			wantKeepAlive: "2",
		},
		{
			name:          "no directive",
			args:          []string{"a.tn", "b.tn"},
			wantResidual:  []string{"a.tn", "b.tn"},
			wantKeepAlive: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			residual, d, err := ExtractDirectives(tt.args)
			if err != nil {
				t.Fatalf("ExtractDirectives() error = %v", err)
			}
			if !reflect.DeepEqual(residual, tt.wantResidual) {
				t.Errorf("residual = %v, want %v", residual, tt.wantResidual)
			}
			if d.KeepAlive != tt.wantKeepAlive {
				t.Errorf("KeepAlive = %q, want %q", d.KeepAlive, tt.wantKeepAlive)
			}
		})
	}
}

func TestExtractDirectivesKeepAliveErrors(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		wantMsg string
	}{
		{"bare switch", "/keepalive", catalog.Text(catalog.MissingKeepAlive)},
		{"separator only", "/keepalive:", catalog.Text(catalog.MissingKeepAlive)},
		{"no separator", "/keepalive10", catalog.Text(catalog.MissingKeepAlive)},
		{"not an integer", "/keepalive:abc", catalog.Text(catalog.KeepAliveIsNotAnInteger)},
		{"trailing junk", "/keepalive:10x", catalog.Text(catalog.KeepAliveIsNotAnInteger)},
		{"below minimum", "/keepalive:-2", catalog.Text(catalog.KeepAliveIsTooSmall)},
		{"out of range", "/keepalive:99999999999", catalog.Text(catalog.KeepAliveIsOutOfRange)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ExtractDirectives([]string{"foo.tn", tt.arg})
			if err == nil {
				t.Fatalf("ExtractDirectives(%q) error = nil, want fatal", tt.arg)
			}
			var fe *catalog.FatalError
			if !errors.As(err, &fe) {
				t.Fatalf("error type = %T, want *catalog.FatalError", err)
			}
			if fe.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", fe.Message, tt.wantMsg)
			}
		})
	}
}

func TestExtractDirectivesPreferredUILang(t *testing.T) {
	tests := []struct {
		name     string
		arg      string
		wantLang string
	}{
		{"slash prefix", "/preferreduilang:de-DE", "de-DE"},
		{"dash prefix", "-preferreduilang:fr-FR", "fr-FR"},
		{"mixed case option", "/PreferredUILang:en-US", "en-US"},
		{"quoted value", `/preferreduilang:"en-US"`, "en-US"},
		{"empty value ignored", "/preferreduilang:", ""},
		{"quotes only ignored", `/preferreduilang:""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			residual, d, err := ExtractDirectives([]string{tt.arg})
			if err != nil {
				t.Fatalf("ExtractDirectives() error = %v", err)
			}
			if d.PreferredUILang != tt.wantLang {
				t.Errorf("PreferredUILang = %q, want %q", d.PreferredUILang, tt.wantLang)
			}
			// The server is entitled to see the switch.
			if len(residual) != 1 || residual[0] != tt.arg {
				t.Errorf("residual = %v, want [%q]", residual, tt.arg)
			}
		})
	}
}

func TestScanPreferredUILangIgnoresOtherDirectives(t *testing.T) {
	// The locale scan must work even when extraction would be fatal, so
	// the fatal itself comes out localized.
	args := []string{"/keepalive:abc", "/preferreduilang:de-DE"}
	if got := ScanPreferredUILang(args); got != "de-DE" {
		t.Errorf("ScanPreferredUILang() = %q, want %q", got, "de-DE")
	}

	if got := ScanPreferredUILang([]string{"a.tn"}); got != "" {
		t.Errorf("ScanPreferredUILang() = %q, want empty", got)
	}
}

func TestExtractDirectivesIdempotentOnResidual(t *testing.T) {
	args := []string{"/keepalive:30", "a.tn", "/preferreduilang:de-DE", "/out:x"}

	residual, _, err := ExtractDirectives(args)
	if err != nil {
		t.Fatalf("first pass error = %v", err)
	}
	again, _, err := ExtractDirectives(residual)
	if err != nil {
		t.Fatalf("second pass error = %v", err)
	}
	if !reflect.DeepEqual(again, residual) {
		t.Errorf("second pass residual = %v, want %v", again, residual)
	}
}
