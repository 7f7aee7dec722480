package security_test

import (
	"testing"

	"github.com/djmax1976/nuvana-backoffice/pkg/config"
	"github.com/djmax1976/nuvana-backoffice/pkg/security"
)

func pinConfig() config.PinConfig {
	return config.PinConfig{MinLength: 4, MaxLength: 6, BcryptCost: 4}
}

func TestHashAndVerifyPin(t *testing.T) {
	hash, err := security.HashPin("4821", pinConfig())
	if err != nil {
		t.Fatalf("HashPin returned error: %v", err)
	}
	if !security.VerifyPin("4821", hash) {
		t.Fatal("VerifyPin failed for correct PIN")
	}
	if security.VerifyPin("0000", hash) {
		t.Fatal("VerifyPin matched wrong PIN")
	}
}

func TestValidatePinPolicy(t *testing.T) {
	tests := []struct {
		pin     string
		wantErr bool
	}{
		{pin: "4821"},
		{pin: "482135"},
		{pin: "482", wantErr: true},
		{pin: "4821357", wantErr: true},
		{pin: "48a1", wantErr: true},
		{pin: "", wantErr: true},
	}
	for _, tt := range tests {
		err := security.ValidatePin(tt.pin, pinConfig())
		if tt.wantErr && err == nil {
			t.Fatalf("pin %q: expected error", tt.pin)
		}
		if !tt.wantErr && err != nil {
			t.Fatalf("pin %q: unexpected error %v", tt.pin, err)
		}
	}
}
