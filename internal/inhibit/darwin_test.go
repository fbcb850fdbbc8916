//go:build darwin

package inhibit

import (
	"context"
	"reflect"
	"testing"
)

func TestCaffeinateArgs(t *testing.T) {
	tests := []struct {
		kind Kind
		want []string
	}{
		{DisplaySleep, []string{"-d", "-i"}},
		{SystemSleep, []string{"-i"}},
	}
	for _, tt := range tests {
		if got := caffeinateArgs(tt.kind); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("caffeinateArgs(%v) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestDarwinBackend_UnknownToken(t *testing.T) {
	backend, err := NewDarwinBackend(Config{}.withDefaults())
	if err != nil {
		t.Skipf("caffeinate unavailable: %v", err)
	}
	defer backend.Close()

	err = backend.Release(context.Background(), Token{Facility: FacilityCaffeinate, Cookie: 999999})
	if err == nil {
		t.Error("Release() of unknown token should have failed")
	}

	err = backend.Release(context.Background(), Token{Facility: "bogus", Cookie: 1})
	if err == nil {
		t.Error("Release() of unknown facility should have failed")
	}
}
