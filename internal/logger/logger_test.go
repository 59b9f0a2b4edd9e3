package logger

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		json  bool
		debug bool
	}{
		{name: "console info"},
		{name: "json debug", json: true, debug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.json, tt.debug)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := log.Core().Enabled(-1); got != tt.debug {
				t.Fatalf("expected debug enabled=%v, got %v", tt.debug, got)
			}
		})
	}
}
