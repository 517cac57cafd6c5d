package profile

import "testing"

func TestConfig_Start_EmptyModeIsNoop(t *testing.T) {
	p := Config{}.Start()
	if _, ok := p.(ignore); !ok {
		t.Fatalf("expected no-op profiler, got %T", p)
	}

	p.Stop()
}

func TestConfig_Start_UnknownModeIsNoop(t *testing.T) {
	p := Config{Mode: "not-a-mode", Path: t.TempDir(), Quiet: true}.Start()
	if _, ok := p.(ignore); !ok {
		t.Fatalf("expected no-op profiler, got %T", p)
	}

	p.Stop()
}
