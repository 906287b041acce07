package profile

import "testing"

func TestProfilerStartNoMode(t *testing.T) {
	stop := Profiler{Path: t.TempDir()}.Start()
	if _, ok := stop.(ignore); !ok {
		t.Fatalf("Start() = %T, want no-op", stop)
	}

	stop.Stop()
}

func TestProfilerStartUnknownMode(t *testing.T) {
	stop := Profiler{Mode: "bogus", Path: t.TempDir(), Quiet: true}.Start()
	if _, ok := stop.(ignore); !ok {
		t.Fatalf("Start() = %T, want no-op", stop)
	}

	stop.Stop()
}

func TestEnabledMatchesModes(t *testing.T) {
	if Enabled() != (len(Modes()) > 0) {
		t.Fatalf("Enabled() = %v with %d modes", Enabled(), len(Modes()))
	}
}
