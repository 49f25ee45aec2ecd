package logging

import "testing"

func TestGetBeforeConfigureDoesNotPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Get() before Configure panicked: %v", r)
		}
	}()
	Get(CategoryCycle).Info("hello %s", "world")
}

func TestConfigureThenLogAllLevels(t *testing.T) {
	if err := Configure(true); err != nil {
		t.Fatalf("Configure() error: %v", err)
	}
	l := Get(CategoryOrchestrator)
	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")
}

func TestGetCachesLoggerPerCategory(t *testing.T) {
	a := Get(CategoryTemplate)
	b := Get(CategoryTemplate)
	if a != b {
		t.Fatal("Get() returned distinct Logger instances for the same category")
	}
}

func TestTimerStopDoesNotPanic(t *testing.T) {
	timer := StartTimer(CategoryCycle, "test-op")
	timer.Stop()
}
