package events

import "testing"

func TestChannelReporterDoesNotBlockWhenFull(t *testing.T) {
	ch := make(chan Update, 1)
	r := NewChannelReporter(ch)

	r.Report(Progress("b1", 10))
	// Channel is full now; this must drop instead of blocking.
	r.Report(Progress("b1", 20))

	got := <-ch
	if got.Percent != 10 {
		t.Errorf("Percent = %d, want 10", got.Percent)
	}
	select {
	case u := <-ch:
		t.Errorf("unexpected second update: %+v", u)
	default:
	}
}

func TestMultiReporterFansOut(t *testing.T) {
	a := make(chan Update, 1)
	b := make(chan Update, 1)
	m := NewMultiReporter(NewChannelReporter(a))
	m.Add(NewChannelReporter(b))

	m.Report(Done("b1", 3, "/out"))

	for _, ch := range []chan Update{a, b} {
		u := <-ch
		if u.Kind != KindDone || u.Total != 3 || u.OutputDir != "/out" {
			t.Errorf("update = %+v", u)
		}
	}
}

func TestConstructors(t *testing.T) {
	if u := Log("b", LevelError, "boom"); u.Kind != KindLog || u.Level != LevelError || u.Message != "boom" {
		t.Errorf("Log update = %+v", u)
	}
	if u := Progress("b", 55); u.Kind != KindProgress || u.Percent != 55 {
		t.Errorf("Progress update = %+v", u)
	}
	if u := Progress("b", 0); u.Timestamp.IsZero() {
		t.Error("Timestamp must be set")
	}
}
