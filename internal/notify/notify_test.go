package notify

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRendersFinished(t *testing.T) {
	var sent []string
	n := New(true, testLogger())
	n.send = func(title, message string) error {
		sent = append(sent, message)
		return nil
	}

	n.RendersFinished(0)
	n.RendersFinished(-1)
	if len(sent) != 0 {
		t.Fatalf("notified for non-positive count: %v", sent)
	}

	n.RendersFinished(1)
	n.RendersFinished(3)
	if len(sent) != 2 {
		t.Fatalf("got %d notifications, want 2", len(sent))
	}
	if sent[0] != "Your video is ready to watch." {
		t.Errorf("singular message = %q", sent[0])
	}
	if sent[1] != "3 videos are ready to watch." {
		t.Errorf("plural message = %q", sent[1])
	}
}

func TestDisabledNotifierIsSilent(t *testing.T) {
	called := false
	n := New(false, testLogger())
	n.send = func(string, string) error {
		called = true
		return nil
	}
	n.RendersFinished(5)
	if called {
		t.Error("disabled notifier still sent")
	}
}

func TestSendFailureDoesNotPanic(t *testing.T) {
	n := New(true, testLogger())
	n.send = func(string, string) error {
		return errors.New("no notification daemon")
	}
	n.RendersFinished(2)
}
