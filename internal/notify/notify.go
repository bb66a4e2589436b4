// Package notify delivers desktop notifications when renders finish. The
// user can turn it off in config; delivery failures are logged and otherwise
// ignored, since a missed notification never justifies breaking the app.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/sirupsen/logrus"
)

// Notifier posts desktop notifications about finished renders.
type Notifier struct {
	enabled bool
	log     *logrus.Logger

	// send is swappable for tests.
	send func(title, message string) error
}

// New creates a Notifier. When enabled is false every call is a no-op.
func New(enabled bool, log *logrus.Logger) *Notifier {
	return &Notifier{
		enabled: enabled,
		log:     log,
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// RendersFinished announces that count renders completed this pass. Zero or
// negative counts are silent.
func (n *Notifier) RendersFinished(count int) {
	if !n.enabled || count <= 0 {
		return
	}
	message := fmt.Sprintf("%d videos are ready to watch.", count)
	if count == 1 {
		message = "Your video is ready to watch."
	}
	if err := n.send("Reelkit", message); err != nil {
		n.log.WithError(err).Warn("desktop notification failed")
	}
}
