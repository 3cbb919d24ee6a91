package detector

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/klog/v2"

	"github.com/openshift-online/watchdog/pkg/constants"
)

// StartSweeper runs Sweep every interval until ctx is done. It blocks, run it in a goroutine.
func (t *StateTable) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = constants.SweepInterval
	}
	logger := klog.FromContext(ctx)
	logger.Info("Starting liveness sweeper", "interval", interval, "timeout", t.timeout)

	wait.UntilWithContext(ctx, func(ctx context.Context) {
		if demoted := t.Sweep(); demoted > 0 {
			klog.FromContext(ctx).Info("Demoted servers that stopped sending heartbeats", "count", demoted)
		}
	}, interval)

	logger.Info("Liveness sweeper stopped")
}
