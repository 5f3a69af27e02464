package out

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"

	sessionout "focustree/internal/modules/session/port/out"
)

type DesktopNotifier struct{}

func NewDesktopNotifier() sessionout.Notifier {
	return &DesktopNotifier{}
}

func (n *DesktopNotifier) Notify(ctx context.Context, title, body string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %s with title %s", strconv.Quote(body), strconv.Quote(title))
		cmd = exec.CommandContext(ctx, "osascript", "-e", script)
	case "linux":
		cmd = exec.CommandContext(ctx, "notify-send", "--app-name=focustree", title, body)
	default:
		return fmt.Errorf("desktop notifications are not supported on %s", runtime.GOOS)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}
