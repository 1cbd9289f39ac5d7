package appindex

import (
	"context"
	"os/exec"
	"runtime"
)

// platformLaunch starts an application the way the platform expects:
// gtk-launch/exec for desktop entries, open for bundles, start for shortcuts.
func platformLaunch(ctx context.Context, app AppInfo) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "open", app.Path).Start()
	case "windows":
		return exec.CommandContext(ctx, "cmd", "/c", "start", "", app.Path).Start()
	default:
		if app.Exec != "" {
			return exec.CommandContext(ctx, "sh", "-c", app.Exec).Start()
		}
		if _, err := exec.LookPath("gtk-launch"); err == nil {
			return exec.CommandContext(ctx, "gtk-launch", app.ID).Start()
		}
		return exec.CommandContext(ctx, "xdg-open", app.Path).Start()
	}
}
