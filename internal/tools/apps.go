package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/ctagard/adb-mcp/internal/adb"
)

// StartApp launches the package's launcher activity through monkey
func (t *Toolset) StartApp(ctx context.Context, deviceID, pkg string) string {
	return t.dispatch(ctx, "start_app", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		if _, err := ex.Shell(ctx, adb.Command(adb.CmdMonkeyLaunch, adb.Args{"package": pkg})); err != nil {
			return "", err
		}
		return "Started app: " + pkg, nil
	})
}

// KillApp force-stops the package
func (t *Toolset) KillApp(ctx context.Context, deviceID, pkg string) string {
	return t.packageCommand(ctx, "kill_app", deviceID, adb.CmdForceStop, pkg, "Stopped app: ")
}

// ClearAppData clears the package's data
func (t *Toolset) ClearAppData(ctx context.Context, deviceID, pkg string) string {
	return t.packageCommand(ctx, "clear_app_data", deviceID, adb.CmdClearData, pkg, "Cleared app data: ")
}

func (t *Toolset) packageCommand(ctx context.Context, op, deviceID, tmpl, pkg, msg string) string {
	return t.dispatch(ctx, op, deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		if _, err := ex.Shell(ctx, adb.Command(tmpl, adb.Args{"package": pkg})); err != nil {
			return "", err
		}
		return msg + pkg, nil
	})
}

// InstallAPK installs a local APK, replacing an existing install
func (t *Toolset) InstallAPK(ctx context.Context, deviceID, apkPath string) string {
	return t.dispatch(ctx, "install_apk", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		if err := ex.Install(ctx, apkPath); err != nil {
			return "", err
		}
		return "Installed APK: " + apkPath, nil
	})
}

// UninstallApp removes the package
func (t *Toolset) UninstallApp(ctx context.Context, deviceID, pkg string) string {
	return t.dispatch(ctx, "uninstall_app", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		if err := ex.Uninstall(ctx, pkg); err != nil {
			return "", err
		}
		return "Uninstalled app: " + pkg, nil
	})
}

// launchFailed reports whether am/monkey output describes a failed launch
func launchFailed(out string, markers ...string) bool {
	return lo.SomeBy(markers, func(m string) bool { return strings.Contains(out, m) })
}

var (
	monkeyFailureMarkers = []string{"Error", "Exception"}
	startFailureMarkers  = []string{"Error", "Exception", "Permission Denial"}
)

// candidateActivities lists activity names to try for pkg: common
// launcher class names first, then activities named in the package's
// Activity Resolver Table.
func candidateActivities(pkg, resolverTable string) []string {
	candidates := []string{
		pkg + ".SplashActivity",
		pkg + ".MainActivity",
		pkg + ".StartActivity",
		pkg + ".LauncherActivity",
		pkg + ".ui.SplashActivity",
		pkg + ".ui.MainActivity",
		pkg + ".activity.SplashActivity",
		pkg + ".activity.MainActivity",
	}

	for _, line := range strings.Split(resolverTable, "\n") {
		if !strings.Contains(line, pkg) || !strings.Contains(line, "filter") {
			continue
		}
		for _, field := range strings.Fields(line) {
			if !strings.Contains(field, pkg) {
				continue
			}
			_, activity, ok := strings.Cut(field, "/")
			if !ok || activity == "" {
				continue
			}
			if strings.HasPrefix(activity, ".") {
				activity = pkg + activity
			}
			candidates = append(candidates, activity)
		}
	}
	return lo.Uniq(candidates)
}

// EnhancedStartApp tries, in order and stopping at the first success:
//  1. the monkey launcher intent
//  2. am start -n on activity, when given
//  3. common activity names and those listed in the resolver table
//  4. ACTION_MAIN on .MainActivity
//
// Success is judged from command output only, so the result is best
// effort. The transcript of every attempt is returned either way.
func (t *Toolset) EnhancedStartApp(ctx context.Context, deviceID, pkg, activity string) string {
	return t.dispatch(ctx, "start_app", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		var b strings.Builder
		logf := func(format string, args ...interface{}) {
			fmt.Fprintf(&b, format+"\n", args...)
		}
		succeeded := func() (string, error) {
			return "Started app: " + pkg + "\n" + b.String(), nil
		}

		logf("Trying monkey launcher intent...")
		out, err := ex.Shell(ctx, adb.Command(adb.CmdMonkeyLaunch, adb.Args{"package": pkg}))
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return "", err
			}
			logf("monkey error: %v", err)
		case launchFailed(out, monkeyFailureMarkers...):
			logf("monkey failed: %s", strings.TrimSpace(out))
		default:
			logf("monkey succeeded")
			return succeeded()
		}

		if activity != "" {
			logf("Trying am start -n with activity %s...", activity)
			out, err := ex.Shell(ctx, adb.Command(adb.CmdStartActivity, adb.Args{"package": pkg, "activity": activity}))
			switch {
			case err != nil:
				if ctx.Err() != nil {
					return "", err
				}
				logf("am start -n error: %v", err)
			case launchFailed(out, startFailureMarkers...):
				logf("am start -n failed: %s", strings.TrimSpace(out))
			default:
				logf("am start -n succeeded")
				return succeeded()
			}
		}

		logf("Looking for a launchable activity...")
		table, err := ex.Shell(ctx, adb.Command(adb.CmdResolverTable, adb.Args{"package": pkg}))
		if err != nil {
			if ctx.Err() != nil {
				return "", err
			}
			logf("activity lookup error: %v", err)
		} else if strings.TrimSpace(table) != "" {
			logf("Found activity resolver information")
		}
		for _, candidate := range candidateActivities(pkg, table) {
			out, err := ex.Shell(ctx, adb.Command(adb.CmdStartActivity, adb.Args{"package": pkg, "activity": candidate}))
			if err != nil {
				if ctx.Err() != nil {
					return "", err
				}
				continue
			}
			if !launchFailed(out, startFailureMarkers...) {
				logf("Started activity: %s", candidate)
				return succeeded()
			}
		}

		logf("Trying ACTION_MAIN...")
		out, err = ex.Shell(ctx, adb.Command(adb.CmdStartMain, adb.Args{"package": pkg}))
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return "", err
			}
			logf("ACTION_MAIN error: %v", err)
		case launchFailed(out, startFailureMarkers...):
			logf("ACTION_MAIN failed: %s", strings.TrimSpace(out))
		default:
			logf("ACTION_MAIN succeeded")
			return succeeded()
		}

		return "Could not start app after trying every method: " + pkg + "\n" + b.String(), nil
	})
}
