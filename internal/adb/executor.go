package adb

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ctagard/adb-mcp/internal/errors"
)

const (
	defaultRemoteTempDir = "/sdcard"
	packageStagingDir    = "/data/local/tmp"
)

// ExecutorOptions configures an Executor
type ExecutorOptions struct {
	// Timeout bounds each primitive. Zero means no timeout beyond ctx.
	Timeout time.Duration

	// RemoteTempDir is where device-side artifacts are staged.
	RemoteTempDir string

	// LocalTempDir is where host-side artifacts are staged. Empty means os.TempDir.
	LocalTempDir string

	Logger zerolog.Logger
}

// Executor runs commands against one resolved device
type Executor struct {
	dev  Device
	opts ExecutorOptions
	log  zerolog.Logger
}

// NewExecutor creates an executor for dev
func NewExecutor(dev Device, opts ExecutorOptions) *Executor {
	if opts.RemoteTempDir == "" {
		opts.RemoteTempDir = defaultRemoteTempDir
	}
	return &Executor{
		dev:  dev,
		opts: opts,
		log:  opts.Logger.With().Str("serial", dev.Serial()).Logger(),
	}
}

// Serial returns the serial of the target device
func (e *Executor) Serial() string {
	return e.dev.Serial()
}

func (e *Executor) call(ctx context.Context, fn func() error) error {
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}
	return callWithContext(ctx, fn)
}

// Shell runs cmd on the device and returns stdout. A command that fails
// on the device still returns its output as text; only transport
// failures are errors.
func (e *Executor) Shell(ctx context.Context, cmd string) (string, error) {
	e.log.Debug().Str("cmd", cmd).Msg("shell")

	var out string
	err := e.call(ctx, func() error {
		var rerr error
		out, rerr = e.dev.RunCommand(cmd)
		return rerr
	})
	if err != nil {
		e.log.Debug().Err(err).Str("cmd", cmd).Msg("shell failed")
		if ctx.Err() != nil {
			return "", errors.Canceled(cmd, err)
		}
		return "", errors.DeviceCommandFailed(e.Serial(), cmd, err)
	}
	return out, nil
}

// Pull copies a device file to a local path. The data lands in a sibling
// temp file that replaces local only once the transfer completes, so a
// failed pull leaves any existing local file untouched.
func (e *Executor) Pull(ctx context.Context, remote, local string) error {
	e.log.Debug().Str("remote", remote).Str("local", local).Msg("pull")

	f, err := os.CreateTemp(filepath.Dir(local), ".adb-mcp-*")
	if err != nil {
		return errors.TransferFailed(e.Serial(), "pull", remote, local, err)
	}
	tmp := f.Name()

	err = e.call(ctx, func() error {
		r, err := e.dev.OpenRead(remote)
		if err != nil {
			return err
		}
		defer r.Close()
		_, err = io.Copy(f, r)
		return err
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, local)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return e.transferErr(ctx, "pull", remote, local, err)
	}
	return nil
}

// Push copies a local file to the device, keeping its permission bits
// and modification time.
func (e *Executor) Push(ctx context.Context, local, remote string) error {
	e.log.Debug().Str("local", local).Str("remote", remote).Msg("push")

	f, err := os.Open(local)
	if err != nil {
		return errors.TransferFailed(e.Serial(), "push", local, remote, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.TransferFailed(e.Serial(), "push", local, remote, err)
	}
	if info.IsDir() {
		return errors.TransferFailed(e.Serial(), "push", local, remote, fmt.Errorf("%s is a directory", local))
	}

	err = e.call(ctx, func() error {
		w, err := e.dev.OpenWrite(remote, info.Mode().Perm(), info.ModTime())
		if err != nil {
			return err
		}
		if _, err := io.Copy(w, f); err != nil {
			w.Close()
			return err
		}
		return w.Close()
	})
	if err != nil {
		return e.transferErr(ctx, "push", local, remote, err)
	}
	return nil
}

func (e *Executor) transferErr(ctx context.Context, direction, src, dst string, err error) error {
	e.log.Debug().Err(err).Str("direction", direction).Str("src", src).Str("dst", dst).Msg("transfer failed")
	if ctx.Err() != nil {
		return errors.Canceled(direction+" "+src, err)
	}
	return errors.TransferFailed(e.Serial(), direction, src, dst, err)
}

// PullBytes pulls a device file through a local temp file and returns its
// contents. The temp file is removed before returning on every path.
func (e *Executor) PullBytes(ctx context.Context, remote, suffix string) ([]byte, error) {
	tmp, cleanup, err := e.localTemp(suffix)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := e.Pull(ctx, remote, tmp); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(tmp)
	if err != nil {
		return nil, errors.LocalIOFailed("read", tmp, err)
	}
	return data, nil
}

// PushBytes writes data to a device file through a local temp file. The
// temp file is removed before returning on every path.
func (e *Executor) PushBytes(ctx context.Context, data []byte, remote string) error {
	tmp, cleanup, err := e.localTemp(path.Ext(remote))
	if err != nil {
		return err
	}
	defer cleanup()

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.LocalIOFailed("write", tmp, err)
	}
	return e.Push(ctx, tmp, remote)
}

// localTemp creates an empty local temp file and returns its path with a
// cleanup func that removes it.
func (e *Executor) localTemp(suffix string) (string, func(), error) {
	f, err := os.CreateTemp(e.opts.LocalTempDir, "adb-mcp-*"+suffix)
	if err != nil {
		return "", func() {}, errors.LocalIOFailed("create", e.opts.LocalTempDir, err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", func() {}, errors.LocalIOFailed("close", name, err)
	}

	cleanup := func() {
		if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
			e.log.Warn().Err(err).Str("path", name).Msg("failed to remove temp file")
		}
	}
	return name, cleanup, nil
}

// RemoteTempPath returns a unique device path for staging an artifact
func (e *Executor) RemoteTempPath(ext string) string {
	return path.Join(e.opts.RemoteTempDir, "adb-mcp-"+uuid.NewString()+ext)
}

// Remove deletes a device file, logging rather than returning failures.
// It runs even when ctx is already done so staged artifacts do not leak.
func (e *Executor) Remove(ctx context.Context, remote string) {
	if _, err := e.Shell(context.WithoutCancel(ctx), Command(CmdRemove, Args{"path": remote})); err != nil {
		e.log.Warn().Err(err).Str("path", remote).Msg("failed to remove remote artifact")
	}
}

// Install pushes an APK to the device staging directory and installs it
// with pm, replacing an existing install.
func (e *Executor) Install(ctx context.Context, apkPath string) error {
	remote := path.Join(packageStagingDir, "adb-mcp-"+uuid.NewString()+".apk")
	if err := e.Push(ctx, apkPath, remote); err != nil {
		return err
	}
	defer e.Remove(ctx, remote)

	cmd := Command(CmdPMInstall, Args{"path": remote})
	out, err := e.Shell(ctx, cmd)
	if err != nil {
		return err
	}
	if !strings.Contains(out, "Success") {
		return errors.DeviceCommandFailed(e.Serial(), cmd, fmt.Errorf("%s", strings.TrimSpace(out)))
	}
	return nil
}

// Uninstall removes a package from the device
func (e *Executor) Uninstall(ctx context.Context, pkg string) error {
	cmd := Command(CmdPMUninstall, Args{"package": pkg})
	out, err := e.Shell(ctx, cmd)
	if err != nil {
		return err
	}
	if !strings.Contains(out, "Success") {
		return errors.DeviceCommandFailed(e.Serial(), cmd, fmt.Errorf("%s", strings.TrimSpace(out)))
	}
	return nil
}
