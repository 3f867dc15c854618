package tools

import (
	"context"
	"path"

	"github.com/ctagard/adb-mcp/internal/adb"
	"github.com/ctagard/adb-mcp/internal/output"
)

// DefaultListDir is listed when list_files gets no directory
const DefaultListDir = "/sdcard"

// ListFiles returns ls -la of dir
func (t *Toolset) ListFiles(ctx context.Context, deviceID, dir string) string {
	if dir == "" {
		dir = DefaultListDir
	}
	return t.shellTool(ctx, "list_files", deviceID, adb.Command(adb.CmdLs, adb.Args{"path": dir}))
}

// PushFile copies a local file to the device
func (t *Toolset) PushFile(ctx context.Context, deviceID, local, remote string) string {
	return t.dispatch(ctx, "push_file", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		if err := ex.Push(ctx, local, remote); err != nil {
			return "", err
		}
		return "Pushed " + local + " to device " + remote, nil
	})
}

// PullFile copies a device file to a local path
func (t *Toolset) PullFile(ctx context.Context, deviceID, remote, local string) string {
	return t.dispatch(ctx, "pull_file", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		if err := ex.Pull(ctx, remote, local); err != nil {
			return "", err
		}
		return "Pulled device file " + remote + " to " + local, nil
	})
}

// ReadTextFile returns the head of a device text file
func (t *Toolset) ReadTextFile(ctx context.Context, deviceID, remote string) string {
	return t.dispatch(ctx, "read_text_file", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		out, err := ex.Shell(ctx, adb.Command(adb.CmdCat, adb.Args{"path": remote}))
		if err != nil {
			return "", err
		}
		return output.TruncateHead(out, t.truncateLimit()), nil
	})
}

// WriteTextFile replaces a device file with content
func (t *Toolset) WriteTextFile(ctx context.Context, deviceID, remote, content string) string {
	return t.dispatch(ctx, "write_text_file", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		if err := ex.PushBytes(ctx, []byte(content), remote); err != nil {
			return "", err
		}
		return "Wrote content to device file: " + remote, nil
	})
}

// DeleteFile removes a device file
func (t *Toolset) DeleteFile(ctx context.Context, deviceID, remote string) string {
	return t.pathCommand(ctx, "delete_file", deviceID, adb.CmdRm, remote, "Deleted file: ")
}

// MakeDirectory creates a device directory and its parents
func (t *Toolset) MakeDirectory(ctx context.Context, deviceID, remote string) string {
	return t.pathCommand(ctx, "make_directory", deviceID, adb.CmdMkdir, remote, "Created directory: ")
}

func (t *Toolset) pathCommand(ctx context.Context, op, deviceID, tmpl, remote, msg string) string {
	return t.dispatch(ctx, op, deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		if _, err := ex.Shell(ctx, adb.Command(tmpl, adb.Args{"path": remote})); err != nil {
			return "", err
		}
		return msg + remote, nil
	})
}

// DownloadFile returns a device file as a data URI typed by its extension
func (t *Toolset) DownloadFile(ctx context.Context, deviceID, remote string) string {
	return t.dispatch(ctx, "download_file", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		data, err := ex.PullBytes(ctx, remote, path.Ext(remote))
		if err != nil {
			return "", err
		}
		return output.DataURI(output.MimeType(remote), data), nil
	})
}
