package adb_test

import (
	"testing"

	"github.com/ctagard/adb-mcp/internal/adb"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		args adb.Args
		want string
	}{
		{
			name: "ints",
			tmpl: adb.CmdTap,
			args: adb.Args{"x": 100, "y": 200},
			want: "input tap 100 200",
		},
		{
			name: "swipe",
			tmpl: adb.CmdSwipe,
			args: adb.Args{"x1": 500, "y1": 1500, "x2": 500, "y2": 500, "duration": 300},
			want: "input swipe 500 1500 500 500 300",
		},
		{
			name: "awk braces preserved",
			tmpl: adb.CmdIPAddress,
			args: nil,
			want: "ip addr show wlan0 | grep 'inet ' | awk '{print $2}'",
		},
		{
			name: "missing argument left as is",
			tmpl: adb.CmdStartActivity,
			args: adb.Args{"package": "com.example"},
			want: "am start -n com.example/{activity}",
		},
		{
			name: "bool",
			tmpl: adb.CmdAirplaneCast,
			args: adb.Args{"state": true},
			want: "am broadcast -a android.intent.action.AIRPLANE_MODE --ez state true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adb.Command(tt.tmpl, tt.args); got != tt.want {
				t.Errorf("Command() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEscapeInputText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello", "'hello'"},
		{"hello world", "'hello%sworld'"},
		{`it's a "test"`, `'it'\''s%sa%s"test"'`},
		{"a&b;c", "'a&b;c'"},
		{"", "''"},
	}

	for _, tt := range tests {
		if got := adb.EscapeInputText(tt.in); got != tt.want {
			t.Errorf("EscapeInputText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuoteArg(t *testing.T) {
	if got := adb.QuoteArg("/sdcard/my file's.txt"); got != `'/sdcard/my file'\''s.txt'` {
		t.Errorf("QuoteArg() = %q", got)
	}
}
