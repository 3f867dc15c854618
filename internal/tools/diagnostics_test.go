package tools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ctagard/adb-mcp/internal/adb/adbtest"
	"github.com/ctagard/adb-mcp/internal/output"
)

func TestTakeBugreport_HeadTruncated(t *testing.T) {
	report := strings.Repeat("a", 10000) + strings.Repeat("b", 500)
	dev := adbtest.NewDevice("A").Produce("bugreport >", []byte(report))
	f := newFixture(t, dev)

	got := f.ts.TakeBugreport(context.Background(), "")
	if got != strings.Repeat("a", 10000)+output.HeadMarker {
		t.Errorf("unexpected bugreport result (len %d)", len(got))
	}
	f.assertNoLocalTemp(t)
	assertNoRemoteArtifacts(t, dev)
}

func TestCollectDeviceLogs_TailTruncated(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 10500; i++ {
		b.WriteByte(byte('0' + i%10))
	}
	logs := b.String()

	dev := adbtest.NewDevice("A").On("logcat -d", logs)
	f := newFixture(t, dev)

	got := f.ts.CollectDeviceLogs(context.Background(), "", 3)
	if got != output.TailMarker+logs[500:] {
		t.Errorf("unexpected log result (len %d)", len(got))
	}

	cmds := dev.Commands()
	if len(cmds) != 2 || cmds[0] != "logcat -c" || cmds[1] != "logcat -d -v threadtime" {
		t.Errorf("unexpected commands %v", cmds)
	}
	if len(f.sleeps.waits) != 1 || f.sleeps.waits[0] != 3*time.Second {
		t.Errorf("expected a 3s collection window, got %v", f.sleeps.waits)
	}
}

func TestCollectDeviceLogs_Canceled(t *testing.T) {
	f := newFixture(t, adbtest.NewDevice("A"))
	ctx, cancel := context.WithCancel(context.Background())
	f.ts.sleep = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}

	got := f.ts.CollectDeviceLogs(ctx, "", 10)
	if !strings.HasPrefix(got, "Failed to collect device logs: ") || !strings.Contains(got, "canceled") {
		t.Errorf("unexpected result %q", got)
	}
}

func TestAnalyzePerformance(t *testing.T) {
	mem := "Applications Memory Usage (in Kilobytes):\nUptime: 1 Realtime: 1\n" +
		strings.Repeat("field ", 40)
	dev := adbtest.NewDevice("A").
		On("dumpsys meminfo", mem).
		On("top -n 1", " 1234 u0_a1 10 -10 1.2G 100M 50M S 12.0 3.1 0:01.00 com.example\n").
		On("dumpsys battery | grep level", "  level: 80\n")
	f := newFixture(t, dev)

	got := f.ts.AnalyzePerformance(context.Background(), "", "com.example", 1)
	if !strings.HasPrefix(got, "Performance analysis results:\n\n") {
		t.Fatalf("unexpected result %q", got)
	}
	if !dev.Ran("monkey -p com.example") {
		t.Error("expected app launch")
	}
	if len(f.sleeps.waits) == 0 || f.sleeps.waits[0] != LaunchSettleTime {
		t.Errorf("expected launch settle wait, got %v", f.sleeps.waits)
	}

	samples := strings.Count(got, "Time: ")
	if samples < 2 {
		t.Errorf("expected several samples in a 1s window at 10ms interval, got %d", samples)
	}
	if !strings.Contains(got, "Battery: level: 80") || !strings.Contains(got, "com.example") {
		t.Errorf("sample content missing: %q", got)
	}

	firstMem := strings.SplitN(strings.SplitN(got, "Memory summary: ", 2)[1], "\n", 2)[0]
	if n := len(strings.Fields(firstMem)); n != memSummaryFields {
		t.Errorf("expected %d memory fields, got %d", memSummaryFields, n)
	}
}

func TestAnalyzePerformance_ZeroDuration(t *testing.T) {
	dev := adbtest.NewDevice("A")
	f := newFixture(t, dev)

	got := f.ts.AnalyzePerformance(context.Background(), "", "com.example", 0)
	if got != "Performance analysis results:\n\n" {
		t.Errorf("unexpected result %q", got)
	}
	if dev.Ran("dumpsys meminfo") {
		t.Error("no samples expected for a zero window")
	}
}
