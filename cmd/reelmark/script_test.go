package main

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reelmark/reelmark/internal/dispatcher"
	"github.com/reelmark/reelmark/internal/logging"
	"github.com/reelmark/reelmark/internal/review"
	"github.com/reelmark/reelmark/pkg/playback"
)

func TestSplitScriptLine(t *testing.T) {
	cases := []struct {
		name string
		line string
		want []string
	}{
		{"empty", "", nil},
		{"blank", "   \t ", nil},
		{"comment only", "# load the cameras", nil},
		{"plain", ":PLAY: 1", []string{":PLAY:", "1"}},
		{"quoted name", `:LOAD: cam_a.mp4 "side angle.mp4"`, []string{":LOAD:", "cam_a.mp4", `"side angle.mp4"`}},
		{"trailing comment", ":MARK: 1 # best moment", []string{":MARK:", "1"}},
		{"hash inside quotes", `:INIT: "match #3"`, []string{":INIT:", `"match #3"`}},
		{"escaped quote", `:INIT: "the ""big"" one"`, []string{":INIT:", `"the ""big"" one"`}},
		{"point list", ":DRAW: 1 [[1,2],[3,4]]", []string{":DRAW:", "1", "[[1,2],[3,4]]"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := splitScriptLine(tc.line)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("splitScriptLine(%q) = %#v, want %#v", tc.line, got, tc.want)
			}
		})
	}
}

// newScriptRuntime wires just enough of a runtime for runScript: a
// dispatcher with review handlers over synthetic streams.
func newScriptRuntime(t *testing.T) (*runtime, *review.Context) {
	t.Helper()

	d, err := dispatcher.New(logging.NewDispatcherLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("dispatcher.New: %v", err)
	}
	t.Cleanup(d.Stop)

	rc := review.NewContext("", review.Dependencies{
		Opener: &playback.SyntheticOpener{},
	})
	rc.RegisterHandlers(d)

	return &runtime{dispatcher: d, review: rc, logManager: logging.NewManager()}, rc
}

func TestRunScript(t *testing.T) {
	rt, rc := newScriptRuntime(t)

	script := strings.Join([]string{
		"# scripted review",
		`:INIT: "Scripted Review"`,
		`:LOAD: cam_a.mp4 "side angle.mp4"`,
		":PLAY:ALL:",
		":DRAW: 1 [[1,2],[3,4]]",
		":MARK: 1",
		":PAUSE:ALL:",
		"",
		":SHUTDOWN:",
		":MARK: 1", // must not run, the script ends above
	}, "\n")

	var out bytes.Buffer
	if err := runScript(rt, strings.NewReader(script), &out); err != nil {
		t.Fatalf("runScript: %v", err)
	}

	if got := rc.Info().Title; got != "Scripted Review" {
		t.Errorf("title = %q, want %q", got, "Scripted Review")
	}
	if got := rc.MarkCount(); got != 1 {
		t.Errorf("marks = %d, want 1", got)
	}
	if err := rc.Close(); err == nil {
		t.Error("review still open after :SHUTDOWN:")
	}
	if !strings.Contains(out.String(), "loaded") {
		t.Errorf("output missing load lines: %q", out.String())
	}
}

func TestRunScript_ContinuesPastErrors(t *testing.T) {
	rt, rc := newScriptRuntime(t)

	script := strings.Join([]string{
		":INIT:",
		":LOAD: cam_a.mp4",
		":MARK: 99",
		":MARK: 1",
	}, "\n")

	var out bytes.Buffer
	if err := runScript(rt, strings.NewReader(script), &out); err != nil {
		t.Fatalf("runScript: %v", err)
	}

	if got := rc.MarkCount(); got != 1 {
		t.Errorf("marks = %d, want 1 (script should continue past a bad command)", got)
	}
	if !strings.Contains(out.String(), "unknown stream") {
		t.Errorf("output missing error report: %q", out.String())
	}
}

func TestNumericColumn(t *testing.T) {
	rows := [][]string{
		{"#1 cam_a.mp4 (1.0x)", "0.00", "4", "-"},
		{"#2 cam_b.mp4 (1.5x)", "12.35", "7", "88.4"},
	}

	want := []bool{false, true, true, true}
	for col, w := range want {
		if got := numericColumn(rows, col); got != w {
			t.Errorf("numericColumn(col %d) = %v, want %v", col, got, w)
		}
	}

	if numericColumn(rows, 9) {
		t.Error("out-of-range column reported numeric")
	}
}

func TestRenderStatus(t *testing.T) {
	rt, rc := newScriptRuntime(t)

	if _, err := rt.dispatch(review.CmdInit, `"Semis"`); err != nil {
		t.Fatalf(":INIT: %v", err)
	}
	if _, err := rt.dispatch(review.CmdLoad, "cam_a.mp4"); err != nil {
		t.Fatalf(":LOAD: %v", err)
	}

	got := renderStatus(rc.Status())
	for _, want := range []string{`review "Semis"`, "cam_a.mp4", "Stream", "0 marks"} {
		if !strings.Contains(got, want) {
			t.Errorf("renderStatus output missing %q:\n%s", want, got)
		}
	}
}
