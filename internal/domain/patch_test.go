package domain

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"
)

func cameraRules() PatchSet {
	return PatchSet{
		{
			Name:        "focus-mode-infinity",
			Marker:      "FOCUS_MODE_CONTINUOUS_VIDEO",
			Action:      PatchReplace,
			Replacement: "FOCUS_MODE_INFINITY",
		},
		{
			Name:   "camera-accessor",
			Marker: "protected boolean initializeCamera",
			Action: PatchInsertBefore,
			Line:   "    public Camera getCamera() { return this.mCamera; }",
		},
	}
}

func rewrite(t *testing.T, set PatchSet, in string) (string, PatchReport) {
	t.Helper()
	var out strings.Builder
	rep, err := set.Rewrite(strings.NewReader(in), &out)
	if err != nil {
		t.Fatalf("Rewrite error: %v", err)
	}
	return out.String(), rep
}

func TestPatchSetRewrite_NoMarkersIsIdentity(t *testing.T) {
	in := "package org.opencv.android;\r\n\nimport android.hardware.Camera;\n    // nothing here\nlast line without newline"

	out, rep := rewrite(t, cameraRules(), in)
	if out != in {
		t.Fatalf("expected byte-identical output\nin:  %q\nout: %q", in, out)
	}
	if rep.Lines != 5 {
		t.Fatalf("expected 5 lines counted, got %d", rep.Lines)
	}
	if len(rep.Hits) != 0 {
		t.Fatalf("expected no hits, got %v", rep.Hits)
	}
}

func TestPatchSetRewrite_ReplacesFocusModeOnly(t *testing.T) {
	in := "a\n" +
		"        if (FocusModes != null && FocusModes.contains(Camera.Parameters.FOCUS_MODE_CONTINUOUS_VIDEO))\n" +
		"            params.setFocusMode(Camera.Parameters.FOCUS_MODE_CONTINUOUS_VIDEO);\n" +
		"b\n"
	want := "a\n" +
		"        if (FocusModes != null && FocusModes.contains(Camera.Parameters.FOCUS_MODE_INFINITY))\n" +
		"            params.setFocusMode(Camera.Parameters.FOCUS_MODE_INFINITY);\n" +
		"b\n"

	out, rep := rewrite(t, cameraRules(), in)
	if out != want {
		t.Fatalf("unexpected output\nwant: %q\ngot:  %q", want, out)
	}
	if strings.Count(out, "\n") != strings.Count(in, "\n") {
		t.Fatalf("expected line structure to be unchanged")
	}
	if rep.Hits["focus-mode-infinity"] != 2 {
		t.Fatalf("expected 2 focus-mode hits, got %d", rep.Hits["focus-mode-infinity"])
	}
}

func TestPatchSetRewrite_InsertsAccessorBeforeSignature(t *testing.T) {
	sig := "    protected boolean initializeCamera(int width, int height) {\n"
	in := "    private Camera mCamera;\n" + sig + "        return true;\n"

	out, rep := rewrite(t, cameraRules(), in)
	lines := strings.SplitAfter(out, "\n")
	// trailing empty element from SplitAfter
	lines = lines[:len(lines)-1]

	if len(lines) != 4 {
		t.Fatalf("expected exactly one inserted line, got %d lines: %q", len(lines), out)
	}
	if lines[1] != "    public Camera getCamera() { return this.mCamera; }\n" {
		t.Fatalf("unexpected inserted line %q", lines[1])
	}
	if lines[2] != sig {
		t.Fatalf("expected matched line unchanged, got %q", lines[2])
	}
	if rep.Hits["camera-accessor"] != 1 {
		t.Fatalf("expected one accessor hit")
	}
	if missed := rep.Missed(cameraRules()); !reflect.DeepEqual(missed, []string{"focus-mode-infinity"}) {
		t.Fatalf("unexpected missed rules %v", missed)
	}
}

func TestPatchRuleApply_KeepsCRLF(t *testing.T) {
	r := cameraRules()[1]
	got := r.Apply("    protected boolean initializeCamera(int w, int h) {\r\n")
	if !strings.HasPrefix(got, "    public Camera getCamera() { return this.mCamera; }\r\n") {
		t.Fatalf("expected inserted line to reuse CRLF, got %q", got)
	}

	got = r.Apply("protected boolean initializeCamera")
	if got != r.Line+"\n"+"protected boolean initializeCamera" {
		t.Fatalf("expected LF for unterminated line, got %q", got)
	}
}

func TestPatchSetApplyLine_FirstRuleWins(t *testing.T) {
	set := PatchSet{
		{Name: "first", Marker: "X", Action: PatchReplace, Replacement: "1"},
		{Name: "second", Marker: "X", Action: PatchReplace, Replacement: "2"},
	}
	out, idx := set.ApplyLine("X X\n")
	if out != "1 1\n" || idx != 0 {
		t.Fatalf("expected first rule to win, got %q idx=%d", out, idx)
	}

	out, idx = set.ApplyLine("none\n")
	if out != "none\n" || idx != -1 {
		t.Fatalf("expected passthrough, got %q idx=%d", out, idx)
	}
}

func TestPatchSetValidate(t *testing.T) {
	if err := cameraRules().Validate(); err != nil {
		t.Fatalf("expected valid rules, got %v", err)
	}

	cases := []struct {
		name string
		set  PatchSet
	}{
		{"empty", PatchSet{}},
		{"no name", PatchSet{{Marker: "a", Action: PatchReplace, Replacement: "b"}}},
		{"no marker", PatchSet{{Name: "a", Action: PatchReplace, Replacement: "b"}}},
		{"empty replacement", PatchSet{{Name: "a", Marker: "x", Action: PatchReplace}}},
		{"same replacement", PatchSet{{Name: "a", Marker: "x", Action: PatchReplace, Replacement: "x"}}},
		{"empty insert", PatchSet{{Name: "a", Marker: "x", Action: PatchInsertBefore}}},
		{"multiline insert", PatchSet{{Name: "a", Marker: "x", Action: PatchInsertBefore, Line: "a\nb"}}},
		{"unknown action", PatchSet{{Name: "a", Marker: "x", Action: "delete"}}},
		{"duplicate", append(cameraRules(), cameraRules()[0])},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.set.Validate()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestPatchSetRewrite_ReadError(t *testing.T) {
	boom := errors.New("disk read failed")
	r := io.MultiReader(strings.NewReader("first line\n"), iotest.ErrReader(boom))

	var out strings.Builder
	rep, err := cameraRules().Rewrite(r, &out)
	if !errors.Is(err, boom) {
		t.Fatalf("expected read error, got %v", err)
	}
	if rep.Lines != 1 {
		t.Fatalf("expected lines before the failure to be counted, got %d", rep.Lines)
	}
}

func TestStageTitle(t *testing.T) {
	cases := map[Stage]string{
		StageFetch:     "Fetch",
		StageExtract:   "Extract",
		StageRelocate:  "Relocate",
		StagePatch:     "Patch",
		StageCleanup:   "Cleanup",
		Stage("other"): "other",
	}
	for stage, want := range cases {
		if got := stage.Title(); got != want {
			t.Errorf("%s.Title() = %q, want %q", stage, got, want)
		}
	}
}
