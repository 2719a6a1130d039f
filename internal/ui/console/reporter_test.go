package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jugl/opencv-setup/internal/domain"
)

func TestReporterStageLines(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.StageStarted(domain.StageFetch)
	r.StageFinished(domain.StageFetch, nil)
	r.StageStarted(domain.StageExtract)
	r.StageFinished(domain.StageExtract, &domain.OpError{Op: "ziparchive.validate", Kind: domain.KindUnsupportedLayout})

	out := buf.String()
	for _, want := range []string{"Fetch", "Fetch done", "Extract", "Unknown directory structure"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestReporterTransferWithoutBarIsSilent(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)
	r.Transfer(10, 100)
	if buf.Len() != 0 {
		t.Fatalf("expected no output without progress bar, got %q", buf.String())
	}
}

func TestReporterTransferBar(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, WithProgressBar(true))

	r.Transfer(1<<20, 4<<20)
	r.Transfer(1<<20+1, 4<<20) // below redraw threshold
	r.Transfer(4<<20, 4<<20)
	r.Transfer(10, 0) // unknown total
	r.StageFinished(domain.StageFetch, nil)

	out := buf.String()
	if n := strings.Count(out, "\r"); n != 2 {
		t.Fatalf("expected 2 redraws, got %d:\n%q", n, out)
	}
	if !strings.Contains(out, "4.0 MiB / 4.0 MiB") {
		t.Fatalf("expected humanized sizes, got %q", out)
	}
	if !strings.Contains(out, "100%") {
		t.Fatalf("expected completed percentage, got %q", out)
	}
	if !strings.Contains(out, "\n    ") {
		t.Fatalf("expected bar line to be terminated before stage result, got %q", out)
	}
}

func TestReporterSummary(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.Summary(domain.SetupReport{RunID: "run-1", Version: "4.1.2", ModulePath: "opencv", Transfer: domain.Transfer{WrittenBytes: 2048}})
	out := buf.String()
	if !strings.Contains(out, "module ready at opencv") || !strings.Contains(out, "run-1") || !strings.Contains(out, "2.0 KiB") {
		t.Fatalf("unexpected summary:\n%s", out)
	}

	buf.Reset()
	r.Summary(domain.SetupReport{Version: "4.1.2", PatchErr: errors.New("disk full")})
	if !strings.Contains(buf.String(), "patching failed") {
		t.Fatalf("expected patch failure summary, got:\n%s", buf.String())
	}
}

func TestUserMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{errors.New("boom"), "Unexpected error (see logs)"},
		{&domain.OpError{Kind: domain.KindMissingDependency}, "System root certificates are not available"},
		{&domain.OpError{Kind: domain.KindTransfer, Err: errors.New("reset")}, "Failed to download OpenCV"},
		{&domain.OpError{Kind: domain.KindTransfer, Err: fmt.Errorf("get: %w", context.Canceled)}, "Download interrupted"},
		{&domain.OpError{Kind: domain.KindMalformedArchive}, "Downloaded archive is damaged or not a zip file"},
		{&domain.OpError{Kind: domain.KindNotFound, Path: "/w/OpenCV-android-sdk/sdk"}, "Not found: sdk"},
		{&domain.OpError{Kind: domain.KindRelocate, Err: domain.ErrAlreadyExists}, "Module directory already exists, remove it to set up again"},
		{&domain.OpError{Kind: domain.KindPatch}, "Couldn't apply patches"},
	}
	for _, c := range cases {
		if got := UserMessage(c.err); got != c.want {
			t.Errorf("UserMessage(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}
