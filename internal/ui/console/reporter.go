package console

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/dustin/go-humanize"

	"github.com/jugl/opencv-setup/internal/domain"
	"github.com/jugl/opencv-setup/internal/ports"
)

// Reporter prints pipeline progress for a human watching the terminal.
type Reporter struct {
	out   io.Writer
	theme Theme

	bar      progress.Model
	showBar  bool
	barDrawn bool
	lastPct  float64
}

type Option func(*Reporter)

// WithProgressBar enables the redrawn download bar; only useful on a terminal.
func WithProgressBar(enabled bool) Option {
	return func(r *Reporter) { r.showBar = enabled }
}

func WithTheme(t Theme) Option {
	return func(r *Reporter) { r.theme = t }
}

func NewReporter(out io.Writer, opts ...Option) *Reporter {
	r := &Reporter{
		out:     out,
		theme:   DefaultTheme(),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		lastPct: -1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.StageReporter = (*Reporter)(nil)

func (r *Reporter) StageStarted(stage domain.Stage) {
	fmt.Fprintf(r.out, "%s %s\n", r.theme.Stage.Render("==>"), stage.Title())
}

func (r *Reporter) StageFinished(stage domain.Stage, err error) {
	r.endBar()
	if err != nil {
		fmt.Fprintf(r.out, "    %s %s\n", r.theme.Failure.Render("✗"), UserMessage(err))
		return
	}
	fmt.Fprintf(r.out, "    %s %s done\n", r.theme.Success.Render("✓"), stage.Title())
}

func (r *Reporter) Transfer(written, total int64) {
	if !r.showBar || total <= 0 {
		return
	}
	pct := float64(written) / float64(total)
	if pct > 1 {
		pct = 1
	}
	// redraw at most once per percent
	if pct < 1 && pct-r.lastPct < 0.01 {
		return
	}
	r.lastPct = pct
	r.barDrawn = true
	fmt.Fprintf(r.out, "\r    %s %s / %s", r.bar.ViewAs(pct), humanize.IBytes(uint64(written)), humanize.IBytes(uint64(total)))
}

// Summary prints the outcome of a run that reached the final cleanup.
func (r *Reporter) Summary(rep domain.SetupReport) {
	if rep.Patched() {
		fmt.Fprintf(r.out, "%s OpenCV %s module ready at %s\n", r.theme.Success.Render("✓"), rep.Version, rep.ModulePath)
	} else {
		fmt.Fprintf(r.out, "%s OpenCV %s downloaded but patching failed; module directory removed\n", r.theme.Warning.Render("!"), rep.Version)
	}
	if rep.Transfer.WrittenBytes > 0 {
		fmt.Fprintf(r.out, "  %s\n", r.theme.Faint.Render(fmt.Sprintf("downloaded %s in %s", humanize.IBytes(uint64(rep.Transfer.WrittenBytes)), rep.Transfer.Duration.Round(time.Millisecond))))
	}
	if rep.RunID != "" {
		fmt.Fprintf(r.out, "  %s\n", r.theme.Faint.Render("run "+rep.RunID))
	}
}

func (r *Reporter) endBar() {
	if r.barDrawn {
		fmt.Fprintln(r.out)
		r.barDrawn = false
	}
	r.lastPct = -1
}
