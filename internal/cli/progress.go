package cli

import (
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/matzehuels/nugetviz/pkg/pipeline"
)

// lookupProgress shows feed lookups as a progress bar.
type lookupProgress struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

// newLookupProgress returns a progress bar writing to w, or nil when w is
// not a terminal.
func newLookupProgress(w io.Writer) pipeline.Progress {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return &lookupProgress{w: w}
}

func (p *lookupProgress) Start(total int) {
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription("looking up packages"),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *lookupProgress) Advance(id string, err error) {
	p.bar.Describe(id)
	_ = p.bar.Add(1)
}

func (p *lookupProgress) Finish() {
	_ = p.bar.Finish()
}
