// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/ik5/audconv/pipeline"
)

type styles struct {
	kinds    map[pipeline.StatusKind]lipgloss.Style
	progress lipgloss.Style
}

// newStyles renders for w, so colors are dropped when w is not a terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)

	return styles{
		kinds: map[pipeline.StatusKind]lipgloss.Style{
			pipeline.StatusInfo:    r.NewStyle().Foreground(lipgloss.Color("#6e7681")),
			pipeline.StatusSuccess: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f")),
			pipeline.StatusError:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5f5f")),
		},
		progress: r.NewStyle().Foreground(lipgloss.Color("#00afff")),
	}
}

func (s styles) render(st pipeline.Status) string {
	return s.kinds[st.Kind].Render(st.Text)
}

// printer writes session events as status lines. Progress is printed in
// steps of ten percent.
type printer struct {
	w      io.Writer
	styles styles

	mu   sync.Mutex
	last pipeline.Status
	step int
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w, styles: newStyles(w), step: -1}
}

func (p *printer) event(e pipeline.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if e.Status != p.last {
		p.last = e.Status
		fmt.Fprintln(p.w, p.styles.render(e.Status))
	}

	if e.State != pipeline.StateEncoding {
		p.step = -1
		return
	}

	if step := int(e.Progress) / 10; step > p.step {
		p.step = step
		fmt.Fprintln(p.w, p.styles.progress.Render(fmt.Sprintf("  %3d%%", step*10)))
	}
}

func (p *printer) saved(path string, size int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.w, p.styles.render(pipeline.Status{
		Text: fmt.Sprintf("Saved %s (%s)", path, humanize.IBytes(uint64(size))),
		Kind: pipeline.StatusSuccess,
	}))
}
