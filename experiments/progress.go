package experiments

import (
	"github.com/logrusorgru/aurora"
	"github.com/schollz/progressbar/v3"
)

// bar counts finished games. A nil bar is a no-op.
type bar progressbar.ProgressBar

func newBar(games int, description string, enabled bool) *bar {
	if !enabled {
		return nil
	}
	return (*bar)(progressbar.NewOptions(games,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        aurora.Yellow("█").String(),
			SaucerHead:    aurora.Yellow("█").String(),
			SaucerPadding: " ",
			BarStart:      "|",
			BarEnd:        "|",
		}),
	))
}

func (b *bar) Add(i int) {
	if b == nil {
		return
	}
	_ = (*progressbar.ProgressBar)(b).Add(i)
}

func (b *bar) Close() {
	if b == nil {
		return
	}
	_ = (*progressbar.ProgressBar)(b).Finish()
	_ = (*progressbar.ProgressBar)(b).Close()
}
