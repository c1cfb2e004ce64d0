package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/blobtags/internal/runner"
)

// CLIProgressReporter shows batch progress as a progress bar.
type CLIProgressReporter struct {
	w       io.Writer
	bar     *progressbar.ProgressBar
	records int
}

// NewCLIProgressReporter creates a reporter drawing on w, normally stderr.
func NewCLIProgressReporter(w io.Writer) *CLIProgressReporter {
	return &CLIProgressReporter{w: w}
}

func (c *CLIProgressReporter) OnStart(totalBlobs int) {
	c.records = 0
	c.bar = progressbar.NewOptions(totalBlobs,
		progressbar.OptionSetWriter(c.w),
		progressbar.OptionSetDescription("Extracting symbols"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("blobs/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.w)
		}),
	)
}

func (c *CLIProgressReporter) OnBlobProcessed(blobPath string, records int) {
	c.records += records
	if c.bar != nil {
		c.bar.Add(1)
	}
}

func (c *CLIProgressReporter) OnComplete(stats *runner.Stats) {
	if c.bar != nil {
		c.bar.Finish()
		c.bar = nil
	}
	fmt.Fprintf(c.w, "✓ %s records from %s blobs in %.1fs\n",
		formatNumber(stats.Records), formatNumber(stats.Blobs), stats.ProcessingTime.Seconds())
}

// formatNumber adds thousands separators.
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
