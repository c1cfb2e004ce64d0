package runner

// ProgressReporter provides callbacks for reporting extraction progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnStart is called before the first blob is processed.
	OnStart(totalBlobs int)

	// OnBlobProcessed is called after each blob's records were written.
	OnBlobProcessed(blobPath string, records int)

	// OnComplete is called when every blob was processed successfully.
	OnComplete(stats *Stats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnStart(totalBlobs int)                       {}
func (n *NoOpProgressReporter) OnBlobProcessed(blobPath string, records int) {}
func (n *NoOpProgressReporter) OnComplete(stats *Stats)                      {}
