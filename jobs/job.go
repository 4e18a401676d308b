package jobs

import "time"

// Status represents the lifecycle state of a conversion job
type Status string

const (
	// StatusPending means the job is queued behind the concurrency limit
	StatusPending Status = "pending"

	// StatusDownloading means the audio stream is being fetched
	StatusDownloading Status = "downloading"

	// StatusConverting means ffmpeg is encoding the MP3
	StatusConverting Status = "converting"

	// StatusCompleted means the MP3 is ready on disk
	StatusCompleted Status = "completed"

	// StatusError means the job failed
	StatusError Status = "error"
)

// IsFinished returns true once the job can no longer change state.
func (s Status) IsFinished() bool {
	return s == StatusCompleted || s == StatusError
}

// Job is a single URL-to-MP3 conversion. Fields are owned by the Manager;
// read them through Manager.GetJob which returns a copy.
type Job struct {
	ID         string
	VideoID    string
	URL        string
	Title      string
	Status     Status
	Percent    int
	OutputPath string
	OutputSize int64
	LastError  string
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time

	// settled flips after completion hooks have run; the output may not be
	// removed before then.
	settled bool
	waiters int
	done    chan struct{}
}

// Done returns a channel closed when the job reaches a finished state.
func (j *Job) Done() <-chan struct{} {
	return j.done
}
