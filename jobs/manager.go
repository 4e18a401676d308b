package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"yttmp3/cache"
	"yttmp3/config"
	"yttmp3/convert"
)

// ErrTooLarge means the converted MP3 exceeded the output size cap.
var ErrTooLarge = errors.New("converted file exceeds maximum size")

// AudioDownloader fetches the best audio stream for a URL into the work
// directory. Implemented by youtube.Extractor.
type AudioDownloader interface {
	DownloadAudio(ctx context.Context, url string, progress func(percent float64)) (string, error)
}

// EncodeFunc transcodes a downloaded stream into an MP3. Implemented by
// convert.EncodeMP3.
type EncodeFunc func(inputPath, outputPath, title, artist string) error

// Manager runs conversions with bounded parallelism and tracks their
// lifecycle. A second request for a video already converting joins the
// existing job instead of starting another download.
type Manager struct {
	downloader AudioDownloader
	encode     EncodeFunc
	progress   cache.ProgressStore
	workDir    string

	mu     sync.Mutex
	jobs   map[string]*Job
	sem    chan struct{}
	onDone []func(Job)
}

// NewManager creates a Manager. maxParallel bounds concurrent conversions.
func NewManager(downloader AudioDownloader, encode EncodeFunc, progress cache.ProgressStore, workDir string, maxParallel int) *Manager {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Manager{
		downloader: downloader,
		encode:     encode,
		progress:   progress,
		workDir:    workDir,
		jobs:       make(map[string]*Job),
		sem:        make(chan struct{}, maxParallel),
	}
}

// OnComplete registers a hook invoked after every job finishes, successfully
// or not. Hooks run before the job's Done channel closes, so archival sees
// the output file before any waiter can remove it.
func (m *Manager) OnComplete(fn func(Job)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onDone = append(m.onDone, fn)
}

// Convert starts (or joins) a conversion for a video. The returned job's Done
// channel closes when the MP3 is ready or the job failed. Every caller must
// Release the job once done with its output; the file stays on disk until the
// last waiter has released it.
func (m *Manager) Convert(videoID, url, title string) *Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Join an in-flight job for the same video rather than downloading twice.
	for _, job := range m.jobs {
		if job.VideoID == videoID && !job.Status.IsFinished() {
			job.waiters++
			return job
		}
	}

	job := &Job{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		URL:       url,
		Title:     title,
		Status:    StatusPending,
		StartedAt: time.Now(),
		waiters:   1,
		done:      make(chan struct{}),
	}
	m.jobs[job.ID] = job

	go m.run(job)
	return job
}

// GetJob returns a snapshot of a job by ID.
func (m *Manager) GetJob(id string) (Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Release drops one waiter's claim on a job. When the last waiter of a
// finished job releases it, the output file is removed and the job is
// forgotten. Releasing an unknown ID is a no-op.
func (m *Manager) Release(id string) {
	m.mu.Lock()
	job, ok := m.jobs[id]
	if ok {
		job.waiters--
	}
	m.mu.Unlock()

	if ok {
		m.reap(job)
	}
}

// reap removes the output and evicts the job once it has settled and no
// waiter holds a claim on it.
func (m *Manager) reap(job *Job) {
	m.mu.Lock()
	if job.waiters > 0 || !job.settled {
		m.mu.Unlock()
		return
	}
	outputPath := job.OutputPath
	job.OutputPath = ""
	delete(m.jobs, job.ID)
	m.mu.Unlock()

	if outputPath != "" {
		os.Remove(outputPath)
	}
}

// run executes a job: acquire a slot, download, encode, enforce the size cap.
func (m *Manager) run(job *Job) {
	m.sem <- struct{}{}
	defer func() { <-m.sem }()

	ctx, cancel := context.WithTimeout(context.Background(), config.DownloadTimeout)
	defer cancel()

	m.setStatus(job, StatusDownloading)

	inputPath, err := m.downloader.DownloadAudio(ctx, job.URL, func(percent float64) {
		// Download dominates wall time; reserve the last tenth for encoding.
		m.setPercent(job, int(percent*0.9))
	})
	if err != nil {
		m.finish(job, "", 0, fmt.Errorf("download failed: %w", err))
		return
	}
	defer os.Remove(inputPath)

	m.setStatus(job, StatusConverting)
	m.setPercent(job, 90)

	outputPath := filepath.Join(m.workDir, fmt.Sprintf("%s-%s.%s",
		convert.SafeTitle(job.Title), job.ID[:8], config.AudioFormat))

	if err := m.encode(inputPath, outputPath, job.Title, ""); err != nil {
		m.finish(job, "", 0, fmt.Errorf("conversion failed: %w", err))
		return
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		m.finish(job, "", 0, fmt.Errorf("converted file missing: %w", err))
		return
	}
	if info.Size() > config.MaxOutputFileSize {
		os.Remove(outputPath)
		m.finish(job, "", 0, ErrTooLarge)
		return
	}

	m.finish(job, outputPath, info.Size(), nil)
}

func (m *Manager) setStatus(job *Job, status Status) {
	m.mu.Lock()
	job.Status = status
	m.mu.Unlock()
}

func (m *Manager) setPercent(job *Job, percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	m.mu.Lock()
	job.Percent = percent
	m.mu.Unlock()

	m.publishProgress(job, percent)
}

// publishProgress records progress under both the job ID and the video ID so
// clients that only know the video can poll the progress endpoint.
func (m *Manager) publishProgress(job *Job, percent int) {
	for _, key := range []string{job.ID, job.VideoID} {
		if err := m.progress.SetProgress(context.Background(), key, percent); err != nil {
			log.Printf("Failed to record progress for job %s: %v", job.ID, err)
		}
	}
}

func (m *Manager) finish(job *Job, outputPath string, size int64, err error) {
	m.mu.Lock()
	job.FinishedAt = time.Now()
	if err != nil {
		job.Status = StatusError
		job.LastError = err.Error()
		job.Err = err
	} else {
		job.Status = StatusCompleted
		job.OutputPath = outputPath
		job.OutputSize = size
		job.Percent = 100
	}
	snapshot := *job
	hooks := append([]func(Job){}, m.onDone...)
	m.mu.Unlock()

	m.publishProgress(job, snapshot.Percent)

	if err != nil {
		log.Printf("Job %s failed: %v", job.ID, err)
	} else {
		log.Printf("Job %s completed: %s (%d bytes)", job.ID, outputPath, size)
	}

	// Hooks run before waiters wake so the output file is fully archived by
	// the time a handler streams and releases it. A waiter that released
	// early (disconnected client) cannot trigger removal until the job
	// settles below.
	for _, fn := range hooks {
		fn(snapshot)
	}

	m.mu.Lock()
	job.settled = true
	m.mu.Unlock()

	// All waiters may have released already; without this the output would
	// never be cleaned up.
	m.reap(job)

	close(job.done)
}
