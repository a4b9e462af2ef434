package api

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// TagFunc tags one uploaded video, srcVideoName includes the file's extension
type TagFunc func(srcVideoName string) error

// Job states
const (
	JobRunning = "running"
	JobDone    = "done"
	JobFailed  = "failed"
)

// Job is the status of one tag run started by an upload
type Job struct {
	ID     string `json:"id"`
	Video  string `json:"video"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type jobs struct {
	mu   sync.Mutex
	byID map[string]*Job
	tag  TagFunc
}

func newJobs(tag TagFunc) *jobs {
	return &jobs{byID: make(map[string]*Job), tag: tag}
}

// start registers a job for video and runs it in the background
func (j *jobs) start(video string) Job {
	job := &Job{ID: uuid.NewString(), Video: video, Status: JobRunning}

	j.mu.Lock()
	j.byID[job.ID] = job
	snapshot := *job
	j.mu.Unlock()

	go j.run(job)
	return snapshot
}

func (j *jobs) run(job *Job) {
	err := j.tag(job.Video)

	j.mu.Lock()
	defer j.mu.Unlock()
	if err != nil {
		slog.Error("tag job failed", "job", job.ID, "video", job.Video, "error", err)
		job.Status = JobFailed
		job.Error = err.Error()
		return
	}
	slog.Info("tag job done", "job", job.ID, "video", job.Video)
	job.Status = JobDone
}

func (j *jobs) get(id string) (Job, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	job, ok := j.byID[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}
