package mockapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"aisdk/internal/core"
)

func (s *Server) routeFineTuning(g *echo.Group) {
	g.POST("/fine_tuning/jobs", s.createJob)
	g.GET("/fine_tuning/jobs", s.listJobs)
	g.GET("/fine_tuning/jobs/:job_id", s.getJob)
	g.POST("/fine_tuning/jobs/:job_id/cancel", s.cancelJob)
	g.GET("/fine_tuning/jobs/:job_id/events", s.listJobEvents)
}

// jobProgression is the order in which a job advances, one step per read.
var jobProgression = []core.FineTuningJobStatus{
	core.JobStatusValidatingFiles,
	core.JobStatusQueued,
	core.JobStatusRunning,
	core.JobStatusSucceeded,
}

const defaultSeed = 42

func (s *Server) createJob(c echo.Context) error {
	var opts core.FineTuningJobOptions
	var req struct {
		TrainingFile string `json:"training_file"`
		Model        string `json:"model"`
	}
	if err := readJSON(c, &opts, &req); err != nil {
		return err
	}
	if req.Model == "" {
		return invalidRequest(c, "model", "Missing required parameter: 'model'.")
	}
	if req.TrainingFile == "" {
		return invalidRequest(c, "training_file", "Missing required parameter: 'training_file'.")
	}

	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.files.get(req.TrainingFile); !ok {
		return invalidRequest(c, "training_file", "invalid training_file: %s", req.TrainingFile)
	}
	var validation *string
	if opts.ValidationFile != "" {
		if _, ok := st.files.get(opts.ValidationFile); !ok {
			return invalidRequest(c, "validation_file", "invalid validation_file: %s", opts.ValidationFile)
		}
		validation = &opts.ValidationFile
	}

	hp := core.Hyperparameters{}
	if opts.Hyperparameters != nil {
		hp = *opts.Hyperparameters
	}
	for _, v := range []*core.HyperparameterValue{&hp.NEpochs, &hp.BatchSize, &hp.LearningRateMultiplier} {
		if *v == "" {
			*v = core.HyperparameterAuto
		}
	}
	seed := defaultSeed
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	var suffix *string
	if opts.Suffix != "" {
		suffix = &opts.Suffix
	}

	job := core.FineTuningJob{
		Object:             "fine_tuning.job",
		ID:                 newID("ftjob-"),
		Model:              req.Model,
		CreatedAt:          st.now(),
		OrganizationID:     "org-mock",
		ResultFiles:        []string{},
		Status:             core.JobStatusValidatingFiles,
		ValidationFile:     validation,
		TrainingFile:       req.TrainingFile,
		Hyperparameters:    &hp,
		UserProvidedSuffix: suffix,
		Seed:               seed,
		Integrations:       opts.Integrations,
	}
	st.jobs.put(job.ID, &job)
	st.jobEvent(job.ID, "info", "Created fine-tuning job: "+job.ID)
	st.jobEvent(job.ID, "info", "Validating training file: "+job.TrainingFile)
	return c.JSON(http.StatusOK, job)
}

func (st *state) jobEvent(jobID, level, message string) {
	ev := core.FineTuningJobEvent{
		ID:        newID("ftevent-"),
		Object:    "fine_tuning.job.event",
		CreatedAt: st.now(),
		Level:     level,
		Message:   message,
		Type:      "message",
	}
	childrenOf(st.jobEvents, jobID).put(ev.ID, &ev)
}

// advance moves a job one step along jobProgression. Callers hold mu.
func (st *state) advance(job *core.FineTuningJob) {
	if job.Status.IsTerminal() {
		return
	}
	for i, status := range jobProgression[:len(jobProgression)-1] {
		if job.Status != status {
			continue
		}
		job.Status = jobProgression[i+1]
		break
	}
	switch job.Status {
	case core.JobStatusQueued:
		st.jobEvent(job.ID, "info", "Files validated, moving job to queued state")
	case core.JobStatusRunning:
		st.jobEvent(job.ID, "info", "Fine-tuning job started")
	case core.JobStatusSucceeded:
		now := st.now()
		name := fmt.Sprintf("ft:%s:org-mock::%s", job.Model, job.ID[len(job.ID)-8:])
		if job.UserProvidedSuffix != nil {
			name = fmt.Sprintf("ft:%s:org-mock:%s:%s", job.Model, *job.UserProvidedSuffix, job.ID[len(job.ID)-8:])
		}
		tokens := len(st.fileData[job.TrainingFile])
		job.FinishedAt = &now
		job.FineTunedModel = &name
		job.TrainedTokens = &tokens
		job.ResultFiles = []string{newID("file-")}
		st.jobEvent(job.ID, "info", "New fine-tuned model created: "+name)
		st.jobEvent(job.ID, "info", "The job has successfully completed")
	}
}

func (s *Server) listJobs(c echo.Context) error {
	s.state.mu.Lock()
	items := s.state.jobs.values()
	s.state.mu.Unlock()
	return listJSONNoCursor(c, items, func(j core.FineTuningJob) string { return j.ID })
}

// getJob advances the job before reporting it, so polling observes every
// status in turn.
func (s *Server) getJob(c echo.Context) error {
	id := c.Param("job_id")
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	job, ok := s.state.jobs.get(id)
	if !ok {
		return notFound(c, "fine-tuning job", id)
	}
	s.state.advance(job)
	return c.JSON(http.StatusOK, job)
}

func (s *Server) cancelJob(c echo.Context) error {
	id := c.Param("job_id")
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	job, ok := s.state.jobs.get(id)
	if !ok {
		return notFound(c, "fine-tuning job", id)
	}
	if job.Status.IsTerminal() {
		return invalidRequest(c, "", "Job has already %s.", job.Status)
	}
	now := s.state.now()
	job.Status = core.JobStatusCancelled
	job.FinishedAt = &now
	s.state.jobEvent(job.ID, "info", "Job was cancelled")
	return c.JSON(http.StatusOK, job)
}

func (s *Server) listJobEvents(c echo.Context) error {
	id := c.Param("job_id")
	s.state.mu.Lock()
	if _, ok := s.state.jobs.get(id); !ok {
		s.state.mu.Unlock()
		return notFound(c, "fine-tuning job", id)
	}
	items := childrenOf(s.state.jobEvents, id).values()
	s.state.mu.Unlock()
	return listJSONNoCursor(c, items, func(e core.FineTuningJobEvent) string { return e.ID })
}
