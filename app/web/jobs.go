package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/jobtrack/app/store"
)

// handleListJobs returns all jobs
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.store.List(r.Context())
	if err != nil {
		s.writeServerError(w, r, err, "failed to load jobs")
		return
	}
	log.Printf("[DEBUG] fetching all jobs, count: %d", len(jobs))
	s.writeJSON(w, http.StatusOK, toAPIJobs(jobs))
}

// handleCreateJob adds a new job. Missing required fields are reported by the store as 500.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	job, err := s.store.Create(r.Context(), req.toStore())
	if err != nil {
		s.writeServerError(w, r, err, "failed to create job")
		return
	}
	log.Printf("[INFO] created job %d, %s/%s", job.ID, job.Company, job.Position)
	s.writeJSON(w, http.StatusOK, toAPIJob(job))
}

// handleGetJob returns a single job
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := s.jobID(w, r)
	if !ok {
		return
	}

	job, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load job")
		return
	}
	s.writeJSON(w, http.StatusOK, toAPIJob(job))
}

// handleUpdateJob changes only the fields present in the body
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	id, ok := s.jobID(w, r)
	if !ok {
		return
	}

	var req UpdateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	job, err := s.store.Update(r.Context(), id, req.toStore())
	if err != nil {
		s.writeStoreError(w, r, err, "failed to update job")
		return
	}
	log.Printf("[DEBUG] updated job %d", id)
	s.writeJSON(w, http.StatusOK, toAPIJob(job))
}

// handleDeleteJob removes a job, responds with empty 204
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, ok := s.jobID(w, r)
	if !ok {
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeStoreError(w, r, err, "failed to delete job")
		return
	}
	log.Printf("[INFO] deleted job %d", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePreflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// jobID parses {id} path value. Non-integer ids don't match any job, so respond with 404.
func (s *Server) jobID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeJSONError(w, http.StatusNotFound, "job not found")
		return 0, false
	}
	return id, true
}

// writeStoreError maps store.ErrNotFound to 404, anything else to 500
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if errors.Is(err, store.ErrNotFound) {
		s.writeJSONError(w, http.StatusNotFound, "job not found")
		return
	}
	s.writeServerError(w, r, err, message)
}
