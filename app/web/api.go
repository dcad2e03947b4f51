package web

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/jobtrack/app/store"
)

// dateLayout is ISO-8601 with microseconds, as stored
const dateLayout = "2006-01-02T15:04:05.999999Z07:00"

// APIJob is the JSON representation of a job
type APIJob struct {
	ID        int64   `json:"id"`
	Company   string  `json:"company"`
	Position  string  `json:"position"`
	Status    string  `json:"status"`
	Notes     *string `json:"notes"`
	DateAdded *string `json:"date_added" jsonschema:"format=date-time"`
	Referral  bool    `json:"referral"`
}

// CreateJobRequest is the body of POST /api/jobs. Missing required fields are
// not checked here, the database rejects them.
type CreateJobRequest struct {
	Company  *string `json:"company" jsonschema:"required,maxLength=100"`
	Position *string `json:"position" jsonschema:"required,maxLength=100"`
	Status   *string `json:"status" jsonschema:"required,maxLength=50,example=Applied"`
	Notes    *string `json:"notes,omitempty"`
	Referral *bool   `json:"referral,omitempty"`
}

// UpdateJobRequest is the body of PUT /api/jobs/{id}, every field is optional
type UpdateJobRequest struct {
	Company  store.Optional[string] `json:"company" jsonschema:"maxLength=100"`
	Position store.Optional[string] `json:"position" jsonschema:"maxLength=100"`
	Status   store.Optional[string] `json:"status" jsonschema:"maxLength=50"`
	Notes    store.Optional[string] `json:"notes"`
	Referral store.Optional[bool]   `json:"referral"`
}

// toAPIJob converts store.Job to APIJob
func toAPIJob(job store.Job) APIJob {
	res := APIJob{
		ID:       job.ID,
		Company:  job.Company,
		Position: job.Position,
		Status:   job.Status,
		Notes:    job.Notes,
		Referral: job.Referral,
	}
	if !job.DateAdded.IsZero() {
		ts := job.DateAdded.UTC().Format(dateLayout)
		res.DateAdded = &ts
	}
	return res
}

func toAPIJobs(jobs []store.Job) []APIJob {
	res := make([]APIJob, 0, len(jobs))
	for _, j := range jobs {
		res = append(res, toAPIJob(j))
	}
	return res
}

func (r CreateJobRequest) toStore() store.JobCreate {
	res := store.JobCreate{
		Company:   r.Company,
		Position:  r.Position,
		Status:    r.Status,
		Notes:     r.Notes,
		DateAdded: time.Now().UTC(),
	}
	if r.Referral != nil {
		res.Referral = *r.Referral
	}
	return res
}

func (r UpdateJobRequest) toStore() store.JobUpdate {
	return store.JobUpdate{
		Company:  r.Company,
		Position: r.Position,
		Status:   r.Status,
		Notes:    r.Notes,
		Referral: r.Referral,
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[WARN] failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes a JSON error response
func (s *Server) writeJSONError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeServerError logs err and responds with 500, error details are exposed in dev mode only
func (s *Server) writeServerError(w http.ResponseWriter, r *http.Request, err error, message string) {
	log.Printf("[ERROR] %s %s: %s, %v", r.Method, r.URL.Path, message, err)
	resp := map[string]string{"error": message}
	if s.dev {
		resp["details"] = err.Error()
	}
	s.writeJSON(w, http.StatusInternalServerError, resp)
}
