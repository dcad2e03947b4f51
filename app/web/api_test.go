package web

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/jobtrack/app/store"
)

func TestToAPIJob(t *testing.T) {
	notes := "n"
	job := store.Job{ID: 5, Company: "c", Position: "p", Status: "Offer", Notes: &notes,
		DateAdded: time.Date(2024, 2, 3, 4, 5, 6, 789000, time.UTC), Referral: true}

	data, err := json.Marshal(toAPIJob(job))
	require.NoError(t, err)
	assert.Equal(t, `{"id":5,"company":"c","position":"p","status":"Offer","notes":"n",`+
		`"date_added":"2024-02-03T04:05:06.000789Z","referral":true}`, string(data))

	// stored microsecond precision survives rendering
	added, err := time.Parse(time.RFC3339Nano, *toAPIJob(job).DateAdded)
	require.NoError(t, err)
	assert.True(t, job.DateAdded.Equal(added))

	data, err = json.Marshal(toAPIJob(store.Job{ID: 6}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":6,"company":"","position":"","status":"","notes":null,"date_added":null,"referral":false}`,
		string(data))

	assert.Equal(t, []APIJob{}, toAPIJobs(nil))
}

func TestCreateJobRequest_toStore(t *testing.T) {
	var req CreateJobRequest
	require.NoError(t, json.NewDecoder(bytes.NewBufferString(`{"company":"a","referral":true}`)).Decode(&req))
	res := req.toStore()
	require.NotNil(t, res.Company)
	assert.Equal(t, "a", *res.Company)
	assert.Nil(t, res.Position)
	assert.Nil(t, res.Notes)
	assert.True(t, res.Referral)
	assert.WithinDuration(t, time.Now(), res.DateAdded, time.Second)
}

func TestUpdateJobRequest_toStore(t *testing.T) {
	var req UpdateJobRequest
	require.NoError(t, json.Unmarshal([]byte(`{"status":"Offer","notes":null}`), &req))
	res := req.toStore()
	assert.Equal(t, store.Some("Offer"), res.Status)
	assert.Equal(t, store.Null[string](), res.Notes)
	assert.False(t, res.Company.Set)
	assert.False(t, res.Referral.Set)
}

func TestRequestSchemas(t *testing.T) {
	r := jsonschema.Reflector{DoNotReference: true, RequiredFromJSONSchemaTags: true}

	crt := r.Reflect(&CreateJobRequest{})
	assert.ElementsMatch(t, []string{"company", "position", "status"}, crt.Required)

	upd := r.Reflect(&UpdateJobRequest{})
	assert.Empty(t, upd.Required)
	notes, ok := upd.Properties.Get("notes")
	require.True(t, ok)
	assert.Equal(t, "string", notes.Type)
	referral, ok := upd.Properties.Get("referral")
	require.True(t, ok)
	assert.Equal(t, "boolean", referral.Type)
}
