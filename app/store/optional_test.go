package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional_UnmarshalJSON(t *testing.T) {
	var req struct {
		Notes    Optional[string] `json:"notes"`
		Status   Optional[string] `json:"status"`
		Referral Optional[bool]   `json:"referral"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"notes": null, "referral": true}`), &req))

	assert.True(t, req.Notes.Set)
	assert.True(t, req.Notes.Null)
	assert.False(t, req.Notes.Present())
	assert.Nil(t, req.Notes.Ptr())

	assert.False(t, req.Status.Set, "absent key")
	assert.False(t, req.Status.Present())

	assert.True(t, req.Referral.Present())
	require.NotNil(t, req.Referral.Ptr())
	assert.True(t, *req.Referral.Ptr())

	err := json.Unmarshal([]byte(`{"referral": "yes"}`), &req)
	require.Error(t, err)
}

func TestOptional_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Optional[string] `json:"a"`
		B Optional[string] `json:"b"`
		C Optional[int]    `json:"c"`
	}{A: Some("x"), B: Null[string]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"x","b":null,"c":null}`, string(data))
}
