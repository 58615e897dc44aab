package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("teacher")
	require.NoError(t, err)
	assert.Equal(t, RoleTeacher, r)

	r, err = ParseRole(" STUDENT ")
	require.NoError(t, err)
	assert.Equal(t, RoleStudent, r)

	_, err = ParseRole("ADMIN")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRole_JSON(t *testing.T) {
	raw, err := json.Marshal(struct {
		Role Role `json:"role"`
	}{RoleTeacher})
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"TEACHER"}`, string(raw))

	var in struct {
		Role Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"role":"student"}`), &in))
	assert.Equal(t, RoleStudent, in.Role)

	assert.Error(t, json.Unmarshal([]byte(`{"role":"ADMIN"}`), &in))

	_, err = json.Marshal(struct{ R Role }{Role(7)})
	assert.Error(t, err)
}
