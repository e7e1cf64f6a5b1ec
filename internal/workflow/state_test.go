package workflow_test

import (
	"testing"

	"github.com/stemsi/school-registry/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from workflow.State
		ev   workflow.Event
		want workflow.State
	}{
		{workflow.Idle, workflow.EventSubmit, workflow.Validating},
		{workflow.Validating, workflow.EventValidationFailed, workflow.Idle},
		{workflow.Validating, workflow.EventValidationPassed, workflow.Uploading},
		{workflow.Validating, workflow.EventValidationPassedNoImage, workflow.Inserting},
		{workflow.Uploading, workflow.EventUploadSucceeded, workflow.Inserting},
		{workflow.Uploading, workflow.EventUploadFailed, workflow.Failed},
		{workflow.Inserting, workflow.EventInsertSucceeded, workflow.Succeeded},
		{workflow.Inserting, workflow.EventInsertFailed, workflow.Failed},
		{workflow.Succeeded, workflow.EventReset, workflow.Idle},
		{workflow.Failed, workflow.EventReset, workflow.Idle},
	}

	for _, tc := range cases {
		t.Run(tc.from.String()+"/"+tc.ev.String(), func(t *testing.T) {
			got, err := workflow.Transition(tc.from, tc.ev)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTransitionRejectsUnknownPairs(t *testing.T) {
	cases := []struct {
		from workflow.State
		ev   workflow.Event
	}{
		{workflow.Idle, workflow.EventUploadSucceeded},
		{workflow.Validating, workflow.EventSubmit},
		{workflow.Uploading, workflow.EventInsertSucceeded},
		{workflow.Inserting, workflow.EventUploadFailed},
		{workflow.Succeeded, workflow.EventSubmit},
		{workflow.Idle, workflow.EventReset},
	}

	for _, tc := range cases {
		got, err := workflow.Transition(tc.from, tc.ev)
		assert.ErrorIs(t, err, workflow.ErrInvalidTransition, "%s/%s", tc.from, tc.ev)
		assert.Equal(t, tc.from, got)
	}
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, workflow.Succeeded.Terminal())
	assert.True(t, workflow.Failed.Terminal())
	assert.False(t, workflow.Idle.Terminal())
	assert.False(t, workflow.Uploading.Terminal())
}
