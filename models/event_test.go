package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEvent(t *testing.T) {
	testCases := []struct {
		name      string
		event     string
		entity    string
		operation string
		actorID   string
		data      interface{}
		wantErr   bool
	}{
		{
			name:      "Valid event",
			event:     "note.created",
			entity:    "note",
			operation: "create",
			actorID:   "user-123",
			data:      map[string]interface{}{"note_id": "abc"},
			wantErr:   false,
		},
		{
			name:    "Invalid JSON data",
			event:   "note.created",
			entity:  "note",
			data:    make(chan int),
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			event, err := NewEvent(tc.event, tc.entity, tc.operation, tc.actorID, tc.data)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, event)
			assert.Equal(t, tc.event, event.Event)
			assert.Equal(t, tc.entity, event.Entity)
			assert.Equal(t, tc.operation, event.Operation)
			assert.Equal(t, tc.actorID, event.ActorID)
			assert.Equal(t, 1, event.Version)
			assert.Equal(t, "pending", event.Status)
			assert.False(t, event.Dispatched)
			assert.Nil(t, event.DispatchedAt)

			var data map[string]interface{}
			assert.NoError(t, json.Unmarshal(event.Data, &data))
			assert.Equal(t, "abc", data["note_id"])
		})
	}
}
