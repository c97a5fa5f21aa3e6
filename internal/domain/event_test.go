package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackEvent_UnmarshalJSON(t *testing.T) {
	data := `[
		{"name":"TypeError","source":"sentry","payload":{"message":"boom"}},
		{"name":"timeout","source":"datadog","payload":{"status":"error"}},
		{"name":"oom","source":"newrelic","payload":null}
	]`

	var events []StackEvent
	require.NoError(t, json.Unmarshal([]byte(data), &events))
	require.Len(t, events, 3)

	assert.Equal(t, Sentry{}, events[0].Source)
	assert.Equal(t, "TypeError", events[0].Name)
	assert.JSONEq(t, `{"message":"boom"}`, string(events[0].Payload))

	assert.Equal(t, Datadog{}, events[1].Source)
	assert.Equal(t, Other{Name: "newrelic"}, events[2].Source)
}

func TestStackEvent_MarshalJSON(t *testing.T) {
	ev := StackEvent{
		Name:    "oom",
		Source:  Stackdriver{},
		Payload: json.RawMessage(`{"severity":"ERROR"}`),
	}

	data, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"oom","source":"stackdriver","payload":{"severity":"ERROR"}}`, string(data))
}

func TestStackEvent_SourceTagNil(t *testing.T) {
	assert.Equal(t, "", StackEvent{}.SourceTag())
}
