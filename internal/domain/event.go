package domain

import "encoding/json"

// StackEvent is a captured error or log event tagged with its originating
// monitoring vendor. Payload is vendor-specific JSON kept verbatim.
type StackEvent struct {
	Name    string
	Source  Source
	Payload json.RawMessage
}

type stackEventJSON struct {
	Name    string          `json:"name"`
	Source  string          `json:"source"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SourceTag returns the wire tag of the event's source, "" when unset.
func (e StackEvent) SourceTag() string {
	if e.Source == nil {
		return ""
	}
	return e.Source.Tag()
}

// MarshalJSON writes the source as its wire tag.
func (e StackEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(stackEventJSON{
		Name:    e.Name,
		Source:  e.SourceTag(),
		Payload: e.Payload,
	})
}

// UnmarshalJSON reads the source tag into its typed variant.
func (e *StackEvent) UnmarshalJSON(data []byte) error {
	var raw stackEventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Name = raw.Name
	e.Source = ParseSource(raw.Source)
	e.Payload = raw.Payload
	return nil
}
