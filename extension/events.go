// events.go defines the event types for extension notifications.
//
// Events are fire-and-forget notifications sent after a transaction has
// committed. Handlers observe; they cannot veto an operation.

package extension

// EventType identifies the kind of event.
type EventType string

const (
	EventVersionUpload EventType = "version:upload"
	EventVersionDelete EventType = "version:delete"
	EventVoteCast      EventType = "vote:cast"
)

// Event is the base interface for all events.
type Event interface {
	EventType() EventType
	EventDocID() string
}

// VersionUploadEvent is fired after a version is recorded.
type VersionUploadEvent struct {
	DocID             string   `json:"doc_id"`
	Version           int      `json:"version"`
	FilePath          string   `json:"file_path"`
	HTMLPaths         []string `json:"html_paths"`
	ChangeDescription string   `json:"change_description,omitempty"`
}

func (e VersionUploadEvent) EventType() EventType { return EventVersionUpload }
func (e VersionUploadEvent) EventDocID() string   { return e.DocID }

// VersionDeleteEvent is fired after a version is deleted. DocumentRemoved
// is set when it was the last version.
type VersionDeleteEvent struct {
	DocID           string `json:"doc_id"`
	Version         int    `json:"version"`
	LatestVersion   int    `json:"latest_version"`
	DocumentRemoved bool   `json:"document_removed"`
}

func (e VersionDeleteEvent) EventType() EventType { return EventVersionDelete }
func (e VersionDeleteEvent) EventDocID() string   { return e.DocID }

// VoteEvent is fired after a vote is recorded.
type VoteEvent struct {
	DocID    string `json:"doc_id"`
	Version  int    `json:"version"`
	VoteType string `json:"vote_type"`
}

func (e VoteEvent) EventType() EventType { return EventVoteCast }
func (e VoteEvent) EventDocID() string   { return e.DocID }

// EventHandler is implemented by extensions that want to receive events.
type EventHandler interface {
	HandleEvent(ctx Context, e Event) error
}
