package extension

import (
	"testing"

	"github.com/spf13/cobra"
)

// testExtension is a minimal Extension implementation for testing.
type testExtension struct {
	name string
}

func (e testExtension) Name() string               { return e.name }
func (e testExtension) Commands() []*cobra.Command { return nil }
func (e testExtension) MCPTools() []MCPTool        { return nil }

func TestRegister_PanicOnDuplicate(t *testing.T) {
	// Register with a unique name for this test
	name := "test-duplicate-panic"
	Register(testExtension{name: name})

	// Registering the same name again should panic
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on duplicate registration, got none")
		}
	}()

	Register(testExtension{name: name})
}

type testHandler struct {
	testExtension
	got []Event
}

func (h *testHandler) HandleEvent(_ Context, e Event) error {
	h.got = append(h.got, e)
	return nil
}

func TestHandlers_OnlyEventHandlers(t *testing.T) {
	h := &testHandler{testExtension: testExtension{name: "test-handler"}}
	Register(h)
	Register(testExtension{name: "test-not-handler"})

	var found bool
	for _, eh := range Handlers() {
		if eh == EventHandler(h) {
			found = true
		}
	}
	if !found {
		t.Fatal("registered handler not returned by Handlers")
	}
	if Get("test-not-handler") == nil {
		t.Fatal("Get returned nil for registered extension")
	}
}

func TestEvents_TypeAndDocID(t *testing.T) {
	cases := []struct {
		e    Event
		want EventType
	}{
		{VersionUploadEvent{DocID: "a", Version: 1}, EventVersionUpload},
		{VersionDeleteEvent{DocID: "a", Version: 1}, EventVersionDelete},
		{VoteEvent{DocID: "a", Version: 1, VoteType: "good"}, EventVoteCast},
	}
	for _, c := range cases {
		if c.e.EventType() != c.want {
			t.Errorf("EventType() = %q, want %q", c.e.EventType(), c.want)
		}
		if c.e.EventDocID() != "a" {
			t.Errorf("EventDocID() = %q, want a", c.e.EventDocID())
		}
	}
}
