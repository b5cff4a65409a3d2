package msg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetMessageReplacesPlaceholders(t *testing.T) {
	got := GetMessage("relay.status.other", 418, "I'm a teapot")
	if got != "HTTP 418: I'm a teapot" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestGetMessageFormatsErrorsAndDurations(t *testing.T) {
	got := GetMessage("relay.error.timeout", 10*time.Second, errors.New("context deadline exceeded"))
	if got != "Request timed out after 10s: context deadline exceeded" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestGetMessageUnknownKey(t *testing.T) {
	if got := GetMessage("does.not.exist"); got != "Message not found: does.not.exist" {
		t.Fatalf("unexpected message %q", got)
	}
	if Exists("does.not.exist") {
		t.Fatal("expected unknown key to be missing")
	}
}

func TestStatusMessagesExist(t *testing.T) {
	for _, code := range []string{"400", "401", "403", "429", "500"} {
		if !Exists("relay.status." + code) {
			t.Fatalf("missing status message for %s", code)
		}
	}
	if Exists("relay.status.404") {
		t.Fatal("404 must fall back to the generic status message")
	}
}

func TestInitMergesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yml")
	content := "schedule:\n  stopped: \"Polling halted\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write override file: %v", err)
	}

	previous := GetMessage("schedule.stopped")
	Init(path)
	t.Cleanup(func() {
		mu.Lock()
		messages["schedule.stopped"] = previous
		mu.Unlock()
	})

	if got := GetMessage("schedule.stopped"); got != "Polling halted" {
		t.Fatalf("expected override, got %q", got)
	}
	if !Exists("relay.fetching") {
		t.Fatal("override must not drop embedded messages")
	}
}
