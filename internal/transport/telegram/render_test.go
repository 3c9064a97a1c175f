package telegram

import (
	"strings"
	"testing"

	kit "farmbot/internal/transport"
)

func TestRenderPayload(t *testing.T) {
	t.Parallel()
	p := kit.Payload{
		Title:       "Scheduled Reminder",
		Description: "It's time to do some tasks!",
		Fields: []kit.Field{
			{Label: "Project Name", Value: "Zeta <Chain>"},
			{Label: "Tier", Value: "S", Inline: true},
		},
	}

	got := RenderPayload(p)
	if !strings.Contains(got, "<b>Scheduled Reminder</b>") {
		t.Fatalf("missing bold title: %q", got)
	}
	if !strings.Contains(got, "Zeta &lt;Chain&gt;") {
		t.Fatalf("field value not escaped: %q", got)
	}
	if !strings.Contains(got, "<b>Tier:</b> S") {
		t.Fatalf("missing field line: %q", got)
	}
}

func TestRenderPayloadMinimal(t *testing.T) {
	t.Parallel()
	got := RenderPayload(kit.Payload{Title: "Scheduled Reminder"})
	if got != "<b>Scheduled Reminder</b>" {
		t.Fatalf("got %q", got)
	}
}
