package remind

import "testing"

func TestBuildPayloadFull(t *testing.T) {
	t.Parallel()
	p := Project{
		ID:            7,
		Name:          "ZetaChain",
		Tier:          "S",
		CostToFarm:    "50",
		AirdropStatus: "confirmed",
		Tasks:         `bridge\nswap daily`,
		ImageLink:     "  https://example.com/logo.png ",
	}

	got := BuildPayload(p)
	if got.Title != "Scheduled Reminder" {
		t.Fatalf("Title = %q", got.Title)
	}
	if got.Thumbnail != "https://example.com/logo.png" {
		t.Fatalf("Thumbnail = %q (whitespace not trimmed?)", got.Thumbnail)
	}

	want := map[string]string{
		"Project Name":   "ZetaChain",
		"Tier":           "S",
		"Cost to Farm":   "50",
		"Airdrop Status": "confirmed",
		"Tasks":          "bridge\nswap daily",
	}
	if len(got.Fields) != len(want) {
		t.Fatalf("got %d fields, want %d: %+v", len(got.Fields), len(want), got.Fields)
	}
	for _, f := range got.Fields {
		if want[f.Label] != f.Value {
			t.Fatalf("field %q = %q, want %q", f.Label, f.Value, want[f.Label])
		}
	}
}

func TestBuildPayloadNameOnly(t *testing.T) {
	t.Parallel()
	got := BuildPayload(Project{ID: 1, Name: "Solo"})

	if len(got.Fields) != 1 || got.Fields[0].Label != "Project Name" || got.Fields[0].Value != "Solo" {
		t.Fatalf("unexpected fields: %+v", got.Fields)
	}
	if got.Thumbnail != "" {
		t.Fatalf("Thumbnail = %q, want empty", got.Thumbnail)
	}
	if got.Description == "" {
		t.Fatal("minimal payload should still carry the description line")
	}
}
