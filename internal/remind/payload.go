package remind

import (
	"strings"

	kit "farmbot/internal/transport"
)

const (
	payloadTitle       = "Scheduled Reminder"
	payloadDescription = "It's time to do some tasks!"
)

// BuildPayload maps a project record into a notification payload. Optional
// fields are included only when non-empty; a name-only project yields a
// minimal payload, never an error.
func BuildPayload(p Project) kit.Payload {
	// Task text is stored with literal "\n" sequences by the entry tooling.
	tasks := strings.ReplaceAll(p.Tasks, `\n`, "\n")

	fields := []struct {
		label  string
		value  string
		inline bool
	}{
		{"Project Name", p.Name, false},
		{"Tier", p.Tier, true},
		{"Cost to Farm", p.CostToFarm, true},
		{"Airdrop Status", p.AirdropStatus, true},
		{"Priority", p.Priority, true},
		{"Funding", p.Funding, true},
		{"Stage", p.Stage, true},
		{"Type", p.Type, true},
		{"Chain", p.Chain, true},
		{"Twitter Guide", p.TwitterGuide, false},
		{"Discord Link", p.DiscordLink, true},
		{"Twitter Link", p.TwitterLink, true},
		{"Tasks", tasks, false},
	}

	out := kit.Payload{
		Title:       payloadTitle,
		Description: payloadDescription,
		Thumbnail:   strings.TrimSpace(p.ImageLink),
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		out.Fields = append(out.Fields, kit.Field{Label: f.label, Value: f.value, Inline: f.inline})
	}
	return out
}
