package hero

import (
	"net/url"

	"github.com/keyxmakerx/saga/internal/herosetup"
)

// parseForm reads the posted wizard. Row fields are posted as parallel
// lists, one value per row.
func parseForm(v url.Values) herosetup.Form {
	f := herosetup.Form{
		LocationID: v.Get("location_id"),
		Title:      v.Get("title"),
		Race:       v.Get("race"),
		Age:        v.Get("age"),
		BodyPower:  v.Get("body_power"),
		MindPower:  v.Get("mind_power"),
		WillPower:  v.Get("will_power"),
	}

	systems := v["system_system"]
	for i := range systems {
		f.Systems = append(f.Systems, herosetup.SystemRow{
			System:          systems[i],
			Level:           at(v["system_level"], i),
			ProgressPercent: at(v["system_progress"], i),
			Notes:           at(v["system_notes"], i),
		})
	}

	techniques := v["technique_system"]
	for i := range techniques {
		f.Techniques = append(f.Techniques, herosetup.TechniqueRow{
			System:    techniques[i],
			Technique: at(v["technique_technique"], i),
			Notes:     at(v["technique_notes"], i),
		})
	}
	return f
}

func at(list []string, i int) string {
	if i < len(list) {
		return list[i]
	}
	return ""
}

// apply performs a non-submitting wizard action on the form.
func apply(f herosetup.Form, action string) herosetup.Form {
	switch action {
	case actionAddSystem:
		f.Systems = append(f.Systems, herosetup.SystemRow{Level: "0", ProgressPercent: "0"})
	case actionAddTechnique:
		f.Techniques = append(f.Techniques, herosetup.TechniqueRow{})
	}
	// A technique row whose system is no longer picked starts over.
	chosen := make(map[string]bool)
	for _, row := range f.Systems {
		chosen[row.System] = true
	}
	for i, row := range f.Techniques {
		if row.System != "" && !chosen[row.System] {
			f.Techniques[i] = herosetup.TechniqueRow{Notes: row.Notes}
		}
	}
	return f
}
