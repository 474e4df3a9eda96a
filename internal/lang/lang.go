// Package lang provides the localized strings shipped with the bot.
package lang

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed locales/*.json
var locales embed.FS

// Strings are the user-visible phrases the bot emits outside of generated
// replies.
type Strings struct {
	HelpFooter   string `json:"help_footer"`   // default presence entry
	ReplyFailure string `json:"reply_failure"` // notice sent when a chunk cannot be delivered
	NoPermission string `json:"no_permission"`
	OwnerOnly    string `json:"owner_only"`
	Activated    string `json:"activated"`
	Deactivated  string `json:"deactivated"`
	DMEnabled    string `json:"dm_enabled"`
	DMDisabled   string `json:"dm_disabled"`
}

// Load returns the strings for a language code, falling back to English when
// the code is unknown.
func Load(code string) (Strings, error) {
	data, err := locales.ReadFile("locales/" + code + ".json")
	if err != nil {
		data, err = locales.ReadFile("locales/en.json")
		if err != nil {
			return Strings{}, fmt.Errorf("load locale: %w", err)
		}
	}

	var s Strings
	if err := json.Unmarshal(data, &s); err != nil {
		return Strings{}, fmt.Errorf("parse locale %s: %w", code, err)
	}
	return s, nil
}
