package subtitles

import "encoding/json"

type verboseJSONResponse struct {
	Language string `json:"language"`
}

func parseLanguageField(body string) (string, bool) {
	var parsed verboseJSONResponse
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return "", false
	}
	if parsed.Language == "" {
		return "", false
	}
	return parsed.Language, true
}
