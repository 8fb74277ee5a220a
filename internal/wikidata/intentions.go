package wikidata

// intentionQIDs maps local CiTO intention names to their Wikidata items.
// This covers the subset of the CiTO vocabulary modeled on Wikidata; tags
// outside the table simply do not travel to the remote.
var intentionQIDs = map[string]string{
	"citesAsEvidence":           "Q106394178",
	"citesAsDataSource":         "Q106394122",
	"citesAsRecommendedReading": "Q106394222",
	"citesForInformation":       "Q106394306",
	"disagreesWith":             "Q106394352",
	"agreesWith":                "Q106394151",
	"usesMethodIn":              "Q106394433",
	"usesDataFrom":              "Q106394408",
	"obtainsBackgroundFrom":     "Q106394502",
	"updates":                   "Q106394541",
}

var intentionNames = map[string]string{}

func init() {
	for name, qid := range intentionQIDs {
		intentionNames[qid] = name
	}
}

// IntentionQID translates a local intention name to its Wikidata item, or
// "" when the name is not modeled.
func IntentionQID(name string) string {
	return intentionQIDs[name]
}

// IntentionName translates a Wikidata intention item back to the local
// name, or "" when unknown.
func IntentionName(qid string) string {
	return intentionNames[qid]
}

// TranslateIntentions maps local intention names to Wikidata items,
// dropping names with no mapping.
func TranslateIntentions(names []string) []string {
	var out []string
	for _, name := range names {
		if qid := intentionQIDs[name]; qid != "" {
			out = append(out, qid)
		}
	}
	return out
}

// TranslateIntentionQIDs maps Wikidata intention items to local names,
// dropping unknown items.
func TranslateIntentionQIDs(qids []string) []string {
	var out []string
	for _, qid := range qids {
		if name := intentionNames[qid]; name != "" {
			out = append(out, name)
		}
	}
	return out
}
