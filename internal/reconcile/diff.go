package reconcile

import (
	"github.com/matsen/citelink/internal/citation"
	"github.com/matsen/citelink/internal/record"
	"github.com/matsen/citelink/internal/wikidata"
)

// remoteSupplier is the supplier whose assertions mark a citation as
// remotely confirmed.
const remoteSupplier = "wikidata"

// diffRecord classifies every discrepancy between one record's local
// citations and its remote cites-work claims into the plan's buckets.
func diffRecord(source *record.Item, citations []*citation.Citation, remote []wikidata.CitesWorkClaim) *plan {
	p := &plan{sourceKey: source.Key, qid: source.QID()}

	used := make([]bool, len(remote))
	queued := make(map[string]bool)    // targets already queued for remote-add
	accounted := make(map[string]bool) // targets consumed by invalid assertions

	findRemote := func(target string) int {
		for i, claim := range remote {
			if !used[i] && claim.Value == target {
				return i
			}
		}
		return -1
	}

	for _, c := range citations {
		c.Revalidate(source)
		assertion := c.GetOCI(remoteSupplier)
		target := c.TargetQID()

		// An assertion that does not recompute means the local state is
		// inconsistent; refuse to act on it. Its target still counts as
		// seen so no duplicate remote-add gets proposed.
		if assertion != nil && !assertion.Valid {
			p.invalid++
			for _, t := range []string{target, assertion.CitedID} {
				if t == "" {
					continue
				}
				accounted[t] = true
				if i := findRemote(t); i >= 0 {
					used[i] = true
				}
			}
			continue
		}

		// Without a target entity identifier there is nothing to compare
		// remotely.
		if target == "" {
			p.unclassified++
			continue
		}

		local := wikidata.CitesWorkClaim{
			Value:      target,
			Intentions: wikidata.TranslateIntentions(c.Intentions),
		}

		i := findRemote(target)
		if i < 0 {
			if assertion != nil {
				// The local edge claims remote existence that no longer
				// holds; the user decides its fate.
				p.orphans = append(p.orphans, orphanRef{
					targetQID:  target,
					title:      c.Target.Title,
					intentions: local.Intentions,
				})
				continue
			}
			if !queued[target] && !accounted[target] {
				p.remoteAdd = append(p.remoteAdd, local)
				queued[target] = true
			}
			continue
		}

		used[i] = true
		claim := remote[i]
		tagsEqual := local.SameIntentions(claim)

		switch {
		case assertion != nil && !tagsEqual:
			// Remote tags changed since the last sync; pull them in.
			p.localModify = append(p.localModify, tagUpdate{
				TargetQID:  target,
				Intentions: wikidata.TranslateIntentionQIDs(claim.Intentions),
			})
		case assertion == nil && !tagsEqual:
			// Local tags changed; push them out. The outgoing claim
			// inherits the remote handle and references so the edit
			// updates rather than duplicates.
			out := local
			out.ID = claim.ID
			out.References = claim.References
			p.remoteModify = append(p.remoteModify, out)
		case assertion == nil && tagsEqual:
			p.localFlag = append(p.localFlag, target)
		default:
			// Present on both sides with equal tags: already synced.
		}
	}

	// Remote claims never seen locally become local-add candidates.
	for i, claim := range remote {
		if !used[i] && claim.Value != "" {
			p.localAdd = append(p.localAdd, claim)
		}
	}

	return p
}
