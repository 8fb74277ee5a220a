package reconcile

import (
	"context"
	"fmt"

	"github.com/matsen/citelink/internal/wikidata"
)

// Engine reconciles source records against the remote knowledge base.
type Engine struct {
	Remote  Remote
	Library Library
	UI      UI
}

// Sync runs one full reconcile-then-apply pass over the given source
// records. Cancellation at the orphan or confirmation stage guarantees
// zero mutation anywhere.
func (e *Engine) Sync(ctx context.Context, keys []string) (*Result, error) {
	result := &Result{}

	// Only records with an entity identifier can be reconciled.
	var qids []string
	qidToKey := make(map[string]string)
	var synced []string
	for _, key := range keys {
		it, err := e.Library.Item(key)
		if err != nil {
			return nil, err
		}
		if it == nil {
			return nil, fmt.Errorf("item %s not found", key)
		}
		qid := it.QID()
		if qid == "" {
			result.Summary.ExcludedNoQID = append(result.Summary.ExcludedNoQID, key)
			continue
		}
		qids = append(qids, qid)
		qidToKey[qid] = key
		synced = append(synced, key)
	}
	if len(synced) == 0 {
		result.UpToDate = true
		return result, nil
	}

	// Remote ground truth for the whole batch; failure here is fatal.
	remoteClaims, err := e.Remote.CitesWorkClaims(ctx, qids)
	if err != nil {
		return nil, fmt.Errorf("fetching remote claims: %w", err)
	}

	plans := make(map[string]*plan, len(synced))
	for _, key := range synced {
		it, err := e.Library.Item(key)
		if err != nil {
			return nil, err
		}
		citations, _, err := e.Library.Citations(it)
		if err != nil {
			return nil, err
		}
		plans[key] = diffRecord(it, citations, remoteClaims[it.QID()])
	}

	if cancelled := e.resolveOrphans(plans); cancelled {
		result.Cancelled = true
		return result, nil
	}

	for _, p := range plans {
		p.addToSummary(&result.Summary)
	}

	anyLocal, anyRemote := false, false
	for _, p := range plans {
		anyLocal = anyLocal || p.needsLocal()
		anyRemote = anyRemote || p.needsRemote()
	}
	if !anyLocal && !anyRemote {
		result.UpToDate = true
		return result, nil
	}

	if !e.UI.Confirm(result.Summary) {
		result.Cancelled = true
		return result, nil
	}

	// Remote first, then local; see apply.go.
	proceedLocal, err := e.applyRemote(ctx, plans, result)
	if err != nil {
		return result, err
	}
	if !proceedLocal {
		return result, nil
	}

	if err := e.applyLocal(ctx, plans, result); err != nil {
		return result, err
	}
	return result, nil
}

// resolveOrphans collects orphans across plans, asks the user, and rewrites
// the affected buckets. Returns true on cancellation.
func (e *Engine) resolveOrphans(plans map[string]*plan) bool {
	var orphans []Orphan
	for _, p := range plans {
		for _, o := range p.orphans {
			orphans = append(orphans, Orphan{SourceKey: p.sourceKey, TargetQID: o.targetQID, Title: o.title})
		}
	}
	if len(orphans) == 0 {
		return false
	}

	choice, ok := e.UI.ResolveOrphans(orphans)
	if !ok {
		return true
	}

	for _, p := range plans {
		for _, o := range p.orphans {
			switch choice {
			case OrphanKeep:
				p.localUnflag = append(p.localUnflag, o.targetQID)
			case OrphanRemove:
				p.localDelete = append(p.localDelete, o.targetQID)
			case OrphanUpload:
				// The target may already be queued as a remote add from an
				// unasserted sibling citation; one claim per target is enough.
				if p.hasRemoteAdd(o.targetQID) {
					continue
				}
				p.remoteAdd = append(p.remoteAdd, wikidata.CitesWorkClaim{
					Value:      o.targetQID,
					Intentions: o.intentions,
				})
			}
		}
		p.orphans = nil
	}
	return false
}
