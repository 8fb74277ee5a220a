package reconcile

import (
	"context"
	"fmt"

	"github.com/matsen/citelink/internal/citation"
	"github.com/matsen/citelink/internal/matcher"
	"github.com/matsen/citelink/internal/record"
	"github.com/matsen/citelink/internal/wikidata"
)

// applyRemote submits every queued remote edit grouped by entity. On each
// per-entity success it immediately flags the just-uploaded local citations
// so a re-run stays idempotent even if the local pass is interrupted.
// Returns whether the local pass should proceed.
func (e *Engine) applyRemote(ctx context.Context, plans map[string]*plan, result *Result) (bool, error) {
	edits := make(map[string][]wikidata.CitesWorkClaim)
	for _, p := range plans {
		if !p.needsRemote() {
			continue
		}
		edits[p.qid] = append(append([]wikidata.CitesWorkClaim{}, p.remoteAdd...), p.remoteModify...)
	}
	if len(edits) == 0 {
		return true, nil
	}

	results, err := e.Remote.SubmitClaims(ctx, edits)
	if err != nil {
		return false, fmt.Errorf("submitting claims: %w", err)
	}
	result.RemoteResults = results

	okCount, failed, cancelled := 0, 0, false
	for _, res := range results {
		switch res {
		case wikidata.ResultOK:
			okCount++
		case wikidata.ResultCancelled:
			cancelled = true
		default:
			failed++
		}
	}

	// Flag uploads per successful entity right away.
	for _, p := range plans {
		if results[p.qid] != wikidata.ResultOK || len(p.remoteAdd) == 0 {
			continue
		}
		if err := e.flagUploaded(p); err != nil {
			return false, err
		}
		result.LocalUpdated = appendUnique(result.LocalUpdated, p.sourceKey)
	}

	if cancelled {
		// A cancelled login aborts everything beyond the per-entity edits
		// already reflected in the results map.
		result.Cancelled = true
		return false, nil
	}
	if okCount == 0 && failed > 0 {
		result.RemoteFailed = true
		return false, nil
	}
	if failed > 0 && !e.UI.ContinueLocalAfterRemoteFailure(failed) {
		result.LocalSkipped = true
		return false, nil
	}
	return true, nil
}

// flagUploaded assigns a freshly encoded assertion to each citation whose
// claim was just accepted remotely.
func (e *Engine) flagUploaded(p *plan) error {
	targets := make(map[string]bool, len(p.remoteAdd))
	for _, claim := range p.remoteAdd {
		targets[claim.Value] = true
	}

	b, err := e.Library.BeginBatch(p.sourceKey)
	if err != nil {
		return err
	}
	flagged := false
	for _, c := range b.Citations() {
		if targets[c.TargetQID()] {
			if err := c.AddOCI(b.Item(), remoteSupplier); err != nil {
				b.Suppress()
				b.End()
				return fmt.Errorf("flagging %s -> %s: %w", p.sourceKey, c.TargetQID(), err)
			}
			flagged = true
		}
	}
	if !flagged {
		b.Suppress()
	}
	return b.End()
}

// applyLocal performs the queued local mutations, one batch per record.
func (e *Engine) applyLocal(ctx context.Context, plans map[string]*plan, result *Result) error {
	// One batched metadata fetch covers every citation the local pass
	// creates.
	var wanted []string
	seen := make(map[string]bool)
	for _, p := range plans {
		for _, claim := range p.localAdd {
			if !seen[claim.Value] {
				seen[claim.Value] = true
				wanted = append(wanted, claim.Value)
			}
		}
	}
	entities := map[string]*record.Item{}
	if len(wanted) > 0 {
		var err error
		entities, err = e.Remote.Entities(ctx, wanted)
		if err != nil {
			return fmt.Errorf("fetching cited entities: %w", err)
		}
	}

	// A fresh matcher per invocation: the index must not outlive library
	// mutations.
	m := matcher.New()
	if err := m.Init(e.Library, nil); err != nil {
		return fmt.Errorf("building matcher: %w", err)
	}

	for _, p := range plans {
		if !p.needsLocal() {
			continue
		}
		b, err := e.Library.BeginBatch(p.sourceKey)
		if err != nil {
			return err
		}
		if err := e.applyRecord(b, p, entities, m, result); err != nil {
			b.Suppress()
			b.End()
			return err
		}
		if err := b.End(); err != nil {
			return err
		}
		result.LocalUpdated = appendUnique(result.LocalUpdated, p.sourceKey)
	}
	return nil
}

// applyRecord executes one record's planned local actions inside its batch.
func (e *Engine) applyRecord(b Batch, p *plan, entities map[string]*record.Item, m *matcher.Matcher, result *Result) error {
	source := b.Item()

	// Creates first: remote claims with no local counterpart.
	for _, claim := range p.localAdd {
		target := entities[claim.Value]
		if target == nil {
			// No local schema mapping for this entity type; skipped, not
			// failed.
			result.Unsupported++
			continue
		}
		targetCopy := *target
		c := citation.New(source, &targetCopy)
		c.Intentions = wikidata.TranslateIntentionQIDs(claim.Intentions)
		if err := c.AddOCI(source, remoteSupplier); err != nil {
			return fmt.Errorf("asserting new citation %s -> %s: %w", source.Key, claim.Value, err)
		}
		e.autoLink(b, c, m)
		b.AddCitation(c)
	}

	for _, update := range p.localModify {
		if n := forEachByTarget(b, update.TargetQID, func(c *citation.Citation) error {
			c.Intentions = update.Intentions
			return nil
		}); n == 0 {
			return fmt.Errorf("%w: modify %s -> %s", ErrNoMatchingCitation, source.Key, update.TargetQID)
		}
	}

	for _, target := range p.localFlag {
		n := 0
		for _, c := range b.Citations() {
			if c.TargetQID() == target && c.GetOCI(remoteSupplier) == nil {
				if err := c.AddOCI(source, remoteSupplier); err != nil {
					return fmt.Errorf("flagging %s -> %s: %w", source.Key, target, err)
				}
				n++
			}
		}
		if n == 0 {
			return fmt.Errorf("%w: flag %s -> %s", ErrNoMatchingCitation, source.Key, target)
		}
	}

	for _, target := range p.localUnflag {
		if n := forEachByTarget(b, target, func(c *citation.Citation) error {
			c.RemoveOCI(remoteSupplier)
			return nil
		}); n == 0 {
			return fmt.Errorf("%w: unflag %s -> %s", ErrNoMatchingCitation, source.Key, target)
		}
	}

	// Deletes last, by descending index so earlier removals don't shift
	// later ones.
	for _, target := range p.localDelete {
		var indices []int
		for i, c := range b.Citations() {
			if c.TargetQID() == target {
				indices = append(indices, i)
			}
		}
		if len(indices) == 0 {
			return fmt.Errorf("%w: delete %s -> %s", ErrNoMatchingCitation, source.Key, target)
		}
		for i := len(indices) - 1; i >= 0; i-- {
			b.RemoveCitation(indices[i])
		}
	}

	return nil
}

// autoLink points a newly created citation at an existing local record when
// the matcher finds exactly one candidate and no sibling citation already
// holds that key.
func (e *Engine) autoLink(b Batch, c *citation.Citation, m *matcher.Matcher) {
	matches, err := m.FindMatches(c.Target)
	if err != nil || len(matches) != 1 {
		return
	}
	key := matches[0]
	if key == c.SourceKey {
		return
	}
	for _, sibling := range b.Citations() {
		if sibling.LinkedKey == key {
			return
		}
	}
	c.LinkedKey = key
}

func forEachByTarget(b Batch, target string, fn func(*citation.Citation) error) int {
	n := 0
	for _, c := range b.Citations() {
		if c.TargetQID() == target {
			if err := fn(c); err == nil {
				n++
			}
		}
	}
	return n
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
