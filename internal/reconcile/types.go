// Package reconcile implements the citation synchronization engine: it
// diffs local citation lists against remote cites-work claims, classifies
// every discrepancy, resolves orphans through a user decision, and applies
// the resulting mutations remote-first under batch semantics.
package reconcile

import (
	"context"
	"errors"

	"github.com/matsen/citelink/internal/citation"
	"github.com/matsen/citelink/internal/record"
	"github.com/matsen/citelink/internal/wikidata"
)

// ErrNoMatchingCitation indicates the apply phase could not find a citation
// the diff phase proved must exist. This is an invariant violation, not a
// user-recoverable condition.
var ErrNoMatchingCitation = errors.New("no matching citation for planned action")

// Remote is the knowledge-base surface the engine consumes.
type Remote interface {
	CitesWorkClaims(ctx context.Context, qids []string) (map[string][]wikidata.CitesWorkClaim, error)
	Entities(ctx context.Context, qids []string) (map[string]*record.Item, error)
	SubmitClaims(ctx context.Context, edits map[string][]wikidata.CitesWorkClaim) (map[string]wikidata.SubmitResult, error)
}

// Batch is the scoped-mutation guard over one source record.
type Batch interface {
	Item() *record.Item
	Citations() []*citation.Citation
	SetCitations([]*citation.Citation)
	AddCitation(*citation.Citation)
	RemoveCitation(int)
	Suppress()
	End() error
}

// Library is the local store surface the engine consumes. It includes the
// projection queries needed to build a matcher over the library.
type Library interface {
	Item(key string) (*record.Item, error)
	Citations(source *record.Item) ([]*citation.Citation, []citation.Quarantined, error)
	BeginBatch(key string) (Batch, error)

	FieldValues(field string, scope []string) (map[string]string, error)
	Titles(scope []string) (map[string]string, error)
	Creators(scope []string) (map[string][]record.Creator, error)
	Dates(scope []string) (map[string]string, error)
}

// OrphanChoice is the user's resolution for orphaned citations.
type OrphanChoice int

const (
	// OrphanKeep keeps the citations locally, dropping the stale remote
	// assertion.
	OrphanKeep OrphanChoice = iota
	// OrphanRemove deletes the citations locally.
	OrphanRemove
	// OrphanUpload re-queues the citations as remote additions.
	OrphanUpload
)

// Orphan is a local citation whose remote assertion is no longer backed by
// a remote claim.
type Orphan struct {
	SourceKey string
	TargetQID string
	Title     string
}

// UI is the set of user decision points. Every method that returns a bool
// reports ok=false for cancellation.
type UI interface {
	// ResolveOrphans presents the three-way orphan choice.
	ResolveOrphans(orphans []Orphan) (OrphanChoice, bool)
	// Confirm presents the full change tally before any mutation.
	Confirm(summary Summary) bool
	// ContinueLocalAfterRemoteFailure asks whether to apply pending local
	// changes although some entities failed remotely.
	ContinueLocalAfterRemoteFailure(failed int) bool
}

// Summary tallies every planned action, presented before mutation.
type Summary struct {
	LocalAdd     int `json:"local_add"`
	LocalModify  int `json:"local_modify"`
	LocalFlag    int `json:"local_flag"`
	LocalUnflag  int `json:"local_unflag"`
	LocalDelete  int `json:"local_delete"`
	RemoteAdd    int `json:"remote_add"`
	RemoteModify int `json:"remote_modify"`

	// Invalid counts citations skipped because their remote assertion does
	// not recompute; the user must fix the underlying inconsistency.
	Invalid int `json:"invalid"`
	// Unclassified counts citations without a target entity identifier.
	Unclassified int `json:"unclassified"`
	// ExcludedNoQID lists input records without an entity identifier.
	ExcludedNoQID []string `json:"excluded_no_qid,omitempty"`
}

// Result is the outcome of one sync invocation.
type Result struct {
	Cancelled bool    `json:"cancelled,omitempty"`
	UpToDate  bool    `json:"up_to_date,omitempty"`
	Summary   Summary `json:"summary"`

	// RemoteResults maps entity -> submit outcome.
	RemoteResults map[string]wikidata.SubmitResult `json:"remote_results,omitempty"`
	// RemoteFailed is set when every submitted entity failed.
	RemoteFailed bool `json:"remote_failed,omitempty"`
	// LocalSkipped is set when the user declined local apply after a
	// partial remote failure.
	LocalSkipped bool `json:"local_skipped,omitempty"`

	// LocalUpdated lists records whose citation lists were saved.
	LocalUpdated []string `json:"local_updated,omitempty"`
	// Unsupported counts remote targets whose entity type has no local
	// schema mapping; they are skipped, not failed.
	Unsupported int `json:"unsupported,omitempty"`
}

// tagUpdate is one planned local intention change.
type tagUpdate struct {
	TargetQID  string
	Intentions []string // local CiTO names
}

// plan accumulates every planned action for one source record. Keeping all
// buckets on one struct prevents the aliasing that separate top-level
// multimaps invite.
type plan struct {
	sourceKey string
	qid       string

	localAdd    []wikidata.CitesWorkClaim
	localModify []tagUpdate
	localFlag   []string // target QIDs
	localUnflag []string
	localDelete []string

	remoteAdd    []wikidata.CitesWorkClaim
	remoteModify []wikidata.CitesWorkClaim

	orphans []orphanRef

	invalid      int
	unclassified int
}

// orphanRef points at one orphaned citation within its record.
type orphanRef struct {
	targetQID  string
	title      string
	intentions []string // remote intention QIDs, for re-upload
}

func (p *plan) needsLocal() bool {
	return len(p.localAdd)+len(p.localModify)+len(p.localFlag)+
		len(p.localUnflag)+len(p.localDelete) > 0
}

func (p *plan) hasRemoteAdd(targetQID string) bool {
	for _, c := range p.remoteAdd {
		if c.Value == targetQID {
			return true
		}
	}
	return false
}

func (p *plan) needsRemote() bool {
	return len(p.remoteAdd)+len(p.remoteModify) > 0
}

func (p *plan) addToSummary(s *Summary) {
	s.LocalAdd += len(p.localAdd)
	s.LocalModify += len(p.localModify)
	s.LocalFlag += len(p.localFlag)
	s.LocalUnflag += len(p.localUnflag)
	s.LocalDelete += len(p.localDelete)
	s.RemoteAdd += len(p.remoteAdd)
	s.RemoteModify += len(p.remoteModify)
	s.Invalid += p.invalid
	s.Unclassified += p.unclassified
}
