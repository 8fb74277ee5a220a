package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/citelink/internal/reconcile"
)

// terminalUI implements the sync engine's decision points on stderr/stdin.
// With assumeYes set, every prompt resolves without input: changes are
// confirmed, orphans are kept, and local apply continues past remote
// failures.
type terminalUI struct {
	assumeYes bool
	in        *bufio.Reader
}

func newTerminalUI(assumeYes bool) *terminalUI {
	return &terminalUI{assumeYes: assumeYes, in: bufio.NewReader(os.Stdin)}
}

func (u *terminalUI) readLine() (string, bool) {
	line, err := u.in.ReadString('\n')
	if err != nil {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(line)), true
}

func (u *terminalUI) ResolveOrphans(orphans []reconcile.Orphan) (reconcile.OrphanChoice, bool) {
	if u.assumeYes {
		return reconcile.OrphanKeep, true
	}

	fmt.Fprintf(os.Stderr, "%d citation(s) are flagged as synced but have no remote claim:\n", len(orphans))
	for _, o := range orphans {
		fmt.Fprintf(os.Stderr, "  %s -> %s  %s\n", o.SourceKey, o.TargetQID, truncateString(o.Title, ListTitleMaxLen))
	}
	fmt.Fprint(os.Stderr, "[k]eep locally, [r]emove locally, [u]pload to remote, [c]ancel? ")

	for {
		line, ok := u.readLine()
		if !ok {
			return 0, false
		}
		switch line {
		case "k", "keep":
			return reconcile.OrphanKeep, true
		case "r", "remove":
			return reconcile.OrphanRemove, true
		case "u", "upload":
			return reconcile.OrphanUpload, true
		case "c", "cancel", "q":
			return 0, false
		}
		fmt.Fprint(os.Stderr, "please answer k, r, u, or c: ")
	}
}

func (u *terminalUI) Confirm(summary reconcile.Summary) bool {
	if u.assumeYes {
		return true
	}

	fmt.Fprintf(os.Stderr, "Local:  +%d  ~%d  flag %d  unflag %d  -%d\n",
		summary.LocalAdd, summary.LocalModify, summary.LocalFlag,
		summary.LocalUnflag, summary.LocalDelete)
	fmt.Fprintf(os.Stderr, "Remote: +%d  ~%d\n", summary.RemoteAdd, summary.RemoteModify)
	if summary.Invalid > 0 {
		fmt.Fprintf(os.Stderr, "Invalid assertions skipped: %d\n", summary.Invalid)
	}
	fmt.Fprint(os.Stderr, "Apply these changes? [y/N] ")

	line, ok := u.readLine()
	return ok && (line == "y" || line == "yes")
}

func (u *terminalUI) ContinueLocalAfterRemoteFailure(failed int) bool {
	if u.assumeYes {
		return true
	}

	fmt.Fprintf(os.Stderr, "%d entity edit(s) failed remotely. Apply local changes anyway? [y/N] ", failed)
	line, ok := u.readLine()
	return ok && (line == "y" || line == "yes")
}
