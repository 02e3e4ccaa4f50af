// Package inventory is the read-only item view used when creating loans.
package inventory

import (
	"context"
	"strings"
	"sync"

	"inventaris_admin/models"
	"inventaris_admin/session"
)

type ItemSource interface {
	ListItems(ctx context.Context, token string) ([]models.Item, error)
}

// Reference pulls items on every List and remembers, per client, which ids
// the last listing offered.
type Reference struct {
	src  ItemSource
	auth session.Checker

	mu       sync.Mutex
	selected map[string]selection
}

type selection struct {
	ids  map[int64]struct{}
	sess *session.Session
}

func NewReference(src ItemSource, auth session.Checker) *Reference {
	return &Reference{src: src, auth: auth, selected: make(map[string]selection)}
}

func (r *Reference) List(ctx context.Context, sess *session.Session) ([]models.Item, error) {
	if err := session.Require(r.auth, sess); err != nil {
		return nil, err
	}
	items, err := r.src.ListItems(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	ids := make(map[int64]struct{}, len(items))
	for _, it := range items {
		ids[it.ID] = struct{}{}
	}
	r.mu.Lock()
	r.prune()
	r.selected[sess.ClientID] = selection{ids: ids, sess: sess}
	r.mu.Unlock()
	return items, nil
}

// Contains checks itemID against the client's last listing.
// known is false when the client has not listed items yet.
func (r *Reference) Contains(clientID string, itemID int64) (ok, known bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sel, known := r.selected[clientID]
	if !known {
		return false, false
	}
	_, ok = sel.ids[itemID]
	return ok, true
}

// Forget drops the client's selection, e.g. on logout.
func (r *Reference) Forget(clientID string) {
	r.mu.Lock()
	delete(r.selected, clientID)
	r.mu.Unlock()
}

// prune drops selections whose session has expired. r.mu must be held.
func (r *Reference) prune() {
	for cid, sel := range r.selected {
		if !r.auth.IsValid(sel.sess) {
			delete(r.selected, cid)
		}
	}
}

// Len reports how many clients have a selection.
func (r *Reference) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.selected)
}

// ImageURL resolves path_img: absolute URLs pass through, others hang off base.
func ImageURL(base, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
