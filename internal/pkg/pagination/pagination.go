package pagination

import (
	"fmt"

	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/apperror"
)

// Params describes a slice of a result set as requested by the caller:
// From is a zero-based item offset, Size an optional page length.
// A nil Size means "everything from the offset onward".
type Params struct {
	From int
	Size *int
}

// Page is the validated form of Params, expressed in the limit/offset
// convention the repositories use. Limited reports whether a page
// length was requested at all.
type Page struct {
	Offset  uint64
	Limit   uint64
	Limited bool
}

// New validates (from, size) and translates them into a Page.
// Validation happens here, before any query executes: from must be
// non-negative and size, when present, strictly positive.
func New(p Params) (Page, error) {
	if p.From < 0 {
		return Page{}, apperror.Validation(fmt.Sprintf("from=%d can not be less than 0", p.From))
	}
	if p.Size != nil && *p.Size < 1 {
		return Page{}, apperror.Validation(fmt.Sprintf("size=%d must be at least 1", *p.Size))
	}

	page := Page{Offset: uint64(p.From)}
	if p.Size != nil {
		page.Limit = uint64(*p.Size)
		page.Limited = true
	}
	return page, nil
}

// Slice applies the page bounds to an in-memory result set.
// Used by fakes and by callers that assemble results before paging.
func Slice[T any](items []T, page Page) []T {
	if page.Offset >= uint64(len(items)) {
		return nil
	}
	items = items[page.Offset:]
	if page.Limited && page.Limit < uint64(len(items)) {
		items = items[:page.Limit]
	}
	return items
}
