// Package navigation names the admin pages the product form can send the user to.
package navigation

import (
	"fmt"
	"sync"
)

// Page identifies an admin page.
type Page string

const (
	AdminProducts      Page = "admin_products"
	AdminProductCreate Page = "admin_product_create"
	AdminProductEdit   Page = "admin_product_edit"
)

var paths = map[Page]string{
	AdminProducts:      "/admin/products",
	AdminProductCreate: "/admin/products/create",
	AdminProductEdit:   "/admin/products/edit",
}

// Path returns the URL path of page, or "/" for unknown pages.
func Path(page Page) string {
	if p, ok := paths[page]; ok {
		return p
	}
	return "/"
}

// EditPath returns the edit page of a single product.
func EditPath(productID int64) string {
	return fmt.Sprintf("%s/%d", paths[AdminProductEdit], productID)
}

// Recorder is a Navigator that remembers the last requested page, so an HTTP
// handler can turn it into a redirect.
type Recorder struct {
	mu     sync.Mutex
	target string
}

// NavigateTo records page as the redirect target.
func (r *Recorder) NavigateTo(page Page) {
	r.mu.Lock()
	r.target = Path(page)
	r.mu.Unlock()
}

// Target returns the recorded path and whether any navigation happened.
func (r *Recorder) Target() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target, r.target != ""
}

// Reset forgets the recorded target.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.target = ""
	r.mu.Unlock()
}
