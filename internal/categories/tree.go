// Package categories manages the chart of categories (plano de contas), a
// code-based tree whose leaves classify entries and map onto DRE lines.
package categories

import (
	"sort"

	"github.com/jcfinanceiro/jcfinanceiro/internal/id"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

// Tree provides in-memory lookup over the chart of categories.
type Tree struct {
	categories []model.Category
	byID       map[string]model.Category
	byCode     map[string]model.Category
	children   map[string][]string
}

// NewTree indexes cats. Categories are kept sorted by code.
func NewTree(cats []model.Category) *Tree {
	sorted := make([]model.Category, len(cats))
	copy(sorted, cats)
	sort.Slice(sorted, func(i, j int) bool { return codeLess(sorted[i].Code, sorted[j].Code) })

	t := &Tree{
		categories: sorted,
		byID:       make(map[string]model.Category, len(cats)),
		byCode:     make(map[string]model.Category, len(cats)),
		children:   make(map[string][]string),
	}
	for _, c := range sorted {
		t.byID[c.ID] = c
		t.byCode[c.Code] = c
		t.children[c.ParentID] = append(t.children[c.ParentID], c.ID)
	}
	return t
}

// All returns every category sorted by code.
func (t *Tree) All() []model.Category {
	return t.categories
}

// Get returns a category by ID.
func (t *Tree) Get(catID string) (model.Category, bool) {
	c, ok := t.byID[catID]
	return c, ok
}

// Exists reports whether a category ID exists.
func (t *Tree) Exists(catID string) bool {
	_, ok := t.byID[catID]
	return ok
}

// ByCode returns a category by code.
func (t *Tree) ByCode(code string) (model.Category, bool) {
	c, ok := t.byCode[code]
	return c, ok
}

// Children returns the direct children of catID. An empty catID lists the roots.
func (t *Tree) Children(catID string) []model.Category {
	ids := t.children[catID]
	out := make([]model.Category, 0, len(ids))
	for _, cid := range ids {
		out = append(out, t.byID[cid])
	}
	return out
}

// HasChildren reports whether catID has at least one child.
func (t *Tree) HasChildren(catID string) bool {
	return len(t.children[catID]) > 0
}

// Path returns the chain from the root down to catID, inclusive.
func (t *Tree) Path(catID string) []model.Category {
	var path []model.Category
	seen := make(map[string]bool)
	for c, ok := t.byID[catID]; ok && !seen[c.ID]; c, ok = t.byID[c.ParentID] {
		seen[c.ID] = true
		path = append([]model.Category{c}, path...)
	}
	return path
}

// Leaves returns the categories without children.
func (t *Tree) Leaves() []model.Category {
	var out []model.Category
	for _, c := range t.categories {
		if !t.HasChildren(c.ID) {
			out = append(out, c)
		}
	}
	return out
}

// ByType returns all categories of the given type.
func (t *Tree) ByType(ct model.CategoryType) []model.Category {
	var out []model.Category
	for _, c := range t.categories {
		if c.Type == ct {
			out = append(out, c)
		}
	}
	return out
}

// ByDREGroup returns the categories mapped to g.
func (t *Tree) ByDREGroup(g model.DREGroup) []model.Category {
	var out []model.Category
	for _, c := range t.categories {
		if c.DREGroup == g {
			out = append(out, c)
		}
	}
	return out
}

// GroupOf returns the DRE group of catID, inherited from the nearest ancestor
// when the category itself is mapped to none.
func (t *Tree) GroupOf(catID string) model.DREGroup {
	path := t.Path(catID)
	for i := len(path) - 1; i >= 0; i-- {
		if g := path[i].DREGroup; g != "" && g != model.DRENone {
			return g
		}
	}
	return model.DRENone
}

// Node is a category with its subtree, for rendering.
type Node struct {
	model.Category
	Children []Node `json:"children"`
}

// Nodes returns the forest rooted at the top-level categories.
func (t *Tree) Nodes() []Node {
	return t.nodes("")
}

func (t *Tree) nodes(parentID string) []Node {
	kids := t.Children(parentID)
	out := make([]Node, 0, len(kids))
	for _, c := range kids {
		out = append(out, Node{Category: c, Children: t.nodes(c.ID)})
	}
	return out
}

// codeLess orders "1.2" before "1.10" and parents before children.
func codeLess(a, b string) bool {
	sa, errA := id.ParseCode(a)
	sb, errB := id.ParseCode(b)
	if errA != nil || errB != nil {
		return a < b
	}
	for i := 0; i < len(sa) && i < len(sb); i++ {
		if sa[i] != sb[i] {
			return sa[i] < sb[i]
		}
	}
	return len(sa) < len(sb)
}
