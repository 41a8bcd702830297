package categories

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/jcfinanceiro/jcfinanceiro/internal/id"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/textutil"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

// Store is the persistence the categories service needs.
type Store interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id string) (model.Category, error)
	CreateCategory(ctx context.Context, c model.Category) error
	CreateCategories(ctx context.Context, cats []model.Category) error
	UpdateCategory(ctx context.Context, c model.Category) error
	DeleteCategory(ctx context.Context, id string) error
	CategoryUsage(ctx context.Context, id string) (int, error)
}

// Service provides business logic for the chart of categories.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a categories Service.
func NewService(st Store, logger *zap.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// Params holds the editable fields of a category. The parent is derived
// from the code: "3.1.02" hangs under "3.1".
type Params struct {
	Code     string
	Name     string
	Type     model.CategoryType
	DREGroup model.DREGroup
	Active   bool
}

// Tree loads the whole chart.
func (s *Service) Tree(ctx context.Context) (*Tree, error) {
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return NewTree(cats), nil
}

// Validate checks p against the chart in tree. selfID is the category being
// updated, or "" on create.
func Validate(tree *Tree, selfID string, p Params) (parentID string, err error) {
	var errs validation.Errors
	code := strings.TrimSpace(p.Code)

	segments, perr := id.ParseCode(code)
	switch {
	case perr != nil:
		errs.Add("code", "código inválido: %q", p.Code)
	case id.FormatCode(segments) != code:
		errs.Add("code", "código deve estar no formato %s", id.FormatCode(segments))
	default:
		if other, ok := tree.ByCode(code); ok && other.ID != selfID {
			errs.Add("code", "código %s já está em uso por %s", code, other.Name)
		}
	}
	if strings.TrimSpace(p.Name) == "" {
		errs.Add("name", "nome é obrigatório")
	}
	if !p.Type.Valid() {
		errs.Add("type", "tipo inválido: %q", p.Type)
	}
	group := p.DREGroup
	if group == "" {
		group = model.DRENone
	}
	if !group.Valid() {
		errs.Add("dre_group", "grupo do DRE inválido: %q", p.DREGroup)
	} else if gt := group.CategoryType(); gt != "" && p.Type.Valid() && gt != p.Type {
		errs.Add("dre_group", "grupo %s não é compatível com categoria do tipo %s", group, p.Type)
	}

	if perr == nil {
		if pc := id.ParentCode(code); pc != "" {
			parent, ok := tree.ByCode(pc)
			switch {
			case !ok:
				errs.Add("code", "categoria pai %s não existe", pc)
			case parent.ID == selfID:
				errs.Add("code", "categoria não pode ser pai de si mesma")
			case p.Type.Valid() && parent.Type != p.Type:
				errs.Add("type", "tipo deve ser igual ao da categoria pai (%s)", parent.Type)
			default:
				parentID = parent.ID
			}
		}
	}
	return parentID, errs.Err()
}

// Create validates and stores a new category.
func (s *Service) Create(ctx context.Context, p Params) (model.Category, error) {
	tree, err := s.Tree(ctx)
	if err != nil {
		return model.Category{}, err
	}
	parentID, err := Validate(tree, "", p)
	if err != nil {
		return model.Category{}, err
	}
	c := build(p, parentID)
	c.ID = id.New()
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return model.Category{}, err
	}
	return c, nil
}

// Update replaces the editable fields of a category. A category with
// children cannot change its code or type.
func (s *Service) Update(ctx context.Context, catID string, p Params) (model.Category, error) {
	tree, err := s.Tree(ctx)
	if err != nil {
		return model.Category{}, err
	}
	current, ok := tree.Get(catID)
	if !ok {
		return model.Category{}, store.ErrNotFound
	}
	parentID, err := Validate(tree, catID, p)
	if err != nil {
		return model.Category{}, err
	}
	if tree.HasChildren(catID) && (strings.TrimSpace(p.Code) != current.Code || p.Type != current.Type) {
		var errs validation.Errors
		errs.Add("code", "categoria com subcategorias não pode mudar de código ou tipo")
		return model.Category{}, errs
	}
	c := build(p, parentID)
	c.ID = catID
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return model.Category{}, err
	}
	return c, nil
}

func build(p Params, parentID string) model.Category {
	group := p.DREGroup
	if group == "" {
		group = model.DRENone
	}
	return model.Category{
		Code:     strings.TrimSpace(p.Code),
		Name:     strings.TrimSpace(p.Name),
		Type:     p.Type,
		ParentID: parentID,
		DREGroup: group,
		Active:   p.Active,
	}
}

// Delete removes a category without children and not used by any entry or sale.
func (s *Service) Delete(ctx context.Context, catID string) error {
	tree, err := s.Tree(ctx)
	if err != nil {
		return err
	}
	if !tree.Exists(catID) {
		return store.ErrNotFound
	}
	if tree.HasChildren(catID) {
		return fmt.Errorf("%w: category has subcategories", store.ErrConflict)
	}
	n, err := s.store.CategoryUsage(ctx, catID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: category is used by %d records", store.ErrConflict, n)
	}
	return s.store.DeleteCategory(ctx, catID)
}

// Seed stores cats (from DefaultChart or a CSV) into an empty or partial
// chart. Codes already present are skipped; parents are resolved by code.
// It returns how many categories were added.
func (s *Service) Seed(ctx context.Context, cats []model.Category) (int, error) {
	tree, err := s.Tree(ctx)
	if err != nil {
		return 0, err
	}
	ordered := NewTree(cats).All()

	idsByCode := make(map[string]string)
	for _, c := range tree.All() {
		idsByCode[c.Code] = c.ID
	}
	var toAdd []model.Category
	for _, c := range ordered {
		if _, exists := idsByCode[c.Code]; exists {
			continue
		}
		if pc := id.ParentCode(c.Code); pc != "" {
			parentID, ok := idsByCode[pc]
			if !ok {
				return 0, fmt.Errorf("category %s: parent %s not found", c.Code, pc)
			}
			c.ParentID = parentID
		}
		c.ID = id.New()
		idsByCode[c.Code] = c.ID
		toAdd = append(toAdd, c)
	}
	if len(toAdd) == 0 {
		return 0, nil
	}
	if err := s.store.CreateCategories(ctx, toAdd); err != nil {
		return 0, err
	}
	s.logger.Info("categories seeded", zap.Int("count", len(toAdd)))
	return len(toAdd), nil
}

// Import reads a chart CSV and seeds it.
func (s *Service) Import(ctx context.Context, r io.Reader) (int, error) {
	cats, err := ReadCategories(r)
	if err != nil {
		return 0, err
	}
	return s.Seed(ctx, cats)
}

// Export writes the chart as CSV.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	tree, err := s.Tree(ctx)
	if err != nil {
		return err
	}
	return WriteCategories(w, tree.All())
}

// Suggest returns the active leaf category of type ct whose name best
// matches text.
func (s *Service) Suggest(ctx context.Context, text string, ct model.CategoryType) (model.Category, bool, error) {
	tree, err := s.Tree(ctx)
	if err != nil {
		return model.Category{}, false, err
	}
	var (
		candidates []model.Category
		names      []string
	)
	for _, c := range tree.Leaves() {
		if c.Active && (ct == "" || c.Type == ct) {
			candidates = append(candidates, c)
			names = append(names, c.Name)
		}
	}
	i := textutil.NewMatcher(names).Closest(text)
	if i < 0 {
		return model.Category{}, false, nil
	}
	return candidates[i], true, nil
}
