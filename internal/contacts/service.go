// Package contacts manages suppliers, customers and payers.
package contacts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jcfinanceiro/jcfinanceiro/internal/document"
	"github.com/jcfinanceiro/jcfinanceiro/internal/id"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/textutil"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

// Store is the persistence the contacts service needs.
type Store interface {
	ListContacts(ctx context.Context, kind model.ContactKind) ([]model.Contact, error)
	GetContact(ctx context.Context, id string) (model.Contact, error)
	FindContactByDocument(ctx context.Context, kind model.ContactKind, doc string) (model.Contact, error)
	CreateContact(ctx context.Context, c model.Contact) error
	UpdateContact(ctx context.Context, c model.Contact) error
	DeleteContact(ctx context.Context, id string) error
}

// Service provides business logic for contacts.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a contacts Service.
func NewService(st Store, logger *zap.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// Params holds the editable fields of a contact.
type Params struct {
	Kind      model.ContactKind
	Name      string
	TradeName string
	Document  string
	Email     string
	Phone     string
	Notes     string
	Active    bool
}

// normalize validates p and returns the contact fields to store.
func (s *Service) normalize(ctx context.Context, selfID string, p Params) (model.Contact, error) {
	var errs validation.Errors
	c := model.Contact{
		Kind:      p.Kind,
		Name:      strings.TrimSpace(p.Name),
		TradeName: strings.TrimSpace(p.TradeName),
		Email:     strings.TrimSpace(strings.ToLower(p.Email)),
		Phone:     document.OnlyDigits(p.Phone),
		Notes:     strings.TrimSpace(p.Notes),
		Active:    p.Active,
	}
	if c.Name == "" {
		errs.Add("name", "nome é obrigatório")
	}
	if !c.Kind.Valid() {
		errs.Add("kind", "tipo de contato inválido: %q", p.Kind)
	}
	if strings.TrimSpace(p.Document) != "" {
		digits, _, err := document.Normalize(p.Document)
		switch {
		case errors.Is(err, document.ErrInvalidCPF):
			errs.Add("document", "CPF inválido")
		case errors.Is(err, document.ErrInvalidCNPJ):
			errs.Add("document", "CNPJ inválido")
		case err != nil:
			errs.Add("document", "documento deve ser um CPF ou CNPJ")
		default:
			c.Document = digits
		}
	}
	if c.Email != "" && !document.ValidEmail(c.Email) {
		errs.Add("email", "e-mail inválido")
	}
	if p.Phone != "" && !document.ValidPhone(p.Phone) {
		errs.Add("phone", "telefone deve ter DDD e 8 ou 9 dígitos")
	}

	if c.Document != "" && c.Kind.Valid() {
		other, err := s.store.FindContactByDocument(ctx, c.Kind, c.Document)
		switch {
		case err == nil && other.ID != selfID:
			return c, fmt.Errorf("%w: %s already registered as %s", store.ErrConflict, document.Format(c.Document), other.Name)
		case err != nil && !errors.Is(err, store.ErrNotFound):
			return c, fmt.Errorf("checking document: %w", err)
		}
	}
	return c, errs.Err()
}

// Create validates and stores a new contact.
func (s *Service) Create(ctx context.Context, p Params) (model.Contact, error) {
	c, err := s.normalize(ctx, "", p)
	if err != nil {
		return model.Contact{}, err
	}
	c.ID = id.New()
	if err := s.store.CreateContact(ctx, c); err != nil {
		return model.Contact{}, err
	}
	s.logger.Info("contact created", zap.String("id", c.ID), zap.String("kind", string(c.Kind)))
	return c, nil
}

// Update replaces the editable fields of a contact.
func (s *Service) Update(ctx context.Context, contactID string, p Params) (model.Contact, error) {
	if _, err := s.store.GetContact(ctx, contactID); err != nil {
		return model.Contact{}, err
	}
	c, err := s.normalize(ctx, contactID, p)
	if err != nil {
		return model.Contact{}, err
	}
	c.ID = contactID
	if err := s.store.UpdateContact(ctx, c); err != nil {
		return model.Contact{}, err
	}
	return c, nil
}

// Get returns a contact by ID.
func (s *Service) Get(ctx context.Context, contactID string) (model.Contact, error) {
	return s.store.GetContact(ctx, contactID)
}

// Delete removes a contact not referenced by entries, sales or checks.
func (s *Service) Delete(ctx context.Context, contactID string) error {
	return s.store.DeleteContact(ctx, contactID)
}

// List returns contacts of a kind, or all when kind is empty.
func (s *Service) List(ctx context.Context, kind model.ContactKind) ([]model.Contact, error) {
	return s.store.ListContacts(ctx, kind)
}

// Search matches query against name, trade name and document digits,
// ignoring case and accents.
func (s *Service) Search(ctx context.Context, query string, kind model.ContactKind) ([]model.Contact, error) {
	all, err := s.store.ListContacts(ctx, kind)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return all, nil
	}
	digits := document.OnlyDigits(query)

	result := []model.Contact{}
	for _, c := range all {
		if textutil.Contains(c.Name, query) || textutil.Contains(c.TradeName, query) ||
			(len(digits) >= 3 && strings.Contains(c.Document, digits)) {
			result = append(result, c)
		}
	}
	return result, nil
}

// Suggest returns the contact whose name or trade name best matches text,
// typically a bank statement description.
func (s *Service) Suggest(ctx context.Context, text string, kind model.ContactKind) (model.Contact, bool, error) {
	all, err := s.store.ListContacts(ctx, kind)
	if err != nil {
		return model.Contact{}, false, err
	}
	var (
		names []string
		owner []int
	)
	for i, c := range all {
		if !c.Active {
			continue
		}
		names = append(names, c.Name)
		owner = append(owner, i)
		if c.TradeName != "" {
			names = append(names, c.TradeName)
			owner = append(owner, i)
		}
	}
	i := textutil.NewMatcher(names).Closest(text)
	if i < 0 {
		return model.Contact{}, false, nil
	}
	return all[owner[i]], true, nil
}
