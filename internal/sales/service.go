// Package sales records sales and generates the receivables they settle into.
package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jcfinanceiro/jcfinanceiro/internal/dateutil"
	"github.com/jcfinanceiro/jcfinanceiro/internal/entries"
	"github.com/jcfinanceiro/jcfinanceiro/internal/id"
	"github.com/jcfinanceiro/jcfinanceiro/internal/installments"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/money"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/terminal"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

// MaxInstallments bounds installment sales of every method.
const MaxInstallments = terminal.MaxCardInstallments

// FirstDueDays is how long after the sale the first boleto or check
// installment falls due.
const FirstDueDays = 30

// Store is the persistence the sales service needs.
type Store interface {
	entries.References
	GetTerminal(ctx context.Context, id string) (model.Terminal, error)
	ListTerminalFees(ctx context.Context, terminalID string) ([]model.TerminalFee, error)
	CreateSaleWithEntries(ctx context.Context, s model.Sale, entries []model.Entry) error
	GetSale(ctx context.Context, id string) (model.Sale, error)
	ListSales(ctx context.Context, f store.SaleFilter) ([]model.Sale, error)
	DeleteSale(ctx context.Context, id string) error
	ListEntries(ctx context.Context, f store.EntryFilter) ([]model.Entry, error)
}

// Service provides business logic for sales.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a sales Service.
func NewService(st Store, logger *zap.Logger) *Service {
	return &Service{store: st, logger: logger, now: time.Now}
}

// Params describes a sale to record.
type Params struct {
	Date          time.Time
	ContactID     string
	Description   string
	Gross         decimal.Decimal
	Discount      decimal.Decimal
	Method        model.PaymentMethod
	Installments  int // 0 means 1
	TerminalID    string
	CardBrand     string
	CategoryID    string
	BankAccountID string
}

// Detail is a sale with the receivables it generated.
type Detail struct {
	model.Sale
	Receivables []model.Entry `json:"receivables"`
}

func (p Params) sale(now time.Time) model.Sale {
	n := p.Installments
	if n == 0 {
		n = 1
	}
	s := model.Sale{
		ID:            id.New(),
		Date:          dateutil.Day(p.Date),
		ContactID:     p.ContactID,
		Description:   strings.TrimSpace(p.Description),
		Gross:         p.Gross,
		Discount:      p.Discount,
		Method:        p.Method,
		Installments:  n,
		TerminalID:    p.TerminalID,
		CardBrand:     strings.TrimSpace(p.CardBrand),
		CategoryID:    p.CategoryID,
		BankAccountID: p.BankAccountID,
		CreatedAt:     now,
	}
	if s.Method.IsCard() {
		s.CardBrand = terminal.NormalizeBrand(s.CardBrand)
	} else {
		s.TerminalID, s.CardBrand = "", ""
	}
	return s
}

func validateFields(errs *validation.Errors, s model.Sale) {
	if s.Date.IsZero() {
		errs.Add("date", "data da venda é obrigatória")
	}
	if s.Description == "" {
		errs.Add("description", "descrição é obrigatória")
	}
	entries.ValidateAmount(errs, "gross", s.Gross)
	switch {
	case s.Discount.IsNegative():
		errs.Add("discount", "desconto não pode ser negativo")
	case !money.HasAtMostTwoPlaces(s.Discount):
		errs.Add("discount", "desconto deve ter no máximo duas casas decimais")
	case s.Discount.GreaterThan(s.Gross):
		errs.Add("discount", "desconto maior que o valor da venda")
	}
	if !s.Method.Valid() {
		errs.Add("method", "forma de pagamento inválida: %q", s.Method)
		return
	}
	switch s.Method {
	case model.MethodCredit, model.MethodBoleto, model.MethodCheck:
		if s.Installments < 1 || s.Installments > MaxInstallments {
			errs.Add("installments", "número de parcelas deve estar entre 1 e %d", MaxInstallments)
		}
	default:
		if s.Installments != 1 {
			errs.Add("installments", "pagamento em %s não é parcelado", s.Method)
		}
	}
	if s.Method.IsCard() && s.TerminalID == "" {
		errs.Add("terminal_id", "maquininha é obrigatória para pagamento com cartão")
	}
	if (s.Method == model.MethodCash || s.Method == model.MethodPix) && s.BankAccountID == "" {
		errs.Add("bank_account_id", "conta de destino é obrigatória para dinheiro e pix")
	}
}

// receivables builds the entries a sale settles into. Card receivables go to
// the terminal's bank account.
func (s *Service) receivables(ctx context.Context, errs *validation.Errors, sale model.Sale, now time.Time) ([]model.Entry, error) {
	net := sale.Net()
	if !net.IsPositive() {
		return nil, nil
	}
	base := model.Entry{
		Kind:           model.EntryReceivable,
		CompetenceDate: sale.Date,
		Status:         model.StatusPending,
		PaidAmount:     decimal.Zero,
		ContactID:      sale.ContactID,
		CategoryID:     sale.CategoryID,
		BankAccountID:  sale.BankAccountID,
		SaleID:         sale.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	switch sale.Method {
	case model.MethodCash, model.MethodPix:
		e := base
		e.ID = id.New()
		e.Description = sale.Description
		e.Amount = net
		e.DueDate = sale.Date
		e.Status = model.StatusPaid
		paidAt := sale.Date
		e.PaidAt = &paidAt
		e.PaidAmount = net
		return []model.Entry{e}, nil

	case model.MethodDebit, model.MethodCredit:
		term, err := s.store.GetTerminal(ctx, sale.TerminalID)
		if errors.Is(err, store.ErrNotFound) {
			errs.Add("terminal_id", "maquininha não encontrada")
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("looking up terminal: %w", err)
		}
		fees, err := s.store.ListTerminalFees(ctx, term.ID)
		if err != nil {
			return nil, fmt.Errorf("loading terminal fees: %w", err)
		}
		settlements, err := terminal.Expected(sale, terminal.FeeTable(fees))
		if err != nil {
			errs.Add("terminal_id", "maquininha %s sem taxa para %s %s em %dx", term.Name, sale.Method, sale.CardBrand, sale.Installments)
			return nil, nil
		}
		out := make([]model.Entry, len(settlements))
		for i, st := range settlements {
			e := base
			e.ID = id.New()
			e.Description = label(sale.Description, st.Installment, st.Of)
			e.Amount = st.Net
			e.DueDate = st.Date
			e.BankAccountID = term.BankAccountID
			e.InstallmentNumber, e.InstallmentTotal = st.Installment, st.Of
			e.Notes = fmt.Sprintf("bruto %s, taxa %s", money.FormatBRL(st.Gross), money.FormatBRL(st.Fee))
			out[i] = e
		}
		return out, nil

	default:
		insts := installments.Generate(installments.Plan{
			Total:    net,
			Count:    sale.Installments,
			FirstDue: sale.Date.AddDate(0, 0, FirstDueDays),
		})
		out := make([]model.Entry, len(insts))
		for i, inst := range insts {
			e := base
			e.ID = id.New()
			e.Description = label(sale.Description, inst.Number, len(insts))
			e.Amount = inst.Amount
			e.DueDate = inst.DueDate
			e.InstallmentNumber, e.InstallmentTotal = inst.Number, len(insts)
			out[i] = e
		}
		return out, nil
	}
}

// checkReceivables rejects sales whose fees or split leave an installment
// at zero or below.
func checkReceivables(errs *validation.Errors, sale model.Sale, recs []model.Entry) {
	for _, r := range recs {
		if r.Amount.IsPositive() {
			continue
		}
		if sale.Method.IsCard() {
			errs.Add("terminal_id", "taxas da maquininha superam o valor da parcela %s", id.InstallmentLabel(r.InstallmentNumber, r.InstallmentTotal))
		} else {
			errs.Add("installments", "valor da parcela deve ser maior que zero; reduza o número de parcelas")
		}
		return
	}
}

func label(desc string, n, total int) string {
	if total <= 1 {
		return desc
	}
	return fmt.Sprintf("%s (%s)", desc, id.InstallmentLabel(n, total))
}

// Create validates a sale, generates its receivables and stores everything
// in one transaction.
func (s *Service) Create(ctx context.Context, p Params) (Detail, error) {
	now := s.now()
	sale := p.sale(now)

	var errs validation.Errors
	validateFields(&errs, sale)
	probe := model.Entry{Kind: model.EntryReceivable, ContactID: sale.ContactID, CategoryID: sale.CategoryID, BankAccountID: sale.BankAccountID}
	if err := entries.ValidateReferences(ctx, s.store, &errs, probe); err != nil {
		return Detail{}, err
	}
	if err := errs.Err(); err != nil {
		return Detail{}, err
	}

	recs, err := s.receivables(ctx, &errs, sale, now)
	if err != nil {
		return Detail{}, err
	}
	checkReceivables(&errs, sale, recs)
	if err := errs.Err(); err != nil {
		return Detail{}, err
	}
	for i := range recs {
		recs[i].Status = recs[i].StatusAt(dateutil.Day(now))
	}

	if err := s.store.CreateSaleWithEntries(ctx, sale, recs); err != nil {
		return Detail{}, fmt.Errorf("storing sale: %w", err)
	}
	s.logger.Info("sale created",
		zap.String("id", sale.ID),
		zap.String("method", string(sale.Method)),
		zap.String("net", sale.Net().StringFixed(2)),
		zap.Int("receivables", len(recs)))
	return Detail{Sale: sale, Receivables: recs}, nil
}

// Get returns a sale with its receivables.
func (s *Service) Get(ctx context.Context, saleID string) (Detail, error) {
	sale, err := s.store.GetSale(ctx, saleID)
	if err != nil {
		return Detail{}, err
	}
	recs, err := s.store.ListEntries(ctx, store.EntryFilter{SaleID: saleID})
	if err != nil {
		return Detail{}, err
	}
	return Detail{Sale: sale, Receivables: recs}, nil
}

// List returns sales matching f.
func (s *Service) List(ctx context.Context, f store.SaleFilter) ([]model.Sale, error) {
	return s.store.ListSales(ctx, f)
}

// Delete removes a sale and its receivables. It is refused once any
// receivable has been paid, except for cash and pix sales whose single
// receivable is paid on creation.
func (s *Service) Delete(ctx context.Context, saleID string) error {
	sale, err := s.store.GetSale(ctx, saleID)
	if err != nil {
		return err
	}
	recs, err := s.store.ListEntries(ctx, store.EntryFilter{SaleID: saleID})
	if err != nil {
		return err
	}
	immediate := sale.Method == model.MethodCash || sale.Method == model.MethodPix
	for _, e := range recs {
		if e.Status == model.StatusPaid && !immediate {
			return fmt.Errorf("%w: sale %s has paid receivables", store.ErrConflict, saleID)
		}
	}
	if err := s.store.DeleteSale(ctx, saleID); err != nil {
		return err
	}
	s.logger.Info("sale deleted", zap.String("id", saleID), zap.Int("receivables", len(recs)))
	return nil
}
