package categories

import "github.com/jcfinanceiro/jcfinanceiro/internal/model"

// DefaultChart returns a chart of categories for a Brazilian small business.
// IDs and parents are left empty.
func DefaultChart() []model.Category {
	inc := func(code, name string, g model.DREGroup) model.Category {
		return model.Category{Code: code, Name: name, Type: model.CategoryIncome, DREGroup: g, Active: true}
	}
	exp := func(code, name string, g model.DREGroup) model.Category {
		return model.Category{Code: code, Name: name, Type: model.CategoryExpense, DREGroup: g, Active: true}
	}
	return []model.Category{
		inc("1", "Receitas", model.DRENone),
		inc("1.1", "Receitas Operacionais", model.DREGrossRevenue),
		inc("1.1.01", "Venda de Mercadorias", model.DREGrossRevenue),
		inc("1.1.02", "Prestação de Serviços", model.DREGrossRevenue),
		inc("1.2", "Receitas Financeiras", model.DREFinancialIncome),
		inc("1.2.01", "Rendimentos de Aplicações", model.DREFinancialIncome),
		inc("1.2.02", "Juros e Multas Recebidos", model.DREFinancialIncome),
		inc("1.3", "Outras Receitas", model.DREOtherIncome),
		inc("1.3.01", "Venda de Ativo Imobilizado", model.DREOtherIncome),

		exp("2", "Deduções da Receita", model.DREDeductions),
		exp("2.1", "Impostos sobre Vendas", model.DREDeductions),
		exp("2.1.01", "Simples Nacional", model.DREDeductions),
		exp("2.1.02", "ICMS", model.DREDeductions),
		exp("2.1.03", "ISS", model.DREDeductions),
		exp("2.2", "Devoluções e Abatimentos", model.DREDeductions),

		exp("3", "Custos", model.DRECosts),
		exp("3.1", "Custo das Mercadorias Vendidas", model.DRECosts),
		exp("3.2", "Custo dos Serviços Prestados", model.DRECosts),

		exp("4", "Despesas Operacionais", model.DREOperatingExpenses),
		exp("4.1", "Despesas Administrativas", model.DREOperatingExpenses),
		exp("4.1.01", "Aluguel", model.DREOperatingExpenses),
		exp("4.1.02", "Energia Elétrica", model.DREOperatingExpenses),
		exp("4.1.03", "Água e Esgoto", model.DREOperatingExpenses),
		exp("4.1.04", "Internet e Telefone", model.DREOperatingExpenses),
		exp("4.1.05", "Contabilidade", model.DREOperatingExpenses),
		exp("4.1.06", "Material de Escritório", model.DREOperatingExpenses),
		exp("4.2", "Despesas com Pessoal", model.DREOperatingExpenses),
		exp("4.2.01", "Salários", model.DREOperatingExpenses),
		exp("4.2.02", "Pró-labore", model.DREOperatingExpenses),
		exp("4.2.03", "Encargos Sociais (INSS/FGTS)", model.DREOperatingExpenses),
		exp("4.2.04", "Benefícios", model.DREOperatingExpenses),
		exp("4.3", "Despesas Comerciais", model.DREOperatingExpenses),
		exp("4.3.01", "Marketing e Publicidade", model.DREOperatingExpenses),
		exp("4.3.02", "Comissões sobre Vendas", model.DREOperatingExpenses),
		exp("4.3.03", "Fretes", model.DREOperatingExpenses),

		exp("5", "Despesas Financeiras", model.DREFinancialExpenses),
		exp("5.1", "Tarifas Bancárias", model.DREFinancialExpenses),
		exp("5.2", "Juros e Multas Pagos", model.DREFinancialExpenses),
		exp("5.3", "Taxas de Cartão", model.DREFinancialExpenses),

		exp("6", "Outras Despesas", model.DREOtherExpenses),
		exp("6.1", "Perdas Diversas", model.DREOtherExpenses),

		exp("7", "Impostos sobre o Lucro", model.DREIncomeTax),
		exp("7.1", "IRPJ", model.DREIncomeTax),
		exp("7.2", "CSLL", model.DREIncomeTax),
	}
}
