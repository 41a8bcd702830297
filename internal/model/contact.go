package model

// ContactKind distinguishes suppliers from customers and payers.
type ContactKind string

const (
	ContactSupplier ContactKind = "supplier" // fornecedor
	ContactCustomer ContactKind = "customer" // cliente
	ContactPayer    ContactKind = "payer"    // pagador
)

// Valid reports whether k is a known contact kind.
func (k ContactKind) Valid() bool {
	switch k {
	case ContactSupplier, ContactCustomer, ContactPayer:
		return true
	}
	return false
}

// Contact is a supplier, customer or payer.
type Contact struct {
	ID        string      `json:"id"`
	Kind      ContactKind `json:"kind"`
	Name      string      `json:"name"`
	TradeName string      `json:"trade_name,omitempty"` // nome fantasia
	Document  string      `json:"document,omitempty"`   // CPF or CNPJ digits
	Email     string      `json:"email,omitempty"`
	Phone     string      `json:"phone,omitempty"`
	Notes     string      `json:"notes,omitempty"`
	Active    bool        `json:"active"`
}
