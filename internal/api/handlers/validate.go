package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jcfinanceiro/jcfinanceiro/internal/api/responses"
	"github.com/jcfinanceiro/jcfinanceiro/internal/document"
	"github.com/jcfinanceiro/jcfinanceiro/internal/money"
)

type DocumentRequest struct {
	Document string `json:"document"`
}

// ValidateDocument checks a CPF or CNPJ and returns it normalized.
func ValidateDocument(c *gin.Context) {
	var req DocumentRequest
	if !bind(c, &req) {
		return
	}
	digits, typ, err := document.Normalize(req.Document)
	if err != nil {
		responses.Success(c, gin.H{"valid": false, "reason": documentReason(err)}, "")
		return
	}
	responses.Success(c, gin.H{
		"valid":     true,
		"type":      typ,
		"digits":    digits,
		"formatted": document.Format(digits),
	}, "")
}

func documentReason(err error) string {
	switch {
	case errors.Is(err, document.ErrInvalidCPF):
		return "CPF inválido"
	case errors.Is(err, document.ErrInvalidCNPJ):
		return "CNPJ inválido"
	default:
		return "o documento deve ter 11 (CPF) ou 14 (CNPJ) dígitos"
	}
}

type AmountRequest struct {
	Amount string `json:"amount"`
}

// ValidateAmount parses a BRL amount as typed by a user.
func ValidateAmount(c *gin.Context) {
	var req AmountRequest
	if !bind(c, &req) {
		return
	}
	d, err := money.ParseBRL(req.Amount)
	if err != nil {
		responses.Success(c, gin.H{"valid": false, "reason": "valor inválido"}, "")
		return
	}
	responses.Success(c, gin.H{
		"valid":     d.IsPositive(),
		"value":     d,
		"formatted": money.FormatBRL(d),
	}, "")
}
