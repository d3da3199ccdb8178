package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

type TaxType string

const (
	TaxTypeVAT  TaxType = "VAT"
	TaxTypePAYE TaxType = "PAYE"
	TaxTypeCIT  TaxType = "CIT"
	TaxTypePIT  TaxType = "PIT"
	TaxTypeCGT  TaxType = "CGT"
)

// Tasas vigentes en Nigeria: VAT 7.5%, CIT 30% (empresas grandes), CGT 10%.
const (
	vatRate = 0.075
	citRate = 0.30
	cgtRate = 0.10
)

type payeBracket struct {
	min  float64
	max  float64 // +Inf en el último tramo
	rate float64
}

// Tramos PAYE aproximados 2025.
var payeBrackets = []payeBracket{
	{0, 300_000, 0.07},
	{300_000, 600_000, 0.11},
	{600_000, 1_100_000, 0.15},
	{1_100_000, 1_600_000, 0.19},
	{1_600_000, 3_200_000, 0.21},
	{3_200_000, math.Inf(1), 0.24},
}

type BracketLine struct {
	Bracket       string  `json:"bracket"`
	TaxableAmount float64 `json:"taxable_amount"`
	Rate          float64 `json:"rate"`
	TaxAmount     float64 `json:"tax_amount"`
}

type TaxResult struct {
	TaxType       TaxType `json:"tax_type"`
	TaxableAmount float64 `json:"taxable_amount"`
	TaxAmount     float64 `json:"tax_amount"`
	NetAmount     float64 `json:"net_amount"`
	Rate          float64 `json:"rate"`
	Breakdown     any     `json:"breakdown"`
}

var (
	ErrUnsupportedTaxType = errors.New("unsupported tax type")
	ErrInvalidTaxAmount   = errors.New("amount must be non-negative")
)

// TaxService calcula impuestos nigerianos con desglose por componente.
type TaxService struct{}

func NewTaxService() *TaxService {
	return &TaxService{}
}

func (s *TaxService) Calculate(taxType TaxType, amount float64) (TaxResult, error) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return TaxResult{}, ErrInvalidTaxAmount
	}
	switch taxType {
	case TaxTypeVAT:
		return s.CalculateVAT(amount), nil
	case TaxTypePAYE:
		return s.CalculatePAYE(amount), nil
	case TaxTypeCIT:
		return s.CalculateCIT(amount), nil
	case TaxTypePIT:
		return s.CalculatePIT(amount), nil
	case TaxTypeCGT:
		return s.CalculateCGT(amount), nil
	default:
		return TaxResult{}, fmt.Errorf("%w: %s", ErrUnsupportedTaxType, taxType)
	}
}

func (s *TaxService) CalculateVAT(amount float64) TaxResult {
	taxAmount := amount * vatRate
	return TaxResult{
		TaxType:       TaxTypeVAT,
		TaxableAmount: amount,
		TaxAmount:     round2(taxAmount),
		NetAmount:     round2(amount - taxAmount),
		Rate:          vatRate * 100,
		Breakdown: map[string]float64{
			"gross_amount": amount,
			"vat_rate":     vatRate * 100,
			"vat_amount":   round2(taxAmount),
		},
	}
}

// CalculatePAYE aplica los tramos progresivos sobre el ingreso anual.
func (s *TaxService) CalculatePAYE(annualIncome float64) TaxResult {
	var totalTax float64
	var breakdown []BracketLine
	remaining := annualIncome

	for _, bracket := range payeBrackets {
		if remaining <= 0 {
			break
		}
		span := bracket.max - bracket.min
		taxable := remaining
		if !math.IsInf(bracket.max, 1) && taxable > span {
			taxable = span
		}
		taxInBracket := taxable * bracket.rate
		totalTax += taxInBracket
		breakdown = append(breakdown, BracketLine{
			Bracket:       formatBracketLabel(bracket),
			TaxableAmount: round2(taxable),
			Rate:          bracket.rate * 100,
			TaxAmount:     round2(taxInBracket),
		})
		remaining -= taxable
	}

	effectiveRate := 0.0
	if annualIncome > 0 {
		effectiveRate = totalTax / annualIncome * 100
	}
	return TaxResult{
		TaxType:       TaxTypePAYE,
		TaxableAmount: annualIncome,
		TaxAmount:     round2(totalTax),
		NetAmount:     round2(annualIncome - totalTax),
		Rate:          effectiveRate,
		Breakdown:     breakdown,
	}
}

func (s *TaxService) CalculateCIT(profit float64) TaxResult {
	taxAmount := profit * citRate
	return TaxResult{
		TaxType:       TaxTypeCIT,
		TaxableAmount: profit,
		TaxAmount:     round2(taxAmount),
		NetAmount:     round2(profit - taxAmount),
		Rate:          citRate * 100,
		Breakdown: map[string]float64{
			"profit":     profit,
			"cit_rate":   citRate * 100,
			"cit_amount": round2(taxAmount),
		},
	}
}

// CalculatePIT usa los mismos tramos que PAYE.
func (s *TaxService) CalculatePIT(annualIncome float64) TaxResult {
	result := s.CalculatePAYE(annualIncome)
	result.TaxType = TaxTypePIT
	return result
}

func (s *TaxService) CalculateCGT(gain float64) TaxResult {
	taxAmount := gain * cgtRate
	return TaxResult{
		TaxType:       TaxTypeCGT,
		TaxableAmount: gain,
		TaxAmount:     round2(taxAmount),
		NetAmount:     round2(gain - taxAmount),
		Rate:          cgtRate * 100,
		Breakdown: map[string]float64{
			"capital_gain": gain,
			"cgt_rate":     cgtRate * 100,
			"cgt_amount":   round2(taxAmount),
		},
	}
}

func formatBracketLabel(b payeBracket) string {
	if math.IsInf(b.max, 1) {
		return fmt.Sprintf("₦%s - ₦∞", formatNaira(b.min))
	}
	return fmt.Sprintf("₦%s - ₦%s", formatNaira(b.min), formatNaira(b.max))
}

// formatNaira agrupa los miles con comas: 1100000 -> "1,100,000".
func formatNaira(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	n := len(s)
	if n <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
