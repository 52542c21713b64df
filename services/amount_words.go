package services

import (
	"math"
	"strings"
)

// AmountToWords converts a peso amount to Spanish words, as printed on
// quotes. Example: 1190 → "MIL CIENTO NOVENTA PESOS".
func AmountToWords(amount float64) string {
	if amount < 0 {
		return "MENOS " + AmountToWords(-amount)
	}

	pesos := int64(math.Round(amount))

	switch {
	case pesos == 0:
		return "CERO PESOS"
	case pesos == 1:
		return "UN PESO"
	}

	words := apocopate(spanishWords(pesos))
	if pesos%1000000 == 0 {
		words += " de"
	}
	return strings.ToUpper(words + " pesos")
}

// spanishWords spells out n (n < 10^12) in lowercase Spanish.
func spanishWords(n int64) string {
	var parts []string

	if n >= 1000000 {
		millions := n / 1000000
		if millions == 1 {
			parts = append(parts, "un millón")
		} else {
			parts = append(parts, apocopate(spanishWords(millions))+" millones")
		}
		n %= 1000000
	}

	if n >= 1000 {
		thousands := n / 1000
		if thousands == 1 {
			parts = append(parts, "mil")
		} else {
			parts = append(parts, apocopate(spanishUnder1000(thousands))+" mil")
		}
		n %= 1000
	}

	if n > 0 {
		parts = append(parts, spanishUnder1000(n))
	}

	return strings.Join(parts, " ")
}

func spanishUnder1000(n int64) string {
	if n == 100 {
		return "cien"
	}
	var parts []string
	if n >= 100 {
		parts = append(parts, hundreds[n/100])
		n %= 100
	}
	if n > 0 {
		parts = append(parts, spanishUnder100(n))
	}
	return strings.Join(parts, " ")
}

func spanishUnder100(n int64) string {
	if n < 30 {
		return units[n]
	}
	result := tensWords[n/10]
	if n%10 != 0 {
		result += " y " + units[n%10]
	}
	return result
}

// apocopate shortens a trailing "uno" before a noun: "veintiuno" →
// "veintiún", "treinta y uno" → "treinta y un".
func apocopate(s string) string {
	switch {
	case strings.HasSuffix(s, "veintiuno"):
		return strings.TrimSuffix(s, "veintiuno") + "veintiún"
	case s == "uno" || strings.HasSuffix(s, " uno"):
		return strings.TrimSuffix(s, "uno") + "un"
	}
	return s
}

var units = []string{
	"", "uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho", "nueve",
	"diez", "once", "doce", "trece", "catorce", "quince", "dieciséis", "diecisiete",
	"dieciocho", "diecinueve", "veinte", "veintiuno", "veintidós", "veintitrés",
	"veinticuatro", "veinticinco", "veintiséis", "veintisiete", "veintiocho", "veintinueve",
}

var tensWords = []string{
	"", "", "", "treinta", "cuarenta", "cincuenta", "sesenta", "setenta", "ochenta", "noventa",
}

var hundreds = []string{
	"", "ciento", "doscientos", "trescientos", "cuatrocientos", "quinientos",
	"seiscientos", "setecientos", "ochocientos", "novecientos",
}
