package services

// UnitOptions lists the selling units offered in the quote form.
var UnitOptions = []string{
	"Unidad",
	"Caja",
	"Display",
	"Pack",
	"Bidón",
	"Saco",
	"Kg",
	"Litro",
	"Rollo",
	"Fardo",
}

// ValidityOptions lists the quote validity presets, in days.
var ValidityOptions = []int{7, 15, 30, 60}

// PaymentTermsOptions lists the usual payment conditions.
var PaymentTermsOptions = []string{
	"Contado",
	"Transferencia anticipada",
	"Crédito 30 días",
	"Crédito 45 días",
	"Crédito 60 días",
}

// CommissionOptions lists the base commission presets of the evaluation
// form, in percent.
var CommissionOptions = []float64{2, 3, 4, 5}
