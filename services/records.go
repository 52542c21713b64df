package services

import (
	"strings"

	"salesdesk/sheets"
)

// Client is one row of the clients sheet.
type Client struct {
	RUT          string
	Name         string
	BusinessLine string // giro
	Address      string
	Commune      string
	City         string
	Contact      string
	Email        string
	Phone        string
	Seller       string
}

// Product is one row of the price list.
type Product struct {
	Code        string
	Description string
	Category    string
	Unit        string
	Price       float64 // net, before IVA
	Cost        float64
	PackSize    float64
}

// SaleLine is a product line's monthly sales volume for a client.
type SaleLine struct {
	ClientRUT   string
	ProductLine string
	Quantity    float64
	UnitPrice   float64
	UnitCost    float64
	Weight      float64 // allocation weight, e.g. kilos; 0 means "use revenue"
}

// EquipmentLine is equipment lent under a comodato contract.
type EquipmentLine struct {
	ClientRUT   string
	Description string
	Quantity    float64
	UnitValue   float64
}

// Goal is a seller's monthly goal for one category.
type Goal struct {
	Seller   string
	Category string
	Goal     float64
	Actual   float64
}

// Document is an entry of the document catalog.
type Document struct {
	Title       string
	Category    string
	URL         string
	Description string
}

var (
	clientColumns = map[string][]string{
		"rut":     {"rut", "rut cliente", "rut empresa"},
		"name":    {"razon social", "nombre", "cliente", "nombre cliente"},
		"giro":    {"giro", "actividad"},
		"address": {"direccion", "domicilio"},
		"commune": {"comuna"},
		"city":    {"ciudad", "region"},
		"contact": {"contacto", "nombre contacto"},
		"email":   {"email", "correo", "e mail", "mail"},
		"phone":   {"telefono", "fono", "celular"},
		"seller":  {"vendedor", "ejecutivo", "vendedor asignado"},
	}
	productColumns = map[string][]string{
		"code":     {"codigo", "cod", "sku", "codigo producto"},
		"desc":     {"descripcion", "producto", "nombre", "detalle"},
		"category": {"categoria", "familia", "linea"},
		"unit":     {"unidad", "um", "u.m.", "formato"},
		"price":    {"precio", "precio neto", "precio lista", "valor"},
		"cost":     {"costo", "costo unitario", "costo neto"},
		"pack":     {"embalaje", "unidades por caja", "caja", "pack"},
	}
	saleColumns = map[string][]string{
		"rut":     {"rut", "rut cliente"},
		"line":    {"linea", "linea producto", "producto", "categoria", "familia"},
		"qty":     {"cantidad", "unidades", "volumen"},
		"price":   {"precio", "precio unitario", "precio neto"},
		"cost":    {"costo", "costo unitario"},
		"weight":  {"peso", "kilos", "kg", "ponderacion"},
		"revenue": {"venta", "venta neta", "total venta", "monto"},
		"costSum": {"costo total"},
	}
	equipmentColumns = map[string][]string{
		"rut":   {"rut", "rut cliente"},
		"desc":  {"equipo", "descripcion", "activo"},
		"qty":   {"cantidad", "unidades"},
		"value": {"valor unitario", "valor", "precio", "costo"},
	}
	goalColumns = map[string][]string{
		"seller":   {"vendedor", "ejecutivo"},
		"category": {"categoria", "linea", "kpi", "indicador"},
		"goal":     {"meta", "objetivo"},
		"actual":   {"real", "venta", "avance", "logrado", "actual"},
	}
	documentColumns = map[string][]string{
		"title":    {"titulo", "nombre", "documento"},
		"category": {"categoria", "tipo"},
		"url":      {"enlace", "url", "link"},
		"desc":     {"descripcion", "detalle"},
	}
)

// columnIndex resolves every alias group against the table headers.
func columnIndex(t *sheets.Table, columns map[string][]string) map[string]int {
	idx := make(map[string]int, len(columns))
	for key, aliases := range columns {
		idx[key] = t.Col(aliases...)
	}
	return idx
}

func cellText(row []string, idx map[string]int, key string) string {
	return strings.TrimSpace(sheets.Cell(row, idx[key]))
}

func cellNumber(row []string, idx map[string]int, key string) float64 {
	return sheets.ParseNumber(sheets.Cell(row, idx[key]))
}

// ClientsFromTable maps the clients sheet. Rows without a name are skipped.
func ClientsFromTable(t *sheets.Table) []Client {
	if t == nil {
		return nil
	}
	idx := columnIndex(t, clientColumns)
	var clients []Client
	for _, row := range t.Rows {
		c := Client{
			RUT:          cellText(row, idx, "rut"),
			Name:         cellText(row, idx, "name"),
			BusinessLine: cellText(row, idx, "giro"),
			Address:      cellText(row, idx, "address"),
			Commune:      cellText(row, idx, "commune"),
			City:         cellText(row, idx, "city"),
			Contact:      cellText(row, idx, "contact"),
			Email:        cellText(row, idx, "email"),
			Phone:        cellText(row, idx, "phone"),
			Seller:       cellText(row, idx, "seller"),
		}
		if c.Name == "" {
			continue
		}
		if ValidRUT(c.RUT) {
			c.RUT = FormatRUT(c.RUT)
		}
		clients = append(clients, c)
	}
	return clients
}

// ProductsFromTable maps the price list. Rows without a code and a
// description are skipped.
func ProductsFromTable(t *sheets.Table) []Product {
	if t == nil {
		return nil
	}
	idx := columnIndex(t, productColumns)
	var products []Product
	for _, row := range t.Rows {
		p := Product{
			Code:        cellText(row, idx, "code"),
			Description: cellText(row, idx, "desc"),
			Category:    cellText(row, idx, "category"),
			Unit:        cellText(row, idx, "unit"),
			Price:       cellNumber(row, idx, "price"),
			Cost:        cellNumber(row, idx, "cost"),
			PackSize:    cellNumber(row, idx, "pack"),
		}
		if p.Code == "" && p.Description == "" {
			continue
		}
		products = append(products, p)
	}
	return products
}

// SalesFromTable maps the sales sheet. When the sheet carries totals
// instead of unit values, unit price and cost are derived from them.
func SalesFromTable(t *sheets.Table) []SaleLine {
	if t == nil {
		return nil
	}
	idx := columnIndex(t, saleColumns)
	var lines []SaleLine
	for _, row := range t.Rows {
		if s, ok := saleFromRow(row, idx); ok {
			lines = append(lines, s)
		}
	}
	return lines
}

func saleFromRow(row []string, idx map[string]int) (SaleLine, bool) {
	s := SaleLine{
		ClientRUT:   cellText(row, idx, "rut"),
		ProductLine: cellText(row, idx, "line"),
		Quantity:    cellNumber(row, idx, "qty"),
		UnitPrice:   cellNumber(row, idx, "price"),
		UnitCost:    cellNumber(row, idx, "cost"),
		Weight:      cellNumber(row, idx, "weight"),
	}
	if s.ProductLine == "" {
		return s, false
	}
	if s.Quantity > 0 {
		if s.UnitPrice == 0 {
			s.UnitPrice = cellNumber(row, idx, "revenue") / s.Quantity
		}
		if s.UnitCost == 0 {
			s.UnitCost = cellNumber(row, idx, "costSum") / s.Quantity
		}
	}
	return s, true
}

// EquipmentFromTable maps the comodato equipment sheet.
func EquipmentFromTable(t *sheets.Table) []EquipmentLine {
	if t == nil {
		return nil
	}
	idx := columnIndex(t, equipmentColumns)
	var lines []EquipmentLine
	for _, row := range t.Rows {
		if e, ok := equipmentFromRow(row, idx); ok {
			lines = append(lines, e)
		}
	}
	return lines
}

func equipmentFromRow(row []string, idx map[string]int) (EquipmentLine, bool) {
	e := EquipmentLine{
		ClientRUT:   cellText(row, idx, "rut"),
		Description: cellText(row, idx, "desc"),
		Quantity:    cellNumber(row, idx, "qty"),
		UnitValue:   cellNumber(row, idx, "value"),
	}
	return e, e.Description != ""
}

// GoalsFromTable maps the goals sheet. Rows without a seller are skipped.
func GoalsFromTable(t *sheets.Table) []Goal {
	if t == nil {
		return nil
	}
	idx := columnIndex(t, goalColumns)
	var goals []Goal
	for _, row := range t.Rows {
		g := Goal{
			Seller:   cellText(row, idx, "seller"),
			Category: cellText(row, idx, "category"),
			Goal:     cellNumber(row, idx, "goal"),
			Actual:   cellNumber(row, idx, "actual"),
		}
		if g.Seller == "" {
			continue
		}
		goals = append(goals, g)
	}
	return goals
}

// DocumentsFromTable maps the document catalog sheet. Rows without a link
// are skipped.
func DocumentsFromTable(t *sheets.Table) []Document {
	if t == nil {
		return nil
	}
	idx := columnIndex(t, documentColumns)
	var docs []Document
	for _, row := range t.Rows {
		d := Document{
			Title:       cellText(row, idx, "title"),
			Category:    cellText(row, idx, "category"),
			URL:         cellText(row, idx, "url"),
			Description: cellText(row, idx, "desc"),
		}
		if d.URL == "" {
			continue
		}
		if d.Title == "" {
			d.Title = d.URL
		}
		docs = append(docs, d)
	}
	return docs
}

// ClientRUTMatches compares RUTs ignoring formatting.
func ClientRUTMatches(a, b string) bool {
	na, nb := NormalizeRUT(a), NormalizeRUT(b)
	return na != "" && na == nb
}

// SalesForClient returns the lines belonging to rut. Lines of a sheet
// without a RUT column are returned as-is.
func SalesForClient(lines []SaleLine, rut string) []SaleLine {
	if rut == "" {
		return lines
	}
	var out []SaleLine
	for _, l := range lines {
		if l.ClientRUT == "" || ClientRUTMatches(l.ClientRUT, rut) {
			out = append(out, l)
		}
	}
	return out
}

// EquipmentForClient returns the equipment lent to rut.
func EquipmentForClient(lines []EquipmentLine, rut string) []EquipmentLine {
	if rut == "" {
		return lines
	}
	var out []EquipmentLine
	for _, l := range lines {
		if l.ClientRUT == "" || ClientRUTMatches(l.ClientRUT, rut) {
			out = append(out, l)
		}
	}
	return out
}

// GroupSalesByLine merges lines of the same product line, summing
// quantities, weights, revenue and cost. Order of first appearance is kept.
func GroupSalesByLine(lines []SaleLine) []SaleLine {
	type acc struct {
		line    SaleLine
		revenue float64
		cost    float64
	}
	order := []string{}
	groups := map[string]*acc{}
	for _, l := range lines {
		key := sheets.Normalize(l.ProductLine)
		a, ok := groups[key]
		if !ok {
			a = &acc{line: SaleLine{ClientRUT: l.ClientRUT, ProductLine: l.ProductLine}}
			groups[key] = a
			order = append(order, key)
		}
		a.line.Quantity += l.Quantity
		a.line.Weight += l.Weight
		a.revenue += l.Quantity * l.UnitPrice
		a.cost += l.Quantity * l.UnitCost
	}

	out := make([]SaleLine, 0, len(order))
	for _, key := range order {
		a := groups[key]
		if a.line.Quantity > 0 {
			a.line.UnitPrice = a.revenue / a.line.Quantity
			a.line.UnitCost = a.cost / a.line.Quantity
		}
		out = append(out, a.line)
	}
	return out
}
