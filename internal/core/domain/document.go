package domain

import (
	"fmt"
	"strconv"
	"time"
)

// DocumentKind names one of the printable back-office documents.
type DocumentKind string

const (
	KindBill      DocumentKind = "bill"
	KindBilty     DocumentKind = "bilty"
	KindQuotation DocumentKind = "quotation"
	KindReceipt   DocumentKind = "receipt"
)

// Prefix is the human-facing number prefix, e.g. BILL-000042.
func (k DocumentKind) Prefix() string {
	switch k {
	case KindBill:
		return "BILL"
	case KindBilty:
		return "LR"
	case KindQuotation:
		return "QTN"
	case KindReceipt:
		return "RCPT"
	}
	return "DOC"
}

// DocumentMeta carries the fields every stored document shares.
type DocumentMeta struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Number    string    `json:"number" bson:"number"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Meta exposes the shared fields to generic code.
func (m *DocumentMeta) Meta() *DocumentMeta { return m }

// Document is implemented by pointers to Bill, Bilty, Quotation and Receipt.
type Document interface {
	Kind() DocumentKind
	Meta() *DocumentMeta
	// Placeholders flattens the document into template values.
	Placeholders() map[string]string
}

// DocumentPtr constrains generic code to a pointer to a concrete document
// struct, so repositories can allocate T and hand back *T.
type DocumentPtr[T any] interface {
	*T
	Document
}

const displayDate = "02-01-2006"

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func dateOrEmpty(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(displayDate)
}

func roundPaise(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

// LineItem is one billed line.
type LineItem struct {
	Description string  `json:"description" bson:"description" validate:"required"`
	Quantity    float64 `json:"quantity" bson:"quantity" validate:"gt=0"`
	Rate        float64 `json:"rate" bson:"rate" validate:"gte=0"`
}

// Amount is quantity times rate, rounded to paise.
func (l LineItem) Amount() float64 { return roundPaise(l.Quantity * l.Rate) }

// Bill is a customer invoice for a completed or booked move.
type Bill struct {
	DocumentMeta `bson:",inline"`

	Date            time.Time  `json:"date" bson:"date" validate:"required"`
	CustomerName    string     `json:"customer_name" bson:"customer_name" validate:"required"`
	CustomerPhone   string     `json:"customer_phone" bson:"customer_phone" validate:"required"`
	CustomerAddress string     `json:"customer_address" bson:"customer_address"`
	GSTIN           string     `json:"gstin,omitempty" bson:"gstin,omitempty"`
	MovingFrom      string     `json:"moving_from" bson:"moving_from"`
	MovingTo        string     `json:"moving_to" bson:"moving_to"`
	TrackingNumber  string     `json:"tracking_number,omitempty" bson:"tracking_number,omitempty"`
	Items           []LineItem `json:"items" bson:"items" validate:"required,min=1,dive"`
	TaxRate         float64    `json:"tax_rate" bson:"tax_rate" validate:"gte=0,lte=100"`
	Advance         float64    `json:"advance" bson:"advance" validate:"gte=0"`
	Notes           string     `json:"notes,omitempty" bson:"notes,omitempty"`
}

// BillTotals is the computed money summary of a bill.
type BillTotals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
	Balance  float64 `json:"balance"`
}

func (b *Bill) Kind() DocumentKind { return KindBill }

// Totals sums the line items and applies the tax rate and advance.
func (b *Bill) Totals() BillTotals {
	var sub float64
	for _, it := range b.Items {
		sub += it.Amount()
	}
	sub = roundPaise(sub)
	tax := roundPaise(sub * b.TaxRate / 100)
	total := roundPaise(sub + tax)
	return BillTotals{Subtotal: sub, Tax: tax, Total: total, Balance: roundPaise(total - b.Advance)}
}

func (b *Bill) Placeholders() map[string]string {
	t := b.Totals()
	m := map[string]string{
		"bill_no":          b.Number,
		"date":             dateOrEmpty(b.Date),
		"customer_name":    b.CustomerName,
		"customer_phone":   b.CustomerPhone,
		"customer_address": b.CustomerAddress,
		"gstin":            b.GSTIN,
		"moving_from":      b.MovingFrom,
		"moving_to":        b.MovingTo,
		"tracking_number":  b.TrackingNumber,
		"tax_rate":         money(b.TaxRate),
		"subtotal":         money(t.Subtotal),
		"tax":              money(t.Tax),
		"total":            money(t.Total),
		"advance":          money(b.Advance),
		"balance":          money(t.Balance),
		"notes":            b.Notes,
	}
	for i, it := range b.Items {
		p := fmt.Sprintf("item%d_", i+1)
		m[p+"description"] = it.Description
		m[p+"qty"] = strconv.FormatFloat(it.Quantity, 'f', -1, 64)
		m[p+"rate"] = money(it.Rate)
		m[p+"amount"] = money(it.Amount())
	}
	return m
}

// Bilty is a lorry receipt issued when goods are handed to the carrier.
type Bilty struct {
	DocumentMeta `bson:",inline"`

	Date          time.Time `json:"date" bson:"date" validate:"required"`
	Consignor     Party     `json:"consignor" bson:"consignor"`
	Consignee     Party     `json:"consignee" bson:"consignee"`
	From          string    `json:"from" bson:"from" validate:"required"`
	To            string    `json:"to" bson:"to" validate:"required"`
	VehicleNumber string    `json:"vehicle_number" bson:"vehicle_number" validate:"required"`
	DriverName    string    `json:"driver_name,omitempty" bson:"driver_name,omitempty"`
	DriverPhone   string    `json:"driver_phone,omitempty" bson:"driver_phone,omitempty"`
	Packages      int       `json:"packages" bson:"packages" validate:"gt=0"`
	Description   string    `json:"description" bson:"description"`
	WeightKg      float64   `json:"weight_kg" bson:"weight_kg" validate:"gte=0"`
	DeclaredValue float64   `json:"declared_value" bson:"declared_value" validate:"gte=0"`
	Freight       float64   `json:"freight" bson:"freight" validate:"gte=0"`
	PaymentTerms  string    `json:"payment_terms" bson:"payment_terms" validate:"required,oneof=paid to_pay to_be_billed"`
	Remarks       string    `json:"remarks,omitempty" bson:"remarks,omitempty"`
}

func (b *Bilty) Kind() DocumentKind { return KindBilty }

func (b *Bilty) Placeholders() map[string]string {
	return map[string]string{
		"lr_no":             b.Number,
		"date":              dateOrEmpty(b.Date),
		"consignor_name":    b.Consignor.Name,
		"consignor_phone":   b.Consignor.Phone,
		"consignor_address": b.Consignor.Address,
		"consignee_name":    b.Consignee.Name,
		"consignee_phone":   b.Consignee.Phone,
		"consignee_address": b.Consignee.Address,
		"from":              b.From,
		"to":                b.To,
		"vehicle_number":    b.VehicleNumber,
		"driver_name":       b.DriverName,
		"driver_phone":      b.DriverPhone,
		"packages":          strconv.Itoa(b.Packages),
		"description":       b.Description,
		"weight_kg":         strconv.FormatFloat(b.WeightKg, 'f', -1, 64),
		"declared_value":    money(b.DeclaredValue),
		"freight":           money(b.Freight),
		"payment_terms":     paymentTermsLabel(b.PaymentTerms),
		"remarks":           b.Remarks,
	}
}

func paymentTermsLabel(s string) string {
	switch s {
	case "paid":
		return "Paid"
	case "to_pay":
		return "To Pay"
	case "to_be_billed":
		return "To Be Billed"
	}
	return s
}

// QuotationCharges itemises an estimate.
type QuotationCharges struct {
	Packing        float64 `json:"packing" bson:"packing" validate:"gte=0"`
	Loading        float64 `json:"loading" bson:"loading" validate:"gte=0"`
	Transportation float64 `json:"transportation" bson:"transportation" validate:"gte=0"`
	Unloading      float64 `json:"unloading" bson:"unloading" validate:"gte=0"`
	Unpacking      float64 `json:"unpacking" bson:"unpacking" validate:"gte=0"`
	Insurance      float64 `json:"insurance" bson:"insurance" validate:"gte=0"`
	Storage        float64 `json:"storage" bson:"storage" validate:"gte=0"`
	Other          float64 `json:"other" bson:"other" validate:"gte=0"`
}

func (c QuotationCharges) sum() float64 {
	return roundPaise(c.Packing + c.Loading + c.Transportation + c.Unloading +
		c.Unpacking + c.Insurance + c.Storage + c.Other)
}

// Quotation is a pre-move estimate sent to a prospective customer.
type Quotation struct {
	DocumentMeta `bson:",inline"`

	Date          time.Time        `json:"date" bson:"date" validate:"required"`
	CustomerName  string           `json:"customer_name" bson:"customer_name" validate:"required"`
	CustomerPhone string           `json:"customer_phone" bson:"customer_phone" validate:"required"`
	CustomerEmail string           `json:"customer_email,omitempty" bson:"customer_email,omitempty" validate:"omitempty,email"`
	MovingFrom    string           `json:"moving_from" bson:"moving_from" validate:"required"`
	MovingTo      string           `json:"moving_to" bson:"moving_to" validate:"required"`
	MovingDate    time.Time        `json:"moving_date" bson:"moving_date"`
	VehicleType   string           `json:"vehicle_type,omitempty" bson:"vehicle_type,omitempty"`
	Charges       QuotationCharges `json:"charges" bson:"charges"`
	TaxRate       float64          `json:"tax_rate" bson:"tax_rate" validate:"gte=0,lte=100"`
	ValidUntil    time.Time        `json:"valid_until" bson:"valid_until"`
	Notes         string           `json:"notes,omitempty" bson:"notes,omitempty"`
}

func (q *Quotation) Kind() DocumentKind { return KindQuotation }

// Subtotal is the sum of all charges before tax.
func (q *Quotation) Subtotal() float64 { return q.Charges.sum() }

func (q *Quotation) Tax() float64 { return roundPaise(q.Subtotal() * q.TaxRate / 100) }

func (q *Quotation) Total() float64 { return roundPaise(q.Subtotal() + q.Tax()) }

func (q *Quotation) Placeholders() map[string]string {
	return map[string]string{
		"quotation_no":   q.Number,
		"date":           dateOrEmpty(q.Date),
		"customer_name":  q.CustomerName,
		"customer_phone": q.CustomerPhone,
		"customer_email": q.CustomerEmail,
		"moving_from":    q.MovingFrom,
		"moving_to":      q.MovingTo,
		"moving_date":    dateOrEmpty(q.MovingDate),
		"vehicle_type":   q.VehicleType,
		"packing":        money(q.Charges.Packing),
		"loading":        money(q.Charges.Loading),
		"transportation": money(q.Charges.Transportation),
		"unloading":      money(q.Charges.Unloading),
		"unpacking":      money(q.Charges.Unpacking),
		"insurance":      money(q.Charges.Insurance),
		"storage":        money(q.Charges.Storage),
		"other":          money(q.Charges.Other),
		"tax_rate":       money(q.TaxRate),
		"subtotal":       money(q.Subtotal()),
		"tax":            money(q.Tax()),
		"total":          money(q.Total()),
		"valid_until":    dateOrEmpty(q.ValidUntil),
		"notes":          q.Notes,
	}
}

// Receipt acknowledges a payment.
type Receipt struct {
	DocumentMeta `bson:",inline"`

	Date         time.Time `json:"date" bson:"date" validate:"required"`
	ReceivedFrom string    `json:"received_from" bson:"received_from" validate:"required"`
	Amount       float64   `json:"amount" bson:"amount" validate:"gt=0"`
	PaymentMode  string    `json:"payment_mode" bson:"payment_mode" validate:"required,oneof=cash upi cheque bank_transfer card"`
	Reference    string    `json:"reference,omitempty" bson:"reference,omitempty"`
	Purpose      string    `json:"purpose,omitempty" bson:"purpose,omitempty"`
	Notes        string    `json:"notes,omitempty" bson:"notes,omitempty"`
}

func (r *Receipt) Kind() DocumentKind { return KindReceipt }

func (r *Receipt) Placeholders() map[string]string {
	return map[string]string{
		"receipt_no":    r.Number,
		"date":          dateOrEmpty(r.Date),
		"received_from": r.ReceivedFrom,
		"amount":        money(r.Amount),
		"payment_mode":  r.PaymentMode,
		"reference":     r.Reference,
		"purpose":       r.Purpose,
		"notes":         r.Notes,
	}
}
