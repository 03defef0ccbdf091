package orderapi

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type Restaurant struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Logo        *string `json:"logo,omitempty"`
}

type Table struct {
	ID          string `json:"id"`
	TableNumber string `json:"table_number"`
	QRCode      string `json:"qr_code"`
}

// MenuPayload is the QR menu response. Raw keeps the whole body so the
// menu normalizer can pick whichever category shape the backend sent.
type MenuPayload struct {
	Restaurant *Restaurant `json:"restaurant"`
	Table      *Table      `json:"table"`
	Raw        []byte      `json:"-"`
}

type CreateOrderItem struct {
	MenuItem            string `json:"menu_item"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
}

type CreateOrderRequest struct {
	Restaurant          string            `json:"restaurant,omitempty"`
	Table               string            `json:"table"`
	CustomerName        string            `json:"customer_name"`
	SpecialInstructions string            `json:"special_instructions,omitempty"`
	Items               []CreateOrderItem `json:"items"`
}

type OrderItem struct {
	ID                  string  `json:"id"`
	MenuItem            Ref     `json:"menu_item"`
	Quantity            int     `json:"quantity"`
	UnitPrice           Decimal `json:"unit_price"`
	Subtotal            Decimal `json:"subtotal,omitempty"`
	SpecialInstructions string  `json:"special_instructions,omitempty"`
	CreatedAt           string  `json:"created_at,omitempty"`
}

type Order struct {
	ID                  string      `json:"id"`
	Restaurant          Ref         `json:"restaurant"`
	Table               Ref         `json:"table"`
	TableNumber         string      `json:"table_number,omitempty"`
	CustomerName        string      `json:"customer_name"`
	Status              OrderStatus `json:"status"`
	TotalAmount         Decimal     `json:"total_amount"`
	SpecialInstructions string      `json:"special_instructions,omitempty"`
	Items               []OrderItem `json:"items"`
	CreatedAt           string      `json:"created_at,omitempty"`
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusServed    OrderStatus = "served"
	StatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusServed, StatusCancelled:
		return true
	}
	return false
}

// Ref is a foreign key the backend sends either as a bare id or as an
// object with at least an id.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}

	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}

	if data[0] != '{' {
		// numeric primary keys
		*r = Ref{ID: string(data)}
		return nil
	}

	var obj struct {
		ID          json.RawMessage `json:"id"`
		Name        string          `json:"name"`
		TableNumber string          `json:"table_number"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	id := strings.Trim(string(obj.ID), `"`)
	name := obj.Name
	if name == "" {
		name = obj.TableNumber
	}
	*r = Ref{ID: id, Name: name}
	return nil
}

// Decimal accepts both JSON numbers and decimal strings ("12.50"), which is
// how the backend serializes DecimalField values.
type Decimal float64

func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = 0
		return nil
	}

	s := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*d = 0
			return nil
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*d = Decimal(v)
	return nil
}

func (d Decimal) Float64() float64 {
	return float64(d)
}

func (d Decimal) String() string {
	return strconv.FormatFloat(float64(d), 'f', 2, 64)
}
