package ingest

import (
	"fmt"
	"time"

	"github.com/ikkim/shopstats-backend/internal/app/model"
)

var (
	customerColumns = []string{"id", "first_name", "last_name", "email", "created_at"}
	orderColumns    = []string{"order_id", "user_id", "status"}
)

// RowError pins a parse failure to its source line.
type RowError struct {
	Source string
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s line %d, column %s: %v", e.Source, e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ParseCustomers maps every row strictly; the first malformed value aborts.
func ParseCustomers(sheet *Sheet) ([]model.Customer, error) {
	if err := sheet.Require(customerColumns...); err != nil {
		return nil, err
	}

	customers := make([]model.Customer, 0, sheet.Len())
	for i := 0; i < sheet.Len(); i++ {
		rec := sheet.Record(i)
		fail := func(column string, err error) error {
			return &RowError{Source: sheet.Source, Line: rec.Line, Column: column, Err: err}
		}

		id, err := parseID(rec.Get("id"))
		if err != nil {
			return nil, fail("id", err)
		}
		c := model.Customer{
			ID:            id,
			FirstName:     rec.Get("first_name"),
			LastName:      rec.Get("last_name"),
			Email:         rec.Get("email"),
			Gender:        optional(rec.Get("gender")),
			State:         optional(rec.Get("state")),
			StreetAddress: optional(rec.Get("street_address")),
			PostalCode:    optional(rec.Get("postal_code")),
			City:          optional(rec.Get("city")),
			Country:       optional(rec.Get("country")),
			TrafficSource: optional(rec.Get("traffic_source")),
		}
		for _, required := range [][2]string{{"first_name", c.FirstName}, {"last_name", c.LastName}, {"email", c.Email}} {
			if required[1] == "" {
				return nil, fail(required[0], fmt.Errorf("value is required"))
			}
		}
		if c.Age, err = ParseInt(rec.Get("age")); err != nil {
			return nil, fail("age", err)
		}
		if c.Latitude, err = ParseFloat(rec.Get("latitude")); err != nil {
			return nil, fail("latitude", err)
		}
		if c.Longitude, err = ParseFloat(rec.Get("longitude")); err != nil {
			return nil, fail("longitude", err)
		}
		if c.CreatedAt, err = ParseTimestamp(rec.Get("created_at")); err != nil {
			return nil, fail("created_at", err)
		}
		customers = append(customers, c)
	}
	return customers, nil
}

// ParseOrders maps every row. Identifiers and status are strict; timestamps and
// num_of_item that fail to parse become null and are counted in coerced.
func ParseOrders(sheet *Sheet) (orders []model.Order, coerced int, err error) {
	if err := sheet.Require(orderColumns...); err != nil {
		return nil, 0, err
	}

	orders = make([]model.Order, 0, sheet.Len())
	for i := 0; i < sheet.Len(); i++ {
		rec := sheet.Record(i)
		fail := func(column string, err error) error {
			return &RowError{Source: sheet.Source, Line: rec.Line, Column: column, Err: err}
		}

		o := model.Order{
			Status: model.OrderStatus(rec.Get("status")),
			Gender: optional(rec.Get("gender")),
		}
		if o.OrderID, err = parseID(rec.Get("order_id")); err != nil {
			return nil, 0, fail("order_id", err)
		}
		if o.UserID, err = parseID(rec.Get("user_id")); err != nil {
			return nil, 0, fail("user_id", err)
		}
		if o.Status == "" {
			return nil, 0, fail("status", fmt.Errorf("value is required"))
		}

		lenientTime := func(column string) *time.Time {
			t, err := ParseTimestamp(rec.Get(column))
			if err != nil {
				coerced++
				return nil
			}
			return t
		}
		o.CreatedAt = lenientTime("created_at")
		o.ReturnedAt = lenientTime("returned_at")
		o.ShippedAt = lenientTime("shipped_at")
		o.DeliveredAt = lenientTime("delivered_at")

		if n, err := ParseInt(rec.Get("num_of_item")); err != nil {
			coerced++
		} else {
			o.NumOfItem = n
		}
		orders = append(orders, o)
	}
	return orders, coerced, nil
}
