package ingest

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
)

// Report collects what a Run loaded and observed. Stages that did not run leave
// their fields zero.
type Report struct {
	UsersSource        string
	OrdersSource       string
	UsersLoaded        int64
	OrdersLoaded       int64
	CoercedOrderValues int
	Verification       *Verification
	Analysis           *Analysis
	Duration           time.Duration
}

// Render prints the report as plain text tables.
func (r *Report) Render(w io.Writer) error {
	fmt.Fprintf(w, "Loaded %d users from %s\n", r.UsersLoaded, r.UsersSource)
	fmt.Fprintf(w, "Loaded %d orders from %s\n", r.OrdersLoaded, r.OrdersSource)
	if r.CoercedOrderValues > 0 {
		fmt.Fprintf(w, "Order values stored as null after failed parsing: %d\n", r.CoercedOrderValues)
	}

	if v := r.Verification; v != nil {
		fmt.Fprintf(w, "\nVerification\n")
		fmt.Fprintf(w, "Users in database: %d\nOrders in database: %d\n", v.Users, v.Orders)

		fmt.Fprintf(w, "\nSample users\n")
		users := make([][]string, 0, len(v.SampleUsers))
		for _, u := range v.SampleUsers {
			users = append(users, []string{
				strconv.FormatInt(u.ID, 10), u.FirstName + " " + u.LastName, u.Email, deref(u.City),
			})
		}
		if err := renderTable(w, []string{"ID", "Name", "Email", "City"}, users); err != nil {
			return err
		}

		fmt.Fprintf(w, "\nSample orders\n")
		orders := make([][]string, 0, len(v.SampleOrders))
		for _, o := range v.SampleOrders {
			items := ""
			if o.NumOfItem != nil {
				items = strconv.Itoa(*o.NumOfItem)
			}
			orders = append(orders, []string{
				strconv.FormatInt(o.OrderID, 10), strconv.FormatInt(o.UserID, 10), string(o.Status), items,
			})
		}
		if err := renderTable(w, []string{"Order ID", "User ID", "Status", "Items"}, orders); err != nil {
			return err
		}

		fmt.Fprintf(w, "\nData quality\n")
		fmt.Fprintf(w, "Users with null emails: %d\nOrders with invalid user_id: %d\n", v.NullEmails, v.OrphanOrders)
		statuses := make([][]string, 0, len(v.StatusDistribution))
		for _, s := range v.StatusDistribution {
			statuses = append(statuses, []string{s.Label, strconv.FormatInt(s.Count, 10)})
		}
		if err := renderTable(w, []string{"Status", "Orders"}, statuses); err != nil {
			return err
		}
	}

	if a := r.Analysis; a != nil {
		fmt.Fprintf(w, "\nTop cities by user count\n")
		cities := make([][]string, 0, len(a.TopCities))
		for _, c := range a.TopCities {
			cities = append(cities, []string{deref(c.City), strconv.FormatInt(c.Count, 10)})
		}
		if err := renderTable(w, []string{"City", "Users"}, cities); err != nil {
			return err
		}

		fmt.Fprintf(w, "\nOrder completion rate\n")
		shares := make([][]string, 0, len(a.StatusShares))
		for _, s := range a.StatusShares {
			shares = append(shares, []string{
				s.Status, strconv.FormatInt(s.Count, 10), strconv.FormatFloat(s.Percentage, 'f', 2, 64) + "%",
			})
		}
		if err := renderTable(w, []string{"Status", "Orders", "Share"}, shares); err != nil {
			return err
		}

		if a.AverageItems != nil {
			fmt.Fprintf(w, "\nAverage items per order: %.2f\n", *a.AverageItems)
		} else {
			fmt.Fprintf(w, "\nAverage items per order: n/a\n")
		}
	}

	if r.Duration > 0 {
		fmt.Fprintf(w, "\nCompleted in %s\n", r.Duration.Round(time.Millisecond))
	}
	return nil
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	table.Header(cells...)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
