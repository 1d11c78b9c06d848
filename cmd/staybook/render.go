package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/zatekoja/staybook/internal/application/join"
	"github.com/zatekoja/staybook/internal/application/optimistic"
	"github.com/zatekoja/staybook/internal/domain/entities"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func displayName(u entities.User) string {
	if name := u.FullName(); name != "" {
		return name
	}
	if u.Email != "" {
		return u.Email
	}
	return u.MobileNumber
}

func renderAccommodations(w io.Writer, rows []join.AccommodationWithFavorite) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No accommodations found")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "\tID\tTITLE\tLOCATION\tTYPE\tPRICE\tRATING")
	for _, row := range rows {
		marker := ""
		if row.IsFavorite {
			marker = "*"
		}
		a := row.Accommodation
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.2f\t%.1f\n",
			marker, a.ID, a.Title, a.Location, a.Category, a.Price, a.Rating)
	}
	tw.Flush()
}

func renderDetail(w io.Writer, a entities.Accommodation, facilities []entities.Facility, reviews []join.CommentWithUser, average float64, charges optimistic.Charges) {
	fmt.Fprintf(w, "%s (%s)\n", a.Title, a.ID)
	fmt.Fprintf(w, "%s | %s | up to %d guests\n", a.Location, a.Category, a.Capacity)
	if a.Description != "" {
		fmt.Fprintf(w, "\n%s\n", a.Description)
	}

	if len(facilities) > 0 {
		names := make([]string, len(facilities))
		for i, f := range facilities {
			names[i] = f.Name
		}
		fmt.Fprintf(w, "\nFacilities: %s\n", strings.Join(names, ", "))
	}

	fmt.Fprintln(w)
	renderCharges(w, charges, optimistic.PaymentFull)

	fmt.Fprintf(w, "\nReviews (%d, average %.1f)\n", len(reviews), average)
	for _, r := range reviews {
		author := "unknown user"
		if r.User != nil {
			author = displayName(*r.User)
		}
		fmt.Fprintf(w, "  %d/5 %s: %s\n", r.Comment.Rating, author, r.Comment.Text)
	}
}

func renderCharges(w io.Writer, c optimistic.Charges, option optimistic.PaymentOption) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Nightly price\t%.2f\n", c.NightlyPrice)
	for _, fee := range c.Fees {
		fmt.Fprintf(tw, "%s\t%.2f\n", fee.Name, fee.Amount)
	}
	fmt.Fprintf(tw, "Total\t%.2f\n", c.Total)
	if option == optimistic.PaymentPartial {
		fmt.Fprintf(tw, "Due now\t%.2f\n", c.AmountDue(option))
	}
	tw.Flush()
}

func renderBookings(w io.Writer, pairs []join.BookingWithAccommodation) {
	if len(pairs) == 0 {
		fmt.Fprintln(w, "No bookings yet")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tACCOMMODATION\tLOCATION\tDATE\tTIME\tPAYMENT\tTOTAL")
	for _, p := range pairs {
		b := p.Booking
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%.2f\n",
			b.ID, p.Accommodation.Title, p.Accommodation.Location,
			b.BookingDate, b.BookingTime, b.PaymentMethod, b.TotalPrice)
	}
	tw.Flush()
}
