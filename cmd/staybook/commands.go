package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/zatekoja/staybook/internal/application/join"
	"github.com/zatekoja/staybook/internal/application/optimistic"
	appsession "github.com/zatekoja/staybook/internal/application/session"
	"github.com/zatekoja/staybook/internal/domain/entities"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

func (c *client) login(ctx *cli.Context) error {
	user, err := c.session.Login(ctx.Context, appsession.Credentials{
		MobileNumber: ctx.String("mobile"),
		Email:        ctx.String("email"),
		Password:     ctx.String("password"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Signed in as %s\n", displayName(*user))
	return nil
}

func (c *client) logout(ctx *cli.Context) error {
	if err := c.session.Logout(ctx.Context); err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, "Signed out")
	return nil
}

func (c *client) whoami(ctx *cli.Context) error {
	user := c.session.CurrentUser()
	if user == nil {
		fmt.Fprintln(ctx.App.Writer, "Not signed in")
		return nil
	}
	fmt.Fprintf(ctx.App.Writer, "%s\nid:     %s\nemail:  %s\nmobile: %s\n",
		displayName(*user), user.ID, user.Email, user.MobileNumber)
	return nil
}

func (c *client) list(ctx *cli.Context) error {
	accommodations, err := c.api.ListAccommodations(ctx.Context)
	if err != nil {
		return err
	}

	accommodations = join.SearchAndCategoryFilter(accommodations, ctx.String("q"), ctx.String("category"))
	if location := strings.TrimSpace(ctx.String("location")); location != "" {
		accommodations = join.FilterByLocation(accommodations, location)
	}
	accommodations = join.ApplyFilters(accommodations, join.Filters{
		MinPrice:    ctx.Float64("min-price"),
		MaxPrice:    ctx.Float64("max-price"),
		MinRating:   ctx.Float64("min-rating"),
		Types:       ctx.StringSlice("type"),
		FacilityIDs: ctx.StringSlice("facility"),
	})

	var favorites []entities.Favorite
	userID := c.session.CurrentUserID()
	if userID != "" {
		if favorites, err = c.api.ListFavorites(ctx.Context); err != nil {
			return err
		}
	}

	renderAccommodations(ctx.App.Writer, join.JoinFavoriteStatus(accommodations, favorites, userID))
	return nil
}

func (c *client) show(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" {
		return apperrors.NewInvalidInputError("accommodation id is required")
	}

	accommodation, err := c.accommodation(ctx.Context, id)
	if err != nil {
		return err
	}
	facilities, err := c.api.ListFacilities(ctx.Context)
	if err != nil {
		return err
	}
	comments, err := c.api.ListComments(ctx.Context)
	if err != nil {
		return err
	}
	users, err := c.api.ListUsers(ctx.Context)
	if err != nil {
		return err
	}

	comments = join.CommentsForAccommodation(comments, id)
	renderDetail(ctx.App.Writer, accommodation,
		join.FacilitiesFor(accommodation, facilities),
		join.JoinCommentsWithUser(comments, users),
		join.AverageRating(comments),
		c.coordinator.Charges(accommodation.Price))
	return nil
}

func (c *client) favorites(ctx *cli.Context) error {
	userID, err := c.requireUser()
	if err != nil {
		return err
	}

	accommodations, err := c.api.ListAccommodations(ctx.Context)
	if err != nil {
		return err
	}
	favorites, err := c.api.ListFavorites(ctx.Context)
	if err != nil {
		return err
	}

	liked := join.FavoriteAccommodations(accommodations, favorites, userID)
	rows := make([]join.AccommodationWithFavorite, len(liked))
	for i, a := range liked {
		rows[i] = join.AccommodationWithFavorite{Accommodation: a, IsFavorite: true}
	}
	renderAccommodations(ctx.App.Writer, rows)
	return nil
}

func (c *client) toggleFavorite(ctx *cli.Context) error {
	userID, err := c.requireUser()
	if err != nil {
		return err
	}
	favorites, err := c.api.ListFavorites(ctx.Context)
	if err != nil {
		return err
	}
	current := join.FilterByUser(favorites, userID)

	toggle, err := c.coordinator.ToggleFavorite(ctx.Context, current, userID, ctx.Args().First())
	if err != nil {
		return err
	}

	next, _, err := wait(ctx.Context, c, toggle.Handle, toggle.Next)
	if err != nil {
		return fmt.Errorf("favorite not saved: %w", err)
	}

	verb := "Removed from"
	if toggle.Added {
		verb = "Added to"
	}
	fmt.Fprintf(ctx.App.Writer, "%s favorites (%d saved)\n", verb, len(next))
	return nil
}

func (c *client) book(ctx *cli.Context) error {
	userID, err := c.requireUser()
	if err != nil {
		return err
	}
	accommodation, err := c.accommodation(ctx.Context, ctx.Args().First())
	if err != nil {
		return err
	}
	bookings, err := c.api.ListBookings(ctx.Context)
	if err != nil {
		return err
	}

	payment := ctx.String("payment")
	if payment == "" {
		payment = c.cfg.Booking.PaymentMethod
	}

	submission, err := c.coordinator.CreateBooking(ctx.Context, join.FilterByUser(bookings, userID), accommodation, userID, payment)
	if err != nil {
		return err
	}

	option := optimistic.PaymentFull
	if ctx.Bool("partial") {
		option = optimistic.PaymentPartial
	}
	renderCharges(ctx.App.Writer, submission.Charges, option)

	_, result, err := wait(ctx.Context, c, submission.Handle, submission.Next)
	if err != nil {
		return fmt.Errorf("booking not saved: %w", err)
	}
	fmt.Fprintf(ctx.App.Writer, "Booked %s\nbooking id: %s\nreference:  %s\n",
		accommodation.Title, result.Entity.ID, submission.ReferenceNumber)
	return nil
}

func (c *client) bookings(ctx *cli.Context) error {
	userID, err := c.requireUser()
	if err != nil {
		return err
	}

	bookings, err := c.api.ListBookings(ctx.Context)
	if err != nil {
		return err
	}
	accommodations, err := c.api.ListAccommodations(ctx.Context)
	if err != nil {
		return err
	}

	pairs := join.JoinBookingsWithAccommodation(join.FilterByUser(bookings, userID), accommodations)
	renderBookings(ctx.App.Writer, join.Renderable(pairs))
	return nil
}

func (c *client) cancel(ctx *cli.Context) error {
	userID, err := c.requireUser()
	if err != nil {
		return err
	}
	bookings, err := c.api.ListBookings(ctx.Context)
	if err != nil {
		return err
	}

	cancellation, err := c.coordinator.CancelBooking(ctx.Context, join.FilterByUser(bookings, userID), ctx.Args().First())
	if err != nil {
		return err
	}

	next, _, err := wait(ctx.Context, c, cancellation.Handle, cancellation.Next)
	if err != nil {
		return fmt.Errorf("booking not cancelled: %w", err)
	}
	fmt.Fprintf(ctx.App.Writer, "Cancelled booking %s (%d remaining)\n", cancellation.Cancelled.ID, len(next))
	return nil
}

func (c *client) comment(ctx *cli.Context) error {
	userID, err := c.requireUser()
	if err != nil {
		return err
	}
	comments, err := c.api.ListComments(ctx.Context)
	if err != nil {
		return err
	}
	accommodationID := ctx.Args().First()
	current := join.CommentsForAccommodation(comments, accommodationID)

	submission, err := c.coordinator.PostComment(ctx.Context, current, userID,
		accommodationID, ctx.String("text"), ctx.Int("rating"))
	if err != nil {
		return err
	}

	next, _, err := wait(ctx.Context, c, submission.Handle, submission.Next)
	if err != nil {
		return fmt.Errorf("review not saved: %w", err)
	}
	fmt.Fprintf(ctx.App.Writer, "Review posted, average rating %.1f\n", join.AverageRating(next))
	return nil
}

func (c *client) profile(ctx *cli.Context) error {
	user, err := c.session.UpdateProfile(ctx.Context, appsession.ProfileUpdate{
		FirstName:    ctx.String("first-name"),
		LastName:     ctx.String("last-name"),
		Email:        ctx.String("email"),
		MobileNumber: ctx.String("mobile"),
		ProfileImage: ctx.String("image"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Profile saved for %s\n", displayName(*user))
	return nil
}
