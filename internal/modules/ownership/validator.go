package ownership

import (
	"context"
	"fmt"

	"marketplace/internal/domain"
)

type Kind string

const (
	KindVenue       Kind = "venue"
	KindOffering    Kind = "offering"
	KindReservation Kind = "reservation"
	KindReview      Kind = "review"
)

// ResourceRef names the target of an authorization check.
type ResourceRef struct {
	Kind Kind
	ID   string
}

func (r ResourceRef) String() string {
	return fmt.Sprintf("%s %s", r.Kind, r.ID)
}

func Venue(id string) ResourceRef       { return ResourceRef{Kind: KindVenue, ID: id} }
func Offering(id string) ResourceRef    { return ResourceRef{Kind: KindOffering, ID: id} }
func Reservation(id string) ResourceRef { return ResourceRef{Kind: KindReservation, ID: id} }
func Review(id string) ResourceRef      { return ResourceRef{Kind: KindReview, ID: id} }

// Validator proves an account may act on a resource by following parent
// references up to the owning Venue (business owners) or by comparing the
// resource's customer (customers). It never writes.
type Validator struct {
	resources ResourceReader
}

func NewValidator(resources ResourceReader) *Validator {
	return &Validator{resources: resources}
}

// Authorize returns nil when account holds required over ref, and
// domain.ErrForbidden or domain.ErrNotFound otherwise.
func (v *Validator) Authorize(ctx context.Context, account *domain.Account, ref ResourceRef, required domain.Role) error {
	if account == nil {
		return domain.ErrUnauthenticated
	}

	switch required {
	case domain.RoleBusinessOwner:
		return v.authorizeOwner(ctx, account, ref)
	case domain.RoleCustomer:
		return v.authorizeCustomer(ctx, account, ref)
	default:
		return domain.Errorf(domain.ErrForbidden, "role %s cannot act on %s", required, ref)
	}
}

func (v *Validator) authorizeOwner(ctx context.Context, account *domain.Account, ref ResourceRef) error {
	var venueID string

	switch ref.Kind {
	case KindVenue:
		venue, err := v.resources.GetVenue(ctx, ref.ID)
		if err != nil {
			return err
		}
		if account.Role != domain.RoleBusinessOwner {
			return forbidden(ref)
		}
		return ownedBy(venue, account, ref)
	case KindOffering:
		offering, err := v.resources.GetOffering(ctx, ref.ID)
		if err != nil {
			return err
		}
		venueID = offering.VenueID
	case KindReservation:
		res, err := v.resources.GetReservation(ctx, ref.ID)
		if err != nil {
			return err
		}
		if account.Role != domain.RoleBusinessOwner {
			return forbidden(ref)
		}
		offering, err := v.resources.GetOffering(ctx, res.OfferingID)
		if err != nil {
			return err
		}
		venueID = offering.VenueID
	case KindReview:
		review, err := v.resources.GetReview(ctx, ref.ID)
		if err != nil {
			return err
		}
		venueID = review.VenueID
	default:
		return domain.Errorf(domain.ErrForbidden, "unknown resource kind %q", ref.Kind)
	}

	if account.Role != domain.RoleBusinessOwner {
		return forbidden(ref)
	}
	venue, err := v.resources.GetVenue(ctx, venueID)
	if err != nil {
		return err
	}
	return ownedBy(venue, account, ref)
}

func (v *Validator) authorizeCustomer(ctx context.Context, account *domain.Account, ref ResourceRef) error {
	var customerID string

	switch ref.Kind {
	case KindReservation:
		res, err := v.resources.GetReservation(ctx, ref.ID)
		if err != nil {
			return err
		}
		customerID = res.CustomerID
	case KindReview:
		review, err := v.resources.GetReview(ctx, ref.ID)
		if err != nil {
			return err
		}
		customerID = review.CustomerID
	case KindVenue, KindOffering:
		if err := v.exists(ctx, ref); err != nil {
			return err
		}
		return domain.Errorf(domain.ErrForbidden, "%s has no customer owner", ref)
	default:
		return domain.Errorf(domain.ErrForbidden, "unknown resource kind %q", ref.Kind)
	}

	if account.Role != domain.RoleCustomer || customerID != account.ID {
		return forbidden(ref)
	}
	return nil
}

func (v *Validator) exists(ctx context.Context, ref ResourceRef) error {
	var err error
	switch ref.Kind {
	case KindVenue:
		_, err = v.resources.GetVenue(ctx, ref.ID)
	case KindOffering:
		_, err = v.resources.GetOffering(ctx, ref.ID)
	}
	return err
}

func ownedBy(venue *domain.Venue, account *domain.Account, ref ResourceRef) error {
	if venue.OwnerID != account.ID {
		return forbidden(ref)
	}
	return nil
}

func forbidden(ref ResourceRef) error {
	return domain.Errorf(domain.ErrForbidden, "not allowed to act on %s", ref)
}
