package booking

// The single authorization rule everything else relies on: identity
// comparison against the item's owner or the booking's booker.

// IsItemOwner reports whether userID owns the booked item.
func IsItemOwner(b *Booking, userID string) bool {
	return b.ItemOwnerID == userID
}

// IsBooker reports whether userID requested the booking.
func IsBooker(b *Booking, userID string) bool {
	return b.BookerID == userID
}

// OwnsItem reports whether userID owns the given item.
func OwnsItem(item *ItemRef, userID string) bool {
	return item.OwnerID == userID
}
