package ginserver

import (
	"time"

	reviewsapp "quickstay/internal/app/reviews"
	domainbooking "quickstay/internal/domain/booking"
	domainhotel "quickstay/internal/domain/hotel"
	domainreview "quickstay/internal/domain/review"
	domainroom "quickstay/internal/domain/room"
)

// View structs keep the wire field names the frontend expects.

type hotelView struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Contact   string    `json:"contact"`
	City      string    `json:"city"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
}

func newHotelView(h *domainhotel.Hotel) hotelView {
	return hotelView{
		ID:        string(h.ID),
		Name:      h.Name,
		Address:   h.Address,
		Contact:   h.Contact,
		City:      h.City,
		Owner:     string(h.Owner),
		CreatedAt: h.CreatedAt,
	}
}

func newHotelViews(hotels []*domainhotel.Hotel) []hotelView {
	views := make([]hotelView, 0, len(hotels))
	for _, h := range hotels {
		views = append(views, newHotelView(h))
	}
	return views
}

type roomView struct {
	ID            string    `json:"_id"`
	Hotel         string    `json:"hotel"`
	RoomType      string    `json:"roomType"`
	PricePerNight float64   `json:"pricePerNight"`
	Amenities     []string  `json:"amenities"`
	Images        []string  `json:"images"`
	IsAvailable   bool      `json:"isAvailable"`
	CreatedAt     time.Time `json:"createdAt"`
}

func newRoomView(r *domainroom.Room) roomView {
	return roomView{
		ID:            string(r.ID),
		Hotel:         string(r.Hotel),
		RoomType:      string(r.RoomType),
		PricePerNight: r.PricePerNight,
		Amenities:     r.Amenities,
		Images:        r.Images,
		IsAvailable:   r.IsAvailable,
		CreatedAt:     r.CreatedAt,
	}
}

func newRoomViews(rooms []*domainroom.Room) []roomView {
	views := make([]roomView, 0, len(rooms))
	for _, r := range rooms {
		views = append(views, newRoomView(r))
	}
	return views
}

type bookingView struct {
	ID            string    `json:"_id"`
	User          string    `json:"user"`
	Room          string    `json:"room"`
	Hotel         string    `json:"hotel"`
	CheckInDate   time.Time `json:"checkInDate"`
	CheckOutDate  time.Time `json:"checkOutDate"`
	Guests        int       `json:"guests"`
	TotalPrice    float64   `json:"totalPrice"`
	Status        string    `json:"status"`
	IsPaid        bool      `json:"isPaid"`
	PaymentMethod string    `json:"paymentMethod"`
	CreatedAt     time.Time `json:"createdAt"`
}

func newBookingView(b *domainbooking.Booking) bookingView {
	return bookingView{
		ID:            string(b.ID),
		User:          string(b.User),
		Room:          string(b.Room),
		Hotel:         string(b.Hotel),
		CheckInDate:   b.Range.CheckIn,
		CheckOutDate:  b.Range.CheckOut,
		Guests:        b.Guests,
		TotalPrice:    b.TotalPrice,
		Status:        string(b.Status),
		IsPaid:        b.IsPaid,
		PaymentMethod: b.PaymentMethod,
		CreatedAt:     b.CreatedAt,
	}
}

func newBookingViews(bookings []*domainbooking.Booking) []bookingView {
	views := make([]bookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, newBookingView(b))
	}
	return views
}

type reviewView struct {
	ID        string             `json:"_id"`
	User      string             `json:"user"`
	Room      string             `json:"room"`
	Hotel     string             `json:"hotel"`
	Booking   string             `json:"booking"`
	Rating    float64            `json:"rating"`
	Comment   string             `json:"comment"`
	Author    *reviewsapp.Author `json:"author,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func newReviewView(r *domainreview.Review) reviewView {
	return reviewView{
		ID:        string(r.ID),
		User:      string(r.User),
		Room:      string(r.Room),
		Hotel:     string(r.Hotel),
		Booking:   string(r.Booking),
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func newAuthoredReviewViews(items []reviewsapp.AuthoredReview) []reviewView {
	views := make([]reviewView, 0, len(items))
	for _, item := range items {
		view := newReviewView(item.Review)
		author := item.Author
		view.Author = &author
		views = append(views, view)
	}
	return views
}
