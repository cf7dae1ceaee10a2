package memory

import (
	"context"
	"sort"
	"sync"

	domainbooking "quickstay/internal/domain/booking"
	domainhotel "quickstay/internal/domain/hotel"
	domainreview "quickstay/internal/domain/review"
	domainroom "quickstay/internal/domain/room"
	domainuser "quickstay/internal/domain/user"
)

// UserRepository is an in-memory user store for tests and local runs.
type UserRepository struct {
	mu    sync.RWMutex
	items map[domainuser.ID]*domainuser.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{items: make(map[domainuser.ID]*domainuser.User)}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.items[id]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *UserRepository) Save(ctx context.Context, user *domainuser.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.items[user.ID] = &copied
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id domainuser.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainuser.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// HotelRepository stores hotels keyed by id.
type HotelRepository struct {
	mu    sync.RWMutex
	items map[domainhotel.ID]*domainhotel.Hotel
}

func NewHotelRepository() *HotelRepository {
	return &HotelRepository{items: make(map[domainhotel.ID]*domainhotel.Hotel)}
}

func (r *HotelRepository) ByID(ctx context.Context, id domainhotel.ID) (*domainhotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.items[id]
	if !ok {
		return nil, domainhotel.ErrNotFound
	}
	copied := *h
	return &copied, nil
}

func (r *HotelRepository) ListAll(ctx context.Context) ([]*domainhotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domainhotel.Hotel, 0, len(r.items))
	for _, h := range r.items {
		copied := *h
		result = append(result, &copied)
	}
	sortHotelsNewestFirst(result)
	return result, nil
}

func (r *HotelRepository) ListByOwner(ctx context.Context, owner domainuser.ID) ([]*domainhotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domainhotel.Hotel, 0)
	for _, h := range r.items {
		if h.Owner == owner {
			copied := *h
			result = append(result, &copied)
		}
	}
	sortHotelsNewestFirst(result)
	return result, nil
}

func (r *HotelRepository) Save(ctx context.Context, hotel *domainhotel.Hotel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *hotel
	r.items[hotel.ID] = &copied
	return nil
}

// RoomRepository stores rooms keyed by id.
type RoomRepository struct {
	mu    sync.RWMutex
	items map[domainroom.ID]*domainroom.Room
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{items: make(map[domainroom.ID]*domainroom.Room)}
}

func (r *RoomRepository) ByID(ctx context.Context, id domainroom.ID) (*domainroom.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.items[id]
	if !ok {
		return nil, domainroom.ErrNotFound
	}
	copied := *room
	return &copied, nil
}

func (r *RoomRepository) ListAvailable(ctx context.Context) ([]*domainroom.Room, error) {
	return r.list(func(room *domainroom.Room) bool { return room.IsAvailable })
}

func (r *RoomRepository) ListByHotel(ctx context.Context, hotelID domainhotel.ID) ([]*domainroom.Room, error) {
	return r.list(func(room *domainroom.Room) bool { return room.Hotel == hotelID })
}

func (r *RoomRepository) ListByHotels(ctx context.Context, hotelIDs []domainhotel.ID) ([]*domainroom.Room, error) {
	wanted := make(map[domainhotel.ID]struct{}, len(hotelIDs))
	for _, id := range hotelIDs {
		wanted[id] = struct{}{}
	}
	return r.list(func(room *domainroom.Room) bool {
		_, ok := wanted[room.Hotel]
		return ok
	})
}

func (r *RoomRepository) Save(ctx context.Context, room *domainroom.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *room
	r.items[room.ID] = &copied
	return nil
}

func (r *RoomRepository) list(match func(*domainroom.Room) bool) ([]*domainroom.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domainroom.Room, 0)
	for _, room := range r.items {
		if match(room) {
			copied := *room
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// BookingRepository stores bookings keyed by id.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.ID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.ID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID domainuser.ID) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool { return b.User == userID })
}

func (r *BookingRepository) ListByHotel(ctx context.Context, hotelID domainhotel.ID) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool { return b.Hotel == hotelID })
}

func (r *BookingRepository) ListByRoom(ctx context.Context, roomID domainroom.ID) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool { return b.Room == roomID })
}

func (r *BookingRepository) Save(ctx context.Context, booking *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *booking
	r.items[booking.ID] = &copied
	return nil
}

func (r *BookingRepository) list(match func(*domainbooking.Booking) bool) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if match(b) {
			copied := *b
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// ReviewRepository stores reviews and enforces the one-per-booking
// uniqueness the document store enforces with a unique index.
type ReviewRepository struct {
	mu        sync.RWMutex
	items     map[domainreview.ID]*domainreview.Review
	byBooking map[domainbooking.ID]domainreview.ID
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{
		items:     make(map[domainreview.ID]*domainreview.Review),
		byBooking: make(map[domainbooking.ID]domainreview.ID),
	}
}

func (r *ReviewRepository) ByID(ctx context.Context, id domainreview.ID) (*domainreview.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	review, ok := r.items[id]
	if !ok {
		return nil, domainreview.ErrNotFound
	}
	copied := *review
	return &copied, nil
}

func (r *ReviewRepository) ByBooking(ctx context.Context, bookingID domainbooking.ID) (*domainreview.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byBooking[bookingID]
	if !ok {
		return nil, domainreview.ErrNotFound
	}
	copied := *r.items[id]
	return &copied, nil
}

func (r *ReviewRepository) ListByRoom(ctx context.Context, roomID domainroom.ID, limit, skip int) ([]*domainreview.Review, error) {
	return r.page(func(rv *domainreview.Review) bool { return rv.Room == roomID }, limit, skip), nil
}

func (r *ReviewRepository) ListByHotel(ctx context.Context, hotelID domainhotel.ID, limit, skip int) ([]*domainreview.Review, error) {
	return r.page(func(rv *domainreview.Review) bool { return rv.Hotel == hotelID }, limit, skip), nil
}

func (r *ReviewRepository) StatsByRoom(ctx context.Context, roomID domainroom.ID) (domainreview.Stats, error) {
	return r.stats(func(rv *domainreview.Review) bool { return rv.Room == roomID }), nil
}

func (r *ReviewRepository) StatsByHotel(ctx context.Context, hotelID domainhotel.ID) (domainreview.Stats, error) {
	return r.stats(func(rv *domainreview.Review) bool { return rv.Hotel == hotelID }), nil
}

func (r *ReviewRepository) Save(ctx context.Context, review *domainreview.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byBooking[review.Booking]; ok && existing != review.ID {
		return domainreview.ErrDuplicate
	}
	copied := *review
	r.items[review.ID] = &copied
	r.byBooking[review.Booking] = review.ID
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id domainreview.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.items[id]
	if !ok {
		return domainreview.ErrNotFound
	}
	delete(r.byBooking, review.Booking)
	delete(r.items, id)
	return nil
}

func (r *ReviewRepository) page(match func(*domainreview.Review) bool, limit, skip int) []*domainreview.Review {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*domainreview.Review, 0)
	for _, rv := range r.items {
		if match(rv) {
			copied := *rv
			all = append(all, &copied)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if skip < 0 {
		skip = 0
	}
	if skip >= len(all) {
		return []*domainreview.Review{}
	}
	all = all[skip:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}

func (r *ReviewRepository) stats(match func(*domainreview.Review) bool) domainreview.Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total int64
	var sum float64
	for _, rv := range r.items {
		if match(rv) {
			total++
			sum += rv.Rating
		}
	}
	stats := domainreview.Stats{Total: total}
	if total > 0 {
		stats.AvgRating = sum / float64(total)
	}
	return stats
}

func sortHotelsNewestFirst(hotels []*domainhotel.Hotel) {
	sort.Slice(hotels, func(i, j int) bool { return hotels[i].CreatedAt.After(hotels[j].CreatedAt) })
}
