package domain

import "time"

// ReadingStatus is a user's progress on a book.
type ReadingStatus string

// Reading statuses. Any status may follow any other.
const (
	ReadingUnread    ReadingStatus = "unread"
	ReadingReading   ReadingStatus = "reading"
	ReadingRead      ReadingStatus = "read"
	ReadingAbandoned ReadingStatus = "abandoned"
)

// Valid reports whether s is a known status.
func (s ReadingStatus) Valid() bool {
	switch s {
	case ReadingUnread, ReadingReading, ReadingRead, ReadingAbandoned:
		return true
	}
	return false
}

// UserBook is the per-user status overlay on a shared book. There is at most
// one per (UserID, BookID).
type UserBook struct {
	UserID    string        `json:"userId"`
	BookID    string        `json:"bookId"`
	Status    ReadingStatus `json:"status"`
	DateRead  *time.Time    `json:"dateRead"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// NewUserBook returns an unread overlay.
func NewUserBook(userID, bookID string) *UserBook {
	now := time.Now().UTC()
	return &UserBook{UserID: userID, BookID: bookID, Status: ReadingUnread, CreatedAt: now, UpdatedAt: now}
}

// ApplyStatus sets the status. Moving to read stamps DateRead with today when
// it is empty; no status clears an existing DateRead.
func (ub *UserBook) ApplyStatus(status ReadingStatus, today time.Time) {
	ub.Status = status
	if status == ReadingRead && ub.DateRead == nil {
		d := CalendarDay(today)
		ub.DateRead = &d
	}
	ub.UpdatedAt = time.Now().UTC()
}

// ApplyDateRead overwrites DateRead only. A nil date clears it.
func (ub *UserBook) ApplyDateRead(dateRead *time.Time) {
	if dateRead == nil {
		ub.DateRead = nil
	} else {
		d := CalendarDay(*dateRead)
		ub.DateRead = &d
	}
	ub.UpdatedAt = time.Now().UTC()
}

// CalendarDay truncates t to midnight UTC of its own calendar date, so
// 2024-03-01 23:30 local stays 2024-03-01.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
