package response

import (
	"time"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/domain/calendarevent"
	"booking-orchestrator/internal/usecase/commands"
	"booking-orchestrator/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type AttendeeResponse struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	TimeZone string `json:"timeZone"`
	Locale   string `json:"locale,omitempty"`
}

type ReferenceResponse struct {
	Type               string `json:"type"`
	UID                string `json:"uid"`
	MeetingID          string `json:"meetingId,omitempty"`
	MeetingPassword    string `json:"meetingPassword,omitempty"`
	MeetingURL         string `json:"meetingUrl,omitempty"`
	ExternalCalendarID string `json:"externalCalendarId,omitempty"`
	CredentialID       *int64 `json:"credentialId,omitempty"`
}

type BookingDetail struct {
	ID             int64              `json:"id"`
	UID            string             `json:"uid"`
	EventTypeID    *int64             `json:"eventTypeId,omitempty"`
	UserID         *int64             `json:"userId,omitempty"`
	Title          string             `json:"title"`
	Description    string             `json:"description,omitempty"`
	StartTime      time.Time          `json:"startTime"`
	EndTime        time.Time          `json:"endTime"`
	Status         string             `json:"status"`
	Location       string             `json:"location,omitempty"`
	ICalUID        string             `json:"iCalUID"`
	ICalSequence   int                `json:"iCalSequence"`
	FromReschedule string             `json:"fromReschedule,omitempty"`
	Attendees      []AttendeeResponse `json:"attendees"`
	Metadata       map[string]any     `json:"metadata,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
}

type IntegrationResultResponse struct {
	Type     string   `json:"type"`
	AppName  string   `json:"appName,omitempty"`
	Success  bool     `json:"success"`
	UID      string   `json:"uid,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

type BookingResponse struct {
	Booking            *BookingDetail              `json:"booking"`
	UID                string                      `json:"uid"`
	IntegrationResults []IntegrationResultResponse `json:"integrationResults"`
	ReferencesToCreate []ReferenceResponse         `json:"referencesToCreate"`
	VideoCallURL       string                      `json:"videoCallUrl,omitempty"`
	Metadata           calendarevent.VideoMetadata `json:"metadata"`
	IsDryRun           bool                        `json:"isDryRun"`
}

func FromBookingResult(r *commands.BookingResult) (*BookingResponse, error) {
	resp := &BookingResponse{
		UID:                r.UID,
		IntegrationResults: []IntegrationResultResponse{},
		ReferencesToCreate: []ReferenceResponse{},
		VideoCallURL:       r.VideoCallURL,
		Metadata:           r.Metadata,
		IsDryRun:           r.IsDryRun,
	}
	if r.Booking != nil {
		detail, err := fromBooking(r.Booking)
		if err != nil {
			return nil, err
		}
		resp.Booking = detail
	}
	if err := copier.Copy(&resp.IntegrationResults, r.IntegrationResults); err != nil {
		return nil, err
	}
	if err := copier.Copy(&resp.ReferencesToCreate, r.ReferencesToCreate); err != nil {
		return nil, err
	}
	return resp, nil
}

func fromBooking(b *booking.Booking) (*BookingDetail, error) {
	detail := &BookingDetail{Attendees: []AttendeeResponse{}}
	if err := copier.Copy(detail, b); err != nil {
		return nil, err
	}
	detail.Status = string(b.Status)
	return detail, nil
}

type BookingListResponse struct {
	Items      []*queries.BookingListItem `json:"items"`
	NextCursor string                     `json:"nextCursor,omitempty"`
}

func FromBookingPage(items []*queries.BookingListItem, next *queries.Cursor) *BookingListResponse {
	resp := &BookingListResponse{Items: items}
	if resp.Items == nil {
		resp.Items = []*queries.BookingListItem{}
	}
	if next != nil {
		resp.NextCursor = next.After
	}
	return resp
}
