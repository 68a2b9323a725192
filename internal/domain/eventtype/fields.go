package eventtype

type FieldType string

const (
	FieldName        FieldType = "name"
	FieldEmail       FieldType = "email"
	FieldPhone       FieldType = "phone"
	FieldText        FieldType = "text"
	FieldTextarea    FieldType = "textarea"
	FieldNumber      FieldType = "number"
	FieldURL         FieldType = "url"
	FieldSelect      FieldType = "select"
	FieldRadio       FieldType = "radio"
	FieldMultiSelect FieldType = "multiselect"
	FieldCheckbox    FieldType = "checkbox"
	FieldBoolean     FieldType = "boolean"
	FieldMultiEmail  FieldType = "multiemail"
	FieldRadioInput  FieldType = "radioInput"
)

type View string

const (
	ViewBooking    View = "booking"
	ViewReschedule View = "reschedule"
)

// System field names every booking form carries.
const (
	ResponseName             = "name"
	ResponseEmail            = "email"
	ResponseAttendeePhone    = "attendeePhoneNumber"
	ResponseGuests           = "guests"
	ResponseNotes            = "notes"
	ResponseLocation         = "location"
	ResponseRescheduleReason = "rescheduleReason"
	ResponseSMSReminder      = "smsReminderNumber"
)

type BookingField struct {
	Name      string
	Type      FieldType
	Label     string
	Required  bool
	Hidden    bool
	MaxLength int
	Options   []string
	// Views restricts the field to the listed views; empty means every view.
	Views []View
}

func (f BookingField) AppliesTo(view View) bool {
	if len(f.Views) == 0 {
		return true
	}
	for _, v := range f.Views {
		if v == view {
			return true
		}
	}
	return false
}

// DefaultBookingFields is used when an event type has no custom form.
func DefaultBookingFields() []BookingField {
	return []BookingField{
		{Name: ResponseName, Type: FieldName, Required: true},
		{Name: ResponseEmail, Type: FieldEmail, Required: true},
		{Name: ResponseAttendeePhone, Type: FieldPhone},
		{Name: ResponseLocation, Type: FieldRadioInput},
		{Name: ResponseNotes, Type: FieldTextarea},
		{Name: ResponseGuests, Type: FieldMultiEmail},
		{Name: ResponseRescheduleReason, Type: FieldTextarea, Views: []View{ViewReschedule}},
	}
}
