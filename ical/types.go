package ical

// ParticipantType classifies a participant.
type ParticipantType string

const (
	ParticipantUser     ParticipantType = "USER"
	ParticipantGroup    ParticipantType = "GROUP"
	ParticipantResource ParticipantType = "RESOURCE"
)

// Valid reports whether t is a known participant type.
func (t ParticipantType) Valid() bool {
	switch t {
	case ParticipantUser, ParticipantGroup, ParticipantResource:
		return true
	}
	return false
}

// ComponentType is the discriminator tag of a calendar component.
// Components are polymorphic over this tag, not over a type hierarchy.
type ComponentType string

const (
	ComponentCalendar ComponentType = "CALENDAR"
	ComponentEvent    ComponentType = "EVENT"
	ComponentTodo     ComponentType = "TODO"
	ComponentJournal  ComponentType = "JOURNAL"
	ComponentFreebusy ComponentType = "FREEBUSY"
	ComponentTimezone ComponentType = "TIMEZONE"
	ComponentAlarm    ComponentType = "ALARM"
	ComponentStandard ComponentType = "STANDARD"
	ComponentDaylight ComponentType = "DAYLIGHT"
)

// Valid reports whether t is a known component type.
func (t ComponentType) Valid() bool {
	_, ok := componentNames[t]
	return ok
}

// componentNames maps component types to their RFC 5545 component names.
var componentNames = map[ComponentType]string{
	ComponentCalendar: "VCALENDAR",
	ComponentEvent:    "VEVENT",
	ComponentTodo:     "VTODO",
	ComponentJournal:  "VJOURNAL",
	ComponentFreebusy: "VFREEBUSY",
	ComponentTimezone: "VTIMEZONE",
	ComponentAlarm:    "VALARM",
	ComponentStandard: "STANDARD",
	ComponentDaylight: "DAYLIGHT",
}

// ICalName returns the RFC 5545 component name, e.g. "VEVENT" for EVENT.
func (t ComponentType) ICalName() string {
	return componentNames[t]
}

// ComponentTypeFromICalName resolves an RFC 5545 component name like
// "VCALENDAR" back to its type tag.
func ComponentTypeFromICalName(name string) (ComponentType, bool) {
	for t, n := range componentNames {
		if n == name {
			return t, true
		}
	}
	return "", false
}

// PropertyType names a property attached to a component (RFC 5545 section 3.7/3.8).
type PropertyType string

const (
	PropertyAction          PropertyType = "ACTION"
	PropertyAttach          PropertyType = "ATTACH"
	PropertyAttendee        PropertyType = "ATTENDEE"
	PropertyCalscale        PropertyType = "CALSCALE"
	PropertyCategories      PropertyType = "CATEGORIES"
	PropertyClass           PropertyType = "CLASS"
	PropertyComment         PropertyType = "COMMENT"
	PropertyCompleted       PropertyType = "COMPLETED"
	PropertyContact         PropertyType = "CONTACT"
	PropertyCreated         PropertyType = "CREATED"
	PropertyDescription     PropertyType = "DESCRIPTION"
	PropertyDtend           PropertyType = "DTEND"
	PropertyDtstamp         PropertyType = "DTSTAMP"
	PropertyDtstart         PropertyType = "DTSTART"
	PropertyDue             PropertyType = "DUE"
	PropertyDuration        PropertyType = "DURATION"
	PropertyExdate          PropertyType = "EXDATE"
	PropertyFreebusy        PropertyType = "FREEBUSY"
	PropertyGeo             PropertyType = "GEO"
	PropertyLastModified    PropertyType = "LAST-MODIFIED"
	PropertyLocation        PropertyType = "LOCATION"
	PropertyMethod          PropertyType = "METHOD"
	PropertyOrganizer       PropertyType = "ORGANIZER"
	PropertyPercentComplete PropertyType = "PERCENT-COMPLETE"
	PropertyPriority        PropertyType = "PRIORITY"
	PropertyProdid          PropertyType = "PRODID"
	PropertyRdate           PropertyType = "RDATE"
	PropertyRecurrenceID    PropertyType = "RECURRENCE-ID"
	PropertyRelatedTo       PropertyType = "RELATED-TO"
	PropertyRepeat          PropertyType = "REPEAT"
	PropertyRequestStatus   PropertyType = "REQUEST-STATUS"
	PropertyResources       PropertyType = "RESOURCES"
	PropertyRrule           PropertyType = "RRULE"
	PropertySequence        PropertyType = "SEQUENCE"
	PropertyStatus          PropertyType = "STATUS"
	PropertySummary         PropertyType = "SUMMARY"
	PropertyTransp          PropertyType = "TRANSP"
	PropertyTrigger         PropertyType = "TRIGGER"
	PropertyTzid            PropertyType = "TZID"
	PropertyTzname          PropertyType = "TZNAME"
	PropertyTzoffsetfrom    PropertyType = "TZOFFSETFROM"
	PropertyTzoffsetto      PropertyType = "TZOFFSETTO"
	PropertyTzurl           PropertyType = "TZURL"
	PropertyUID             PropertyType = "UID"
	PropertyURL             PropertyType = "URL"
	PropertyVersion         PropertyType = "VERSION"
)

var propertyTypes = map[PropertyType]struct{}{
	PropertyAction: {}, PropertyAttach: {}, PropertyAttendee: {},
	PropertyCalscale: {}, PropertyCategories: {}, PropertyClass: {},
	PropertyComment: {}, PropertyCompleted: {}, PropertyContact: {},
	PropertyCreated: {}, PropertyDescription: {}, PropertyDtend: {},
	PropertyDtstamp: {}, PropertyDtstart: {}, PropertyDue: {},
	PropertyDuration: {}, PropertyExdate: {}, PropertyFreebusy: {},
	PropertyGeo: {}, PropertyLastModified: {}, PropertyLocation: {},
	PropertyMethod: {}, PropertyOrganizer: {}, PropertyPercentComplete: {},
	PropertyPriority: {}, PropertyProdid: {}, PropertyRdate: {},
	PropertyRecurrenceID: {}, PropertyRelatedTo: {}, PropertyRepeat: {},
	PropertyRequestStatus: {}, PropertyResources: {}, PropertyRrule: {},
	PropertySequence: {}, PropertyStatus: {}, PropertySummary: {},
	PropertyTransp: {}, PropertyTrigger: {}, PropertyTzid: {},
	PropertyTzname: {}, PropertyTzoffsetfrom: {}, PropertyTzoffsetto: {},
	PropertyTzurl: {}, PropertyUID: {}, PropertyURL: {}, PropertyVersion: {},
}

// Valid reports whether t is a known property type.
func (t PropertyType) Valid() bool {
	_, ok := propertyTypes[t]
	return ok
}

// ParameterType names a property parameter (RFC 5545 section 3.2).
type ParameterType string

const (
	ParameterAltrep        ParameterType = "ALTREP"
	ParameterCn            ParameterType = "CN"
	ParameterCutype        ParameterType = "CUTYPE"
	ParameterDelegatedFrom ParameterType = "DELEGATED-FROM"
	ParameterDelegatedTo   ParameterType = "DELEGATED-TO"
	ParameterDir           ParameterType = "DIR"
	ParameterEncoding      ParameterType = "ENCODING"
	ParameterFmttype       ParameterType = "FMTTYPE"
	ParameterFbtype        ParameterType = "FBTYPE"
	ParameterLanguage      ParameterType = "LANGUAGE"
	ParameterMember        ParameterType = "MEMBER"
	ParameterPartstat      ParameterType = "PARTSTAT"
	ParameterRange         ParameterType = "RANGE"
	ParameterRelated       ParameterType = "RELATED"
	ParameterReltype       ParameterType = "RELTYPE"
	ParameterRole          ParameterType = "ROLE"
	ParameterRsvp          ParameterType = "RSVP"
	ParameterSentBy        ParameterType = "SENT-BY"
	ParameterTzid          ParameterType = "TZID"
	ParameterValue         ParameterType = "VALUE"
)

var parameterTypes = map[ParameterType]struct{}{
	ParameterAltrep: {}, ParameterCn: {}, ParameterCutype: {},
	ParameterDelegatedFrom: {}, ParameterDelegatedTo: {}, ParameterDir: {},
	ParameterEncoding: {}, ParameterFmttype: {}, ParameterFbtype: {},
	ParameterLanguage: {}, ParameterMember: {}, ParameterPartstat: {},
	ParameterRange: {}, ParameterRelated: {}, ParameterReltype: {},
	ParameterRole: {}, ParameterRsvp: {}, ParameterSentBy: {},
	ParameterTzid: {}, ParameterValue: {},
}

// Valid reports whether t is a known parameter type.
func (t ParameterType) Valid() bool {
	_, ok := parameterTypes[t]
	return ok
}
