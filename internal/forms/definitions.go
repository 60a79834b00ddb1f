// Package forms defines the contact and investor forms, validates submissions and
// writes them to the document store.
package forms

import (
	"strings"
	"time"
)

// Kind identifies a form.
type Kind string

const (
	KindPartnership Kind = "partnership"
	KindCareers     Kind = "careers"
	KindWaitlist    Kind = "waitlist"
	KindGeneral     Kind = "general"
	KindMedia       Kind = "media"
	KindInvestor    Kind = "investor"
)

// FieldType drives both rendering and value coercion.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldURL      FieldType = "url"
	FieldDate     FieldType = "date"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldRadio    FieldType = "radio"
	FieldCheckbox FieldType = "checkbox"
)

type Option struct {
	Value string
	Label string
}

// Field describes one named input.
type Field struct {
	Name        string
	Label       string
	Placeholder string
	Type        FieldType
	Required    bool
	Options     []Option
	MaxRunes    int
	Default     string
}

// Allows reports whether value is one of the field's options. Fields without options
// accept anything.
func (f Field) Allows(value string) bool {
	if len(f.Options) == 0 {
		return true
	}
	for _, opt := range f.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// Definition is a complete form.
type Definition struct {
	Kind           Kind
	Title          string
	Heading        string
	Description    string
	Icon           string
	Collection     string
	SubmitLabel    string
	SuccessMessage string
	Fields         []Field
}

// Field returns the field called name.
func (d Definition) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Messages shown in the status banner.
const (
	MessageRequired = "Please complete all required fields."
	MessageFailed   = "Something went wrong. Please try again."
)

// Banner lifetimes.
const (
	ContactBannerDuration  = 4 * time.Second
	InvestorBannerDuration = 6 * time.Second
)

var (
	fullName = Field{Name: "fullName", Label: "Full Name", Type: FieldText, Required: true, MaxRunes: 120, Placeholder: "Jane Doe"}
	email    = Field{Name: "email", Label: "Work Email", Type: FieldEmail, Required: true, MaxRunes: 254, Placeholder: "name@company.com"}
	linkedin = Field{Name: "linkedin", Label: "LinkedIn Profile", Type: FieldURL, MaxRunes: 300, Placeholder: "https://linkedin.com/in/yourprofile"}
)

func options(values ...string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Value: v, Label: v})
	}
	return out
}

var contactDefinitions = []Definition{
	{
		Kind:           KindPartnership,
		Title:          "Partnership",
		Heading:        "Partnership Inquiry",
		Description:    "Tell us how we can build together.",
		Icon:           "handshake",
		Collection:     "contact_partnership",
		SubmitLabel:    "Submit Partnership Inquiry",
		SuccessMessage: "Your partnership inquiry has been securely received.",
		Fields: []Field{
			fullName,
			email,
			{Name: "organisation", Label: "Organisation Name", Type: FieldText, MaxRunes: 200},
			{Name: "partnershipType", Label: "Type of Partnership", Type: FieldSelect, Required: true,
				Options: options("Supplier", "Logistics", "Technology", "Strategic", "Other")},
			{Name: "message", Label: "Short Proposal", Type: FieldTextarea, Required: true, MaxRunes: 500},
		},
	},
	{
		Kind:           KindCareers,
		Title:          "Careers",
		Heading:        "Careers Application",
		Description:    "Join our talent pipeline before the full hiring portal launches.",
		Icon:           "briefcase",
		Collection:     "contact_careers",
		SubmitLabel:    "Submit Application",
		SuccessMessage: "Your application has been submitted successfully.",
		Fields: []Field{
			fullName,
			email,
			{Name: "areaOfInterest", Label: "Area of Interest", Type: FieldSelect, Required: true,
				Options: options("Operations", "Product", "Logistics", "Finance", "Growth", "Other")},
			linkedin,
			{Name: "note", Label: "Why Nexora?", Type: FieldTextarea, Required: true, MaxRunes: 500},
		},
	},
	{
		Kind:           KindWaitlist,
		Title:          "Join Waitlist",
		Heading:        "Join the Waitlist",
		Description:    "Be first in line when the platform opens in your city.",
		Icon:           "rocket",
		Collection:     "contact_waitlist",
		SubmitLabel:    "Join Waitlist",
		SuccessMessage: "You've been added to the waitlist successfully.",
		Fields: []Field{
			fullName,
			email,
			{Name: "userType", Label: "I am a", Type: FieldRadio, Options: options("Business", "Individual"), Default: "Business"},
			{Name: "city", Label: "City", Type: FieldText, Required: true, MaxRunes: 100, Placeholder: "Mumbai"},
			{Name: "note", Label: "Anything we should know?", Type: FieldTextarea, MaxRunes: 300},
		},
	},
	{
		Kind:           KindGeneral,
		Title:          "General",
		Heading:        "General Enquiry",
		Description:    "Questions, feedback or support requests.",
		Icon:           "message-circle",
		Collection:     "contact_general",
		SubmitLabel:    "Send Message",
		SuccessMessage: "Your message has been sent successfully.",
		Fields: []Field{
			fullName,
			email,
			{Name: "category", Label: "Category", Type: FieldSelect, Required: true,
				Options: options("Platform Question", "Support", "Feedback", "Other")},
			{Name: "message", Label: "Message", Type: FieldTextarea, Required: true, MaxRunes: 500},
		},
	},
	{
		Kind:           KindMedia,
		Title:          "Media",
		Heading:        "Media Request",
		Description:    "Press, interviews and statements.",
		Icon:           "mic",
		Collection:     "contact_media",
		SubmitLabel:    "Submit Request",
		SuccessMessage: "Your media request has been submitted successfully.",
		Fields: []Field{
			fullName,
			{Name: "publication", Label: "Publication", Type: FieldText, Required: true, MaxRunes: 200},
			email,
			{Name: "requestType", Label: "Request Type", Type: FieldSelect, Required: true,
				Options: options("Interview", "Press Kit", "Statement", "Feature")},
			{Name: "deadline", Label: "Deadline", Type: FieldDate},
			{Name: "message", Label: "Details", Type: FieldTextarea, Required: true, MaxRunes: 500},
		},
	},
}

var investorDefinition = Definition{
	Kind:           KindInvestor,
	Title:          "Investor Inquiry",
	Heading:        "Request the Investor Brief",
	Icon:           "trending-up",
	Collection:     "investorInquiries",
	SubmitLabel:    "Access the Nexora Investor Brief",
	SuccessMessage: "Inquiry Sent Successfully",
	Fields: []Field{
		{Name: "name", Label: "Full Name", Type: FieldText, Required: true, MaxRunes: 120},
		{Name: "email", Label: "Email", Type: FieldEmail, Required: true, MaxRunes: 254},
		{Name: "organization", Label: "Organization / Fund Name", Type: FieldText, MaxRunes: 200, Placeholder: "Venture Capital XYZ"},
		{Name: "linkedin", Label: "LinkedIn Profile (Optional)", Type: FieldURL, MaxRunes: 300},
		{Name: "interest", Label: "Investment Stage of Interest", Type: FieldSelect, Required: true, Default: "VC",
			Options: []Option{
				{Value: "VC", Label: "Venture Capital (Series A+)"},
				{Value: "PE", Label: "Private Equity (Growth)"},
				{Value: "Angel", Label: "Angel / Seed Investor"},
				{Value: "Strategic Partner", Label: "Strategic Partner"},
			}},
		{Name: "message", Label: "Introductory Note", Type: FieldTextarea, MaxRunes: 1000, Placeholder: "We are interested in..."},
		{Name: "representsFirm", Label: "I represent an institutional firm", Type: FieldCheckbox},
	},
}

// ContactDefinitions lists the contact page forms in display order.
func ContactDefinitions() []Definition {
	out := make([]Definition, len(contactDefinitions))
	copy(out, contactDefinitions)
	return out
}

// Investor returns the investor inquiry form.
func Investor() Definition {
	return investorDefinition
}

// Lookup finds a form by kind.
func Lookup(raw string) (Definition, bool) {
	kind := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if kind == KindInvestor {
		return investorDefinition, true
	}
	for _, def := range contactDefinitions {
		if def.Kind == kind {
			return def, true
		}
	}
	return Definition{}, false
}
