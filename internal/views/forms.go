package views

import (
	"slices"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/chhitz007/nexora-page/internal/forms"
)

// FormData is one form with its preserved input.
type FormData struct {
	Def     forms.Definition
	Values  forms.Values
	Invalid []string
	Action  string
	Target  string
}

func formFields(d FormData) g.Node {
	return g.Group(g.Map(d.Def.Fields, func(f forms.Field) g.Node {
		return fieldNode(d.Def.Kind, f, d.Values.Get(f.Name), slices.Contains(d.Invalid, f.Name))
	}))
}

func fieldID(kind forms.Kind, name string) string {
	return string(kind) + "-" + name
}

func fieldNode(kind forms.Kind, f forms.Field, value string, invalid bool) g.Node {
	id := fieldID(kind, f.Name)
	common := []g.Node{
		h.ID(id),
		h.Name(f.Name),
		g.If(f.Required, h.Required()),
		g.If(invalid, g.Attr("aria-invalid", "true")),
		g.If(f.Placeholder != "", h.Placeholder(f.Placeholder)),
	}
	label := h.Label(h.For(id), g.Text(f.Label), g.If(f.Required, h.Span(h.Class("required"), g.Text("*"))))

	var control g.Node
	switch f.Type {
	case forms.FieldTextarea:
		control = h.Textarea(g.Group(common), h.Rows("4"), maxLength(f), g.Text(value))
	case forms.FieldSelect:
		opts := []g.Node{h.Option(h.Value(""), g.Text("Select..."), g.If(value == "", h.Selected()))}
		for _, o := range f.Options {
			opts = append(opts, h.Option(h.Value(o.Value), g.Text(o.Label), g.If(o.Value == value, h.Selected())))
		}
		control = h.Select(g.Group(common), g.Group(opts))
	case forms.FieldRadio:
		choices := make([]g.Node, 0, len(f.Options))
		for _, o := range f.Options {
			choices = append(choices, h.Label(h.Class("choice"),
				h.Input(h.Type("radio"), h.Name(f.Name), h.Value(o.Value), g.If(o.Value == value, h.Checked())),
				g.Text(o.Label),
			))
		}
		return h.Div(h.Class(classes("field field-radio", invalidClass(invalid))),
			h.Span(h.Class("field-label"), g.Text(f.Label)),
			h.Div(h.Class("choices"), g.Group(choices)),
		)
	case forms.FieldCheckbox:
		return h.Div(h.Class(classes("field field-checkbox", invalidClass(invalid))),
			h.Label(h.For(id),
				h.Input(h.Type("checkbox"), h.ID(id), h.Name(f.Name), h.Value("true"), g.If(value == "true", h.Checked())),
				g.Text(f.Label),
			),
		)
	default:
		control = h.Input(g.Group(common), h.Type(string(f.Type)), h.Value(value), maxLength(f))
	}
	return h.Div(h.Class(classes("field", invalidClass(invalid))), label, control)
}

func maxLength(f forms.Field) g.Node {
	if f.MaxRunes <= 0 {
		return nil
	}
	return g.Attr("maxlength", itoa(f.MaxRunes))
}

func invalidClass(invalid bool) string {
	if invalid {
		return "is-invalid"
	}
	return ""
}

func formElement(d FormData, attrs ...g.Node) g.Node {
	return h.Form(
		h.Class("form form-"+string(d.Def.Kind)),
		h.Method("post"),
		h.Action(d.Action),
		g.Attr("hx-post", d.Action),
		g.Attr("hx-target", d.Target),
		g.Attr("hx-swap", "outerHTML"),
		g.Attr("novalidate"),
		g.Group(attrs),
		formFields(d),
		h.Button(h.Type("submit"), h.Class("button button-primary"), g.Text(d.Def.SubmitLabel)),
	)
}
