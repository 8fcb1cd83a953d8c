// Package icalfmt converts between the persisted component tree and the
// RFC 5545 text format. It is consumed by the transport layer; the
// validation core never touches the wire encoding.
package icalfmt

import (
	"fmt"
	"io"

	goical "github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/cavabunga/cavabunga/ical"
)

const productID = "-//cavabunga//iCalendar object service//EN"

// BuildCalendar turns a component tree into a go-ical VCALENDAR. A root that
// is not itself a CALENDAR is wrapped in a synthetic one. Mandatory calendar
// properties (PRODID, VERSION) and event UIDs are filled in when the stored
// tree lacks them.
func BuildCalendar(root *ical.Component) (*goical.Calendar, error) {
	comp, err := buildComponent(root)
	if err != nil {
		return nil, err
	}

	cal := goical.NewCalendar()
	if root.Type == ical.ComponentCalendar {
		cal.Component = comp
	} else {
		cal.Children = append(cal.Children, comp)
	}

	if cal.Props.Get(goical.PropProductID) == nil {
		cal.Props.SetText(goical.PropProductID, productID)
	}
	if cal.Props.Get(goical.PropVersion) == nil {
		cal.Props.SetText(goical.PropVersion, "2.0")
	}
	return cal, nil
}

func buildComponent(c *ical.Component) (*goical.Component, error) {
	name := c.Type.ICalName()
	if name == "" {
		return nil, fmt.Errorf("component type %q has no iCalendar name", c.Type)
	}

	out := goical.NewComponent(name)
	for _, p := range c.Properties {
		prop := &goical.Prop{
			Name:   string(p.Type),
			Value:  p.Value,
			Params: make(goical.Params),
		}
		for _, prm := range p.Parameters {
			prop.Params[string(prm.Type)] = append(prop.Params[string(prm.Type)], prm.Value)
		}
		out.Props.Add(prop)
	}

	// Events must carry a UID on the wire even if none was stored.
	if name == goical.CompEvent && out.Props.Get(goical.PropUID) == nil {
		out.Props.SetText(goical.PropUID, uuid.New().String())
	}

	for _, child := range c.Components {
		childComp, err := buildComponent(child)
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, childComp)
	}
	return out, nil
}

// Encode writes the component tree to w as iCalendar text.
func Encode(w io.Writer, root *ical.Component) error {
	cal, err := BuildCalendar(root)
	if err != nil {
		return err
	}
	return goical.NewEncoder(w).Encode(cal)
}

// Decode parses a single VCALENDAR from r into an unsaved component tree.
// Property and parameter names outside the supported vocabulary are skipped.
func Decode(r io.Reader) (*ical.Component, error) {
	cal, err := goical.NewDecoder(r).Decode()
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}
	return fromComponent(cal.Component)
}

func fromComponent(gc *goical.Component) (*ical.Component, error) {
	t, ok := ical.ComponentTypeFromICalName(gc.Name)
	if !ok {
		return nil, fmt.Errorf("unsupported component %q", gc.Name)
	}

	c := &ical.Component{Type: t}
	for name, props := range gc.Props {
		pt := ical.PropertyType(name)
		if !pt.Valid() {
			continue
		}
		for _, gp := range props {
			p := &ical.Property{Type: pt, Value: gp.Value}
			for paramName, values := range gp.Params {
				prt := ical.ParameterType(paramName)
				if !prt.Valid() {
					continue
				}
				for _, v := range values {
					p.AddParameter(&ical.Parameter{Type: prt, Value: v})
				}
			}
			c.AddProperty(p)
		}
	}

	for _, child := range gc.Children {
		childComp, err := fromComponent(child)
		if err != nil {
			return nil, err
		}
		c.AddComponent(childComp)
	}
	return c, nil
}
