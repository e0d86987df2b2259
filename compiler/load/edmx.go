package load

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrNoSchema is returned when a metadata document holds no Schema element.
var ErrNoSchema = errors.New("odatagen: metadata document has no schema")

// XML shape of an EDMX document. Tags use local names only, so both the
// OData v4 (edmx/edm) and the v2/v3 namespaces decode the same way.
type (
	edmx struct {
		DataServices dataServices `xml:"DataServices"`
	}

	dataServices struct {
		Schema []xmlSchema `xml:"Schema"`
	}

	xmlSchema struct {
		Namespace   string           `xml:"Namespace,attr"`
		EnumType    []xmlEnumType    `xml:"EnumType"`
		ComplexType []xmlComplexType `xml:"ComplexType"`
		EntityType  []xmlEntityType  `xml:"EntityType"`
	}

	xmlEnumType struct {
		Name   string      `xml:"Name,attr"`
		Member []xmlMember `xml:"Member"`
	}

	xmlMember struct {
		Name  string  `xml:"Name,attr"`
		Value *string `xml:"Value,attr"`
	}

	xmlComplexType struct {
		Name     string        `xml:"Name,attr"`
		Property []xmlProperty `xml:"Property"`
	}

	xmlEntityType struct {
		Name               string        `xml:"Name,attr"`
		Property           []xmlProperty `xml:"Property"`
		NavigationProperty []xmlProperty `xml:"NavigationProperty"`
	}

	xmlProperty struct {
		Name     string `xml:"Name,attr"`
		Type     string `xml:"Type,attr"`
		Nullable string `xml:"Nullable,attr"`
	}
)

// Parse decodes an EDMX metadata document and returns its first schema.
func Parse(r io.Reader) (*Schema, error) {
	var doc edmx
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("odatagen: decode metadata: %w", err)
	}
	if len(doc.DataServices.Schema) == 0 {
		return nil, ErrNoSchema
	}
	return newSchema(&doc.DataServices.Schema[0]), nil
}

func newSchema(xs *xmlSchema) *Schema {
	s := &Schema{Namespace: xs.Namespace}
	for _, et := range xs.EnumType {
		s.EnumTypes = append(s.EnumTypes, newEnumType(et))
	}
	for _, ct := range xs.ComplexType {
		s.ComplexTypes = append(s.ComplexTypes, &ComplexType{
			Name:       ct.Name,
			Properties: newProperties(ct.Property),
		})
	}
	for _, et := range xs.EntityType {
		nt := &EntityType{
			Name:       et.Name,
			Properties: newProperties(et.Property),
		}
		for _, np := range et.NavigationProperty {
			nt.NavigationProperties = append(nt.NavigationProperties, &NavigationProperty{
				Name:     np.Name,
				Type:     np.Type,
				Nullable: ParseNullability(np.Nullable),
			})
		}
		s.EntityTypes = append(s.EntityTypes, nt)
	}
	return s
}

// newEnumType numbers members without an explicit value from the previous
// value plus one, starting at 0. Unparsable values are numbered the same way.
func newEnumType(xe xmlEnumType) *EnumType {
	e := &EnumType{Name: xe.Name}
	next := int64(0)
	for _, m := range xe.Member {
		v := next
		if m.Value != nil {
			if n, err := strconv.ParseInt(*m.Value, 10, 64); err == nil {
				v = n
			}
		}
		e.Members = append(e.Members, Member{Name: m.Name, Value: v})
		next = v + 1
	}
	return e
}

func newProperties(xps []xmlProperty) []*Property {
	if len(xps) == 0 {
		return nil
	}
	props := make([]*Property, 0, len(xps))
	for _, p := range xps {
		props = append(props, &Property{
			Name:     p.Name,
			Type:     p.Type,
			Nullable: ParseNullability(p.Nullable),
		})
	}
	return props
}
