package api

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/goccy/go-json"

	"github.com/bibliohome/bibliohome-server/internal/service"
)

// Catalog associations arrive either as a bare string or as an object:
//
//	"authors": ["Ursula K. Le Guin", {"id": "auth-…"}, {"firstName": "Ted", "lastName": "Chiang"}]
//	"genres":  ["Fiction / Fantasy", {"id": "gen-…"}, {"name": "Fiction / Horror"}]
//	"series":  ["Earthsea", {"name": "Earthsea", "orderNumber": 2}]
//
// Each ref type decodes both shapes and reports a oneOf schema to huma.

func refSchema(object *huma.Schema) *huma.Schema {
	return &huma.Schema{
		OneOf: []*huma.Schema{
			{Type: huma.TypeString},
			object,
		},
	}
}

func isJSONString(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '"'
}

// orderNumber accepts 3, "3" or null.
type orderNumber struct {
	value *int
}

func (o *orderNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		o.value = nil
		return nil
	}
	if isJSONString(data) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			o.value = nil
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("orderNumber must be a number: %w", err)
		}
		o.value = &n
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("orderNumber must be a number: %w", err)
	}
	o.value = &n
	return nil
}

// AuthorInput is an author name or {id} / {name} / {firstName, lastName}.
type AuthorInput struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// UnmarshalJSON accepts a string or an object.
func (a *AuthorInput) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		*a = AuthorInput{}
		return json.Unmarshal(data, &a.Name)
	}
	type plain AuthorInput
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = AuthorInput(p)
	return nil
}

// Schema implements huma.SchemaProvider.
func (AuthorInput) Schema(huma.Registry) *huma.Schema {
	return refSchema(&huma.Schema{
		Type: huma.TypeObject,
		Properties: map[string]*huma.Schema{
			"id":        {Type: huma.TypeString},
			"name":      {Type: huma.TypeString},
			"firstName": {Type: huma.TypeString},
			"lastName":  {Type: huma.TypeString},
		},
	})
}

func (a AuthorInput) toRef() service.AuthorRef {
	return service.AuthorRef{ID: a.ID, Name: a.Name, FirstName: a.FirstName, LastName: a.LastName}
}

// GenreInput is a genre path or {id} / {name} / {path}. name and path are
// both read as a " / " breadcrumb.
type GenreInput struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Path string `json:"path,omitempty"`
}

// UnmarshalJSON accepts a string or an object.
func (g *GenreInput) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		*g = GenreInput{}
		return json.Unmarshal(data, &g.Path)
	}
	type plain GenreInput
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*g = GenreInput(p)
	return nil
}

// Schema implements huma.SchemaProvider.
func (GenreInput) Schema(huma.Registry) *huma.Schema {
	return refSchema(&huma.Schema{
		Type: huma.TypeObject,
		Properties: map[string]*huma.Schema{
			"id":   {Type: huma.TypeString},
			"name": {Type: huma.TypeString},
			"path": {Type: huma.TypeString},
		},
	})
}

func (g GenreInput) toRef() service.GenreRef {
	path := g.Path
	if path == "" {
		path = g.Name
	}
	return service.GenreRef{ID: g.ID, Path: path}
}

// SeriesInput is a series name or {id|name, orderNumber}.
type SeriesInput struct {
	ID          string
	Name        string
	OrderNumber *int
}

// UnmarshalJSON accepts a string or an object.
func (sr *SeriesInput) UnmarshalJSON(data []byte) error {
	*sr = SeriesInput{}
	if isJSONString(data) {
		return json.Unmarshal(data, &sr.Name)
	}
	var p struct {
		ID          string      `json:"id"`
		Name        string      `json:"name"`
		OrderNumber orderNumber `json:"orderNumber"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	sr.ID, sr.Name, sr.OrderNumber = p.ID, p.Name, p.OrderNumber.value
	return nil
}

// Schema implements huma.SchemaProvider.
func (SeriesInput) Schema(huma.Registry) *huma.Schema {
	return refSchema(&huma.Schema{
		Type: huma.TypeObject,
		Properties: map[string]*huma.Schema{
			"id":          {Type: huma.TypeString},
			"name":        {Type: huma.TypeString},
			"orderNumber": {OneOf: []*huma.Schema{{Type: huma.TypeInteger}, {Type: huma.TypeString}}},
		},
	})
}

func (sr SeriesInput) toRef() service.SeriesRef {
	return service.SeriesRef{ID: sr.ID, Name: sr.Name, OrderNumber: sr.OrderNumber}
}

// CompanyInput is a production company name or {id} / {name, photo}.
type CompanyInput struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Photo string `json:"photo,omitempty"`
}

// UnmarshalJSON accepts a string or an object.
func (c *CompanyInput) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		*c = CompanyInput{}
		return json.Unmarshal(data, &c.Name)
	}
	type plain CompanyInput
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = CompanyInput(p)
	return nil
}

// Schema implements huma.SchemaProvider.
func (CompanyInput) Schema(huma.Registry) *huma.Schema {
	return refSchema(&huma.Schema{
		Type: huma.TypeObject,
		Properties: map[string]*huma.Schema{
			"id":    {Type: huma.TypeString},
			"name":  {Type: huma.TypeString},
			"photo": {Type: huma.TypeString},
		},
	})
}

func (c CompanyInput) toRef() service.CompanyRef {
	return service.CompanyRef{ID: c.ID, Name: c.Name, Photo: c.Photo}
}

// Conversions keep nil distinct from empty so updates can tell "leave
// links alone" from "remove every link".

func authorRefs(in []AuthorInput) []service.AuthorRef {
	if in == nil {
		return nil
	}
	out := make([]service.AuthorRef, 0, len(in))
	for _, a := range in {
		out = append(out, a.toRef())
	}
	return out
}

func genreRefs(in []GenreInput) []service.GenreRef {
	if in == nil {
		return nil
	}
	out := make([]service.GenreRef, 0, len(in))
	for _, g := range in {
		out = append(out, g.toRef())
	}
	return out
}

func seriesRefs(in []SeriesInput) []service.SeriesRef {
	if in == nil {
		return nil
	}
	out := make([]service.SeriesRef, 0, len(in))
	for _, sr := range in {
		out = append(out, sr.toRef())
	}
	return out
}

func companyRefs(in []CompanyInput) []service.CompanyRef {
	if in == nil {
		return nil
	}
	out := make([]service.CompanyRef, 0, len(in))
	for _, c := range in {
		out = append(out, c.toRef())
	}
	return out
}
