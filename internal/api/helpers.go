package api

import (
	"github.com/bibliohome/bibliohome-server/internal/store"
)

// IDInput is the path parameter shared by every /{id} route.
type IDInput struct {
	ID string `path:"id" doc:"Entity ID"`
}

// NameFilterInput filters a list by a case-insensitive substring.
type NameFilterInput struct {
	Name string `query:"name" doc:"Substring to match against the name"`
}

// TitleFilterInput filters a list by a case-insensitive title substring.
type TitleFilterInput struct {
	Title string `query:"title" doc:"Substring to match against the title"`
}

// PageInput selects one page of a library's instances.
type PageInput struct {
	LibraryID string `query:"libraryId" doc:"Library whose instances to list; empty returns an empty page"`
	Page      int    `query:"page" doc:"1-based page number (default 1)"`
	PageSize  int    `query:"pageSize" doc:"Rows per media kind (default 10, max 100)"`
}

func (in *PageInput) params() store.PageParams {
	p := store.PageParams{Page: in.Page, PageSize: in.PageSize}
	p.Validate()
	return p
}

// MessageResponse is a confirmation with no entity attached.
type MessageResponse struct {
	Message string `json:"message" doc:"Human-readable confirmation"`
}

// MessageOutput wraps MessageResponse for Huma.
type MessageOutput struct {
	Body MessageResponse
}

func deleted(entity string) *MessageOutput {
	return &MessageOutput{Body: MessageResponse{Message: entity + " deleted successfully"}}
}

// orEmpty makes empty lists encode as [] rather than null.
func orEmpty[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

// LookupOutput is a list of matches, or {} when no criterion was given.
type LookupOutput struct {
	Body any
}

// lookupResult encodes a nil lookup, one given no criterion, as {}.
func lookupResult[T any](rows []T) *LookupOutput {
	if rows == nil {
		return &LookupOutput{Body: struct{}{}}
	}
	return &LookupOutput{Body: rows}
}
