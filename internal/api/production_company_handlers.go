package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/service"
)

func (s *Server) registerProductionCompanyRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createProductionCompany",
		Method:        http.MethodPost,
		Path:          "/api/productionCompany",
		Summary:       "Create production company",
		Description:   "Creates a production company, or returns the existing one with the same name (200)",
		Tags:          []string{"Production Companies"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateProductionCompany)

	huma.Register(s.api, huma.Operation{
		OperationID: "listProductionCompanies",
		Method:      http.MethodGet,
		Path:        "/api/productionCompany",
		Summary:     "List production companies",
		Tags:        []string{"Production Companies"},
	}, s.handleListProductionCompanies)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchProductionCompanies",
		Method:      http.MethodGet,
		Path:        "/api/productionCompany/search",
		Summary:     "Look up production companies",
		Description: "Matches by id, by a name prefix, or by exact name. Returns {} when no parameter is given.",
		Tags:        []string{"Production Companies"},
	}, s.handleSearchProductionCompanies)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProductionCompany",
		Method:      http.MethodGet,
		Path:        "/api/productionCompany/{id}",
		Summary:     "Get production company",
		Tags:        []string{"Production Companies"},
	}, s.handleGetProductionCompany)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProductionCompany",
		Method:      http.MethodPost,
		Path:        "/api/productionCompany/{id}/update",
		Summary:     "Update production company",
		Tags:        []string{"Production Companies"},
	}, s.handleUpdateProductionCompany)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteProductionCompany",
		Method:      http.MethodPost,
		Path:        "/api/productionCompany/{id}/delete",
		Summary:     "Delete production company",
		Description: "Deletes a production company no movie refers to",
		Tags:        []string{"Production Companies"},
	}, s.handleDeleteProductionCompany)
}

// === DTOs ===

// ProductionCompanyRequest is the body for creating or updating a production company.
type ProductionCompanyRequest struct {
	Name  string `json:"name,omitempty" doc:"Company name (unique)"`
	Photo string `json:"photo,omitempty" doc:"Logo URL"`
}

// CreateProductionCompanyInput wraps the create request for Huma.
type CreateProductionCompanyInput struct {
	Body ProductionCompanyRequest
}

// UpdateProductionCompanyInput wraps the update request for Huma.
type UpdateProductionCompanyInput struct {
	ID   string `path:"id" doc:"Production company ID"`
	Body ProductionCompanyRequest
}

// ProductionCompanyOutput wraps a single production company for Huma.
type ProductionCompanyOutput struct {
	Status int
	Body   *domain.ProductionCompany
}

// ListProductionCompaniesOutput wraps the production company list for Huma.
type ListProductionCompaniesOutput struct {
	Body []*domain.ProductionCompany
}

// SearchProductionCompaniesInput carries the company lookup criteria, tried in order.
type SearchProductionCompaniesInput struct {
	ID     string `query:"id" doc:"Production company ID"`
	Search string `query:"search" doc:"Name prefix"`
	Name   string `query:"name" doc:"Exact name"`
}

// === Handlers ===

func (s *Server) handleCreateProductionCompany(ctx context.Context, input *CreateProductionCompanyInput) (*ProductionCompanyOutput, error) {
	pc, created, err := s.services.ProductionCompany.CreateProductionCompany(ctx, service.ProductionCompanyRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &ProductionCompanyOutput{Status: createdStatus(created), Body: pc}, nil
}

func (s *Server) handleListProductionCompanies(ctx context.Context, input *NameFilterInput) (*ListProductionCompaniesOutput, error) {
	companies, err := s.services.ProductionCompany.ListProductionCompanies(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	return &ListProductionCompaniesOutput{Body: orEmpty(companies)}, nil
}

func (s *Server) handleGetProductionCompany(ctx context.Context, input *IDInput) (*ProductionCompanyOutput, error) {
	pc, err := s.services.ProductionCompany.GetProductionCompany(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ProductionCompanyOutput{Status: http.StatusOK, Body: pc}, nil
}

func (s *Server) handleUpdateProductionCompany(ctx context.Context, input *UpdateProductionCompanyInput) (*ProductionCompanyOutput, error) {
	pc, err := s.services.ProductionCompany.UpdateProductionCompany(ctx, input.ID, service.ProductionCompanyRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &ProductionCompanyOutput{Status: http.StatusOK, Body: pc}, nil
}

func (s *Server) handleDeleteProductionCompany(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	if err := s.services.ProductionCompany.DeleteProductionCompany(ctx, input.ID); err != nil {
		return nil, err
	}
	return deleted("Production company"), nil
}

func (s *Server) handleSearchProductionCompanies(ctx context.Context, input *SearchProductionCompaniesInput) (*LookupOutput, error) {
	pcs, err := s.services.ProductionCompany.SearchProductionCompanies(ctx, service.ProductionCompanyLookup(*input))
	if err != nil {
		return nil, err
	}
	return lookupResult(pcs), nil
}
