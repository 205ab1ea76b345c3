package models

import "time"

// CreateWorkspaceRequest represents the request body for creating a new workspace
type CreateWorkspaceRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	ClientName  string `json:"client_name" binding:"required"`
	ClientEmail string `json:"client_email" binding:"required,email"`
}

// ToDomain converts CreateWorkspaceRequest DTO to domain Workspace model.
// Id and AccessCode are generated by the service layer.
func (req *CreateWorkspaceRequest) ToDomain() *Workspace {
	now := time.Now()
	return &Workspace{
		CompanyName: req.CompanyName,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// WorkspaceResponse represents the response structure for a single workspace
type WorkspaceResponse struct {
	Id          string    `json:"id"`
	CompanyName string    `json:"company_name"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	AccessCode  string    `json:"access_code,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WorkspaceListResponse represents the response structure for listing workspaces
type WorkspaceListResponse struct {
	Workspaces []WorkspaceResponse `json:"workspaces"`
	Total      int                 `json:"total"`
}

// ToResponse converts a domain Workspace to a WorkspaceResponse DTO.
// The access code is only included at creation time so it never leaks
// through list or detail endpoints.
func (w *Workspace) ToResponse(includeAccessCode bool) WorkspaceResponse {
	resp := WorkspaceResponse{
		Id:          w.Id,
		CompanyName: w.CompanyName,
		ClientName:  w.ClientName,
		ClientEmail: w.ClientEmail,
		Active:      w.Active,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
	if includeAccessCode {
		resp.AccessCode = w.AccessCode
	}
	return resp
}
