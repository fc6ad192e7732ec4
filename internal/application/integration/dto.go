package integration

import (
	"time"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/google/uuid"
)

// PushRequest selects the records to push; empty means all
type PushRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"omitempty,max=500,dive,required"`
}

// SyncRunResponse represents a sync run in API responses
type SyncRunResponse struct {
	ID         uuid.UUID                `json:"id"`
	Kind       string                   `json:"kind"`
	Direction  string                   `json:"direction"`
	Status     string                   `json:"status"`
	Total      int                      `json:"total"`
	Created    int                      `json:"created"`
	Updated    int                      `json:"updated"`
	Succeeded  int                      `json:"succeeded"`
	Failed     int                      `json:"failed"`
	Summary    string                   `json:"summary"`
	FirstError string                   `json:"first_error,omitempty"`
	Failures   []integration.RunFailure `json:"failures"`
	StartedAt  time.Time                `json:"started_at"`
	FinishedAt time.Time                `json:"finished_at"`
}

// SyncRunListItem is a run without its failure list
type SyncRunListItem struct {
	ID         uuid.UUID `json:"id"`
	Kind       string    `json:"kind"`
	Direction  string    `json:"direction"`
	Status     string    `json:"status"`
	Total      int       `json:"total"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	Summary    string    `json:"summary"`
	FirstError string    `json:"first_error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// SyncRunListFilter is the query for listing runs
type SyncRunListFilter struct {
	Kind      string `form:"kind" binding:"omitempty,oneof=product customer order"`
	Direction string `form:"direction" binding:"omitempty,oneof=pull push"`
	Status    string `form:"status" binding:"omitempty,oneof=SUCCESS PARTIAL FAILED"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ConnectionResponse describes a tenant's connection without its secrets
type ConnectionResponse struct {
	ShopDomain           string     `json:"shop_domain"`
	ShopName             string     `json:"shop_name,omitempty"`
	ShopifyConfigured    bool       `json:"shopify_configured"`
	AccessTokenHint      string     `json:"access_token_hint,omitempty"`
	ShiprocketEmail      string     `json:"shiprocket_email,omitempty"`
	ShiprocketConfigured bool       `json:"shiprocket_configured"`
	LastVerifiedAt       *time.Time `json:"last_verified_at,omitempty"`
}

// UpdateConnectionRequest sets credentials. Blank secrets keep the stored
// values.
type UpdateConnectionRequest struct {
	ShopDomain         string `json:"shop_domain" binding:"omitempty,max=255,shop_domain"`
	AccessToken        string `json:"access_token" binding:"omitempty,max=255"`
	ShiprocketEmail    string `json:"shiprocket_email" binding:"omitempty,email,max=255"`
	ShiprocketPassword string `json:"shiprocket_password" binding:"omitempty,max=255"`
}

// ToSyncRunResponse converts a domain SyncRun to a response
func ToSyncRunResponse(run *integration.SyncRun) *SyncRunResponse {
	failures := []integration.RunFailure(run.Failures)
	if failures == nil {
		failures = []integration.RunFailure{}
	}
	return &SyncRunResponse{
		ID:         run.ID,
		Kind:       run.Kind.String(),
		Direction:  string(run.Direction),
		Status:     string(run.Status),
		Total:      run.Total,
		Created:    run.Created,
		Updated:    run.Updated,
		Succeeded:  run.Succeeded,
		Failed:     run.Failed,
		Summary:    run.Summary(),
		FirstError: run.FirstError,
		Failures:   failures,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
}

// ToSyncRunListItems converts runs to list items
func ToSyncRunListItems(runs []integration.SyncRun) []SyncRunListItem {
	items := make([]SyncRunListItem, len(runs))
	for i := range runs {
		run := &runs[i]
		items[i] = SyncRunListItem{
			ID:         run.ID,
			Kind:       run.Kind.String(),
			Direction:  string(run.Direction),
			Status:     string(run.Status),
			Total:      run.Total,
			Succeeded:  run.Succeeded,
			Failed:     run.Failed,
			Summary:    run.Summary(),
			FirstError: run.FirstError,
			StartedAt:  run.StartedAt,
			FinishedAt: run.FinishedAt,
		}
	}
	return items
}

// ToConnectionResponse converts a connection; nil yields an empty response
func ToConnectionResponse(conn *integration.StoreConnection) *ConnectionResponse {
	if conn == nil {
		return &ConnectionResponse{}
	}
	_, shopifyErr := conn.Shopify()
	_, shiprocketErr := conn.Shiprocket()
	resp := &ConnectionResponse{
		ShopDomain:           conn.ShopDomain,
		ShopName:             conn.ShopName,
		ShopifyConfigured:    shopifyErr == nil,
		ShiprocketEmail:      conn.ShiprocketEmail,
		ShiprocketConfigured: shiprocketErr == nil,
		LastVerifiedAt:       conn.LastVerifiedAt,
	}
	if n := len(conn.ShopAccessToken); n > 4 {
		resp.AccessTokenHint = "..." + conn.ShopAccessToken[n-4:]
	}
	return resp
}
