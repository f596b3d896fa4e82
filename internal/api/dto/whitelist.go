package dto

import "mailroom/internal/domain"

type WhitelistEntryRequest struct {
	IPCidr      string `json:"ip_cidr"`
	Description string `json:"description,omitempty"`
}

type WhitelistListResponse struct {
	Entries         []domain.WhitelistEntry `json:"entries"`
	TotalCount      int                     `json:"total_count"`
	CurrentIP       string                  `json:"current_ip"`
	CurrentMatchIDs []uint64                `json:"current_match_ids"`
}

type WhitelistEntryResponse struct {
	Entry domain.WhitelistEntry `json:"entry"`
}
