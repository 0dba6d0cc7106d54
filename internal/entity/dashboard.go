package entity

// DashboardResponse aggregates the staff dashboard numbers.
type DashboardResponse struct {
	ActiveCampaigns int64        `json:"campanhas_ativas"`
	TotalItems      int64        `json:"total_itens"`
	TotalBids       int64        `json:"total_lances"`
	TotalRaised     float64      `json:"valor_arrecadado"`
	LatestBids      []BidSummary `json:"ultimos_lances"`
}
