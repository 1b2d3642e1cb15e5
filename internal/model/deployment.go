package model

import "time"

// DeploymentRecord is a single campaign contact event sent to a client.
// Records are immutable inputs; within an analysis window each TacticID
// appears exactly once.
type DeploymentRecord struct {
	TacticID       string     `json:"tactic_id"`
	ClientID       string     `json:"client_id"`
	CampaignID     string     `json:"campaign_id"`
	CampaignName   string     `json:"campaign_name"`
	DeploymentDate time.Time  `json:"deployment_date"`
	Channel        string     `json:"channel"`
	CreativeID     string     `json:"creative_id,omitempty"`
	Segment        string     `json:"segment,omitempty"`
	OfferType      string     `json:"offer_type"`
	ResponseFlag   bool       `json:"response_flag"`
	ResponseDate   *time.Time `json:"response_date,omitempty"`
	ConversionFlag bool       `json:"conversion_flag"`
	ConversionDate *time.Time `json:"conversion_date,omitempty"`
	Revenue        float64    `json:"revenue"`
}

// FrequencyAnnotation is the per-deployment output of the frequency engine.
// Window counts exclude the record itself; DaysSinceLastContact is nil for
// a client's first in-window contact.
type FrequencyAnnotation struct {
	TacticID             string `json:"tactic_id"`
	ClientID             string `json:"client_id"`
	ContactNumber        int    `json:"contact_number"`
	DaysSinceLastContact *int   `json:"days_since_last_contact,omitempty"`
	ContactsLast30d      int    `json:"contacts_last_30d"`
	ContactsLast60d      int    `json:"contacts_last_60d"`
	ContactsLast90d      int    `json:"contacts_last_90d"`
}
