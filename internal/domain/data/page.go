package data

import (
	"encoding/json"
	"time"
)

type PageData struct {
	URL           string    `json:"url"`
	Status        int       `json:"status"`
	Links         []string  `json:"links"`
	LastRunID     string    `json:"lastRunID"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	FoundAt       time.Time `json:"foundAt"`
	ContentType   string    `json:"contentType"`
	Rendered      bool      `json:"rendered"`
}

func (p *PageData) MarshalBinary() ([]byte, error) {
	return json.Marshal(p)
}

func (p *PageData) ToParams() (map[string]any, error) {
	var m map[string]any
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
