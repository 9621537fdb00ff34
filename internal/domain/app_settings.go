package domain

import "time"

// AppSettingsID is the primary key of the singleton settings row.
const AppSettingsID = 1

// AppSettings holds integration credentials for collaborator services.
type AppSettings struct {
	ID            int       `json:"id"`
	EmailService  string    `json:"emailService"`
	EmailUsername string    `json:"emailUsername"`
	EmailPassKey  string    `json:"emailPassKey"`
	MovieAPIKey   string    `json:"movieApiKey"`
	BookAPIKey    string    `json:"bookApiKey"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
