package jobs

import "time"

// Job is a scraped job posting. Structured list fields are stored as jsonb.
type Job struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Company          string    `json:"company"`
	Description      string    `json:"description,omitempty"`
	Location         string    `json:"location,omitempty"`
	SalaryMin        int64     `json:"salaryMin,omitempty"`
	SalaryMax        int64     `json:"salaryMax,omitempty"`
	Currency         string    `json:"currency,omitempty"`
	TechSkills       []string  `json:"techSkills,omitempty"`
	SoftSkills       []string  `json:"softSkills,omitempty"`
	Responsibilities []string  `json:"responsibilities,omitempty"`
	Qualifications   []string  `json:"qualifications,omitempty"`
	SourceURL        string    `json:"sourceUrl,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Selection records that a user picked a job.
type Selection struct {
	UserID     string    `json:"userId"`
	JobID      string    `json:"jobId"`
	SelectedAt time.Time `json:"selectedAt"`
}
