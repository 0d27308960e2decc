package dto

// DashboardResponse captures the aggregated registrar dashboard payload.
type DashboardResponse struct {
	Students StudentsSection `json:"students"`
	Staff    StaffSection    `json:"staff"`
	ByStrand []StrandCount   `json:"byStrand"`
}

// StudentsSection summarises enrollment counts by status.
type StudentsSection struct {
	Total     int `json:"total"`
	Enrolled  int `json:"enrolled"`
	Pending   int `json:"pending"`
	Cancelled int `json:"cancelled"`
}

// StaffSection summarises staff account counts.
type StaffSection struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// StrandCount denotes per-strand student headcount.
type StrandCount struct {
	Strand string `db:"strand" json:"strand"`
	Count  int    `db:"count" json:"count"`
}
