package domain

// ReportInput is the body of a report request
type ReportInput struct {
	Months   int    `json:"months,omitempty" validate:"omitempty,min=1,max=240"`
	Weeks    int    `json:"weeks,omitempty" validate:"omitempty,min=1,max=1040"`
	MaxCount int    `json:"max_count,omitempty" validate:"omitempty,min=1,max=500"`
	End      string `json:"end,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Scaled   bool   `json:"scaled,omitempty"`
}

// ReportOutput is the rendered report returned by the api
type ReportOutput struct {
	RunID   string     `json:"run_id"`
	Header  []string   `json:"header"`
	Rows    [][]string `json:"rows"`
	Failed  int        `json:"failed"`
	Scaled  bool       `json:"scaled"`
	MinTime string     `json:"min_time,omitempty"`
	MaxTime string     `json:"max_time,omitempty"`
}

// BoundsOutput is the recorded sample range
type BoundsOutput struct {
	Empty   bool   `json:"empty"`
	MinTime string `json:"min_time,omitempty"`
	MaxTime string `json:"max_time,omitempty"`
	MinUnix int64  `json:"min_unix,omitempty"`
	MaxUnix int64  `json:"max_unix,omitempty"`
}
