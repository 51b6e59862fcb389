package adminstats

// LevelCount is a verification level bucket
type LevelCount struct {
	Level int `json:"level"`
	Count int `json:"count"`
}

// BucketCount is a labelled distribution bucket
type BucketCount struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// Summary is the console landing-page overview
type Summary struct {
	TotalProfiles      int          `json:"total_profiles"`
	ActiveProfiles     int          `json:"active_profiles"`
	PremiumActive      int          `json:"premium_active"`
	FlaggedProfiles    int          `json:"flagged_profiles"`
	VerificationLevels []LevelCount `json:"verification_levels"`
	PendingReports     int          `json:"pending_reports"`
	PendingQueueItems  int          `json:"pending_queue_items"`
}

// SourceRevenue groups settled payments by plan or method
type SourceRevenue struct {
	Source string `json:"source"`
	Amount int64  `json:"amount"`
	Count  int    `json:"count"`
}

// Revenue is the settled payment rollup
type Revenue struct {
	TotalAmount       int64           `json:"total_amount"`
	PaymentCount      int             `json:"payment_count"`
	ByPlan            []SourceRevenue `json:"by_plan"`
	ByMethod          []SourceRevenue `json:"by_method"`
	GrantsBySource    []BucketCount   `json:"grants_by_source"`
	TrustDistribution []BucketCount   `json:"trust_distribution"`
}

// SuccessFunnel tracks reported milestones through to marriage
type SuccessFunnel struct {
	Reported int `json:"reported"`
	Approved int `json:"approved"`
	Married  int `json:"married"`
}

// Analytics is the growth and engagement rollup
type Analytics struct {
	NewProfiles7d    int           `json:"new_profiles_7d"`
	NewProfiles30d   int           `json:"new_profiles_30d"`
	RiskSignals30d   int           `json:"risk_signals_30d"`
	Successes        SuccessFunnel `json:"successes"`
	RiskDistribution []BucketCount `json:"risk_distribution"`
}
