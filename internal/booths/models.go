package booths

import "time"

// Booth is one polling booth's tally. Vote counts are kept as text, as they
// arrive from the field returns, and coerced to integers when aggregated.
type Booth struct {
	ID           string    `gorm:"primaryKey" json:"_id"`
	Booth        string    `gorm:"not null;index" json:"booth"`
	Constituency string    `gorm:"not null;index" json:"constituency"`
	PC           string    `gorm:"column:pc;not null;index" json:"pc"`
	BoothType    string    `gorm:"not null;default:''" json:"boothType"`
	TotalVotes   Count     `gorm:"type:text" json:"totalVotes"`
	PolledVotes  Count     `gorm:"type:text" json:"polledVotes"`
	FavVotes     Count     `gorm:"type:text" json:"favVotes"`
	UbtVotes     Count     `gorm:"type:text" json:"ubtVotes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BoothMapping places a booth in its constituency and PC.
type BoothMapping struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	Booth        string `gorm:"not null" json:"booth"`
	Constituency string `gorm:"not null;index" json:"constituency"`
	PC           string `gorm:"column:pc;not null;index" json:"pc"`
}

// AcTotal is a precomputed per-constituency vote total.
type AcTotal struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	Constituency string `gorm:"not null" json:"constituency"`
	PC           string `gorm:"column:pc" json:"pc"`
	TotalVotes   Count  `gorm:"type:text" json:"totalVotes"`
}

func (Booth) TableName() string        { return "booth_data.booths" }
func (BoothMapping) TableName() string { return "booth_data.booth_mappings" }
func (AcTotal) TableName() string      { return "booth_data.acs" }

// BoothTypeTotals is one boothType group of the booth table.
type BoothTypeTotals struct {
	BoothType        string
	TotalVotes       int64
	TotalPolledVotes int64
	TotalFavVotes    int64
	TotalUbtVotes    int64
}

// PcConstituency is one distinct (pc, constituency) pair present in booth records.
type PcConstituency struct {
	PC           string
	Constituency string
}

// TotalCount is the body of every count and sum endpoint.
type TotalCount struct {
	TotalCount int64 `json:"totalCount"`
}

// BoothTypeTurnout is a row of /total-votes-by-booth-type.
type BoothTypeTurnout struct {
	BoothType             string   `json:"_id"`
	TotalVotes            int64    `json:"totalVotes"`
	TotalPolledVotes      int64    `json:"totalPolledVotes"`
	PolledVotesPercentage *float64 `json:"polledVotesPercentage"`
}

// BoothTypeShare is a row of /votes-by-fav-ubt-other-percentage.
type BoothTypeShare struct {
	BoothType            string   `json:"_id"`
	TotalVotes           int64    `json:"totalVotes"`
	TotalPolledVotes     int64    `json:"totalPolledVotes"`
	TotalFavVotes        int64    `json:"totalFavVotes"`
	TotalUbtVotes        int64    `json:"totalUbtVotes"`
	FavVotesPercentage   *float64 `json:"favVotesPercentage"`
	UbtVotesPercentage   *float64 `json:"ubtVotesPercentage"`
	OtherVotesPercentage *float64 `json:"otherVotesPercentage"`
}

// PcSummary is a row of /get-all-pcs-data.
type PcSummary struct {
	PC   string      `json:"_id"`
	Acs  []string    `json:"acs"`
	Data []AcSummary `json:"data"`
}

// AcSummary projects the representative booth of one constituency.
type AcSummary struct {
	Constituency string `json:"constituency"`
	TotalVotes   Count  `json:"totalVotes"`
	PolledVotes  Count  `json:"polledVotes"`
	FavVotes     Count  `json:"favVotes"`
	UbtVotes     Count  `json:"ubtVotes"`
}
