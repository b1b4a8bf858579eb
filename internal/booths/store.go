package booths

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MappingField is a column of the booth mapping table that can be listed or counted.
type MappingField string

const (
	MappingConstituency MappingField = "constituency"
	MappingPC           MappingField = "pc"
	MappingBooth        MappingField = "booth"
)

// VoteField is a text count column of the booth table.
type VoteField string

const (
	VoteTotal  VoteField = "total_votes"
	VotePolled VoteField = "polled_votes"
	VoteFav    VoteField = "fav_votes"
	VoteUbt    VoteField = "ubt_votes"
)

// Repository is the storage surface used by the report and CRUD services.
type Repository interface {
	DistinctMappingValues(ctx context.Context, field MappingField) ([]string, error)
	CountDistinctMappingValues(ctx context.Context, field MappingField) (int64, error)
	BoothNamesByConstituency(ctx context.Context, constituency string) ([]string, error)

	SumAcTotalVotes(ctx context.Context) (int64, error)
	SumBoothVotes(ctx context.Context, field VoteField) (int64, error)
	TotalsByBoothType(ctx context.Context) ([]BoothTypeTotals, error)
	PcConstituencies(ctx context.Context) ([]PcConstituency, error)
	// RepresentativeBooth returns ErrNotFound when the pair has no booth.
	RepresentativeBooth(ctx context.Context, pc, constituency string) (*Booth, error)

	CreateBooth(ctx context.Context, b *Booth) error
	ListBooths(ctx context.Context) ([]Booth, error)
	GetBooth(ctx context.Context, id string) (*Booth, error)
	FindBooths(ctx context.Context, column string, value string) ([]Booth, error)
	// UpdateBooth applies mutate to the current record and persists the result
	// atomically. A mutate error aborts the write and is returned unchanged.
	UpdateBooth(ctx context.Context, id string, mutate func(b *Booth) error) (*Booth, error)
	DeleteBooth(ctx context.Context, id string) (bool, error)
}

// Store implements Repository on PostgreSQL through gorm.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// intSum sums a text column as integers; blank and NULL count as zero.
func intSum(column string) string {
	return fmt.Sprintf("COALESCE(SUM(CAST(NULLIF(TRIM(%s), '') AS BIGINT)), 0)", column)
}

func (s *Store) DistinctMappingValues(ctx context.Context, field MappingField) ([]string, error) {
	col, err := mappingColumn(field)
	if err != nil {
		return nil, err
	}

	var values []string
	err = s.db.WithContext(ctx).
		Model(&BoothMapping{}).
		Where(col+" IS NOT NULL").
		Distinct(col).
		Order(col+" ASC").
		Pluck(col, &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

func (s *Store) CountDistinctMappingValues(ctx context.Context, field MappingField) (int64, error) {
	col, err := mappingColumn(field)
	if err != nil {
		return 0, err
	}

	var n int64
	err = s.db.WithContext(ctx).
		Model(&BoothMapping{}).
		Where(col + " IS NOT NULL").
		Distinct(col).
		Count(&n).Error
	return n, err
}

func (s *Store) BoothNamesByConstituency(ctx context.Context, constituency string) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).
		Model(&BoothMapping{}).
		Where("constituency = ?", constituency).
		Order("booth ASC").
		Pluck("booth", &names).Error
	return names, err
}

func (s *Store) SumAcTotalVotes(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&AcTotal{}).
		Select(intSum("total_votes")).
		Scan(&total).Error
	return total, err
}

func (s *Store) SumBoothVotes(ctx context.Context, field VoteField) (int64, error) {
	switch field {
	case VoteTotal, VotePolled, VoteFav, VoteUbt:
	default:
		return 0, fmt.Errorf("unknown vote field %q", field)
	}

	var total int64
	err := s.db.WithContext(ctx).
		Model(&Booth{}).
		Select(intSum(string(field))).
		Scan(&total).Error
	return total, err
}

func (s *Store) TotalsByBoothType(ctx context.Context) ([]BoothTypeTotals, error) {
	var rows []BoothTypeTotals
	err := s.db.WithContext(ctx).
		Model(&Booth{}).
		Select("booth_type, " +
			intSum("total_votes") + " AS total_votes, " +
			intSum("polled_votes") + " AS total_polled_votes, " +
			intSum("fav_votes") + " AS total_fav_votes, " +
			intSum("ubt_votes") + " AS total_ubt_votes").
		Group("booth_type").
		Order("booth_type ASC").
		Scan(&rows).Error
	return rows, err
}

func (s *Store) PcConstituencies(ctx context.Context) ([]PcConstituency, error) {
	var rows []PcConstituency
	err := s.db.WithContext(ctx).
		Model(&Booth{}).
		Distinct("pc", "constituency").
		Order("pc ASC, constituency ASC").
		Scan(&rows).Error
	return rows, err
}

func (s *Store) RepresentativeBooth(ctx context.Context, pc, constituency string) (*Booth, error) {
	var b Booth
	err := s.db.WithContext(ctx).
		Where("pc = ? AND constituency = ?", pc, constituency).
		Order("created_at ASC, id ASC").
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) CreateBooth(ctx context.Context, b *Booth) error {
	return s.db.WithContext(ctx).Create(b).Error
}

func (s *Store) ListBooths(ctx context.Context) ([]Booth, error) {
	var booths []Booth
	err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&booths).Error
	return booths, err
}

func (s *Store) GetBooth(ctx context.Context, id string) (*Booth, error) {
	var b Booth
	err := s.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// FindBooths filters booths by equality on one of booth or constituency.
func (s *Store) FindBooths(ctx context.Context, column string, value string) ([]Booth, error) {
	switch column {
	case "booth", "constituency":
	default:
		return nil, fmt.Errorf("unsupported filter column %q", column)
	}

	var booths []Booth
	err := s.db.WithContext(ctx).
		Where(column+" = ?", value).
		Order("created_at ASC, id ASC").
		Find(&booths).Error
	return booths, err
}

// UpdateBooth holds a row lock from the read until the write, so concurrent
// partial updates of one booth serialize instead of overwriting each other.
func (s *Store) UpdateBooth(ctx context.Context, id string, mutate func(b *Booth) error) (*Booth, error) {
	var out Booth
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b Booth
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := mutate(&b); err != nil {
			return err
		}

		b.UpdatedAt = time.Now()
		if err := tx.Model(&Booth{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"booth":        b.Booth,
				"constituency": b.Constituency,
				"pc":           b.PC,
				"booth_type":   b.BoothType,
				"total_votes":  b.TotalVotes,
				"polled_votes": b.PolledVotes,
				"fav_votes":    b.FavVotes,
				"ubt_votes":    b.UbtVotes,
				"updated_at":   b.UpdatedAt,
			}).Error; err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) DeleteBooth(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&Booth{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func mappingColumn(field MappingField) (string, error) {
	switch field {
	case MappingConstituency, MappingPC, MappingBooth:
		return string(field), nil
	}
	return "", fmt.Errorf("unknown mapping field %q", field)
}
