package booths

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// BoothInput is the create/update payload. Nil fields are left untouched on update.
type BoothInput struct {
	Booth        *string `json:"booth"`
	Constituency *string `json:"constituency"`
	PC           *string `json:"pc"`
	BoothType    *string `json:"boothType"`
	TotalVotes   *Count  `json:"totalVotes"`
	PolledVotes  *Count  `json:"polledVotes"`
	FavVotes     *Count  `json:"favVotes"`
	UbtVotes     *Count  `json:"ubtVotes"`
}

// Apply copies the supplied fields onto b.
func (in BoothInput) Apply(b *Booth) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setCount := func(dst *Count, src *Count) {
		if src != nil {
			*dst = Count(strings.TrimSpace(string(*src)))
		}
	}

	setString(&b.Booth, in.Booth)
	setString(&b.Constituency, in.Constituency)
	setString(&b.PC, in.PC)
	setString(&b.BoothType, in.BoothType)
	setCount(&b.TotalVotes, in.TotalVotes)
	setCount(&b.PolledVotes, in.PolledVotes)
	setCount(&b.FavVotes, in.FavVotes)
	setCount(&b.UbtVotes, in.UbtVotes)
}

// Validate checks required fields, count syntax and polledVotes <= totalVotes.
func Validate(b *Booth) error {
	required := []struct {
		field string
		value string
	}{
		{"booth", b.Booth},
		{"constituency", b.Constituency},
		{"pc", b.PC},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Reason: "is required"}
		}
	}

	counts := []struct {
		field string
		value Count
	}{
		{"totalVotes", b.TotalVotes},
		{"polledVotes", b.PolledVotes},
		{"favVotes", b.FavVotes},
		{"ubtVotes", b.UbtVotes},
	}
	parsed := map[string]int64{}
	for _, c := range counts {
		n, err := c.value.Int()
		if err != nil {
			return &ValidationError{Field: c.field, Reason: fmt.Sprintf("%q is not an integer", string(c.value))}
		}
		if n < 0 {
			return &ValidationError{Field: c.field, Reason: "must not be negative"}
		}
		parsed[c.field] = n
	}

	if b.TotalVotes != "" && b.PolledVotes != "" && parsed["polledVotes"] > parsed["totalVotes"] {
		return &ValidationError{Field: "polledVotes", Reason: "must not exceed totalVotes"}
	}
	return nil
}

// BoothService is the create/read/update/delete surface for booth records.
type BoothService struct {
	repo Repository
}

func NewBoothService(repo Repository) *BoothService {
	return &BoothService{repo: repo}
}

func (s *BoothService) Create(ctx context.Context, in BoothInput) (*Booth, error) {
	b := &Booth{}
	in.Apply(b)
	if err := Validate(b); err != nil {
		return nil, err
	}

	b.ID = uuid.NewString()
	if err := s.repo.CreateBooth(ctx, b); err != nil {
		return nil, fmt.Errorf("create booth: %w", err)
	}
	return b, nil
}

// List returns every booth. There is no pagination.
func (s *BoothService) List(ctx context.Context) ([]Booth, error) {
	booths, err := s.repo.ListBooths(ctx)
	if err != nil {
		return nil, fmt.Errorf("list booths: %w", err)
	}
	if booths == nil {
		booths = []Booth{}
	}
	return booths, nil
}

func (s *BoothService) Get(ctx context.Context, id string) (*Booth, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, notFound("Booth not found")
	}

	b, err := s.repo.GetBooth(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("Booth not found")
		}
		return nil, fmt.Errorf("get booth: %w", err)
	}
	return b, nil
}

func (s *BoothService) FindByBoothName(ctx context.Context, name string) ([]Booth, error) {
	return s.find(ctx, "booth", name, "Booth data not found")
}

func (s *BoothService) FindByConstituency(ctx context.Context, name string) ([]Booth, error) {
	return s.find(ctx, "constituency", name, "No booths found for the constituency")
}

// BoothNamesByConstituency lists mapped booth names for a constituency in ascending order.
func (s *BoothService) BoothNamesByConstituency(ctx context.Context, name string) ([]string, error) {
	names, err := s.repo.BoothNamesByConstituency(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("booth names by constituency: %w", err)
	}
	if len(names) == 0 {
		return nil, notFound("No booths found for the constituency")
	}
	return names, nil
}

// Update applies a partial update and validates the merged record. The read,
// merge and write happen under one row lock.
func (s *BoothService) Update(ctx context.Context, id string, in BoothInput) (*Booth, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, notFound("Booth not found")
	}

	b, err := s.repo.UpdateBooth(ctx, id, func(b *Booth) error {
		in.Apply(b)
		return Validate(b)
	})
	if err != nil {
		var ve *ValidationError
		switch {
		case isNotFound(err):
			return nil, notFound("Booth not found")
		case errors.As(err, &ve):
			return nil, err
		}
		return nil, fmt.Errorf("update booth: %w", err)
	}
	return b, nil
}

func (s *BoothService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notFound("Booth not found")
	}

	deleted, err := s.repo.DeleteBooth(ctx, id)
	if err != nil {
		return fmt.Errorf("delete booth: %w", err)
	}
	if !deleted {
		return notFound("Booth not found")
	}
	return nil
}

func (s *BoothService) find(ctx context.Context, column, value, emptyMsg string) ([]Booth, error) {
	booths, err := s.repo.FindBooths(ctx, column, value)
	if err != nil {
		return nil, fmt.Errorf("find booths by %s: %w", column, err)
	}
	if len(booths) == 0 {
		return nil, notFound(emptyMsg)
	}
	return booths, nil
}
