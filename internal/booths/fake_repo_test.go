package booths

import (
	"context"
	"sort"
	"sync"
)

// memoryRepo is an in-memory Repository for service and handler tests.
type memoryRepo struct {
	mu       sync.Mutex
	booths   []Booth
	mappings []BoothMapping
	acs      []AcTotal
	err      error

	representativeLookups int
}

var _ Repository = (*memoryRepo)(nil)

func (m *memoryRepo) DistinctMappingValues(ctx context.Context, field MappingField) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	set := map[string]struct{}{}
	for _, mp := range m.mappings {
		set[mappingValue(mp, field)] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func (m *memoryRepo) CountDistinctMappingValues(ctx context.Context, field MappingField) (int64, error) {
	values, err := m.DistinctMappingValues(ctx, field)
	return int64(len(values)), err
}

func (m *memoryRepo) BoothNamesByConstituency(ctx context.Context, constituency string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	var names []string
	for _, mp := range m.mappings {
		if mp.Constituency == constituency {
			names = append(names, mp.Booth)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *memoryRepo) SumAcTotalVotes(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}

	var total int64
	for _, ac := range m.acs {
		n, err := ac.TotalVotes.Int()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (m *memoryRepo) SumBoothVotes(ctx context.Context, field VoteField) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}

	var total int64
	for _, b := range m.booths {
		n, err := voteValue(b, field).Int()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (m *memoryRepo) TotalsByBoothType(ctx context.Context) ([]BoothTypeTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	byType := map[string]*BoothTypeTotals{}
	for _, b := range m.booths {
		g, ok := byType[b.BoothType]
		if !ok {
			g = &BoothTypeTotals{BoothType: b.BoothType}
			byType[b.BoothType] = g
		}
		total, _ := b.TotalVotes.Int()
		polled, _ := b.PolledVotes.Int()
		fav, _ := b.FavVotes.Int()
		ubt, _ := b.UbtVotes.Int()
		g.TotalVotes += total
		g.TotalPolledVotes += polled
		g.TotalFavVotes += fav
		g.TotalUbtVotes += ubt
	}

	out := make([]BoothTypeTotals, 0, len(byType))
	for _, g := range byType {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BoothType < out[j].BoothType })
	return out, nil
}

func (m *memoryRepo) PcConstituencies(ctx context.Context) ([]PcConstituency, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	set := map[PcConstituency]struct{}{}
	for _, b := range m.booths {
		set[PcConstituency{PC: b.PC, Constituency: b.Constituency}] = struct{}{}
	}
	out := make([]PcConstituency, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PC != out[j].PC {
			return out[i].PC < out[j].PC
		}
		return out[i].Constituency < out[j].Constituency
	})
	return out, nil
}

func (m *memoryRepo) RepresentativeBooth(ctx context.Context, pc, constituency string) (*Booth, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.representativeLookups++
	if m.err != nil {
		return nil, m.err
	}

	for _, b := range m.booths {
		if b.PC == pc && b.Constituency == constituency {
			cp := b
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryRepo) CreateBooth(ctx context.Context, b *Booth) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.booths = append(m.booths, *b)
	return nil
}

func (m *memoryRepo) ListBooths(ctx context.Context) ([]Booth, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]Booth(nil), m.booths...), nil
}

func (m *memoryRepo) GetBooth(ctx context.Context, id string) (*Booth, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, b := range m.booths {
		if b.ID == id {
			cp := b
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryRepo) FindBooths(ctx context.Context, column string, value string) ([]Booth, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	var out []Booth
	for _, b := range m.booths {
		if (column == "booth" && b.Booth == value) || (column == "constituency" && b.Constituency == value) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryRepo) UpdateBooth(ctx context.Context, id string, mutate func(b *Booth) error) (*Booth, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.booths {
		if m.booths[i].ID == id {
			cp := m.booths[i]
			if err := mutate(&cp); err != nil {
				return nil, err
			}
			m.booths[i] = cp
			out := cp
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryRepo) DeleteBooth(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for i := range m.booths {
		if m.booths[i].ID == id {
			m.booths = append(m.booths[:i], m.booths[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func mappingValue(mp BoothMapping, field MappingField) string {
	switch field {
	case MappingPC:
		return mp.PC
	case MappingBooth:
		return mp.Booth
	default:
		return mp.Constituency
	}
}

func voteValue(b Booth, field VoteField) Count {
	switch field {
	case VotePolled:
		return b.PolledVotes
	case VoteFav:
		return b.FavVotes
	case VoteUbt:
		return b.UbtVotes
	default:
		return b.TotalVotes
	}
}
