package booths

import (
	"context"
	"errors"
	"fmt"
)

// MaxAcsPerPc caps how many constituencies /get-all-pcs-data reports per PC.
const MaxAcsPerPc = 6

// ReportService answers the read-only reporting queries.
type ReportService struct {
	repo Repository
}

func NewReportService(repo Repository) *ReportService {
	return &ReportService{repo: repo}
}

func (s *ReportService) ConstituencyNames(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, MappingConstituency, "No ACs found")
}

func (s *ReportService) PcNames(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, MappingPC, "No PCs found")
}

func (s *ReportService) CountPcs(ctx context.Context) (TotalCount, error) {
	return s.countDistinct(ctx, MappingPC, "No PCs found")
}

func (s *ReportService) CountConstituencies(ctx context.Context) (TotalCount, error) {
	return s.countDistinct(ctx, MappingConstituency, "No ACs found")
}

func (s *ReportService) CountBooths(ctx context.Context) (TotalCount, error) {
	return s.countDistinct(ctx, MappingBooth, "No booths found")
}

// TotalVotes sums the AC aggregate table. An empty table is a zero count, not an error.
func (s *ReportService) TotalVotes(ctx context.Context) (TotalCount, error) {
	n, err := s.repo.SumAcTotalVotes(ctx)
	if err != nil {
		return TotalCount{}, fmt.Errorf("sum ac total votes: %w", err)
	}
	return TotalCount{TotalCount: n}, nil
}

func (s *ReportService) TotalPolledVotes(ctx context.Context) (TotalCount, error) {
	return s.sum(ctx, VotePolled)
}

func (s *ReportService) TotalFavVotes(ctx context.Context) (TotalCount, error) {
	return s.sum(ctx, VoteFav)
}

func (s *ReportService) TotalUbtVotes(ctx context.Context) (TotalCount, error) {
	return s.sum(ctx, VoteUbt)
}

// TurnoutByBoothType reports polled votes as a share of eligible votes per boothType.
func (s *ReportService) TurnoutByBoothType(ctx context.Context) ([]BoothTypeTurnout, error) {
	groups, err := s.repo.TotalsByBoothType(ctx)
	if err != nil {
		return nil, fmt.Errorf("totals by booth type: %w", err)
	}

	out := make([]BoothTypeTurnout, 0, len(groups))
	for _, g := range groups {
		out = append(out, turnout(g))
	}
	return out, nil
}

// VoteShareByBoothType reports fav, ubt and other as shares of polled votes per boothType.
func (s *ReportService) VoteShareByBoothType(ctx context.Context) ([]BoothTypeShare, error) {
	groups, err := s.repo.TotalsByBoothType(ctx)
	if err != nil {
		return nil, fmt.Errorf("totals by booth type: %w", err)
	}

	out := make([]BoothTypeShare, 0, len(groups))
	for _, g := range groups {
		out = append(out, voteShare(g))
	}
	return out, nil
}

// PcBreakdown groups booth constituencies by PC, keeps at most MaxAcsPerPc
// constituencies per PC and attaches one representative booth for each.
func (s *ReportService) PcBreakdown(ctx context.Context) ([]PcSummary, error) {
	pairs, err := s.repo.PcConstituencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("pc constituencies: %w", err)
	}

	groups := groupByPc(pairs, MaxAcsPerPc)
	if len(groups) == 0 {
		return nil, notFound("No PCs found")
	}

	for i := range groups {
		groups[i].Data = make([]AcSummary, 0, len(groups[i].Acs))
		for _, ac := range groups[i].Acs {
			b, err := s.repo.RepresentativeBooth(ctx, groups[i].PC, ac)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("representative booth %s/%s: %w", groups[i].PC, ac, err)
			}
			groups[i].Data = append(groups[i].Data, AcSummary{
				Constituency: ac,
				TotalVotes:   b.TotalVotes,
				PolledVotes:  b.PolledVotes,
				FavVotes:     b.FavVotes,
				UbtVotes:     b.UbtVotes,
			})
		}
	}
	return groups, nil
}

func (s *ReportService) distinct(ctx context.Context, field MappingField, emptyMsg string) ([]string, error) {
	values, err := s.repo.DistinctMappingValues(ctx, field)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}
	if len(values) == 0 {
		return nil, notFound(emptyMsg)
	}
	return values, nil
}

func (s *ReportService) countDistinct(ctx context.Context, field MappingField, emptyMsg string) (TotalCount, error) {
	n, err := s.repo.CountDistinctMappingValues(ctx, field)
	if err != nil {
		return TotalCount{}, fmt.Errorf("count distinct %s: %w", field, err)
	}
	if n == 0 {
		return TotalCount{}, notFound(emptyMsg)
	}
	return TotalCount{TotalCount: n}, nil
}

func (s *ReportService) sum(ctx context.Context, field VoteField) (TotalCount, error) {
	n, err := s.repo.SumBoothVotes(ctx, field)
	if err != nil {
		return TotalCount{}, fmt.Errorf("sum %s: %w", field, err)
	}
	return TotalCount{TotalCount: n}, nil
}

// percent returns 100*num/den, or nil when den is zero.
func percent(num, den int64) *float64 {
	if den == 0 {
		return nil
	}
	p := float64(num) / float64(den) * 100
	return &p
}

func turnout(g BoothTypeTotals) BoothTypeTurnout {
	return BoothTypeTurnout{
		BoothType:             g.BoothType,
		TotalVotes:            g.TotalVotes,
		TotalPolledVotes:      g.TotalPolledVotes,
		PolledVotesPercentage: percent(g.TotalPolledVotes, g.TotalVotes),
	}
}

func voteShare(g BoothTypeTotals) BoothTypeShare {
	share := BoothTypeShare{
		BoothType:          g.BoothType,
		TotalVotes:         g.TotalVotes,
		TotalPolledVotes:   g.TotalPolledVotes,
		TotalFavVotes:      g.TotalFavVotes,
		TotalUbtVotes:      g.TotalUbtVotes,
		FavVotesPercentage: percent(g.TotalFavVotes, g.TotalPolledVotes),
		UbtVotesPercentage: percent(g.TotalUbtVotes, g.TotalPolledVotes),
	}
	if share.FavVotesPercentage != nil && share.UbtVotesPercentage != nil {
		other := 100 - (*share.FavVotesPercentage + *share.UbtVotesPercentage)
		share.OtherVotesPercentage = &other
	}
	return share
}

// groupByPc keeps the first appearance order of PCs and constituencies.
func groupByPc(pairs []PcConstituency, limit int) []PcSummary {
	var out []PcSummary
	index := map[string]int{}
	seen := map[PcConstituency]struct{}{}
	for _, p := range pairs {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}

		i, ok := index[p.PC]
		if !ok {
			i = len(out)
			index[p.PC] = i
			out = append(out, PcSummary{PC: p.PC, Acs: []string{}})
		}
		if len(out[i].Acs) < limit {
			out[i].Acs = append(out[i].Acs, p.Constituency)
		}
	}
	return out
}
