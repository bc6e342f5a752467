package service

import (
	"sort"

	"meetup_bot/internal/model"
	"meetup_bot/internal/repository"
	"meetup_bot/internal/util"
)

// SearchService ranks registered users by interest overlap with the
// requester. Attribute filters narrow the candidate pool in SQL; scoring and
// the exclusionary interest filter run here.
type SearchService struct {
	Users *repository.UserRepository
}

func NewSearchService(users *repository.UserRepository) *SearchService {
	return &SearchService{Users: users}
}

// SearchFilters are the user-supplied narrowing criteria. Zero values mean
// "no filter". AgeRange is a raw "min-max" string; a malformed range is
// ignored rather than rejected.
type SearchFilters struct {
	Gender    string
	Region    string
	AgeRange  string
	Interests []string
}

// Candidate is a ranked search hit.
type Candidate struct {
	User  model.User
	Score int
}

// Search returns the full ranked candidate set, descending by overlap with
// the requester's interests; callers truncate for display. When an interest
// filter is supplied, zero-overlap candidates are dropped entirely.
func (s *SearchService) Search(requester *model.User, f SearchFilters) ([]Candidate, error) {
	filter := repository.SearchFilter{
		ExcludePhone: requester.Number,
		Gender:       f.Gender,
		Region:       f.Region,
	}
	if min, max, ok := util.ParseAgeRange(f.AgeRange); ok {
		filter.MinAge = min
		filter.MaxAge = max
		filter.AgeFiltered = true
	}

	users, err := s.Users.FindRegistered(filter)
	if err != nil {
		return nil, err
	}

	reference := f.Interests
	filtered := len(reference) > 0
	if !filtered {
		reference = requester.InterestList()
	}
	refSet := make(map[string]struct{}, len(reference))
	for _, interest := range reference {
		refSet[interest] = struct{}{}
	}

	candidates := make([]Candidate, 0, len(users))
	for _, u := range users {
		score := overlap(refSet, u.InterestList())
		if filtered && score == 0 {
			continue
		}
		candidates = append(candidates, Candidate{User: u, Score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates, nil
}

// FindCandidates is the display-oriented variant: candidates must be
// reachable (known chat id) and the result is capped.
func (s *SearchService) FindCandidates(requester *model.User, f SearchFilters, limit int) ([]Candidate, error) {
	candidates, err := s.Search(requester, f)
	if err != nil {
		return nil, err
	}
	reachable := candidates[:0]
	for _, c := range candidates {
		if c.User.ChatID != nil {
			reachable = append(reachable, c)
		}
	}
	if limit > 0 && len(reachable) > limit {
		reachable = reachable[:limit]
	}
	return reachable, nil
}

func overlap(reference map[string]struct{}, interests []string) int {
	n := 0
	for _, interest := range interests {
		if _, ok := reference[interest]; ok {
			n++
		}
	}
	return n
}
