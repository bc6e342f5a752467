package service

import (
	"testing"

	"meetup_bot/internal/model"
	"meetup_bot/internal/repository"
)

func TestSearchRanksByOverlap(t *testing.T) {
	db := newTestDB(t)
	search := NewSearchService(repository.NewUserRepository(db))

	requester := seedRegistered(t, db, "+79001110001", 100, func(u *model.User) {
		u.Interests = "музыка,спорт"
	})
	seedRegistered(t, db, "+79001110002", 200, func(u *model.User) {
		u.Name = "Оба"
		u.Interests = "музыка,спорт,кино"
	})
	seedRegistered(t, db, "+79001110003", 300, func(u *model.User) {
		u.Name = "Один"
		u.Interests = "спорт"
	})
	seedRegistered(t, db, "+79001110004", 400, func(u *model.User) {
		u.Name = "Ноль"
		u.Interests = "кино"
	})

	candidates, err := search.Search(requester, SearchFilters{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("candidates = %d, want 3 without an interest filter", len(candidates))
	}
	if candidates[0].User.Number != "+79001110002" || candidates[0].Score != 2 {
		t.Errorf("top candidate = %s score %d, want the two-interest match", candidates[0].User.Number, candidates[0].Score)
	}
	if candidates[1].Score != 1 || candidates[2].Score != 0 {
		t.Errorf("scores = [%d %d %d], want descending 2 1 0",
			candidates[0].Score, candidates[1].Score, candidates[2].Score)
	}

	// the requester never appears in their own results
	for _, c := range candidates {
		if c.User.Number == requester.Number {
			t.Error("requester listed among candidates")
		}
	}
}

func TestSearchInterestFilterExcludes(t *testing.T) {
	db := newTestDB(t)
	search := NewSearchService(repository.NewUserRepository(db))

	requester := seedRegistered(t, db, "+79001110001", 100, nil)
	seedRegistered(t, db, "+79001110002", 200, func(u *model.User) {
		u.Interests = "музыка"
	})
	seedRegistered(t, db, "+79001110003", 300, func(u *model.User) {
		u.Interests = "кино"
	})

	candidates, err := search.Search(requester, SearchFilters{Interests: []string{"музыка"}})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(candidates) != 1 || candidates[0].User.Number != "+79001110002" {
		t.Fatalf("filtered candidates = %v, want only the matching user", candidates)
	}
}

func TestSearchAttributeFilters(t *testing.T) {
	db := newTestDB(t)
	search := NewSearchService(repository.NewUserRepository(db))

	requester := seedRegistered(t, db, "+79001110001", 100, nil)
	seedRegistered(t, db, "+79001110002", 200, func(u *model.User) {
		u.Gender = strPtr("Жен")
		u.Age = intPtr(25)
		u.Region = "Москва"
	})
	seedRegistered(t, db, "+79001110003", 300, func(u *model.User) {
		u.Gender = strPtr("Жен")
		u.Age = intPtr(40)
		u.Region = "Москва"
	})
	seedRegistered(t, db, "+79001110004", 400, func(u *model.User) {
		u.Gender = strPtr("Муж")
		u.Age = intPtr(25)
		u.Region = "Казань"
	})

	candidates, err := search.Search(requester, SearchFilters{
		Gender:   "Жен",
		Region:   "Москва",
		AgeRange: "20-30",
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(candidates) != 1 || candidates[0].User.Number != "+79001110002" {
		t.Fatalf("candidates = %v, want only the 25-year-old from Москва", candidates)
	}

	// malformed range degrades to no age filter
	candidates, err = search.Search(requester, SearchFilters{Gender: "Жен", AgeRange: "oops"})
	if err != nil {
		t.Fatalf("Search with bad range: %v", err)
	}
	if len(candidates) != 2 {
		t.Errorf("candidates with bad range = %d, want 2", len(candidates))
	}
}

func TestFindCandidatesCapsAndRequiresChat(t *testing.T) {
	db := newTestDB(t)
	search := NewSearchService(repository.NewUserRepository(db))

	requester := seedRegistered(t, db, "+79001110001", 100, nil)
	for i := 0; i < 5; i++ {
		phone := "+7900111100" + string(rune('2'+i))
		chatID := int64(200 + i)
		seedRegistered(t, db, phone, chatID, nil)
	}
	// registered but unreachable
	unreachable := &model.User{Number: "+79001119999", Registered: true}
	if err := db.Create(unreachable).Error; err != nil {
		t.Fatalf("seed unreachable: %v", err)
	}

	candidates, err := search.FindCandidates(requester, SearchFilters{}, 3)
	if err != nil {
		t.Fatalf("FindCandidates: %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("candidates = %d, want the cap of 3", len(candidates))
	}
	for _, c := range candidates {
		if c.User.ChatID == nil {
			t.Error("unreachable user returned by FindCandidates")
		}
	}
}
