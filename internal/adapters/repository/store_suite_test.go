package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/stretchr/testify/suite"

	"github.com/okian/candidates/internal/domain/candidate"
)

// storeSuite exercises the Store contract against any backend. Concrete
// suites supply newStore.
type storeSuite struct {
	suite.Suite
	newStore func() Store
	store    Store
	ctx      context.Context
}

func (s *storeSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore()
}

func (s *storeSuite) TearDownTest() {
	if s.store != nil {
		s.Require().NoError(s.store.Close())
	}
}

func sample(first string, age int, birth string) candidate.Candidate {
	d, err := candidate.ParseDate(birth)
	if err != nil {
		panic(err)
	}
	return candidate.Candidate{FirstName: first, LastName: "Silva", Age: age, BirthDate: d}
}

func (s *storeSuite) TestEmptyStore() {
	all, err := s.store.FindAll(s.ctx)
	s.Require().NoError(err)
	s.NotNil(all)
	s.Empty(all)

	n, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *storeSuite) TestSaveAssignsIncreasingIDs() {
	first, err := s.store.Save(s.ctx, sample("Ana", 35, "1990-05-15"))
	s.Require().NoError(err)
	second, err := s.store.Save(s.ctx, sample("Bruno", 28, "1997-01-02"))
	s.Require().NoError(err)

	s.Positive(first.ID)
	s.Greater(second.ID, first.ID)
	s.Equal("Ana", first.FirstName)
	s.Equal(35, first.Age)
}

func (s *storeSuite) TestFindAllRoundTrips() {
	saved, err := s.store.Save(s.ctx, sample("Ana", 35, "1990-05-15"))
	s.Require().NoError(err)

	all, err := s.store.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal(saved.ID, all[0].ID)
	s.Equal("Ana", all[0].FirstName)
	s.Equal("Silva", all[0].LastName)
	s.Equal(35, all[0].Age)
	s.Equal("1990-05-15", candidate.FormatDate(all[0].BirthDate))
	s.True(all[0].BirthDate.Equal(candidate.Date(1990, 5, 15)))
}

func (s *storeSuite) TestFindAllOrdersByID() {
	for _, name := range []string{"A", "B", "C", "D"} {
		_, err := s.store.Save(s.ctx, sample(name, 30, "1995-03-03"))
		s.Require().NoError(err)
	}
	all, err := s.store.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 4)
	for i := 1; i < len(all); i++ {
		s.Less(all[i-1].ID, all[i].ID)
	}

	n, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(4, n)
}

func (s *storeSuite) TestIntegrityViolations() {
	cases := map[string]candidate.Candidate{
		"preassigned id": func() candidate.Candidate { c := sample("Ana", 35, "1990-05-15"); c.ID = 9; return c }(),
		"blank name":     sample("   ", 35, "1990-05-15"),
		"age too high":   sample("Ana", 151, "1990-05-15"),
		"negative age":   sample("Ana", -1, "1990-05-15"),
	}
	for name, c := range cases {
		_, err := s.store.Save(s.ctx, c)
		s.Require().Error(err, name)
		s.True(errors.Is(err, ErrIntegrity), "%s: %v", name, err)
	}

	n, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *storeSuite) TestConcurrentSavesGetDistinctIDs() {
	const workers = 8
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[int64]struct{})
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := s.store.Save(s.ctx, sample("Ana", 35, "1990-05-15"))
			if err != nil {
				return
			}
			mu.Lock()
			ids[c.ID] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	s.Len(ids, workers)
}
