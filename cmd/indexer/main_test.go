package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
)

type stubIndex struct {
	failFor map[int64]bool
	indexed []int64
}

func (s *stubIndex) Index(_ context.Context, p *entities.Provider) error {
	if s.failFor[p.ID] {
		return errors.New("index unavailable")
	}
	s.indexed = append(s.indexed, p.ID)
	return nil
}

func (s *stubIndex) Delete(context.Context, int64) error { return nil }

func (s *stubIndex) Suggest(context.Context, string, int) ([]*entities.Provider, error) {
	return nil, nil
}

func TestIndexProviders_SkipsFailures(t *testing.T) {
	index := &stubIndex{failFor: map[int64]bool{2: true}}
	all := []*entities.Provider{{ID: 1}, {ID: 2}, {ID: 3}}

	n := indexProviders(context.Background(), index, all)

	assert.Equal(t, 2, n)
	assert.Equal(t, []int64{1, 3}, index.indexed)
}

func TestIndexProviders_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	index := &stubIndex{}

	n := indexProviders(ctx, index, []*entities.Provider{{ID: 1}})

	assert.Zero(t, n)
	assert.Empty(t, index.indexed)
}
