// Package service contains business logic shared by multiple handlers.
package service

import (
	"context"
	"sort"
	"strings"

	"okai/internal/models"
	"okai/internal/repository"
)

// searchLimit caps each result category.
const searchLimit = 10

// SearchResults groups matches by resource kind.
type SearchResults struct {
	Posts []*models.Post         `json:"posts"`
	News  []*models.SelectedNews `json:"news"`
	Cases []*models.AICase       `json:"cases"`
}

// SearchService fans a free-text query out across posts, selected news and
// AI cases.
type SearchService struct {
	postRepo repository.PostRepository
	newsRepo repository.NewsRepository
	caseRepo repository.AICaseRepository
}

// NewSearchService creates a SearchService.
func NewSearchService(postRepo repository.PostRepository, newsRepo repository.NewsRepository, caseRepo repository.AICaseRepository) *SearchService {
	return &SearchService{
		postRepo: postRepo,
		newsRepo: newsRepo,
		caseRepo: caseRepo,
	}
}

// Search runs the query against all three resource kinds. Results are
// id-deduped, sorted by creation time descending and capped per kind.
// A blank query returns empty sets without touching the store.
func (s *SearchService) Search(ctx context.Context, query string) (*SearchResults, error) {
	results := &SearchResults{
		Posts: []*models.Post{},
		News:  []*models.SelectedNews{},
		Cases: []*models.AICase{},
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return results, nil
	}

	posts, err := s.postRepo.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}
	results.Posts = dedupePosts(posts)

	news, err := s.newsRepo.SearchSelected(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}
	results.News = dedupeNews(news)

	cases, err := s.caseRepo.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}
	results.Cases = dedupeCases(cases)

	return results, nil
}

// The dedupe helpers merge by id with a keyed map so a row matched through
// more than one column appears once, then restore recency order.

func dedupePosts(in []*models.Post) []*models.Post {
	byID := make(map[uint]*models.Post, len(in))
	for _, p := range in {
		if _, ok := byID[p.ID]; !ok {
			byID[p.ID] = p
		}
	}
	out := make([]*models.Post, 0, len(byID))
	for _, p := range byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > searchLimit {
		out = out[:searchLimit]
	}
	return out
}

func dedupeNews(in []*models.SelectedNews) []*models.SelectedNews {
	byID := make(map[uint]*models.SelectedNews, len(in))
	for _, n := range in {
		if _, ok := byID[n.ID]; !ok {
			byID[n.ID] = n
		}
	}
	out := make([]*models.SelectedNews, 0, len(byID))
	for _, n := range byID {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > searchLimit {
		out = out[:searchLimit]
	}
	return out
}

func dedupeCases(in []*models.AICase) []*models.AICase {
	byID := make(map[uint]*models.AICase, len(in))
	for _, c := range in {
		if _, ok := byID[c.ID]; !ok {
			byID[c.ID] = c
		}
	}
	out := make([]*models.AICase, 0, len(byID))
	for _, c := range byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > searchLimit {
		out = out[:searchLimit]
	}
	return out
}
