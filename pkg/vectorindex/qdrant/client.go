package qdrant

import (
	"context"
	"fmt"

	"ai-coursechat-be/internal/entity"
	"ai-coursechat-be/internal/repository/contract"

	"github.com/qdrant/go-client/qdrant"
)

// Config holds Qdrant connection configuration.
type Config struct {
	Host           string
	Port           int
	APIKey         string
	UseTLS         bool
	CollectionName string
}

// Client implements the passage repository port against a Qdrant collection.
// Chunk payloads carry "content", "doc_path" and "page" fields written by the
// upstream ingestion job.
type Client struct {
	client         *qdrant.Client
	collectionName string
}

var _ contract.PassageRepository = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("qdrant host is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 6334
	}

	qdrantClient, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &Client{
		client:         qdrantClient,
		collectionName: cfg.CollectionName,
	}, nil
}

func (c *Client) SimilaritySearch(ctx context.Context, queryVector []float32, filter entity.RetrievalFilter, limit int) ([]entity.RetrievedPassage, error) {
	if limit <= 0 {
		limit = 5
	}

	limitUint64 := uint64(limit)
	points, err := c.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: c.collectionName,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          &limitUint64,
		Filter:         BuildFilter(filter),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant search failed: %w", err)
	}

	passages := make([]entity.RetrievedPassage, 0, len(points))
	for i, point := range points {
		passage := entity.RetrievedPassage{
			Rank:  i,
			Score: point.Score,
		}

		if point.Payload != nil {
			if v, ok := point.Payload["content"]; ok {
				passage.Content = v.GetStringValue()
			}
			if v, ok := point.Payload["doc_path"]; ok {
				passage.DocPath = v.GetStringValue()
			}
			if v, ok := point.Payload["page"]; ok {
				passage.Page = int(v.GetIntegerValue())
			}
		}

		passages = append(passages, passage)
	}

	return passages, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// BuildFilter converts a RetrievalFilter to a Qdrant Filter. Doc path matches
// by keyword equality; pages match by integer-set membership. A zero filter
// returns nil (unrestricted search).
func BuildFilter(filter entity.RetrievalFilter) *qdrant.Filter {
	var conditions []*qdrant.Condition

	if filter.DocPath != "" {
		conditions = append(conditions, &qdrant.Condition{
			ConditionOneOf: &qdrant.Condition_Field{
				Field: &qdrant.FieldCondition{
					Key:   "doc_path",
					Match: &qdrant.Match{MatchValue: &qdrant.Match_Keyword{Keyword: filter.DocPath}},
				},
			},
		})
	}

	if len(filter.Pages) > 0 {
		pages := make([]int64, len(filter.Pages))
		for i, p := range filter.Pages {
			pages[i] = int64(p)
		}
		conditions = append(conditions, &qdrant.Condition{
			ConditionOneOf: &qdrant.Condition_Field{
				Field: &qdrant.FieldCondition{
					Key: "page",
					Match: &qdrant.Match{
						MatchValue: &qdrant.Match_Integers{
							Integers: &qdrant.RepeatedIntegers{Integers: pages},
						},
					},
				},
			},
		})
	}

	if len(conditions) == 0 {
		return nil
	}

	return &qdrant.Filter{Must: conditions}
}
