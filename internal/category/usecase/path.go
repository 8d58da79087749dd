package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

const PathSeparator = " > "

type findFunc func(ctx context.Context, id string) (*model.Category, error)

// ancestry walks parent pointers from id up to the root and returns the
// chain ordered root first. A node seen twice aborts with ErrCycleDetected.
func ancestry(ctx context.Context, id string, find findFunc) ([]model.Category, error) {
	visited := make(map[string]struct{})
	var chain []model.Category

	next := id
	for {
		if _, seen := visited[next]; seen {
			return nil, apperr.Wrap(apperr.ErrCycleDetected, "category %q repeats in the ancestry of %q", next, id)
		}
		visited[next] = struct{}{}

		cat, err := find(ctx, next)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, apperr.NotFound("category", next)
		}
		chain = append(chain, *cat)

		if cat.ParentID == nil || *cat.ParentID == "" {
			break
		}
		next = *cat.ParentID
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func formatPath(chain []model.Category) string {
	names := make([]string, len(chain))
	for i, c := range chain {
		names[i] = c.Name
	}
	return strings.Join(names, PathSeparator)
}

func isMissing(err error) bool {
	return errors.Is(err, apperr.ErrNotFound)
}

// buildTree nests flat categories under their parents and returns the
// children of rootID ("" for top-level categories).
func buildTree(flat []model.Category, rootID string) []model.Category {
	byParent := make(map[string][]model.Category)
	for _, c := range flat {
		parent := ""
		if c.ParentID != nil {
			parent = *c.ParentID
		}
		byParent[parent] = append(byParent[parent], c)
	}

	var attach func(parent string, seen map[string]bool) []model.Category
	attach = func(parent string, seen map[string]bool) []model.Category {
		nodes := byParent[parent]
		out := make([]model.Category, 0, len(nodes))
		for _, n := range nodes {
			if seen[n.ID] {
				continue
			}
			seen[n.ID] = true
			n.Children = attach(n.ID, seen)
			out = append(out, n)
		}
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].SortOrder != out[j].SortOrder {
				return out[i].SortOrder < out[j].SortOrder
			}
			return out[i].Name < out[j].Name
		})
		return out
	}
	return attach(rootID, make(map[string]bool))
}
