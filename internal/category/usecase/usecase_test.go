package usecase

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/postgres/txtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu   sync.Mutex
	rows map[string]model.Category

	tree     *txtest.Concurrent
	onUpdate func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string]model.Category)}
}

func (f *fakeRepo) Create(_ context.Context, c *model.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if existing.Slug == c.Slug || existing.Name == c.Name {
			return apperr.ErrUniqueness
		}
	}
	f.rows[c.ID] = *c
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeRepo) FindAll(_ context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Category
	for _, c := range f.rows {
		if filters.IsActive != nil && c.IsActive != *filters.IsActive {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (f *fakeRepo) LockTree(ctx context.Context) error {
	if f.tree != nil {
		f.tree.Lock(ctx, "categories:tree")
	}
	return nil
}

func (f *fakeRepo) Update(_ context.Context, c *model.Category) error {
	if f.onUpdate != nil {
		f.onUpdate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[c.ID] = *c
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

func (f *fakeRepo) SlugExists(_ context.Context, slug, excludeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, c := range f.rows {
		if c.Slug == slug && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) put(id, name string, parent *string) {
	f.rows[id] = model.Category{BaseModel: model.BaseModel{ID: id}, Name: name, ParentID: parent, IsActive: true}
}

func ptr(s string) *string { return &s }

func newUseCase(repo *fakeRepo) *categoryUseCase {
	return NewCategoryUseCase(repo, &txtest.Serial{}, logger.NewNop()).(*categoryUseCase)
}

func TestCreateCategory_DerivesSlug(t *testing.T) {
	uc := newUseCase(newFakeRepo())

	cat, err := uc.CreateCategory(context.Background(), &dto.CreateCategoryInput{Name: "Men's Running Shoes"})
	require.NoError(t, err)
	assert.Equal(t, "mens-running-shoes", cat.Slug)
	assert.Nil(t, cat.ParentID)
	assert.True(t, cat.IsActive)
}

func TestCreateCategory_KeepsExplicitSlug(t *testing.T) {
	uc := newUseCase(newFakeRepo())

	cat, err := uc.CreateCategory(context.Background(), &dto.CreateCategoryInput{Name: "Shoes", Slug: "footwear"})
	require.NoError(t, err)
	assert.Equal(t, "footwear", cat.Slug)
}

func TestCreateCategory_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate slug", func(t *testing.T) {
		uc := newUseCase(newFakeRepo())
		_, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Shoes"})
		require.NoError(t, err)

		_, err = uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Other", Slug: "shoes"})
		assert.ErrorIs(t, err, apperr.ErrUniqueness)
	})

	t.Run("missing parent", func(t *testing.T) {
		uc := newUseCase(newFakeRepo())
		_, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Shoes", ParentID: ptr("nope")})
		assert.ErrorIs(t, err, apperr.ErrReferential)
	})

	t.Run("name without slug characters", func(t *testing.T) {
		uc := newUseCase(newFakeRepo())
		_, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "???"})
		assert.ErrorIs(t, err, apperr.ErrConstraint)
	})

	t.Run("empty name", func(t *testing.T) {
		uc := newUseCase(newFakeRepo())
		_, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{})
		assert.ErrorIs(t, err, apperr.ErrConstraint)
	})
}

func TestGetCategoryPath(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.put("a", "A", nil)
	repo.put("b", "B", ptr("a"))
	repo.put("c", "C", ptr("b"))
	uc := newUseCase(repo)

	t.Run("three levels", func(t *testing.T) {
		path, err := uc.GetCategoryPath(ctx, "c")
		require.NoError(t, err)
		assert.Equal(t, "A > B > C", path)
	})

	t.Run("root only", func(t *testing.T) {
		path, err := uc.GetCategoryPath(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "A", path)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := uc.GetCategoryPath(ctx, "zzz")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestGetCategoryPath_Cycle(t *testing.T) {
	repo := newFakeRepo()
	repo.put("a", "A", ptr("c"))
	repo.put("b", "B", ptr("a"))
	repo.put("c", "C", ptr("b"))
	uc := newUseCase(repo)

	_, err := uc.GetCategoryPath(context.Background(), "c")
	assert.ErrorIs(t, err, apperr.ErrCycleDetected)
}

func TestUpdateCategory_RejectsCycles(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.put("a", "A", nil)
	repo.put("b", "B", ptr("a"))
	repo.put("c", "C", ptr("b"))
	uc := newUseCase(repo)

	t.Run("descendant as parent", func(t *testing.T) {
		_, err := uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: "a", Name: "A", ParentID: ptr("c"), IsActive: true})
		assert.ErrorIs(t, err, apperr.ErrCycleDetected)

		a, _ := repo.FindByID(ctx, "a")
		assert.Nil(t, a.ParentID)
	})

	t.Run("self as parent", func(t *testing.T) {
		_, err := uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: "b", Name: "B", ParentID: ptr("b"), IsActive: true})
		assert.ErrorIs(t, err, apperr.ErrCycleDetected)
	})

	t.Run("valid move keeps slug", func(t *testing.T) {
		repo.rows["c"] = model.Category{BaseModel: model.BaseModel{ID: "c"}, Name: "C", Slug: "c-slug", ParentID: ptr("b")}

		cat, err := uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: "c", Name: "C renamed", ParentID: ptr("a"), IsActive: true})
		require.NoError(t, err)
		assert.Equal(t, "c-slug", cat.Slug)
		assert.Equal(t, "a", *cat.ParentID)

		path, err := uc.GetCategoryPath(ctx, "c")
		require.NoError(t, err)
		assert.Equal(t, "A > C renamed", path)
	})

	t.Run("missing parent", func(t *testing.T) {
		_, err := uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: "b", Name: "B", ParentID: ptr("nope"), IsActive: true})
		assert.ErrorIs(t, err, apperr.ErrReferential)
	})
}

func TestUpdateCategory_ConcurrentSwapRejected(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.put("a", "A", nil)
	repo.put("b", "B", nil)
	uc := newUseCase(repo)

	tree := &txtest.Concurrent{}
	repo.tree = tree
	uc.tx = tree

	secondBlocked := make(chan struct{}, 1)
	tree.OnWait = func(string) { secondBlocked <- struct{}{} }

	// The first move parks just before writing, after its cycle check.
	var parked int32
	checked := make(chan struct{})
	resume := make(chan struct{})
	repo.onUpdate = func() {
		if atomic.CompareAndSwapInt32(&parked, 0, 1) {
			close(checked)
			<-resume
		}
	}

	firstDone := make(chan error, 1)
	go func() {
		_, err := uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: "a", Name: "A", ParentID: ptr("b"), IsActive: true})
		firstDone <- err
	}()
	<-checked

	secondDone := make(chan error, 1)
	go func() {
		_, err := uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: "b", Name: "B", ParentID: ptr("a"), IsActive: true})
		secondDone <- err
	}()

	select {
	case <-secondBlocked:
	case err := <-secondDone:
		t.Fatalf("second move finished while the first held the tree: %v", err)
	}
	close(resume)

	require.NoError(t, <-firstDone)
	assert.ErrorIs(t, <-secondDone, apperr.ErrCycleDetected)

	path, err := uc.GetCategoryPath(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "B > A", path)
}

func TestListCategories_Tree(t *testing.T) {
	repo := newFakeRepo()
	repo.put("a", "A", nil)
	repo.put("b", "B", ptr("a"))
	repo.put("c", "C", ptr("b"))
	repo.put("d", "D", nil)
	uc := newUseCase(repo)

	tree, count, err := uc.ListCategories(context.Background(), &dto.CategoryFilters{IncludeChildren: true})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, tree, 2)
	assert.Equal(t, "A", tree[0].Name)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "B", tree[0].Children[0].Name)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "C", tree[0].Children[0].Children[0].Name)
}
