package gallery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brightfolio/media-service/internal/uploads"
)

// fakeRepo is an in-memory photoRepo good enough for service behavior tests.
type fakeRepo struct {
	photos  map[string]*Photo // by id
	listErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{photos: map[string]*Photo{}}
}

func (f *fakeRepo) Create(_ context.Context, id, name, key string, size int64, mimeType string) (*Photo, error) {
	if _, ok := f.photos[id]; ok {
		return nil, ErrPhotoIDUsed
	}
	for _, p := range f.photos {
		if p.Name == name {
			return nil, ErrNameTaken
		}
	}
	p := &Photo{ID: id, Name: name, Key: key, Size: size, MIMEType: mimeType}
	f.photos[id] = p
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Photo, error) {
	p, ok := f.photos[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, _ ListParams) ([]Photo, int, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var out []Photo
	for _, p := range f.photos {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (f *fakeRepo) UpdateName(_ context.Context, id, newName string) (*Photo, error) {
	p, ok := f.photos[id]
	if !ok {
		return nil, ErrNotFound
	}
	for otherID, other := range f.photos {
		if otherID != id && other.Name == newName {
			return nil, ErrNameTaken
		}
	}
	p.Name = newName
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.photos[id]; !ok {
		return ErrNotFound
	}
	delete(f.photos, id)
	return nil
}

func (f *fakeRepo) NameExists(_ context.Context, name, excludeID string) (bool, error) {
	for id, p := range f.photos {
		if p.Name == name && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// fakeObjectStore records deletes and can be told to fail specific keys.
type fakeObjectStore struct {
	deleted  []string
	failKeys map[string]bool
}

func (f *fakeObjectStore) PresignPut(context.Context, string, string, time.Duration) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	if f.failKeys[key] {
		return errors.New("object store unreachable")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeObjectStore) PublicURL(key string) string { return "https://assets.test/" + key }

func newTestService() (*Service, *fakeRepo, *fakeObjectStore) {
	repo := newFakeRepo()
	store := &fakeObjectStore{failKeys: map[string]bool{}}
	return NewService(repo, store), repo, store
}

func mustConfirm(t *testing.T, svc *Service, id, name, key string) *Photo {
	t.Helper()
	p, err := svc.ConfirmUpload(context.Background(), id, name, key, 2048, "image/png")
	require.NoError(t, err)
	return p
}

func TestConfirmUpload(t *testing.T) {
	svc, _, _ := newTestService()

	p := mustConfirm(t, svc, "id-1", "sunset-beach", "gallery/abc.png")
	require.Equal(t, "sunset-beach", p.Name)
	require.Equal(t, "https://assets.test/gallery/abc.png", p.URL)
}

func TestConfirmUploadDuplicateName(t *testing.T) {
	svc, _, _ := newTestService()

	mustConfirm(t, svc, "id-1", "sunset-beach", "gallery/abc.png")
	_, err := svc.ConfirmUpload(context.Background(), "id-2", "sunset-beach", "gallery/def.png", 2048, "image/png")
	require.ErrorIs(t, err, ErrNameTaken)
}

func TestConfirmUploadPhotoIDSingleUse(t *testing.T) {
	svc, _, _ := newTestService()

	mustConfirm(t, svc, "id-1", "sunset-beach", "gallery/abc.png")
	_, err := svc.ConfirmUpload(context.Background(), "id-1", "other-name-here", "gallery/def.png", 2048, "image/png")
	require.ErrorIs(t, err, ErrPhotoIDUsed)
}

func TestConfirmUploadRejectsPolicyViolations(t *testing.T) {
	svc, repo, _ := newTestService()

	tests := []struct {
		name      string
		photoName string
		mimeType  string
		size      int64
	}{
		{"short name", "short", "image/png", 2048},
		{"long name", string(make([]byte, 101)), "image/png", 2048},
		{"bad mime", "sunset-beach", "application/pdf", 2048},
		{"zero size", "sunset-beach", "image/png", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ConfirmUpload(context.Background(), "id-x", tt.photoName, "gallery/x.png", tt.size, tt.mimeType)
			var policyErr *uploads.PolicyError
			require.ErrorAs(t, err, &policyErr)
		})
	}

	require.Empty(t, repo.photos, "rejected confirms must not create records")
}

func TestCheckNameAvailable(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	mustConfirm(t, svc, "id-1", "sunset-beach", "gallery/abc.png")

	available, err := svc.CheckNameAvailable(ctx, "sunset-beach", "")
	require.NoError(t, err)
	require.False(t, available)

	available, err = svc.CheckNameAvailable(ctx, "sunset-beach", "id-1")
	require.NoError(t, err)
	require.True(t, available, "a record's own name is available to itself")

	available, err = svc.CheckNameAvailable(ctx, "mountain-lake", "")
	require.NoError(t, err)
	require.True(t, available)
}

func TestRename(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	mustConfirm(t, svc, "id-1", "sunset-beach", "gallery/abc.png")
	mustConfirm(t, svc, "id-2", "mountain-lake", "gallery/def.png")

	p, err := svc.Rename(ctx, "id-1", "golden-hour")
	require.NoError(t, err)
	require.Equal(t, "golden-hour", p.Name)
	require.Equal(t, "https://assets.test/gallery/abc.png", p.URL)

	// Renaming to the current name must not conflict with itself.
	_, err = svc.Rename(ctx, "id-1", "golden-hour")
	require.NoError(t, err)

	_, err = svc.Rename(ctx, "id-1", "mountain-lake")
	require.ErrorIs(t, err, ErrNameTaken)

	_, err = svc.Rename(ctx, "missing", "whatever-name")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Rename(ctx, "id-1", "tiny")
	var policyErr *uploads.PolicyError
	require.ErrorAs(t, err, &policyErr)
}

func TestDeleteRemovesObjectThenRow(t *testing.T) {
	svc, repo, store := newTestService()
	ctx := context.Background()

	mustConfirm(t, svc, "id-1", "sunset-beach", "gallery/abc.png")

	require.NoError(t, svc.Delete(ctx, "id-1"))
	require.Equal(t, []string{"gallery/abc.png"}, store.deleted)
	require.Empty(t, repo.photos)
}

func TestDeleteObjectFailureKeepsRow(t *testing.T) {
	svc, repo, store := newTestService()
	ctx := context.Background()

	mustConfirm(t, svc, "id-1", "sunset-beach", "gallery/abc.png")
	store.failKeys["gallery/abc.png"] = true

	err := svc.Delete(ctx, "id-1")
	require.Error(t, err)
	require.Len(t, repo.photos, 1, "row must survive so the delete can be retried")
}

func TestDeleteMissing(t *testing.T) {
	svc, _, _ := newTestService()
	require.ErrorIs(t, svc.Delete(context.Background(), "missing"), ErrNotFound)
}

func TestBulkDeleteAccounting(t *testing.T) {
	svc, _, store := newTestService()
	ctx := context.Background()

	mustConfirm(t, svc, "id-1", "sunset-beach", "gallery/a.png")
	mustConfirm(t, svc, "id-2", "mountain-lake", "gallery/b.png")
	mustConfirm(t, svc, "id-3", "forest-trail", "gallery/c.png")
	store.failKeys["gallery/b.png"] = true

	deleted, err := svc.BulkDelete(ctx, []string{"id-1", "id-2", "id-3", "missing"})
	require.NoError(t, err)
	require.Equal(t, 2, deleted)

	// The failed id must still be fully retrievable.
	p, err := svc.List(ctx, ListParams{})
	require.NoError(t, err)
	require.Len(t, p.Photos, 1)
	require.Equal(t, "mountain-lake", p.Photos[0].Name)
}

func TestListMaterializesURLs(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	mustConfirm(t, svc, "id-1", "sunset-beach", "gallery/abc.png")

	page, err := svc.List(ctx, ListParams{})
	require.NoError(t, err)
	require.Len(t, page.Photos, 1)
	require.Equal(t, "https://assets.test/gallery/abc.png", page.Photos[0].URL)
	require.Equal(t, 1, page.Total)
	require.Equal(t, 1, page.Page)
	require.Equal(t, DefaultPageSize, page.PageSize)
}

func TestListEmptyIsNotNil(t *testing.T) {
	svc, _, _ := newTestService()

	page, err := svc.List(context.Background(), ListParams{})
	require.NoError(t, err)
	require.NotNil(t, page.Photos)
	require.Empty(t, page.Photos)
}

func TestNormalizeListParams(t *testing.T) {
	tests := []struct {
		name string
		in   ListParams
		want ListParams
	}{
		{
			"zero values get defaults",
			ListParams{},
			ListParams{Page: 1, Limit: DefaultPageSize, SortBy: "updated_at", SortOrder: "desc"},
		},
		{
			"negative page floors at 1",
			ListParams{Page: -3, Limit: 10},
			ListParams{Page: 1, Limit: 10, SortBy: "updated_at", SortOrder: "desc"},
		},
		{
			"oversized limit clamps",
			ListParams{Page: 2, Limit: 500},
			ListParams{Page: 2, Limit: MaxPageSize, SortBy: "updated_at", SortOrder: "desc"},
		},
		{
			"name sort defaults ascending",
			ListParams{Page: 1, Limit: 10, SortBy: "name"},
			ListParams{Page: 1, Limit: 10, SortBy: "name", SortOrder: "asc"},
		},
		{
			"unknown sort falls back",
			ListParams{Page: 1, Limit: 10, SortBy: "size; DROP TABLE photos"},
			ListParams{Page: 1, Limit: 10, SortBy: "updated_at", SortOrder: "desc"},
		},
		{
			"explicit values pass through",
			ListParams{Search: "sun", Page: 3, Limit: 25, SortBy: "name", SortOrder: "desc"},
			ListParams{Search: "sun", Page: 3, Limit: 25, SortBy: "name", SortOrder: "desc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, normalizeListParams(tt.in))
		})
	}
}
