package blogs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/blogs"
	"github.com/drijfveer/linkmanager/internal/linker"
	"github.com/drijfveer/linkmanager/internal/models"
	"github.com/drijfveer/linkmanager/internal/repository"
	"github.com/drijfveer/linkmanager/internal/testhelpers"
	"github.com/drijfveer/linkmanager/internal/wordpress"
)

type mockPosts struct {
	mock.Mock
}

func (m *mockPosts) ListPosts(ctx context.Context, site *models.Website, opts wordpress.ListPostsOptions) ([]wordpress.Post, error) {
	args := m.Called(ctx, site.WebsiteURL, opts)
	posts, _ := args.Get(0).([]wordpress.Post)
	return posts, args.Error(1)
}

func (m *mockPosts) CreatePost(ctx context.Context, site *models.Website, in wordpress.PostInput) (*wordpress.Post, error) {
	args := m.Called(ctx, site.WebsiteURL, in)
	post, _ := args.Get(0).(*wordpress.Post)
	return post, args.Error(1)
}

func (m *mockPosts) UpdatePost(ctx context.Context, site *models.Website, id int, in wordpress.PostInput) (*wordpress.Post, error) {
	args := m.Called(ctx, site.WebsiteURL, id, in)
	post, _ := args.Get(0).(*wordpress.Post)
	return post, args.Error(1)
}

func (m *mockPosts) DeletePost(ctx context.Context, site *models.Website, id int, force bool) error {
	return m.Called(ctx, site.WebsiteURL, id, force).Error(0)
}

func newService(t *testing.T, wp *mockPosts) *blogs.Service {
	t.Helper()
	repo := testhelpers.NewRegistry(t,
		testhelpers.Website("https://alpha.nl", "Alpha", 12),
		testhelpers.Website("https://beta.com", "Beta", 49),
	)
	resolver := linker.NewService(repo, nil, infralogger.NewNop())
	return blogs.NewService(resolver, repo, wp, infralogger.NewNop())
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello-big-world", blogs.Slugify("  Hello Big  World "))
	assert.Empty(t, blogs.Slugify(""))
}

func TestList_AllWebsitesSkipsFailures(t *testing.T) {
	t.Parallel()

	wp := &mockPosts{}
	wp.On("ListPosts", mock.Anything, "https://alpha.nl", mock.Anything).
		Return([]wordpress.Post{{ID: 1, Title: wordpress.Rendered{Raw: "First Post"}}}, nil)
	wp.On("ListPosts", mock.Anything, "https://beta.com", mock.Anything).
		Return(nil, errors.New("HTTP 500: boom"))

	posts, err := newService(t, wp).List(context.Background(), "", wordpress.ListPostsOptions{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "first-post", posts[0].Slug)
	assert.Equal(t, "https://alpha.nl", posts[0].WebsiteURL)
}

func TestList_OneWebsite(t *testing.T) {
	t.Parallel()

	wp := &mockPosts{}
	wp.On("ListPosts", mock.Anything, "https://beta.com", mock.Anything).
		Return(nil, errors.New("HTTP 401: nope"))

	_, err := newService(t, wp).List(context.Background(), "https://beta.com", wordpress.ListPostsOptions{})
	require.Error(t, err)

	_, err = newService(t, wp).List(context.Background(), "https://gamma.org", wordpress.ListPostsOptions{})
	require.ErrorIs(t, err, repository.ErrWebsiteNotFound)
}

func TestCreate_DefaultsStatusAndSlug(t *testing.T) {
	t.Parallel()

	wp := &mockPosts{}
	wp.On("CreatePost", mock.Anything, "https://alpha.nl", mock.MatchedBy(func(in wordpress.PostInput) bool {
		return *in.Status == blogs.DefaultStatus && *in.Slug == "new-shoes" && in.Excerpt == nil
	})).Return(&wordpress.Post{ID: 9, Status: "draft", Title: wordpress.Rendered{Raw: "New Shoes"}}, nil)

	post, err := newService(t, wp).Create(context.Background(), models.BlogCreateRequest{
		WebsiteURL: "https://alpha.nl",
		Title:      "New Shoes",
		Content:    "Body",
	})
	require.NoError(t, err)
	assert.Equal(t, 9, post.ID)
	assert.Equal(t, "new-shoes", post.Slug)
	wp.AssertExpectations(t)
}

func TestUpdate_OnlySetFields(t *testing.T) {
	t.Parallel()

	status := "publish"
	wp := &mockPosts{}
	wp.On("UpdatePost", mock.Anything, "https://beta.com", 4, mock.MatchedBy(func(in wordpress.PostInput) bool {
		return in.Title == nil && in.Slug == nil && *in.Status == "publish"
	})).Return(&wordpress.Post{ID: 4, Slug: "kept", Status: "publish"}, nil)

	post, err := newService(t, wp).Update(context.Background(), 4, models.BlogUpdateRequest{WebsiteURL: "https://beta.com", Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "kept", post.Slug)
	wp.AssertExpectations(t)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	wp := &mockPosts{}
	wp.On("DeletePost", mock.Anything, "https://alpha.nl", 3, false).Return(nil)

	svc := newService(t, wp)
	require.NoError(t, svc.Delete(context.Background(), 3, "https://alpha.nl", false))
	require.ErrorIs(t, svc.Delete(context.Background(), 3, "", false), blogs.ErrWebsiteRequired)
	wp.AssertExpectations(t)
}
