package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"festreg/entity"
	"festreg/internal/oauth"
)

type fakeOAuthService struct {
	info *oauth.Userinfo
	err  error
}

func (f *fakeOAuthService) AuthURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (f *fakeOAuthService) Exchange(_ context.Context, _ string) (*oauth.Userinfo, error) {
	return f.info, f.err
}

type fakeAuthService struct {
	sessionUser *entity.User
	deleted     []string
}

func (f *fakeAuthService) UserByToken(_ string) (*entity.User, error) {
	return f.sessionUser, nil
}

func (f *fakeAuthService) CreateSession(user *entity.User) (string, error) {
	f.sessionUser = user
	return "tok-" + user.Id, nil
}

func (f *fakeAuthService) DeleteSession(token string) error {
	f.deleted = append(f.deleted, token)
	return nil
}

func TestCompleteOAuth_KeysUserOnProviderId(t *testing.T) {
	c, store, _, _ := setupJoin(t)
	c.SetOAuthService(&fakeOAuthService{
		info: &oauth.Userinfo{Id: "provider-123", Email: "ada@example.com", Name: "Ada"},
	})
	c.SetAuthService(&fakeAuthService{})

	token, user, err := c.CompleteOAuth(context.Background(), "code")
	require.NoError(t, err)
	assert.Equal(t, "provider-123", store.gotUserId)
	assert.Equal(t, "provider-123", user.Id)
	assert.Equal(t, "tok-provider-123", token)
}

func TestCompleteOAuth_NoProviderId(t *testing.T) {
	c, store, _, _ := setupJoin(t)
	c.SetOAuthService(&fakeOAuthService{
		info: &oauth.Userinfo{Email: "ada@example.com", Name: "Ada"},
	})
	c.SetAuthService(&fakeAuthService{})

	_, user, err := c.CompleteOAuth(context.Background(), "code")
	require.NoError(t, err)
	assert.NotEmpty(t, store.gotUserId)
	assert.Equal(t, store.gotUserId, user.Id)
}

func TestCompleteOAuth_ExchangeFailed(t *testing.T) {
	c, _, _, _ := setupJoin(t)
	c.SetOAuthService(&fakeOAuthService{err: assert.AnError})
	c.SetAuthService(&fakeAuthService{})

	_, _, err := c.CompleteOAuth(context.Background(), "code")
	require.Error(t, err)
	assert.Equal(t, 500, entity.HTTPStatus(err))
}

func TestLogout(t *testing.T) {
	c, _, _, _ := setupJoin(t)
	auth := &fakeAuthService{}
	c.SetAuthService(auth)

	require.NoError(t, c.Logout("tok-1"))
	assert.Equal(t, []string{"tok-1"}, auth.deleted)
}
