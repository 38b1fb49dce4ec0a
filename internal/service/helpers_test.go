package service

import (
	"sync"
	"time"

	"github.com/dtroode/boogle-server/internal/password"
	"github.com/dtroode/boogle-server/internal/testutil"
	"github.com/dtroode/boogle-server/internal/token"
	"golang.org/x/crypto/bcrypt"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type authEnv struct {
	clock  *fakeClock
	users  *testutil.UserStore
	tokens *token.JWT
	auth   *Auth
	authn  *Authenticator
}

func newAuthEnv() *authEnv {
	clock := newFakeClock()
	users := testutil.NewUserStore()
	tokens := token.NewJWT([]byte("test-secret"), time.Hour, token.WithClock(clock.Now))
	log := testutil.MakeNoopLogger()

	a := NewAuth(users, password.NewBcrypt(bcrypt.MinCost), tokens, nil, log)
	a.SetClock(clock.Now)

	return &authEnv{
		clock:  clock,
		users:  users,
		tokens: tokens,
		auth:   a,
		authn:  NewAuthenticator(users, tokens, log),
	}
}
