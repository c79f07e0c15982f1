package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mhasan/chatwave/internal/domain"
	"github.com/mhasan/chatwave/internal/repository/postgres"
	"github.com/mhasan/chatwave/internal/service"
	"github.com/mhasan/chatwave/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, cfg)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   service.RegisterInput
		setup   func()
		wantErr error
	}{
		{
			name: "successful registration",
			input: service.RegisterInput{
				FirstName: "New User",
				Email:     "newuser@example.test",
				Password:  "password123",
			},
		},
		{
			name: "duplicate email",
			input: service.RegisterInput{
				FirstName: "Other",
				Email:     "existing@example.test",
				Password:  "password123",
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithEmail("existing@example.test").
					Build(t, testDB.DB)
			},
			wantErr: domain.ErrEmailExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clean up between tests
			testDB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			user, err := authService.Register(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.input.Email, user.Email)
			assert.NotEqual(t, tt.input.Password, user.PasswordHash, "password must never be stored in plaintext")
			assert.Contains(t, user.ProfilePic, "New+User", "default avatar derives from the first name")
		})
	}
}

func TestAuthService_Register_ConcurrentDuplicateEmail(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, cfg)
	ctx := context.Background()

	// Both goroutines can pass the email lookup before either row
	// commits; the unique index decides the winner and the loser must
	// still see the email-exists failure, never a raw driver error.
	const attempts = 2
	start := make(chan struct{})
	errs := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			<-start
			_, err := authService.Register(ctx, service.RegisterInput{
				FirstName: "Racer",
				Email:     "racer@example.test",
				Password:  "password123",
			})
			errs <- err
		}(i)
	}

	close(start)
	wg.Wait()
	close(errs)

	var succeeded, conflicted int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrEmailExists):
			conflicted++
		default:
			t.Fatalf("unexpected error from concurrent registration: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one registration commits")
	assert.Equal(t, attempts-1, conflicted, "every loser gets the email-exists failure")

	var count int64
	require.NoError(t, testDB.DB.Model(&domain.User{}).Where("email = ?", "racer@example.test").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAuthService_Login(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, cfg)
	ctx := context.Background()

	user, password := testutil.NewUserBuilder().
		WithEmail("login@example.test").
		Build(t, testDB.DB)

	tests := []struct {
		name    string
		input   service.LoginInput
		wantErr error
	}{
		{
			name:  "correct credentials",
			input: service.LoginInput{Email: user.Email, Password: password},
		},
		{
			name:    "unknown email",
			input:   service.LoginInput{Email: "nobody@example.test", Password: password},
			wantErr: domain.ErrUserNotFound,
		},
		{
			name:    "wrong password",
			input:   service.LoginInput{Email: user.Email, Password: "not-the-password"},
			wantErr: domain.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := authService.Login(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotEmpty(t, result.Token)

			// The issued token must round-trip to the same user id.
			gotID, err := authService.ValidateToken(result.Token)
			require.NoError(t, err)
			assert.Equal(t, user.ID, gotID)
		})
	}
}

func TestAuthService_ValidateToken_Mutation(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, cfg)
	ctx := context.Background()

	user, password := testutil.NewUserBuilder().Build(t, testDB.DB)
	result, err := authService.Login(ctx, service.LoginInput{Email: user.Email, Password: password})
	require.NoError(t, err)

	token := result.Token

	// Flipping any single character must break verification.
	for _, i := range []int{0, len(token) / 2, len(token) - 1} {
		mutated := []byte(token)
		if mutated[i] == 'a' {
			mutated[i] = 'b'
		} else {
			mutated[i] = 'a'
		}

		_, err := authService.ValidateToken(string(mutated))
		assert.ErrorIs(t, err, domain.ErrUnauthenticated, "mutation at index %d must fail verification", i)
	}

	// Garbage input fails cleanly rather than panicking.
	for _, garbage := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := authService.ValidateToken(garbage)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	}
}

func TestAuthService_ValidateToken_Expiry(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	user, password := testutil.NewUserBuilder().Build(t, testDB.DB)

	// A service configured with a negative lifetime issues already
	// expired tokens.
	expiredCfg := testutil.TestConfig()
	expiredCfg.JWTExpirationHours = -1
	expiredService := service.NewAuthService(repos.User, expiredCfg)

	result, err := expiredService.Login(ctx, service.LoginInput{Email: user.Email, Password: password})
	require.NoError(t, err)

	_, err = expiredService.ValidateToken(result.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated, "expired token must fail verification")

	// The same token against a normally configured verifier also fails:
	// expiry is embedded in the token, not the verifier.
	freshService := service.NewAuthService(repos.User, testutil.TestConfig())
	_, err = freshService.ValidateToken(result.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthService_GetUserByID_Deleted(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, cfg)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	got, err := authService.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	// A verified token whose subject no longer resolves is UserNotFound.
	require.NoError(t, testDB.DB.Exec("DELETE FROM users WHERE id = ?", user.ID).Error)

	_, err = authService.GetUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
