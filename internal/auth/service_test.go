package auth

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mkowalski/homelibrary/internal/config"
	"github.com/mkowalski/homelibrary/internal/database/users"
	"github.com/mkowalski/homelibrary/internal/entities"
)

func setupService(t *testing.T) (*Service, func()) {
	t.Helper()
	dbPath := "./test_auth_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.User{}))

	service := NewService(users.NewRepository(db), config.Auth{
		JWTSecret:   testSecret,
		TokenExpiry: time.Hour,
		BcryptCost:  bcrypt.MinCost,
	})

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return service, cleanup
}

func TestService_SignUp(t *testing.T) {
	t.Run("registers a new account", func(t *testing.T) {
		service, cleanup := setupService(t)
		defer cleanup()

		user, err := service.SignUp("marek", "marek@example.com", "long enough password", "Marek")

		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.NotEqual(t, "long enough password", user.PasswordHash)
	})

	t.Run("rejects duplicate username and email", func(t *testing.T) {
		service, cleanup := setupService(t)
		defer cleanup()

		_, err := service.SignUp("marek", "marek@example.com", "long enough password", "")
		require.NoError(t, err)

		_, err = service.SignUp("marek", "other@example.com", "long enough password", "")
		assert.ErrorIs(t, err, ErrUsernameTaken)

		_, err = service.SignUp("other", "marek@example.com", "long enough password", "")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("validates input", func(t *testing.T) {
		service, cleanup := setupService(t)
		defer cleanup()

		cases := []struct {
			name               string
			username, email    string
			password, fullName string
			want               error
		}{
			{"empty username", "", "a@example.com", "long enough password", "", ErrUsernameRequired},
			{"empty email", "marek", "", "long enough password", "", ErrEmailRequired},
			{"empty password", "marek", "a@example.com", "", "", ErrPasswordRequired},
			{"username too short", "ab", "a@example.com", "long enough password", "", ErrUsernameInvalid},
			{"username with spaces", "ma rek", "a@example.com", "long enough password", "", ErrUsernameInvalid},
			{"malformed email", "marek", "not-an-email", "long enough password", "", ErrEmailInvalid},
			{"short password", "marek", "a@example.com", "short", "", ErrPasswordTooShort},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := service.SignUp(tc.username, tc.email, tc.password, tc.fullName)
				assert.ErrorIs(t, err, tc.want)
			})
		}
	})
}

func TestService_SignIn(t *testing.T) {
	service, cleanup := setupService(t)
	defer cleanup()

	created, err := service.SignUp("marek", "marek@example.com", "long enough password", "")
	require.NoError(t, err)

	t.Run("issues a token for valid credentials", func(t *testing.T) {
		token, user, err := service.SignIn("marek", "long enough password")

		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)

		userID, err := service.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, created.ID, userID)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		_, _, err := service.SignIn("marek", "wrong password!")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("rejects an unknown user", func(t *testing.T) {
		_, _, err := service.SignIn("nobody", "long enough password")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestService_ChangePassword(t *testing.T) {
	service, cleanup := setupService(t)
	defer cleanup()

	created, err := service.SignUp("marek", "marek@example.com", "long enough password", "")
	require.NoError(t, err)

	t.Run("requires the current password", func(t *testing.T) {
		err := service.ChangePassword(created.ID, "wrong password!", "a brand new password")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("swaps the credential", func(t *testing.T) {
		require.NoError(t, service.ChangePassword(created.ID, "long enough password", "a brand new password"))

		_, _, err := service.SignIn("marek", "long enough password")
		assert.ErrorIs(t, err, ErrInvalidPassword)

		_, _, err = service.SignIn("marek", "a brand new password")
		assert.NoError(t, err)
	})
}
