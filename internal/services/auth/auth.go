package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
)

type UserStorage interface {
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type TaskExecutor interface {
	Add(task func())
}

type AuthService struct {
	log          *slog.Logger
	storage      UserStorage
	Mailer       MailProvider
	taskExecutor TaskExecutor
	secret       string
	tokenTTL     time.Duration
}

func New(
	log *slog.Logger,
	storage UserStorage,
	mailer MailProvider,
	taskExecutor TaskExecutor,
	secret string,
	tokenTTL time.Duration,
) *AuthService {
	return &AuthService{
		log:          log,
		storage:      storage,
		Mailer:       mailer,
		taskExecutor: taskExecutor,
		secret:       secret,
		tokenTTL:     tokenTTL,
	}
}

// DeriveUsername and DeriveConfirmationCode hash the email into stable
// UUIDv3 values, so repeated confirmation requests for one address always
// produce the same pair.
func DeriveUsername(email string) string {
	return uuid.NewMD5(uuid.NameSpaceDNS, []byte(email)).String()
}

func DeriveConfirmationCode(email string) string {
	return uuid.NewMD5(uuid.NameSpaceOID, []byte(email)).String()
}

// RequestConfirmation registers the email and queues delivery of its
// confirmation code. The code leaves the system only via email.
func (a *AuthService) RequestConfirmation(ctx context.Context, email string) (*models.User, error) {
	const op = "auth.AuthService.RequestConfirmation"
	log := a.log.With("op", op, "email", email)
	user := &models.User{
		Username:         DeriveUsername(email),
		Email:            email,
		Role:             models.RoleUser,
		ConfirmationCode: DeriveConfirmationCode(email),
	}
	created, err := a.storage.Insert(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("email already registered")
			return nil, ErrEmailAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	a.taskExecutor.Add(func() {
		a.sendConfirmationEmail(created.Email, created.Username, created.ConfirmationCode)
	})
	return created, nil
}

func (a *AuthService) sendConfirmationEmail(email, username, code string) {
	a.log.Info("sending confirmation code email")
	err := a.Mailer.Send(
		email,
		"confirmation_code.html",
		map[string]any{
			"username":         username,
			"confirmationCode": code,
		})
	if err != nil {
		a.log.Error("Error sending confirmation email", "errMsg", err.Error())
	}
}

// ExchangeCodeForToken swaps a matching (email, code) pair for a signed
// bearer token. Token issuance is stateless beyond the match check.
func (a *AuthService) ExchangeCodeForToken(ctx context.Context, email, code string) (string, error) {
	const op = "auth.AuthService.ExchangeCodeForToken"
	log := a.log.With("op", op, "email", email)
	user, err := a.storage.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return "", ErrUserNotFound
		}
		log.Error(err.Error())
		return "", err
	}
	if user.ConfirmationCode != code {
		log.Info("confirmation code mismatch")
		return "", ErrInvalidConfirmationCode
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": user.ID,
		"exp": time.Now().Add(a.tokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(a.secret))
	if err != nil {
		log.Error(err.Error())
		return "", err
	}
	return signed, nil
}

// Authenticate resolves a bearer token into its user identity.
func (a *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	const op = "auth.AuthService.Authenticate"
	log := a.log.With("op", op)
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(a.secret), nil
	})
	if err != nil || !token.Valid {
		log.Info("invalid or expired token")
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	uid, ok := claims["uid"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}
	user, err := a.storage.GetByID(ctx, int64(uid))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("token user not found", "uid", int64(uid))
			return nil, ErrInvalidToken
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}
