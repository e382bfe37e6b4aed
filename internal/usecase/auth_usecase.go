package usecase

import (
	"context"
	"net/http"
	"time"

	"turismo/internal/config"
	"turismo/internal/domain/model"
	repo "turismo/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// トークンの有効期限
const accessTokenTTL = 2 * time.Hour

// usecaseがValidatorに依存する約束
type AuthValidator interface {
	ValidateRegister(name string, email string, password string) error
	ValidateLogin(email string, password string) error
	ValidateGoogle(email string, name string, googleID string) error
}

type UserDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AuthResponse struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type GoogleAuthInput struct {
	Email    string
	Name     string
	GoogleID string
}

type AuthUsecase struct {
	cfg       config.Config
	tx        repo.TransactionManager
	userRepo  repo.UserRepository
	validator AuthValidator
}

func NewAuthUsecase(
	cfg config.Config,
	tx repo.TransactionManager,
	userRepo repo.UserRepository,
	validator AuthValidator,
) *AuthUsecase {
	return &AuthUsecase{
		cfg:       cfg,
		tx:        tx,
		userRepo:  userRepo,
		validator: validator,
	}
}

// Registerは会員登録。ユーザーと空カートを同一トランザクションで作る
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (AuthResponse, error) {
	if err := u.validator.ValidateRegister(in.Name, in.Email, in.Password); err != nil {
		return AuthResponse{}, err
	}

	//email重複チェック
	_, err := u.userRepo.FindByEmail(ctx, in.Email)
	if err == nil {
		return AuthResponse{}, NewHTTPError(http.StatusBadRequest, "email already registered")
	}
	if err != repo.ErrNotFound {
		return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	hash := string(pwHash)
	user := model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: &hash,
		Role:         model.RoleClient,
	}

	//ユーザー＋カート作成は唯一の明示的トランザクション境界
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Users().Create(ctx, &user); err != nil {
			return err
		}
		if _, err := r.Carts().GetOrCreateByUserID(ctx, user.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	token, err := u.issueToken(user.ID)
	if err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return AuthResponse{User: toUserDTO(user), Token: token}, nil
}

// Loginはメール＋パスワード認証
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (AuthResponse, error) {
	if err := u.validator.ValidateLogin(in.Email, in.Password); err != nil {
		return AuthResponse{}, err
	}

	user, err := u.userRepo.FindByEmail(ctx, in.Email)
	if err == repo.ErrNotFound {
		return AuthResponse{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//Google連携アカウントはパスワードを持たない
	if user.PasswordHash == nil {
		return AuthResponse{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(in.Password)); err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := u.issueToken(user.ID)
	if err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return AuthResponse{User: toUserDTO(user), Token: token}, nil
}

// GoogleAuthはGoogle連携ログイン。未登録ならCLIENTユーザーを作り、
// 既存のemail一致アカウントにはgoogle_idを後付けする
func (u *AuthUsecase) GoogleAuth(ctx context.Context, in GoogleAuthInput) (AuthResponse, error) {
	if err := u.validator.ValidateGoogle(in.Email, in.Name, in.GoogleID); err != nil {
		return AuthResponse{}, err
	}

	user, err := u.userRepo.FindByEmailOrGoogleID(ctx, in.Email, in.GoogleID)
	if err == repo.ErrNotFound {
		//新規作成（パスワードなし）
		gid := in.GoogleID
		user = model.User{
			Name:     in.Name,
			Email:    in.Email,
			GoogleID: &gid,
			Role:     model.RoleClient,
		}
		if err := u.userRepo.Create(ctx, &user); err != nil {
			return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	} else if err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	} else if user.GoogleID == nil {
		if err := u.userRepo.SetGoogleID(ctx, user.ID, in.GoogleID); err != nil {
			return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		gid := in.GoogleID
		user.GoogleID = &gid
	}

	token, err := u.issueToken(user.ID)
	if err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return AuthResponse{User: toUserDTO(user), Token: token}, nil
}

// Meはトークンに紐付くユーザー情報を返す
func (u *AuthUsecase) Me(ctx context.Context, userID int64) (UserDTO, error) {
	if userID <= 0 {
		return UserDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return UserDTO{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserDTO(user), nil
}

// HS256で署名したアクセストークンを発行
func (u *AuthUsecase) issueToken(userID int64) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(accessTokenTTL).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(u.cfg.JWTSecret))
}

func toUserDTO(u model.User) UserDTO {
	return UserDTO{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
}
