package auth

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
)

var (
	// 認証失敗（存在しない・パスワード不一致・無効化済みは区別しない）
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// bcryptハッシュと平文を比較する約束。
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// アクセストークンを発行する約束。実装はmainでJWTを使って組む。
type TokenIssuer interface {
	Issue(operatorID int64, role model.Role, now time.Time) (token string, expiresAt time.Time, err error)
}

// ログインの入力
type LoginInput struct {
	Email    string
	Password string
}

type OperatorDTO struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// ログインの出力
type LoginOutput struct {
	Operator    OperatorDTO `json:"operator"`
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
}

// LoginUsecaseはオペレーターのログイン処理。
type LoginUsecase struct {
	operatorRepo repository.OperatorRepository
	verifier     PasswordVerifier
	issuer       TokenIssuer
	clock        Clock
}

// DI
func NewLoginUsecase(
	operatorRepo repository.OperatorRepository,
	verifier PasswordVerifier,
	issuer TokenIssuer,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		operatorRepo: operatorRepo,
		verifier:     verifier,
		issuer:       issuer,
		clock:        clock,
	}
}

// ログイン実行
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	if in.Email == "" || in.Password == "" {
		return out, ErrInvalidCredentials
	}

	op, err := u.operatorRepo.FindByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return out, ErrInvalidCredentials
	}
	if err != nil {
		return out, err
	}

	//無効化されたオペレーターは弾く
	if !op.IsActive {
		return out, ErrInvalidCredentials
	}

	if !u.verifier.Verify(in.Password, op.PasswordHash) {
		return out, ErrInvalidCredentials
	}

	now := u.clock.Now()

	token, expiresAt, err := u.issuer.Issue(op.ID, op.Role, now)
	if err != nil {
		return out, err
	}

	//最終ログイン時刻は失敗してもログインは成立させる
	_ = u.operatorRepo.UpdateLastLoginAt(ctx, op.ID)

	out = LoginOutput{
		Operator: OperatorDTO{
			ID:       op.ID,
			Email:    op.Email,
			Role:     string(op.Role),
			IsActive: op.IsActive,
		},
		AccessToken: token,
		ExpiresIn:   int64(expiresAt.Sub(now).Seconds()),
	}
	return out, nil
}
